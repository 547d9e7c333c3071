package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PRABHA-MURUGANANDHAM/workelate-agent/internal/agent"
	"github.com/PRABHA-MURUGANANDHAM/workelate-agent/internal/store"
)

type stubPlanner struct {
	result *agent.Result
	err    error
	task   string
}

func (p *stubPlanner) PlanTask(ctx context.Context, task string) (*agent.Result, error) {
	p.task = task
	return p.result, p.err
}

type stubBrowser struct {
	records   []store.DecisionRecord
	plans     map[string][]string
	deletedID int64
}

func (b *stubBrowser) Recent(filter string, limit int) ([]store.DecisionRecord, error) {
	if filter == "" {
		return b.records, nil
	}
	var out []store.DecisionRecord
	for _, r := range b.records {
		if strings.Contains(r.Task, filter) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (b *stubBrowser) Delete(id int64) error {
	b.deletedID = id
	return nil
}

func (b *stubBrowser) Plan(task string) ([]string, error) {
	return b.plans[task], nil
}

func postForm(t *testing.T, handler http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestWebGateway_PlanThenRender(t *testing.T) {
	planner := &stubPlanner{result: &agent.Result{
		Steps:     []string{"Set up cloud infra", "Configure CI/CD", "Build dashboard UI"},
		Reasoning: "Generated 3 actionable steps based on task requirements",
	}}
	browser := &stubBrowser{
		records: []store.DecisionRecord{
			{ID: 1, Timestamp: "2026-08-31T10:00:00Z", Task: "Launch new SaaS dashboard", Decision: "Plan Generated: 3 steps", Reasoning: "r"},
		},
		plans: map[string][]string{
			"Launch new SaaS dashboard": {"Set up cloud infra", "Configure CI/CD", "Build dashboard UI"},
		},
	}
	g := NewWebGateway(":0", planner, browser)

	rec := postForm(t, g.handlePlan, "/plan", url.Values{"task": {"Launch new SaaS dashboard"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /plan status = %d, want 303", rec.Code)
	}
	if planner.task != "Launch new SaaS dashboard" {
		t.Errorf("planner received task %q", planner.task)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	page := httptest.NewRecorder()
	g.handleIndex(page, req)
	if page.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", page.Code)
	}

	body := page.Body.String()
	for _, want := range []string{
		"Set up cloud infra",
		"Plan Generated: 3 steps",
		"Launch new SaaS dashboard",
		"Execution History",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page is missing %q", want)
		}
	}
}

func TestWebGateway_SidebarCappedAtEight(t *testing.T) {
	browser := &stubBrowser{}
	for i := 1; i <= 10; i++ {
		browser.records = append(browser.records, store.DecisionRecord{
			ID:        int64(i),
			Timestamp: "2026-08-31T10:00:00Z",
			Task:      fmt.Sprintf("history task %d", i),
			Decision:  "noted",
		})
	}
	g := NewWebGateway(":0", &stubPlanner{}, browser)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	page := httptest.NewRecorder()
	g.handleIndex(page, req)

	body := page.Body.String()
	if !strings.Contains(body, "history task 8") {
		t.Error("eighth entry should be rendered")
	}
	for i := 9; i <= 10; i++ {
		if strings.Contains(body, fmt.Sprintf("history task %d", i)) {
			t.Errorf("entry %d should not be rendered", i)
		}
	}
}

func TestWebGateway_EmptyTaskRedirects(t *testing.T) {
	planner := &stubPlanner{}
	g := NewWebGateway(":0", planner, &stubBrowser{})

	rec := postForm(t, g.handlePlan, "/plan", url.Values{"task": {"   "}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if planner.task != "" {
		t.Error("planner should not be called for an empty task")
	}
}

func TestWebGateway_PlanErrorShownInTranscript(t *testing.T) {
	planner := &stubPlanner{err: errors.New("gateway unreachable")}
	g := NewWebGateway(":0", planner, &stubBrowser{})

	rec := postForm(t, g.handlePlan, "/plan", url.Values{"task": {"some task"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	view := g.Session.Snapshot()
	if view.State != SessionIdle {
		t.Errorf("state = %s, want idle after failure", view.State)
	}
	found := false
	for _, m := range view.Messages {
		if strings.Contains(m.Text, "gateway unreachable") {
			found = true
		}
	}
	if !found {
		t.Error("failure message missing from transcript")
	}
}

func TestWebGateway_Delete(t *testing.T) {
	browser := &stubBrowser{}
	g := NewWebGateway(":0", &stubPlanner{}, browser)

	rec := postForm(t, g.handleDelete, "/delete", url.Values{"id": {"7"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if browser.deletedID != 7 {
		t.Errorf("deleted id = %d, want 7", browser.deletedID)
	}
}

func TestWebGateway_DeleteBadID(t *testing.T) {
	g := NewWebGateway(":0", &stubPlanner{}, &stubBrowser{})

	rec := postForm(t, g.handleDelete, "/delete", url.Values{"id": {"not-a-number"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWebGateway_MethodGuards(t *testing.T) {
	g := NewWebGateway(":0", &stubPlanner{}, &stubBrowser{})

	for _, path := range []string{"/plan", "/delete"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		switch path {
		case "/plan":
			g.handlePlan(rec, req)
		case "/delete":
			g.handleDelete(rec, req)
		}
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET %s status = %d, want 405", path, rec.Code)
		}
	}
}
