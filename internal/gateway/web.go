package gateway

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/PRABHA-MURUGANANDHAM/workelate-agent/internal/observability"
	"github.com/PRABHA-MURUGANANDHAM/workelate-agent/internal/store"
)

// The sidebar shows at most this many of the recent decisions.
const sidebarHistoryLimit = 8

// WebGateway serves the chat-style planning page: a task input with quick
// scenario buttons, the rendered plan, and a sidebar of recent decisions
// with per-entry deletion.
type WebGateway struct {
	Addr    string
	Planner Planner
	Store   DecisionBrowser
	Session *Session

	tmpl *template.Template
	srv  *http.Server
}

func NewWebGateway(addr string, planner Planner, browser DecisionBrowser) *WebGateway {
	tmpl := template.Must(template.New("chat").Funcs(template.FuncMap{
		"shortTime": shortTime,
		"truncate":  truncate,
	}).Parse(chatPageTemplate))

	return &WebGateway{
		Addr:    addr,
		Planner: planner,
		Store:   browser,
		Session: NewSession(),
		tmpl:    tmpl,
	}
}

func (g *WebGateway) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", g.handleIndex)
	mux.HandleFunc("/plan", g.handlePlan)
	mux.HandleFunc("/delete", g.handleDelete)

	g.srv = &http.Server{Addr: g.Addr, Handler: mux}
	log.Printf("Web gateway listening on %s", g.Addr)

	err := g.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Send appends an agent message to the chat transcript. The web gateway has
// a single interactive session, so the chat id is ignored.
func (g *WebGateway) Send(chatID string, text string) error {
	g.Session.Append("agent", text)
	return nil
}

func (g *WebGateway) Stop() error {
	if g.srv == nil {
		return nil
	}
	return g.srv.Shutdown(context.Background())
}

// historyEntry pairs a decision with its stored plan steps for the sidebar.
type historyEntry struct {
	Record store.DecisionRecord
	Steps  []string
}

type pageData struct {
	Title   string
	Session SessionView
	History []historyEntry
}

func (g *WebGateway) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	records, err := g.Store.Recent("", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(records) > sidebarHistoryLimit {
		records = records[:sidebarHistoryLimit]
	}

	history := make([]historyEntry, 0, len(records))
	for _, rec := range records {
		entry := historyEntry{Record: rec}
		if strings.Contains(rec.Decision, "Plan Generated") {
			steps, err := g.Store.Plan(rec.Task)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			entry.Steps = steps
		}
		history = append(history, entry)
	}

	data := pageData{
		Title:   "WorkElate Stateful AI Agent",
		Session: g.Session.Snapshot(),
		History: history,
	}
	if err := g.tmpl.Execute(w, data); err != nil {
		log.Printf("template render error: %v", err)
	}
}

func (g *WebGateway) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	task := strings.TrimSpace(r.FormValue("task"))
	if task == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := g.Session.SubmitTask(task); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	observability.SetStatus(observability.StatePlanning, task)
	result, err := g.Planner.PlanTask(r.Context(), task)
	observability.SetStatus(observability.StateIdle, "")

	if err != nil {
		log.Printf("planning failed for %q: %v", task, err)
		g.Session.Fail(task, err)
	} else {
		g.Session.RenderPlan(task, result)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (g *WebGateway) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := g.Store.Delete(id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// shortTime trims an RFC3339 timestamp down to "2006-01-02T15:04".
func shortTime(ts string) string {
	if len(ts) > 16 {
		return ts[:16]
	}
	return ts
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

const chatPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; display: flex; background: #f5f6fa; }
  main { flex: 1; padding: 2rem; max-width: 720px; }
  aside { width: 340px; background: #fff; border-left: 1px solid #ddd; padding: 1.5rem; min-height: 100vh; }
  h1 { font-size: 1.4rem; }
  .scenarios form { display: inline-block; margin-right: .5rem; }
  .msg { border-radius: 8px; padding: .6rem .9rem; margin: .4rem 0; }
  .msg.user { background: #dce9ff; }
  .msg.agent { background: #e9f7ef; }
  .plan { background: #fff; border: 1px solid #ddd; border-radius: 8px; padding: 1rem; margin-top: 1rem; }
  .plan ol { margin: .5rem 0; }
  .entry { border-bottom: 1px solid #eee; padding: .6rem 0; font-size: .85rem; }
  .entry .del { float: right; }
  .entry button { border: none; background: none; cursor: pointer; color: #c0392b; }
  .taskbox { margin-top: 1.5rem; }
  .taskbox input[type=text] { width: 70%; padding: .5rem; }
  .ok { color: #27ae60; }
</style>
</head>
<body>
<main>
  <h1>&#129302; {{.Title}}</h1>

  <div class="scenarios">
    <h3>&#127919; Quick Test Scenarios</h3>
    <form method="post" action="/plan">
      <input type="hidden" name="task" value="Launch new SaaS dashboard">
      <button type="submit">&#128202; SaaS Dashboard</button>
    </form>
    <form method="post" action="/plan">
      <input type="hidden" name="task" value="Create onboarding plan for new engineering intern">
      <button type="submit">&#128188; Intern Onboarding</button>
    </form>
  </div>

  {{range .Session.Messages}}
  <div class="msg {{.Role}}">{{.Text}}</div>
  {{end}}

  {{with .Session.LastResult}}
  <div class="plan">
    <h3>&#128203; Execution Plan</h3>
    <ol>
    {{range .Steps}}<li>{{.}}</li>
    {{end}}</ol>
    <details open>
      <summary>Plan Generated: {{len .Steps}} steps</summary>
      <p><em>Why:</em> {{.Reasoning}}</p>
    </details>
    <p class="ok">&#9989; Plan saved | {{len .Steps}} steps</p>
  </div>
  {{end}}

  <div class="taskbox">
    <form method="post" action="/plan">
      <input type="text" name="task" placeholder="Enter your task:" autofocus>
      <button type="submit">Plan</button>
    </form>
  </div>
</main>

<aside>
  <h3>&#128218; Execution History</h3>
  {{range .History}}
  <div class="entry">
    <form class="del" method="post" action="/delete">
      <input type="hidden" name="id" value="{{.Record.ID}}">
      <button type="submit" title="Delete entry">&#8942;</button>
    </form>
    <div>&#9200; {{shortTime .Record.Timestamp}} | {{truncate .Record.Task 35}}</div>
    <details>
      <summary>{{.Record.Decision}}</summary>
      <p>&#129504; {{.Record.Reasoning}}</p>
      {{if .Steps}}
      <ol>
      {{range .Steps}}<li>{{.}}</li>
      {{end}}</ol>
      {{end}}
    </details>
  </div>
  {{end}}
</aside>
</body>
</html>
`
