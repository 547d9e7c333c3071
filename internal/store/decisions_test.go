package store

import (
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *DecisionStore {
	t.Helper()
	s, err := NewDecisionStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDecisionStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := newTestStore(t)

	id1, err := s.Record("Launch new SaaS dashboard", "Plan Generated: 5 steps", "reasoning one")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	id2, err := s.Record("Create onboarding plan", "Plan Generated: 3 steps", "reasoning two")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("ids should be monotonic: %d then %d", id1, id2)
	}

	records, err := s.Recent("", 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Descending id order
	if records[0].ID != id2 || records[1].ID != id1 {
		t.Errorf("records not in descending id order: %d, %d", records[0].ID, records[1].ID)
	}
	if records[0].Timestamp == "" {
		t.Error("timestamp should be set")
	}
}

func TestRecentFilter(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Record("Launch new SaaS dashboard", "d", "r"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Record("Create onboarding plan", "d", "r"); err != nil {
		t.Fatal(err)
	}

	records, err := s.Recent("SaaS", 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Task != "Launch new SaaS dashboard" {
		t.Errorf("wrong record matched: %q", records[0].Task)
	}

	// No matches is an empty result, not an error.
	records, err = s.Recent("no such task", 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestRecentFilterTruncatedTo30Bytes(t *testing.T) {
	s := newTestStore(t)

	task := "Build a very long and elaborate data pipeline for analytics"
	if _, err := s.Record(task, "d", "r"); err != nil {
		t.Fatal(err)
	}

	// Filtering with the full task text must still match: only the first
	// 30 bytes form the pattern, and they are a substring of the task.
	records, err := s.Recent(task, 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
}

func TestRecentDefaultLimits(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 15; i++ {
		if _, err := s.Record("repeated task", "d", "r"); err != nil {
			t.Fatal(err)
		}
	}

	unfiltered, err := s.Recent("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(unfiltered) != 10 {
		t.Errorf("unfiltered default limit: got %d, want 10", len(unfiltered))
	}

	filtered, err := s.Recent("repeated", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 5 {
		t.Errorf("filtered default limit: got %d, want 5", len(filtered))
	}
}

func TestUpsertPlanReplaces(t *testing.T) {
	s := newTestStore(t)

	if err := s.UpsertPlan("task A", []string{"step one here", "step two here", "step three here"}, "planned"); err != nil {
		t.Fatalf("UpsertPlan failed: %v", err)
	}
	if err := s.UpsertPlan("task A", []string{"replacement one", "replacement two", "replacement three"}, "planned"); err != nil {
		t.Fatalf("second UpsertPlan failed: %v", err)
	}

	steps, err := s.Plan("task A")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(steps))
	}
	if steps[0] != "replacement one" {
		t.Errorf("plan was not replaced, first step: %q", steps[0])
	}
	for _, st := range steps {
		if strings.HasPrefix(st, "step") {
			t.Errorf("old plan step survived upsert: %q", st)
		}
	}
}

func TestDeleteRemovesDecisionAndPlan(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Record("task B", "Plan Generated: 3 steps", "r")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertPlan("task B", []string{"one step here", "two steps here", "three steps here"}, "planned"); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	records, err := s.Recent("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("decision row survived delete: %d records", len(records))
	}

	steps, err := s.Plan("task B")
	if err != nil {
		t.Fatal(err)
	}
	if steps != nil {
		t.Errorf("plan row survived delete: %v", steps)
	}
}

func TestDeleteUnknownIDIsNoop(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Record("task C", "d", "r"); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(99999); err != nil {
		t.Fatalf("deleting unknown id should be a no-op, got: %v", err)
	}

	records, err := s.Recent("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("existing record should be untouched, got %d records", len(records))
	}
}

func TestDeleteSharedTaskRemovesSharedPlan(t *testing.T) {
	s := newTestStore(t)

	// Re-planning the same task text leaves two decisions sharing one plan
	// row. Deleting either decision removes that shared plan.
	id1, err := s.Record("shared task", "Plan Generated: 3 steps", "r1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Record("shared task", "Plan Generated: 3 steps", "r2"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertPlan("shared task", []string{"latest step one", "latest step two", "latest step three"}, "planned"); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(id1); err != nil {
		t.Fatal(err)
	}

	steps, err := s.Plan("shared task")
	if err != nil {
		t.Fatal(err)
	}
	if steps != nil {
		t.Errorf("shared plan should be gone, got %v", steps)
	}

	records, err := s.Recent("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("the other decision should survive, got %d records", len(records))
	}
}

func TestPlanUnknownTask(t *testing.T) {
	s := newTestStore(t)

	steps, err := s.Plan("never planned")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if steps != nil {
		t.Errorf("expected nil steps, got %v", steps)
	}
}
