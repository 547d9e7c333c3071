package store

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

const (
	defaultRecentLimit  = 10
	filteredRecentLimit = 5

	// At most this many leading bytes of a filter participate in the
	// LIKE pattern, so a long task pasted back as a filter still matches.
	maxFilterLen = 30
)

// DecisionStore persists the decision log and the per-task plans in a local
// SQLite database. One store owns both tables; nothing else writes to them.
type DecisionStore struct {
	DB *sql.DB
}

func NewDecisionStore(dbPath string) (*DecisionStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Create tables if not exist
	queries := []string{
		`CREATE TABLE IF NOT EXISTS decisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT,
			task TEXT,
			decision TEXT,
			reasoning TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task TEXT UNIQUE,
			plan TEXT,
			status TEXT DEFAULT 'planned'
		);`,
	}
	for _, q := range queries {
		if _, err = db.Exec(q); err != nil {
			return nil, err
		}
	}

	return &DecisionStore{DB: db}, nil
}

// Record appends one DecisionRecord with the current timestamp and returns
// its id.
func (s *DecisionStore) Record(task, decision, reasoning string) (int64, error) {
	query := `INSERT INTO decisions (timestamp, task, decision, reasoning) VALUES (?, ?, ?, ?)`
	res, err := s.DB.Exec(query, time.Now().Format(time.RFC3339), task, decision, reasoning)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpsertPlan stores the plan for a task, replacing any previous plan for the
// exact same task text. Steps are stored '|'-joined.
func (s *DecisionStore) UpsertPlan(task string, steps []string, status string) error {
	query := `INSERT OR REPLACE INTO tasks (task, plan, status) VALUES (?, ?, ?)`
	_, err := s.DB.Exec(query, task, strings.Join(steps, "|"), status)
	return err
}

// Recent returns the most recent records by descending id. A non-empty
// filter narrows the result to tasks containing its first 30 bytes as a
// substring and drops the default limit from 10 to 5. limit <= 0 selects
// the default.
func (s *DecisionStore) Recent(filter string, limit int) ([]DecisionRecord, error) {
	var rows *sql.Rows
	var err error

	if filter != "" {
		if limit <= 0 {
			limit = filteredRecentLimit
		}
		if len(filter) > maxFilterLen {
			filter = filter[:maxFilterLen]
		}
		rows, err = s.DB.Query(
			`SELECT id, timestamp, task, decision, reasoning FROM decisions WHERE task LIKE ? ORDER BY id DESC LIMIT ?`,
			"%"+filter+"%", limit)
	} else {
		if limit <= 0 {
			limit = defaultRecentLimit
		}
		rows, err = s.DB.Query(
			`SELECT id, timestamp, task, decision, reasoning FROM decisions ORDER BY id DESC LIMIT ?`,
			limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DecisionRecord
	for rows.Next() {
		var r DecisionRecord
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Task, &r.Decision, &r.Reasoning); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Delete removes the decision with the given id together with the stored
// plan for that decision's task. The task text is resolved before the
// decision row goes away. Deleting an unknown id is a no-op.
//
// When several decisions share the same task text they also share one plan
// row, so deleting any of them removes that plan.
func (s *DecisionStore) Delete(id int64) error {
	var task string
	err := s.DB.QueryRow(`SELECT task FROM decisions WHERE id = ?`, id).Scan(&task)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := s.DB.Exec(`DELETE FROM decisions WHERE id = ?`, id); err != nil {
		return err
	}
	_, err = s.DB.Exec(`DELETE FROM tasks WHERE task = ?`, task)
	return err
}

// Plan returns the stored steps for a task, or nil when none exist.
func (s *DecisionStore) Plan(task string) ([]string, error) {
	var joined string
	err := s.DB.QueryRow(`SELECT plan FROM tasks WHERE task = ?`, task).Scan(&joined)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if joined == "" {
		return nil, nil
	}
	return strings.Split(joined, "|"), nil
}

// Close releases the underlying database handle.
func (s *DecisionStore) Close() error {
	return s.DB.Close()
}
