package store

// DecisionRecord is one row of the append-only decision log. Records are
// immutable once written; the only mutation is deletion by id.
type DecisionRecord struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Task      string `json:"task"`
	Decision  string `json:"decision"`
	Reasoning string `json:"reasoning"`
}
