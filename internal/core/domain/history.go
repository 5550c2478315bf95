package domain

import "time"

// DefaultHistoryLimit is the number of runs listed when no limit is given.
const DefaultHistoryLimit = 20

// RunRecord is a verification run kept in the run history.
type RunRecord struct {
	RunID    string
	GroupID  string
	WeekID   string
	Source   string
	Strategy string

	GeneratedAt time.Time
	Summary     Summary

	// Digest is the digest of the JSON document.
	Digest string

	// Document is the JSON report. List results leave it empty.
	Document []byte
}

// Passed reports whether every verified day passed.
func (r RunRecord) Passed() bool {
	return r.Summary.AllPassed()
}

// HistoryFilter selects runs from the history.
type HistoryFilter struct {
	// GroupID and WeekID match exactly when set.
	GroupID string
	WeekID  string

	// Limit caps the number of runs; 0 means DefaultHistoryLimit.
	Limit int
}
