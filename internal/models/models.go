// Package models holds the shared domain records passed between the
// warehouse, report generator, and batch orchestrator.
package models

import "time"

// Assignment is one owner's book of subjects, read from the warehouse.
type Assignment struct {
	OwnerID      string
	OwnerName    string
	OwnerContact string
	SubjectIDs   []string
	Region       string
}

// ReportRow is the persisted result of one subject's report generation.
type ReportRow struct {
	OwnerID     string
	SubjectID   string
	GeneratedAt time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	Sections    map[string]string
	FullReport  string
}

// SubjectFailure records one (owner, subject) pair that could not be
// completed. The batch continues past it.
type SubjectFailure struct {
	SubjectID string
	OwnerID   string
	Err       error
}

// BatchSummary is the aggregate outcome of a batch run, emitted even when
// every pair fails.
type BatchSummary struct {
	RunID     string
	Attempted int
	Succeeded int
	Failures  []SubjectFailure
}

// Failed reports the number of pairs that did not complete.
func (s *BatchSummary) Failed() int {
	return len(s.Failures)
}
