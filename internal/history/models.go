package history

import "time"

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	// StatusRejected marks runs that failed on bad input rather than a system fault.
	StatusRejected Status = "rejected"
)

// Source names the entry point that started a run.
type Source string

const (
	SourceCLI  Source = "cli"
	SourceHTTP Source = "http"
)

// Run is one processing run.
type Run struct {
	ID              string
	CompetitionID   string
	CompetitionName string
	Source          Source
	Status          Status
	Occurrences     int
	Moved           int
	Missing         int
	Warnings        int
	ErrorMessage    string
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Finished reports whether the run reached a terminal status.
func (r Run) Finished() bool {
	return r.Status != StatusRunning && r.Status != ""
}

// Duration returns the elapsed time of a finished run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
