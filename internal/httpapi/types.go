package httpapi

import (
	"time"

	"scrambleorg/internal/history"
)

// RunView is the JSON and YAML form of a history record.
type RunView struct {
	ID              string `json:"id" yaml:"id"`
	CompetitionID   string `json:"competitionId,omitempty" yaml:"competition_id,omitempty"`
	CompetitionName string `json:"competitionName" yaml:"competition_name"`
	Source          string `json:"source" yaml:"source"`
	Status          string `json:"status" yaml:"status"`
	Occurrences     int    `json:"occurrences" yaml:"occurrences"`
	Moved           int    `json:"moved" yaml:"moved"`
	Missing         int    `json:"missing" yaml:"missing"`
	Warnings        int    `json:"warnings" yaml:"warnings"`
	Error           string `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt       string `json:"startedAt" yaml:"started_at"`
	FinishedAt      string `json:"finishedAt,omitempty" yaml:"finished_at,omitempty"`
	DurationMillis  int64  `json:"durationMs,omitempty" yaml:"duration_ms,omitempty"`
}

// RunListResponse wraps a run listing.
type RunListResponse struct {
	Runs []RunView `json:"runs"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status" yaml:"status"`
	History bool   `json:"history"`
}

// FromRun converts a history record into its API view.
func FromRun(run history.Run) RunView {
	view := RunView{
		ID:              run.ID,
		CompetitionID:   run.CompetitionID,
		CompetitionName: run.CompetitionName,
		Source:          string(run.Source),
		Status:          string(run.Status),
		Occurrences:     run.Occurrences,
		Moved:           run.Moved,
		Missing:         run.Missing,
		Warnings:        run.Warnings,
		Error:           run.ErrorMessage,
		StartedAt:       formatTime(run.StartedAt),
		FinishedAt:      formatTime(run.FinishedAt),
		DurationMillis:  run.Duration().Milliseconds(),
	}
	return view
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
