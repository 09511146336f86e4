package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound reports a lookup for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, competition_id, competition_name, source, status, occurrences, moved,
	missing, warnings, error_message, started_at, finished_at`

// NewRunID allocates a run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Begin inserts run in the running state. A missing ID or start time is filled in.
func (s *Store) Begin(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("begin run: nil run")
	}
	if strings.TrimSpace(run.ID) == "" {
		run.ID = NewRunID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.Status = StatusRunning
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, competition_id, competition_name, source, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.CompetitionID, run.CompetitionName, string(run.Source), string(run.Status), formatTime(run.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Finish records the terminal status and counters of run.
func (s *Store) Finish(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("finish run: nil run")
	}
	if !run.Finished() {
		return fmt.Errorf("finish run %s: status %q is not terminal", run.ID, run.Status)
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET competition_id = ?, competition_name = ?, status = ?, occurrences = ?, moved = ?,
		 missing = ?, warnings = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		run.CompetitionID, run.CompetitionName, string(run.Status), run.Occurrences, run.Moved,
		run.Missing, run.Warnings, run.ErrorMessage, formatTime(run.FinishedAt), run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, run.ID)
	}
	return nil
}

// Get loads a run by ID.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List returns up to limit runs, newest first. A non-positive limit returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(scanner rowScanner) (*Run, error) {
	var (
		run        Run
		source     string
		status     string
		startedAt  string
		finishedAt sql.NullString
	)
	err := scanner.Scan(
		&run.ID, &run.CompetitionID, &run.CompetitionName, &source, &status, &run.Occurrences, &run.Moved,
		&run.Missing, &run.Warnings, &run.ErrorMessage, &startedAt, &finishedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Source = Source(source)
	run.Status = Status(status)
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at for %s: %w", run.ID, err)
	}
	if finishedAt.Valid && finishedAt.String != "" {
		if run.FinishedAt, err = parseTime(finishedAt.String); err != nil {
			return nil, fmt.Errorf("parse finished_at for %s: %w", run.ID, err)
		}
	}
	return &run, nil
}

// storedTimeLayout keeps a fixed fractional width so text ordering matches time ordering.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
