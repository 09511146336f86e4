package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"scrambleorg/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "db", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBeginAndFinish(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	started := time.Date(2025, 5, 3, 9, 0, 0, 0, time.UTC)

	run := &history.Run{CompetitionID: "ExampleOpen2025", CompetitionName: "Example Open 2025", Source: history.SourceCLI, StartedAt: started}
	if err := store.Begin(ctx, run); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if run.ID == "" || run.Status != history.StatusRunning {
		t.Fatalf("unexpected run after Begin: %+v", run)
	}

	run.Status = history.StatusSucceeded
	run.Occurrences = 12
	run.Moved = 30
	run.Missing = 2
	run.Warnings = 3
	run.FinishedAt = started.Add(1500 * time.Millisecond)
	if err := store.Finish(ctx, run); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	got, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != history.StatusSucceeded || got.Moved != 30 || got.Missing != 2 || got.Warnings != 3 || got.Occurrences != 12 {
		t.Fatalf("unexpected stored run %+v", got)
	}
	if !got.StartedAt.Equal(started) || got.Duration() != 1500*time.Millisecond {
		t.Fatalf("unexpected timestamps %+v", got)
	}
	if got.Source != history.SourceCLI || got.CompetitionName != "Example Open 2025" {
		t.Fatalf("unexpected identity fields %+v", got)
	}
}

func TestFinishRejectsNonTerminalStatus(t *testing.T) {
	store := openStore(t)
	run := &history.Run{CompetitionName: "X", Source: history.SourceHTTP}
	if err := store.Begin(context.Background(), run); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := store.Finish(context.Background(), run); err == nil {
		t.Fatal("expected error finishing a running run")
	}
}

func TestFinishUnknownRun(t *testing.T) {
	store := openStore(t)
	run := &history.Run{ID: "missing", Status: history.StatusFailed}
	if err := store.Finish(context.Background(), run); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestGetUnknownRun(t *testing.T) {
	store := openStore(t)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 3, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"First", "Second", "Third"} {
		run := &history.Run{CompetitionName: name, Source: history.SourceHTTP, StartedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := store.Begin(ctx, run); err != nil {
			t.Fatalf("Begin %s: %v", name, err)
		}
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 || runs[0].CompetitionName != "Third" || runs[1].CompetitionName != "Second" {
		t.Fatalf("unexpected order: %+v", runs)
	}
	if runs[0].Finished() {
		t.Fatal("running run must not report finished")
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	run := &history.Run{CompetitionName: "Persisted", Source: history.SourceCLI}
	if err := store.Begin(context.Background(), run); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.Get(context.Background(), run.ID); err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
}
