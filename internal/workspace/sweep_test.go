package workspace_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"scrambleorg/internal/logging"
	"scrambleorg/internal/workspace"
)

func age(t *testing.T, path string, when time.Time) {
	t.Helper()
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestSweepRemovesStaleEntries(t *testing.T) {
	root := t.TempDir()
	old := time.Now().Add(-48 * time.Hour)
	cutoff := time.Now().Add(-24 * time.Hour)

	staleDir := filepath.Join(root, "run-old")
	ws, err := workspace.Prepare(staleDir)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := ws.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	age(t, staleDir, old)

	staleUpload := filepath.Join(root, "run-old.upload.zip")
	if err := os.WriteFile(staleUpload, []byte("zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	age(t, staleUpload, old)

	freshDir := filepath.Join(root, "run-new")
	if err := os.MkdirAll(freshDir, 0o755); err != nil {
		t.Fatal(err)
	}

	removed := workspace.Sweep(root, cutoff, logging.NewNop())
	if removed != 2 {
		t.Fatalf("expected 2 entries removed, got %d", removed)
	}
	for _, gone := range []string{staleDir, staleDir + ".lock", staleUpload} {
		if _, err := os.Stat(gone); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed, stat err=%v", gone, err)
		}
	}
	if _, err := os.Stat(freshDir); err != nil {
		t.Fatalf("fresh workspace should remain: %v", err)
	}
}

func TestSweepSkipsLockedWorkspace(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "run-busy")
	ws, err := workspace.Prepare(dir)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	t.Cleanup(func() { _ = ws.Release() })
	age(t, dir, time.Now().Add(-72*time.Hour))

	if removed := workspace.Sweep(root, time.Now(), logging.NewNop()); removed != 0 {
		t.Fatalf("expected nothing removed, got %d", removed)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("locked workspace should remain: %v", err)
	}
}

func TestSweepMissingRoot(t *testing.T) {
	if removed := workspace.Sweep(filepath.Join(t.TempDir(), "absent"), time.Now(), nil); removed != 0 {
		t.Fatalf("expected 0, got %d", removed)
	}
}
