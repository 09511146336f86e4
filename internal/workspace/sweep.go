package workspace

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"scrambleorg/internal/logging"
)

// Sweep removes leftovers under root last modified before cutoff: workspace
// directories with their lock files, orphaned lock files, and loose files
// such as uploaded or packed bundles. Workspaces still locked by a run are
// skipped. It returns the number of entries removed.
func Sweep(root string, cutoff time.Time, logger *slog.Logger) int {
	logger = logging.NewComponentLogger(logger, "workspace")
	entries, err := os.ReadDir(root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.WarnWithContext(logger, "stale workspace sweep skipped", "workspace_sweep_failed",
				logging.String("root", root),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.staging_dir permissions"),
				logging.String(logging.FieldImpact, "old uploads stay on disk"),
			)
		}
		return 0
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(root, name)
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}

		switch {
		case entry.IsDir():
			err = removeLocked(path+lockSuffix, func() error {
				if err := os.RemoveAll(path); err != nil {
					return err
				}
				return os.Remove(path + lockSuffix)
			})
		case strings.HasSuffix(name, lockSuffix):
			if _, statErr := os.Stat(strings.TrimSuffix(path, lockSuffix)); statErr == nil {
				// Swept together with its directory.
				continue
			}
			err = removeLocked(path, func() error { return os.Remove(path) })
		default:
			err = os.Remove(path)
		}

		switch {
		case errors.Is(err, ErrWorkspaceBusy):
			logger.Debug("stale workspace still locked", logging.String("path", path))
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			logging.WarnWithContext(logger, "stale workspace remove failed; entry remains", "workspace_sweep_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.staging_dir permissions"),
				logging.String(logging.FieldImpact, "old upload remains on disk"),
			)
		default:
			removed++
			logger.Info("stale workspace removed",
				logging.String("path", path),
				logging.String(logging.FieldEventType, "workspace_swept"),
			)
		}
	}
	return removed
}

// removeLocked runs remove while holding the lock at lockPath so a live run
// never loses its workspace.
func removeLocked(lockPath string, remove func() error) error {
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !ok {
		return ErrWorkspaceBusy
	}
	defer func() { _ = lock.Unlock() }()
	return remove()
}
