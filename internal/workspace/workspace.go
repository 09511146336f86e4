package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"
)

const lockSuffix = ".lock"

// ErrWorkspaceBusy reports that another run holds the directory lock.
var ErrWorkspaceBusy = errors.New("workspace busy")

// Workspace is a prepared, locked working directory.
type Workspace struct {
	dir  string
	lock *flock.Flock
}

// Prepare locks dir and resets it to an empty directory. The lock lives in
// "<dir>.lock" next to the directory because the directory itself is removed.
func Prepare(dir string) (*Workspace, error) {
	dir = filepath.Clean(strings.TrimSpace(dir))
	if dir == "." || dir == string(filepath.Separator) {
		return nil, fmt.Errorf("refusing to use %q as a workspace", dir)
	}
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace parent: %w", err)
	}
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return nil, fmt.Errorf("workspace parent %s not writable: %w", parent, err)
	}

	lock, err := tryLock(dir)
	if err != nil {
		return nil, err
	}

	if err := os.RemoveAll(dir); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("reset workspace: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir, lock: lock}, nil
}

// Acquire locks an existing directory without resetting it, for runs that
// organize an already extracted bundle in place.
func Acquire(dir string) (*Workspace, error) {
	dir = filepath.Clean(strings.TrimSpace(dir))
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat workspace: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace %s is not a directory", dir)
	}
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return nil, fmt.Errorf("workspace %s not writable: %w", dir, err)
	}
	lock, err := tryLock(dir)
	if err != nil {
		return nil, err
	}
	return &Workspace{dir: dir, lock: lock}, nil
}

func tryLock(dir string) (*flock.Flock, error) {
	lock := flock.New(dir + lockSuffix)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceBusy, dir)
	}
	return lock, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Release unlocks the workspace. The directory contents and the lock file
// are kept so a later run on the same directory locks the same inode.
func (w *Workspace) Release() error {
	if w == nil || w.lock == nil {
		return nil
	}
	if err := w.lock.Unlock(); err != nil {
		return fmt.Errorf("release workspace lock: %w", err)
	}
	return nil
}

// Remove deletes the directory and its lock file, then releases the lock.
// Only use it for single-use directories such as per-request workspaces.
func (w *Workspace) Remove() error {
	if w == nil {
		return nil
	}
	return errors.Join(Discard(w.dir), w.Release())
}

// Discard deletes dir and its sibling lock file. It does not take the lock;
// callers must own the directory.
func Discard(dir string) error {
	dir = filepath.Clean(strings.TrimSpace(dir))
	var errs []error
	if err := os.RemoveAll(dir); err != nil {
		errs = append(errs, fmt.Errorf("remove workspace: %w", err))
	}
	if err := os.Remove(dir + lockSuffix); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, fmt.Errorf("remove workspace lock: %w", err))
	}
	return errors.Join(errs...)
}
