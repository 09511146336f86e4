package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// ScramblePDF returns stand-in contents for a scramble PDF. The file name is
// embedded so a moved file can be traced back to the set it was written for.
func ScramblePDF(name string) []byte {
	return []byte("%PDF-1.4 " + name)
}

// WritePDF writes a stand-in scramble PDF named after the base of path,
// creating parent directories as needed.
func WritePDF(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, ScramblePDF(filepath.Base(path)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
