package archive_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"scrambleorg/internal/archive"
	"scrambleorg/internal/wcif"
)

var comp = &wcif.Competition{ID: "ExampleOpen2025", Name: "Example Open 2025"}

func zipBytes(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := f.Write(files[name]); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func writeBundle(t *testing.T, files map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.zip")
	if err := os.WriteFile(path, zipBytes(t, files), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func listZip(t *testing.T, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer r.Close()
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

func TestExtractBundle(t *testing.T) {
	inner := zipBytes(t, map[string][]byte{
		"Printing/Computer Display PDFs/3x3x3 Cube Round 1 Scramble Set A.pdf": []byte("a"),
		"Printing/Computer Display PDFs/3x3x3 Cube Round 1 Scramble Set B.pdf": []byte("b"),
		"../../escape.pdf": []byte("evil"),
	})
	bundlePath := writeBundle(t, map[string][]byte{
		"Example Open 2025/" + comp.ScrambleArchiveName(): inner,
		"Example Open 2025/" + comp.PasscodeFileName():    []byte("3x3x3 Cube Round 1 Scramble Set A: ab12"),
		"Example Open 2025/Printing/ignored.pdf":          []byte("skip"),
	})
	parent := t.TempDir()
	dir := filepath.Join(parent, "work")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	bundle, err := archive.ExtractBundle(bundlePath, comp, dir)
	if err != nil {
		t.Fatalf("ExtractBundle: %v", err)
	}
	if bundle.Files != 3 || !bundle.HasPasscodes {
		t.Fatalf("unexpected bundle summary %+v", bundle)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{
		"3x3x3 Cube Round 1 Scramble Set A.pdf",
		"3x3x3 Cube Round 1 Scramble Set B.pdf",
		comp.PasscodeFileName(),
		"escape.pdf",
	}
	sort.Strings(want)
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("extracted files mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(parent, "escape.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("entry escaped the workspace, err=%v", err)
	}
}

func TestExtractBundleWithoutInnerArchive(t *testing.T) {
	bundlePath := writeBundle(t, map[string][]byte{
		comp.PasscodeFileName(): []byte("x"),
	})
	_, err := archive.ExtractBundle(bundlePath, comp, t.TempDir())
	if !errors.Is(err, archive.ErrMissingScrambles) {
		t.Fatalf("expected ErrMissingScrambles, got %v", err)
	}
}

func TestExtractBundleRejectsNonZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.zip")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := archive.ExtractBundle(path, comp, t.TempDir()); err == nil {
		t.Fatal("expected error for invalid zip")
	}
}

func TestPackSkipsRootArchives(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		filepath.Join("Main", "R1", "3x3x3 Cube Round 1 Scramble Set A.pdf"): "a",
		"[REORGANIZED] passcodes.txt":                                        "p",
		"leftover.zip":                                                       "z",
		filepath.Join("Main", "nested.zip"):                                  "n",
	}
	for rel, body := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	dest := filepath.Join(dir, comp.OrganizedArchiveName())
	count, err := archive.Pack(dir, dest)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 packed files, got %d", count)
	}
	want := []string{
		"Main/R1/3x3x3 Cube Round 1 Scramble Set A.pdf",
		"Main/nested.zip",
		"[REORGANIZED] passcodes.txt",
	}
	sort.Strings(want)
	if diff := cmp.Diff(want, listZip(t, dest)); diff != "" {
		t.Fatalf("archive entries mismatch (-want +got):\n%s", diff)
	}
}
