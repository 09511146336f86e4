package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"scrambleorg/internal/wcif"
)

// ErrMissingScrambles reports a bundle without the inner computer display archive.
var ErrMissingScrambles = errors.New("bundle has no computer display archive")

// Bundle summarizes an extraction.
type Bundle struct {
	Files         int
	HasPasscodes  bool
	InnerArchive  string
	PasscodesFile string
}

// ExtractBundle unpacks the bundle at bundlePath into dir. The inner
// computer display archive is flattened into dir and then removed; the
// passcode manifest is copied alongside. Other bundle entries are ignored.
func ExtractBundle(bundlePath string, comp *wcif.Competition, dir string) (Bundle, error) {
	reader, err := openZip(bundlePath)
	if err != nil {
		return Bundle{}, fmt.Errorf("open bundle: %w", err)
	}
	defer reader.Close()

	bundle := Bundle{
		InnerArchive:  comp.ScrambleArchiveName(),
		PasscodesFile: comp.PasscodeFileName(),
	}
	foundInner := false
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		switch path.Base(entry.Name) {
		case bundle.InnerArchive:
			innerPath := filepath.Join(dir, bundle.InnerArchive)
			if err := writeEntry(entry, innerPath); err != nil {
				return bundle, err
			}
			n, err := extractFlat(innerPath, dir)
			if err != nil {
				return bundle, err
			}
			if err := os.Remove(innerPath); err != nil {
				return bundle, fmt.Errorf("remove inner archive: %w", err)
			}
			bundle.Files += n
			foundInner = true
		case bundle.PasscodesFile:
			if err := writeEntry(entry, filepath.Join(dir, bundle.PasscodesFile)); err != nil {
				return bundle, err
			}
			bundle.HasPasscodes = true
		}
	}
	if !foundInner {
		return bundle, fmt.Errorf("%w: expected %q", ErrMissingScrambles, bundle.InnerArchive)
	}
	return bundle, nil
}

// extractFlat writes every file of the archive at archivePath into dir
// under its base name.
func extractFlat(archivePath, dir string) (int, error) {
	reader, err := openZip(archivePath)
	if err != nil {
		return 0, fmt.Errorf("open inner archive: %w", err)
	}
	defer reader.Close()

	count := 0
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		name, ok := safeBaseName(entry.Name)
		if !ok {
			continue
		}
		if err := writeEntry(entry, filepath.Join(dir, name)); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// openZip tolerates insecure entry names; every entry is reduced to its base
// name before it is written.
func openZip(path string) (*zip.ReadCloser, error) {
	reader, err := zip.OpenReader(path)
	if errors.Is(err, zip.ErrInsecurePath) && reader != nil {
		return reader, nil
	}
	return reader, err
}

func safeBaseName(name string) (string, bool) {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	switch base {
	case "", ".", "..", "/":
		return "", false
	}
	return base, true
}

func writeEntry(entry *zip.File, dst string) error {
	in, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", entry.Name, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(dst), err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("extract %s: %w", entry.Name, err)
	}
	return out.Close()
}
