package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Pack writes every file under dir into a zip at dest, using slash-separated
// paths relative to dir. Zip files at the root of dir are skipped, which
// also keeps dest out of its own archive when it lives inside dir.
func Pack(dir, dest string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("create archive directory: %w", err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}
	writer := zip.NewWriter(out)

	count := 0
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !strings.Contains(rel, string(filepath.Separator)) && strings.EqualFold(filepath.Ext(rel), ".zip") {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := addFile(writer, path, filepath.ToSlash(rel)); err != nil {
			return err
		}
		count++
		return nil
	})
	if walkErr != nil {
		_ = writer.Close()
		_ = out.Close()
		_ = os.Remove(dest)
		return 0, fmt.Errorf("pack %s: %w", dir, walkErr)
	}
	if err := writer.Close(); err != nil {
		_ = out.Close()
		return 0, fmt.Errorf("finalize archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("close archive: %w", err)
	}
	return count, nil
}

func addFile(writer *zip.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := writer.CreateHeader(header)
	if err != nil {
		return err
	}
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()
	_, err = io.Copy(w, in)
	return err
}
