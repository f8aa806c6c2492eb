// Package archive bundles compiled portfolio files into a downloadable ZIP.
package archive

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// WriteZip writes the named text files into a ZIP archive at path, creating
// parent directories as needed. Entries are written in filename order so the
// archive bytes are deterministic for identical inputs.
func WriteZip(path string, files map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", path, err)
	}
	defer out.Close()

	w := zip.NewWriter(out)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", name, err)
		}
		if _, err := f.Write([]byte(files[name])); err != nil {
			return fmt.Errorf("failed to write %s to archive: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
