// Package writer puts generated files on a filesystem.
package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// File is one output file; Path is relative to the output directory.
type File struct {
	Path    string
	Content []byte
}

// Write stores files under dir, creating directories as needed. Each file
// is written to a temporary sibling first and renamed into place.
func Write(fs afero.Fs, dir string, files []File, onProgress func()) error {
	for _, f := range files {
		if err := writeFile(fs, filepath.Join(dir, filepath.FromSlash(f.Path)), f.Content); err != nil {
			return err
		}
		if onProgress != nil {
			onProgress()
		}
	}
	return nil
}

func writeFile(fs afero.Fs, target string, content []byte) error {
	dir := filepath.Dir(target)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", target, err)
	}
	name := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		fs.Remove(name)
		return fmt.Errorf("writing %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(name)
		return fmt.Errorf("closing %s: %w", target, err)
	}
	if err := fs.Chmod(name, 0o644); err != nil && !os.IsNotExist(err) {
		fs.Remove(name)
		return fmt.Errorf("chmod %s: %w", target, err)
	}
	if err := fs.Rename(name, target); err != nil {
		fs.Remove(name)
		return fmt.Errorf("renaming into %s: %w", target, err)
	}
	return nil
}
