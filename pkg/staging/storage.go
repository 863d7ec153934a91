package staging

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Loader supplies the current persistent bytes of a file. A missing file must
// be reported with an error satisfying errors.Is(err, fs.ErrNotExist); any
// other failure (permission, I/O) is propagated to the caller unwrapped.
type Loader interface {
	Load(path string) ([]byte, error)
}

// Writer persists bytes to a path, creating intermediate directories as
// needed. It is called only at flush time.
type Writer interface {
	Write(path string, data []byte) error
}

// OSLoader reads files from the local filesystem.
type OSLoader struct{}

// Load returns the file's bytes, or an fs.ErrNotExist-satisfying error.
func (OSLoader) Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// OSWriter writes files to the local filesystem, creating parent directories.
type OSWriter struct {
	// FileMode is the permission for created files; defaults to 0644.
	FileMode fs.FileMode
	// DirMode is the permission for created directories; defaults to 0755.
	DirMode fs.FileMode
}

// Write persists data to path, creating missing parent directories first.
func (w OSWriter) Write(path string, data []byte) error {
	fileMode := w.FileMode
	if fileMode == 0 {
		fileMode = 0644
	}
	dirMode := w.DirMode
	if dirMode == 0 {
		dirMode = 0755
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, fileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
