package fsutil

import (
	"context"
	"path/filepath"

	"github.com/yaklabco/snipsync/pkg/workspace"
)

var _ workspace.FileReader = Reader{}

// Reader resolves disk-backed workspace documents. Relative paths are
// joined onto Root when it is set.
type Reader struct {
	Root string
}

// ReadFile implements workspace.FileReader.
func (r Reader) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, _, err := ReadFile(ctx, r.Path(path))
	return content, err
}

// Exists reports whether the document name resolves to a regular file.
func (r Reader) Exists(path string) bool {
	return Exists(r.Path(path))
}

// Path maps a document name onto the file system.
func (r Reader) Path(name string) string {
	if r.Root == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(r.Root, name)
}
