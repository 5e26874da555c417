package fsutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for newly created files.
const DefaultFileMode os.FileMode = 0o644

// WriteAtomic replaces path with content so readers see either the old or
// the new file, never a partial one. A zero mode means DefaultFileMode. On
// error the target is left untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	// Write to a temp file in the same directory so the rename stays on
	// one filesystem.
	tmpPath, err := writeTemp(filepath.Dir(path), filepath.Base(path), content, mode)
	if err != nil {
		return err
	}
	// Atomically replace the target.
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return classify(path, "rename onto", err)
	}
	return nil
}

// writeTemp writes a synced sibling of base in dir and returns its path.
func writeTemp(dir, base string, content []byte, mode os.FileMode) (string, error) {
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return "", classify(dir, "create temp file in", err)
	}

	// Write, sync and close, stopping at the first failure.
	_, err = tmp.Write(content)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), mode)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return tmp.Name(), nil
}

// WriteAtomicIfChanged writes only when content differs from what is on
// disk and reports whether a write happened. An existing file keeps its
// mode when mode is zero.
func WriteAtomicIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	existing, info, err := ReadFile(ctx, path)
	switch {
	case err == nil:
		// Unchanged content leaves the file and its mtime alone.
		if bytes.Equal(existing, content) {
			return false, nil
		}
		if mode == 0 {
			mode = info.Mode
		}
	case !errors.Is(err, ErrNotFound):
		return false, fmt.Errorf("read existing: %w", err)
	}

	if err := WriteAtomic(ctx, path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}
