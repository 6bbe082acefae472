package fsutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for newly created files.
const DefaultFileMode os.FileMode = 0o644

// WriteAtomic replaces path with content via a temp file in the same
// directory followed by a rename. A zero mode means DefaultFileMode. On error
// the temp file is removed and any existing file is left untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("write atomic: %w", ctx.Err())
	default:
	}

	if mode == 0 {
		mode = DefaultFileMode
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	steps := []struct {
		what string
		fn   func() error
	}{
		{"write", func() error { _, err := tmp.Write(content); return err }},
		{"sync", tmp.Sync},
		{"close", tmp.Close},
		{"chmod", func() error { return os.Chmod(tmpPath, mode) }},
		{"rename", func() error { return os.Rename(tmpPath, path) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s temp file: %w", step.what, err)
		}
	}

	committed = true
	return nil
}

// WriteAtomicIfChanged writes content only when it differs from what is on
// disk. It reports whether a write happened.
func WriteAtomicIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	existing, info, err := ReadFile(ctx, path)
	switch {
	case err == nil:
		if info.Size == int64(len(content)) && info.Hash == Hash(content) && string(existing) == string(content) {
			return false, nil
		}
		if mode == 0 {
			mode = info.Mode.Perm()
		}
	case isNotFound(err):
	default:
		return false, err
	}

	if err := WriteAtomic(ctx, path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}
