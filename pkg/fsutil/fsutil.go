// Package fsutil reads documents for scanning and writes generated files
// safely. Content is fingerprinted with xxhash so the runner can skip
// duplicate inputs and init can skip no-op writes.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrTooLarge indicates the file exceeds the read limit.
	ErrTooLarge = errors.New("file too large")
)

// MaxFileSize bounds the documents ReadFile will load. Scanner offsets are
// ints, and a single multi-gigabyte input is almost always a mistake.
const MaxFileSize int64 = 1 << 30

// FileInfo captures the state of a file when it was read.
type FileInfo struct {
	// Path is the path the file was read from.
	Path string

	// Mode is the file's permission and mode bits.
	Mode os.FileMode

	// ModTime is the file's modification time.
	ModTime time.Time

	// Size is the file size in bytes.
	Size int64

	// Hash is the xxhash64 digest of the content.
	Hash uint64
}

// Hash returns the content fingerprint used for deduplication.
func Hash(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// HashString is Hash for string content.
func HashString(content string) uint64 {
	return xxhash.Sum64String(content)
}

// ReadFile reads a file and returns its content along with metadata.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("read file: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, "stat", err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	if stat.Size() > MaxFileSize {
		return nil, nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, path, stat.Size())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, "read", err)
	}

	return content, &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    int64(len(content)),
		Hash:    Hash(content),
	}, nil
}

// classify maps common fs errors onto the package sentinels.
func classify(path, op string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
}
