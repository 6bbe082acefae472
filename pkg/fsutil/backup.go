package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// BackupSuffix is appended to a file's path to name its backup.
const BackupSuffix = ".xml1.bak"

// BackupPath returns the sidecar backup path for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// CreateBackup copies path to its sidecar backup before it is overwritten.
// It returns the backup path, or "" when path does not exist. An existing
// backup is never replaced, so repeated runs keep the oldest content.
func CreateBackup(ctx context.Context, path string) (string, error) {
	content, info, err := ReadFile(ctx, path)
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("create backup: %w", err)
	}

	backup := BackupPath(path)
	if _, err := os.Lstat(backup); err == nil {
		return backup, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat backup: %w", err)
	}

	if err := WriteAtomic(ctx, backup, content, info.Mode.Perm()); err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	return backup, nil
}

// RestoreBackup moves the sidecar backup of path back into place.
func RestoreBackup(ctx context.Context, path string) error {
	content, info, err := ReadFile(ctx, BackupPath(path))
	if err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	if err := WriteAtomic(ctx, path, content, info.Mode.Perm()); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	if err := os.Remove(BackupPath(path)); err != nil {
		return fmt.Errorf("remove backup: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
