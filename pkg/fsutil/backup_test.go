package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xml1/pkg/fsutil"
)

func TestBackupPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dir/.xml1.yml.xml1.bak", fsutil.BackupPath("dir/.xml1.yml"))
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing original", func(t *testing.T) {
		t.Parallel()

		backup, err := fsutil.CreateBackup(ctx, filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Empty(t, backup)
	})

	t.Run("keeps the first backup", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".xml1.yml")
		require.NoError(t, os.WriteFile(path, []byte("first"), 0o644))

		backup, err := fsutil.CreateBackup(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, fsutil.BackupPath(path), backup)

		require.NoError(t, os.WriteFile(path, []byte("second"), 0o644))
		_, err = fsutil.CreateBackup(ctx, path)
		require.NoError(t, err)

		got, err := os.ReadFile(backup)
		require.NoError(t, err)
		assert.Equal(t, "first", string(got))
	})
}

func TestRestoreBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".xml1.yml")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	_, err := fsutil.CreateBackup(ctx, path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("broken"), 0o644))

	require.NoError(t, fsutil.RestoreBackup(ctx, path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
	assert.NoFileExists(t, fsutil.BackupPath(path))

	require.ErrorIs(t, fsutil.RestoreBackup(ctx, path), fsutil.ErrNotFound)
}
