package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xml1/pkg/runner"
)

// tree creates files (relative, slash separated) with the given content under dir.
func tree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func relAll(t *testing.T, dir string, files []string) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"feed.rss":                 "<rss/>",
		"icons/logo.svg":           "<svg/>",
		"icons/LOGO2.SVG":          "<svg/>",
		"Info.plist":               "<plist/>",
		"README.md":                "# x",
		"docs/guide.markdown":      "# y",
		"src/main.go":              "package main",
		"vendor/lib/x.xml":         "<x/>",
		"node_modules/a/b/pkg.xml": "<x/>",
		".hidden.xml":              "<x/>",
		".git/config.xml":          "<x/>",
		"docs/.secret.xml":         "<x/>",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "default extensions",
			want: []string{"Info.plist", "feed.rss", "icons/LOGO2.SVG", "icons/logo.svg",
				"node_modules/a/b/pkg.xml", "vendor/lib/x.xml"},
		},
		{
			name: "markdown adds md files",
			opts: runner.Options{Extensions: []string{".svg"}, Markdown: true},
			want: []string{"README.md", "docs/guide.markdown", "icons/LOGO2.SVG", "icons/logo.svg"},
		},
		{
			name: "exclude globs",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**", "**/node_modules", "*.rss"}},
			want: []string{"Info.plist", "icons/LOGO2.SVG", "icons/logo.svg"},
		},
		{
			name: "include globs",
			opts: runner.Options{IncludeGlobs: []string{"icons/**"}},
			want: []string{"icons/LOGO2.SVG", "icons/logo.svg"},
		},
		{
			name: "explicit paths keep any extension and deduplicate",
			opts: runner.Options{Paths: []string{"src/main.go", "icons", "icons/logo.svg"}},
			want: []string{"icons/LOGO2.SVG", "icons/logo.svg", "src/main.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			tree(t, dir, files)

			opts := tt.opts
			opts.WorkingDir = dir

			got, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relAll(t, dir, got))
		})
	}
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"missing.xml"},
		WorkingDir: t.TempDir(),
	})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tree(t, dir, map[string]string{"a.xml": "<a/>"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outside := t.TempDir()
	tree(t, dir, map[string]string{"root.xml": "<a/>"})
	tree(t, outside, map[string]string{"linked/deep.xml": "<a/>", "file.xml": "<b/>"})

	if err := os.Symlink(filepath.Join(outside, "linked"), filepath.Join(dir, "dirlink")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(outside, "file.xml"), filepath.Join(dir, "filelink.xml")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "gone.xml"), filepath.Join(dir, "broken.xml")))

	got, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"filelink.xml", "root.xml"}, relAll(t, dir, got))

	got, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Contains(t, got, filepath.Join(outside, "linked", "deep.xml"))
}
