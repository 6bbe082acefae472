package reporter_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xml1/pkg/runner"
	"github.com/yaklabco/xml1/pkg/scan"
)

// scanTree writes files into a temporary directory and scans it.
func scanTree(t *testing.T, files map[string]string) (*runner.Result, string) {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	result, err := runner.New().Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Markdown:   true,
		Engine:     scan.EngineScalar,
		Balance:    true,
		Jobs:       1,
	})
	require.NoError(t, err)
	return result, dir
}

// mixedTree has one clean file and one of each finding kind.
func mixedTree() map[string]string {
	return map[string]string{
		"good.xml":   "<a x=\"1\"><b/></a>\n",
		"broken.xml": "<a>\n  <b x=\"1 />\n</a>\n",
		"open.svg":   "<svg><g></svg>",
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
