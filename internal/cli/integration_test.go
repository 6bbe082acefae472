package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xml1/internal/cli"
	"github.com/yaklabco/xml1/pkg/fsutil"
)

const (
	goodDoc   = "<feed version=\"1\">\n  <entry id=\"a\">hello</entry>\n</feed>\n"
	brokenDoc = "<a>\n  <b x=\"1 />\n</a>\n"
)

// execute runs the root command with a fresh config file and returns its
// outputs and error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), ".xml1.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("balance: true\n"), 0o644))

	cmd := cli.NewRootCommand(testInfo())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgFile, "--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestIntegration_CheckClean(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"feed.xml": goodDoc, "icon.svg": "<svg><path d=\"M0 0\"/></svg>"})

	stdout, _, err := execute(t, "", "check", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No problems found")
	assert.Equal(t, cli.ExitSuccess, cli.ExitCode(err))
}

func TestIntegration_CheckReportsSyntaxError(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"good.xml": goodDoc, "broken.xml": brokenDoc})

	stdout, _, err := execute(t, "", "check", dir)
	require.ErrorIs(t, err, cli.ErrScanFailed)
	assert.True(t, cli.Silent(err))
	assert.Equal(t, cli.ExitScanErrors, cli.ExitCode(err))

	assert.Contains(t, stdout, "broken.xml:2:8")
	assert.Contains(t, stdout, "syntax")
	assert.NotContains(t, stdout, "good.xml:")
}

func TestIntegration_CheckBalance(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"open.xml": "<a><b></b>\n"})

	stdout, _, err := execute(t, "", "check", dir)
	require.ErrorIs(t, err, cli.ErrScanFailed)
	assert.Contains(t, stdout, "1 element left open")

	_, _, err = execute(t, "", "check", "--no-balance", dir)
	require.NoError(t, err)
}

func TestIntegration_CheckJSON(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"good.xml": goodDoc, "broken.xml": brokenDoc})

	stdout, _, err := execute(t, "", "check", "--format", "json", "--engine", "scalar", dir)
	require.ErrorIs(t, err, cli.ErrScanFailed)

	var out struct {
		Engine string `json:"engine"`
		Files  []struct {
			Path    string `json:"path"`
			Finding *struct {
				Kind   string `json:"kind"`
				Offset *int   `json:"offset"`
				Line   int    `json:"line"`
				Column int    `json:"column"`
			} `json:"finding"`
		} `json:"files"`
		Summary struct {
			FilesScanned int `json:"filesScanned"`
			SyntaxErrors int `json:"syntaxErrors"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))

	assert.Equal(t, "scalar", out.Engine)
	assert.Equal(t, 2, out.Summary.FilesScanned)
	assert.Equal(t, 1, out.Summary.SyntaxErrors)

	var found bool
	for _, file := range out.Files {
		if filepath.Base(file.Path) != "broken.xml" {
			assert.Nil(t, file.Finding, file.Path)
			continue
		}
		found = true
		require.NotNil(t, file.Finding)
		assert.Equal(t, "syntax", file.Finding.Kind)
		require.NotNil(t, file.Finding.Offset)
		assert.Equal(t, 11, *file.Finding.Offset)
		assert.Equal(t, 2, file.Finding.Line)
		assert.Equal(t, 8, file.Finding.Column)
	}
	assert.True(t, found, "broken.xml missing from output")
}

func TestIntegration_CheckInvalidUsage(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"good.xml": goodDoc})

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "unknown format", args: []string{"check", "--format", "yaml", dir}, want: cli.ExitInvalidUsage},
		{name: "unknown flag", args: []string{"check", "--bogus", dir}, want: cli.ExitInvalidUsage},
		{name: "unknown engine", args: []string{"check", "--engine", "gpu", dir}, want: cli.ExitConfigError},
		{name: "negative jobs", args: []string{"check", "--jobs", "-1", dir}, want: cli.ExitConfigError},
		{name: "missing path", args: []string{"check", filepath.Join(dir, "missing.xml")}, want: cli.ExitIOError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, cli.ExitCode(err))
		})
	}
}

func TestIntegration_InvalidConfigFile(t *testing.T) {
	t.Parallel()

	cfgFile := filepath.Join(t.TempDir(), ".xml1.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("close_names: sloppy\n"), 0o644))

	cmd := cli.NewRootCommand(testInfo())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgFile, "check", t.TempDir()})

	err := cmd.Execute()
	require.ErrorIs(t, err, cli.ErrConfig)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestIntegration_EventsFromStdin(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, `<a x="1">hi</a>`, "events", "--engine", "scalar")
	require.NoError(t, err)

	want := "2\tPushElement a\n" +
		"8\tAttr x=\"1\"\n" +
		"11\tText \"hi\"\n" +
		"15\tPopElement a\n"
	assert.Equal(t, want, stdout)
}

func TestIntegration_EventsEnginesAgree(t *testing.T) {
	t.Parallel()

	doc := `<?xml version="1.0"?><svg w="1"><!-- c --><g/>text</svg>`

	scalar, _, err := execute(t, doc, "events", "--engine", "scalar", "--emit-comments", "-")
	require.NoError(t, err)
	vector, _, err := execute(t, doc, "events", "--engine", "simd", "--emit-comments", "-")
	require.NoError(t, err)

	assert.Equal(t, scalar, vector)
	assert.Contains(t, scalar, "Comment")
}

func TestIntegration_EventsSyntaxError(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"broken.xml": brokenDoc})

	stdout, stderr, err := execute(t, "", "events", filepath.Join(dir, "broken.xml"))
	require.ErrorIs(t, err, cli.ErrScanFailed)

	assert.Contains(t, stdout, "PushElement a")
	assert.Contains(t, stdout, "error:")
	assert.Contains(t, stderr, ":2:8")
}

func TestIntegration_EventsUnknownFormat(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "<a/>", "events", "--as", "json")
	require.ErrorIs(t, err, cli.ErrInvalidUsage)
}

func TestIntegration_BenchJSON(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"feed.xml": goodDoc})
	path := filepath.Join(dir, "feed.xml")

	stdout, _, err := execute(t, "", "bench", "--json", "-n", "3", path)
	require.NoError(t, err)

	var report struct {
		Kernel string `json:"kernel"`
		Files  []struct {
			Path    string `json:"path"`
			Results []struct {
				Engine     string `json:"engine"`
				Events     int    `json:"events"`
				Iterations int    `json:"iterations"`
			} `json:"results"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	assert.NotEmpty(t, report.Kernel)
	require.Len(t, report.Files, 1)
	assert.Equal(t, path, report.Files[0].Path)
	require.Len(t, report.Files[0].Results, 2)
	for _, res := range report.Files[0].Results {
		assert.Equal(t, 3, res.Iterations)
		assert.Equal(t, report.Files[0].Results[0].Events, res.Events)
	}
}

func TestIntegration_BenchSingleEngine(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"feed.xml": goodDoc})

	stdout, _, err := execute(t, "", "bench", "--engine", "scalar", "-n", "2", filepath.Join(dir, "feed.xml"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "scalar")
	assert.Contains(t, stdout, "kernel:")
}

func TestIntegration_Version(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "version=test")
	assert.Contains(t, stdout, "kernel=")
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".xml1.yml")

	_, _, err := execute(t, "", "init", "--output", path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
	assert.NoFileExists(t, path+fsutil.BackupSuffix)

	_, _, err = execute(t, "", "init", "--output", path)
	require.ErrorIs(t, err, cli.ErrInvalidUsage)

	_, _, err = execute(t, "", "init", "--output", path, "--force", "--full")
	require.NoError(t, err)
	assert.FileExists(t, path+fsutil.BackupSuffix)

	backup, err := os.ReadFile(path + fsutil.BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, content, backup)
}

func TestIntegration_InitJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "xml1.json")

	_, _, err := execute(t, "", "init", "--format", "json", "--output", path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(content))

	_, _, err = execute(t, "", "init", "--format", "toml", "--output", path)
	require.ErrorIs(t, err, cli.ErrInvalidUsage)
}
