package runner_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xml1/pkg/config"
	"github.com/yaklabco/xml1/pkg/langdetect"
	"github.com/yaklabco/xml1/pkg/markup"
	"github.com/yaklabco/xml1/pkg/runner"
	"github.com/yaklabco/xml1/pkg/scan"
)

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasFailures())
	assert.NoError(t, result.Errors())
}

func TestRunner_Run_Findings(t *testing.T) {
	t.Parallel()

	for _, engine := range scan.Engines() {
		t.Run(engine.String(), func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			tree(t, dir, map[string]string{
				"good.xml":      "<?xml version=\"1.0\"?>\n<a x=\"1\"><b/>text</a>\n",
				"broken.xml":    "<a>\n  <b x=\"1 />\n</a>\n",
				"open.svg":      "<svg><g></svg>",
				"underflow.xml": "<a/>\n</a>",
				"page.html":     "<!DOCTYPE html><html><body><br></body></html>",
			})

			result, err := runner.New().Run(context.Background(), runner.Options{
				WorkingDir: dir,
				Extensions: []string{".xml", ".svg", ".html"},
				Engine:     engine,
				Balance:    true,
			})
			require.NoError(t, err)
			require.Len(t, result.Files, 5)

			byName := make(map[string]runner.FileOutcome)
			for _, f := range result.Files {
				byName[filepath.Base(f.Path)] = f
			}

			good := byName["good.xml"]
			assert.False(t, good.Failed())
			assert.Equal(t, langdetect.FormatXML, good.Format)
			assert.Equal(t, 3, good.Stats.Elements)
			assert.Equal(t, 1, good.Stats.Declarations)

			broken := byName["broken.xml"]
			require.NotNil(t, broken.Syntax)
			assert.ErrorIs(t, broken.Syntax, markup.ErrUnterminatedAttributeValue)
			assert.Equal(t, 2, broken.Position.Line)

			open := byName["open.svg"]
			assert.Equal(t, langdetect.FormatSVG, open.Format)
			require.NotNil(t, open.Balance)
			assert.Equal(t, 1, open.Balance.Depth)

			under := byName["underflow.xml"]
			require.NotNil(t, under.Balance)
			assert.True(t, under.Balance.Underflow)
			assert.Equal(t, markup.Position{Line: 2, Column: 5}, under.Position)

			page := byName["page.html"]
			assert.Equal(t, langdetect.FormatHTML, page.Format)
			assert.False(t, page.Failed(), "void elements are not balance errors in HTML")

			assert.Equal(t, 3, result.Stats.FilesFailed)
			assert.Equal(t, 1, result.Stats.SyntaxErrors)
			assert.Equal(t, 2, result.Stats.BalanceErrors)
			assert.True(t, result.HasFailures())
			assert.ErrorIs(t, result.Errors(), scan.ErrUnbalanced)
		})
	}
}

func TestRunner_Run_BalanceOff(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tree(t, dir, map[string]string{"open.xml": "<a><b>"})

	result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.False(t, result.Files[0].Failed())
	assert.Equal(t, 2, result.Files[0].Stats.Depth)
}

func TestRunner_Run_Markdown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := "# Keys\n\nPress <kbd>Ctrl</kbd>.\n\n<div class=\"x\">\n<p>ok</p>\n</div>\n\nAfter.\n"
	tree(t, dir, map[string]string{"README.md": doc})

	result, err := runner.New().Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Markdown:   true,
		Balance:    true,
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	f := result.Files[0]
	assert.Equal(t, langdetect.FormatMarkdown, f.Format)
	assert.False(t, f.Failed())
	assert.Equal(t, 3, f.Fragments)
	assert.Equal(t, 3, f.Stats.Elements)
	assert.Equal(t, 3, f.Stats.Closes)
}

func TestRunner_ScanDocument_MarkdownOffsets(t *testing.T) {
	t.Parallel()

	doc := "Intro\n\n<div x=1>\n</div>\n"
	outcome := runner.New().ScanDocument(context.Background(), "doc.md", doc, runner.Options{})

	require.NotNil(t, outcome.Syntax)
	assert.Equal(t, strings.Index(doc, "x=1")+2, outcome.Syntax.Offset)
	assert.Equal(t, markup.Position{Line: 3, Column: 8}, outcome.Position)
}

func TestRunner_Run_Duplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	same := "<a><b/></a>"
	tree(t, dir, map[string]string{
		"a.xml": same,
		"b.xml": same,
		"c.xml": same,
		"d.xml": "<other/>",
	})

	result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 4})
	require.NoError(t, err)
	require.Len(t, result.Files, 4)

	a := filepath.Join(dir, "a.xml")
	assert.Empty(t, result.Files[0].DuplicateOf)
	assert.Equal(t, a, result.Files[1].DuplicateOf)
	assert.Equal(t, a, result.Files[2].DuplicateOf)
	assert.Equal(t, 2, result.Files[1].Stats.Elements, "duplicates carry the findings of the primary copy")
	assert.Equal(t, 2, result.Stats.FilesScanned)
	assert.Equal(t, 2, result.Stats.FilesDuplicate)
	assert.Equal(t, 3, result.Stats.Scan.Elements)

	result, err = runner.New().Run(context.Background(), runner.Options{WorkingDir: dir, KeepDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Stats.FilesScanned)
	assert.Equal(t, 7, result.Stats.Scan.Elements)
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := make(map[string]string)
	for i := range 40 {
		files[fmt.Sprintf("f%02d.xml", i)] = fmt.Sprintf("<r n=\"%d\">%s</r>", i, strings.Repeat("<c/>", i))
	}
	files["bad.xml"] = "<r"
	tree(t, dir, files)

	serial, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 1})
	require.NoError(t, err)
	parallel, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 8})
	require.NoError(t, err)

	serial.Stats.Elapsed, parallel.Stats.Elapsed = 0, 0
	assert.Equal(t, serial.Stats, parallel.Stats)
	assert.Equal(t, serial.Files, parallel.Files)
}

func TestRunner_Run_EnginesAgree(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tree(t, dir, map[string]string{
		"a.xml": "<a>\u00a0text\u3000</a>",
		"b.svg": "<svg><!-- c --><path d=\"M0 0\"/></svg>",
		"c.xml": "<a></a b>",
	})

	results := make([]*runner.Result, 0, 2)
	for _, engine := range scan.Engines() {
		result, err := runner.New().Run(context.Background(), runner.Options{WorkingDir: dir, Engine: engine, Balance: true})
		require.NoError(t, err)
		result.Stats.Elapsed = 0
		results = append(results, result)
	}

	assert.Equal(t, results[0].Files, results[1].Files)
	assert.Equal(t, results[0].Stats, results[1].Stats)
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tree(t, dir, map[string]string{"a.xml": "<a/>"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New().Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Engine = config.EngineSIMD
	cfg.CloseNames = config.CloseNamesPermissive
	cfg.EmitComments = true
	cfg.Ignore = []string{"vendor/**"}
	cfg.Jobs = 3

	opts, err := runner.OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, scan.EngineSIMD, opts.Engine)
	assert.Equal(t, markup.Options{EmitComments: true, CloseNames: markup.CloseNamePermissive}, opts.Markup)
	assert.Equal(t, []string{"vendor/**"}, opts.ExcludeGlobs)
	assert.Equal(t, 3, opts.Jobs)
	assert.True(t, opts.Balance)

	cfg.Engine = "gpu"
	_, err = runner.OptionsFromConfig(cfg)
	require.Error(t, err)
}
