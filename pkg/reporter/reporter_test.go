package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/snipsync/pkg/docs"
	"github.com/yaklabco/snipsync/pkg/fix"
	"github.com/yaklabco/snipsync/pkg/reporter"
	"github.com/yaklabco/snipsync/pkg/runner"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{"", reporter.FormatText, false},
		{"text", reporter.FormatText, false},
		{"json", reporter.FormatJSON, false},
		{"diff", reporter.FormatDiff, false},
		{"sarif", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, format := range []reporter.Format{"", reporter.FormatText, reporter.FormatJSON, reporter.FormatDiff} {
		rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: format})
		require.NoError(t, err)
		assert.NotNil(t, rep)
	}

	_, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: "table"})
	require.Error(t, err)
}

func check(line int, source, region string, status docs.Status, err error) docs.Check {
	return docs.Check{
		Snippet: docs.Snippet{
			Line:      line,
			BodyStart: line * 10,
			Fence:     docs.Fence{Language: "go", Source: source, Region: region},
		},
		Status: status,
		Err:    err,
	}
}

func sampleResult(t *testing.T) *runner.Result {
	t.Helper()

	diff, err := fix.GenerateDiff("/work/README.md", []byte("a\nold\n"), []byte("a\nnew\n"))
	require.NoError(t, err)

	synced := check(3, "src/hello.go", "greet", docs.StatusStale, nil)
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path:    "/work/README.md",
				Checks:  []docs.Check{synced, check(9, "src/hello.go", "other", docs.StatusCurrent, nil)},
				Applied: []docs.Check{synced},
				Diff:    diff,
				Written: true,
			},
			{
				Path: "/work/docs/guide.md",
				Checks: []docs.Check{
					check(1, "../src/a.go", "", docs.StatusStale, nil),
					check(5, "../src/gone.go", "", docs.StatusError, errors.New("file not found")),
				},
			},
			{Path: "/work/docs/broken.md", Error: errors.New("bad fence")},
		},
		Stats: runner.Stats{
			FilesDiscovered: 3, FilesProcessed: 2, FilesErrored: 1, FilesModified: 1,
			Snippets: 4, Stale: 2, Synced: 1, SnippetErrors: 1,
		},
	}
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer: &buf, Color: "never", WorkingDir: "/work", ShowDiffs: true, ShowSummary: true,
	})

	n, err := rep.Report(context.Background(), sampleResult(t))
	require.NoError(t, err)
	assert.Equal(t, 3, n, "one stale, one snippet error, one file error")

	out := buf.String()
	assert.Contains(t, out, "docs/guide.md (2 problems)\n")
	assert.Contains(t, out, "  docs/guide.md:1  stale  ../src/a.go\n")
	assert.Contains(t, out, "  docs/guide.md:5  error  ../src/gone.go\n    file not found\n")
	assert.Contains(t, out, "docs/broken.md: error: bad fence\n")
	assert.Contains(t, out, "diff --git a/README.md b/README.md\n")
	assert.Contains(t, out, "-old\n+new\n")
	assert.NotContains(t, out, "README.md:3", "synced snippets are not problems")
	assert.Contains(t, out, "1 stale, 2 errors in 4 snippets across 2 files, 1 synced\n")
}

func TestTextReporter_Verbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", WorkingDir: "/work", Verbose: true})

	_, err := rep.Report(context.Background(), sampleResult(t))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "  README.md:9  current  src/hello.go#other\n")
	assert.NotContains(t, buf.String(), "diff --git")
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	n, err := rep.Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "No Markdown files to check.\n", buf.String())
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, WorkingDir: "/work", Compact: true})

	n, err := rep.Report(context.Background(), sampleResult(t))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "1", out.Version)
	require.Len(t, out.Files, 3)

	readme := out.Files[0]
	assert.Equal(t, "README.md", readme.Path)
	assert.True(t, readme.Modified)
	assert.Contains(t, readme.Diff, "+new")
	require.Len(t, readme.Snippets, 2)
	assert.Equal(t, "stale", readme.Snippets[0].Status)
	assert.True(t, readme.Snippets[0].Synced)
	assert.Equal(t, "greet", readme.Snippets[0].Region)

	guide := out.Files[1]
	assert.Equal(t, "file not found", guide.Snippets[1].Error)
	assert.Equal(t, "bad fence", out.Files[2].Error)
	assert.NotNil(t, out.Files[2].Snippets)

	assert.Equal(t, reporter.JSONSummary{
		FilesChecked: 2, FilesModified: 1, FilesErrored: 1,
		Snippets: 4, Stale: 2, Synced: 1, Errors: 1, Problems: 3,
	}, out.Summary)
}

func TestJSONReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := reporter.NewJSONReporter(reporter.Options{Writer: &buf}).Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.JSONEq(t, `{"version":"1","files":[],"summary":{"filesChecked":0,"filesModified":0,"filesSkipped":0,"filesErrored":0,"snippets":0,"stale":0,"synced":0,"errors":0,"problems":0}}`, buf.String())
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{Writer: &buf, Color: "never", WorkingDir: "/work", ShowSummary: true})

	n, err := rep.Report(context.Background(), sampleResult(t))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	out := buf.String()
	assert.Contains(t, out, "diff --git a/README.md b/README.md\n--- a/README.md\n+++ b/README.md\n")
	assert.Contains(t, out, "docs/broken.md: error: bad fence\n")
	assert.Contains(t, out, "1 file changed, 1 insertion(+), 1 deletion(-)\n")
	assert.NotContains(t, out, "guide.md")
}
