package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/snipsync/pkg/runner"
)

// schemaVersion identifies the JSON report layout.
const schemaVersion = "1"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path     string        `json:"path"`
	Snippets []JSONSnippet `json:"snippets"`
	Modified bool          `json:"modified,omitempty"`
	Skipped  string        `json:"skipped,omitempty"`
	Diff     string        `json:"diff,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// JSONSnippet represents one checked fence.
type JSONSnippet struct {
	Line     int    `json:"line"`
	Language string `json:"language,omitempty"`
	Source   string `json:"source"`
	Region   string `json:"region,omitempty"`
	Session  string `json:"session,omitempty"`
	Status   string `json:"status"`
	Synced   bool   `json:"synced,omitempty"`
	Error    string `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked  int `json:"filesChecked"`
	FilesModified int `json:"filesModified"`
	FilesSkipped  int `json:"filesSkipped"`
	FilesErrored  int `json:"filesErrored"`
	Snippets      int `json:"snippets"`
	Stale         int `json:"stale"`
	Synced        int `json:"synced"`
	Errors        int `json:"errors"`
	Problems      int `json:"problems"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.Problems, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: schemaVersion,
		Files:   make([]JSONFileResult, 0),
	}
	if result == nil {
		return output
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesChecked:  stats.FilesProcessed,
		FilesModified: stats.FilesModified,
		FilesSkipped:  stats.FilesSkipped,
		FilesErrored:  stats.FilesErrored,
		Snippets:      stats.Snippets,
		Stale:         stats.Stale,
		Synced:        stats.Synced,
		Errors:        stats.SnippetErrors,
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:     r.opts.displayPath(file.Path),
			Snippets: make([]JSONSnippet, 0, len(file.Checks)),
			Modified: file.Written,
			Skipped:  file.SkipReason,
		}
		if file.Diff.HasChanges() {
			fileResult.Diff = file.Diff.String()
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
			output.Summary.Problems++
		}
		output.Summary.Problems += len(problems(file))

		synced := make(map[int]bool, len(file.Applied))
		if file.Written {
			for _, c := range file.Applied {
				synced[c.Snippet.BodyStart] = true
			}
		}

		for _, check := range file.Checks {
			snip := JSONSnippet{
				Line:     check.Snippet.Line,
				Language: check.Snippet.Language,
				Source:   check.Snippet.Source,
				Region:   check.Snippet.Region,
				Session:  check.Snippet.Session,
				Status:   check.Status.String(),
				Synced:   synced[check.Snippet.BodyStart],
			}
			if check.Err != nil {
				snip.Error = check.Err.Error()
			}
			fileResult.Snippets = append(fileResult.Snippets, snip)
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}
