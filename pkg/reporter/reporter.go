// Package reporter renders snippet check and sync results.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/snipsync/pkg/docs"
	"github.com/yaklabco/snipsync/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of problems reported and any write error.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
//
//nolint:ireturn // Factory selects the implementation by format.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// problems returns the checks a report must surface: stale snippets that
// were not rewritten, and failures.
func problems(file runner.FileOutcome) []docs.Check {
	synced := make(map[int]bool, len(file.Applied))
	if file.Written {
		for _, c := range file.Applied {
			synced[c.Snippet.BodyStart] = true
		}
	}

	var out []docs.Check
	for _, c := range file.Checks {
		switch {
		case c.Status == docs.StatusError:
			out = append(out, c)
		case c.Status == docs.StatusStale && !synced[c.Snippet.BodyStart]:
			out = append(out, c)
		}
	}
	return out
}
