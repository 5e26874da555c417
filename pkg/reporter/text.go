package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/snipsync/internal/ui/pretty"
	"github.com/yaklabco/snipsync/pkg/runner"
)

// TextReporter formats results as styled terminal output grouped by file.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Current.Render("No Markdown files to check."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.Path.Render(path),
				r.styles.Failed.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			total++
			continue
		}

		found := problems(file)
		total += len(found)

		listed := found
		if r.opts.Verbose {
			listed = file.Checks
		}

		if len(listed) > 0 {
			fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(found)))
			for _, check := range listed {
				fmt.Fprint(r.bw, r.styles.FormatCheck(path, check))
			}
		}

		if file.Skipped {
			fmt.Fprintf(r.bw, "  %s\n", r.styles.Stale.Render("skipped: "+file.SkipReason))
		}

		if r.opts.ShowDiffs && file.Diff.HasChanges() {
			fmt.Fprint(r.bw, r.styles.FormatDiff(path, file.Diff))
		}

		if len(listed) > 0 || file.Diff.HasChanges() {
			fmt.Fprintln(r.bw)
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}
	return total, nil
}
