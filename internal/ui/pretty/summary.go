package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/snipsync/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 stale, 1 error in 14 snippets across 3 files, 2 synced".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	files := fmt.Sprintf("%d %s", stats.FilesProcessed, plural(stats.FilesProcessed, "file", "files"))
	snippets := fmt.Sprintf("%d %s", stats.Snippets, plural(stats.Snippets, "snippet", "snippets"))

	var synced string
	if stats.Synced > 0 {
		synced = ", " + s.Current.Render(fmt.Sprintf("%d synced", stats.Synced))
	}

	outstanding := stats.Stale - stats.Synced
	if outstanding <= 0 && stats.SnippetErrors == 0 && stats.FilesErrored == 0 {
		return s.Current.Render("All snippets up to date") +
			s.Dim.Render(fmt.Sprintf(" (%s in %s)", snippets, files)) + synced + "\n"
	}

	var parts []string
	if outstanding > 0 {
		parts = append(parts, s.Stale.Render(fmt.Sprintf("%d stale", outstanding)))
	}
	if errs := stats.SnippetErrors + stats.FilesErrored; errs > 0 {
		parts = append(parts, s.Failed.Render(fmt.Sprintf("%d %s", errs, plural(errs, "error", "errors"))))
	}

	return fmt.Sprintf("%s in %s across %s%s\n", strings.Join(parts, ", "), snippets, files, synced)
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, style func(...string) string, value int) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", style(strconv.Itoa(value))))
	}

	builder.WriteString("\n")
	builder.WriteString(s.Heading.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files checked", s.Value.Render, stats.FilesProcessed)
	if stats.FilesErrored > 0 {
		row("Files errored", s.Failed.Render, stats.FilesErrored)
	}
	if stats.FilesModified > 0 {
		row("Files modified", s.Current.Render, stats.FilesModified)
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped", s.Stale.Render, stats.FilesSkipped)
	}

	builder.WriteString("\n")
	row("Snippets", s.Value.Render, stats.Snippets)
	if stats.Stale > 0 {
		row("Stale", s.Stale.Render, stats.Stale)
	}
	if stats.Synced > 0 {
		row("Synced", s.Current.Render, stats.Synced)
	}
	if stats.SnippetErrors > 0 {
		row("Errors", s.Failed.Render, stats.SnippetErrors)
	}
	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0 || stats.SnippetErrors > 0:
		builder.WriteString(s.Failed.Render("Snippet check failed with errors"))
	case stats.Stale > stats.Synced:
		builder.WriteString(s.Stale.Render("Snippets are out of date"))
	default:
		builder.WriteString(s.Current.Render("Snippets are up to date"))
	}
	builder.WriteString("\n")

	return builder.String()
}
