package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/snipsync/pkg/docs"
	"github.com/yaklabco/snipsync/pkg/fix"
)

// FormatCheck formats one snippet verdict as "path:line  status  source".
// path is the display path of the Markdown file.
func (s *Styles) FormatCheck(path string, check docs.Check) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d", s.Path.Render(path), check.Snippet.Line)

	source := check.Snippet.Source
	if check.Snippet.Region != "" {
		source += "#" + check.Snippet.Region
	}

	builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		location,
		s.FormatStatus(check.Status),
		s.Source.Render(source),
	))

	if check.Err != nil {
		builder.WriteString("    " + s.Detail.Render(check.Err.Error()) + "\n")
	}
	return builder.String()
}

// FormatStatus returns a styled status word.
func (s *Styles) FormatStatus(status docs.Status) string {
	switch status {
	case docs.StatusCurrent:
		return s.Current.Render(status.String())
	case docs.StatusStale:
		return s.Stale.Render(status.String())
	case docs.StatusError:
		return s.Failed.Render(status.String())
	default:
		return status.String()
	}
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, problems int) string {
	header := s.Path.Render(path)
	if problems > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", problems, plural(problems, "problem", "problems")))
	}
	return header
}

// FormatDiff renders a diff with a git header naming path.
func (s *Styles) FormatDiff(path string, diff *fix.Diff) string {
	if !diff.HasChanges() {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(s.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", path, path)) + "\n")
	builder.WriteString(s.DiffRemove.Render("--- a/"+path) + "\n")
	builder.WriteString(s.DiffAdd.Render("+++ b/"+path) + "\n")

	for _, line := range diff.Lines() {
		var styled string
		switch line.Kind {
		case fix.DiffLineHeader:
			if !strings.HasPrefix(line.Content, "@@") {
				continue
			}
			styled = s.DiffHunk.Render(line.Content)
		case fix.DiffLineAdd:
			styled = s.DiffAdd.Render(line.Content)
		case fix.DiffLineRemove:
			styled = s.DiffRemove.Render(line.Content)
		case fix.DiffLineContext:
			styled = s.DiffContext.Render(line.Content)
		}
		builder.WriteString(styled + "\n")
	}
	return builder.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
