// Package pretty renders snippet checks, diffs, and run summaries for the
// terminal with Lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles holds one renderer per element of snipsync's terminal output.
type Styles struct {
	// Snippet statuses.
	Current lipgloss.Style
	Stale   lipgloss.Style
	Failed  lipgloss.Style

	// Check lines.
	Path   lipgloss.Style
	Source lipgloss.Style
	Detail lipgloss.Style
	Dim    lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	// Summary block.
	Heading lipgloss.Style
	Value   lipgloss.Style
}

// ANSI 256 palette indexes.
const (
	colorGreen  = "10"
	colorRed    = "9"
	colorYellow = "11"
	colorCyan   = "14"
	colorGray   = "8"
)

// NewStyles returns colored styles, or styles that render text unchanged
// when colorEnabled is false.
func NewStyles(colorEnabled bool) *Styles {
	style := func(color string, bold bool) lipgloss.Style {
		s := lipgloss.NewStyle()
		if !colorEnabled {
			return s
		}
		if color != "" {
			s = s.Foreground(lipgloss.Color(color))
		}
		return s.Bold(bold)
	}

	return &Styles{
		Current: style(colorGreen, true),
		Stale:   style(colorYellow, true),
		Failed:  style(colorRed, true),

		Path:   style("", true),
		Source: style(colorCyan, false),
		Detail: style("", false),
		Dim:    style(colorGray, false),

		DiffHeader:  style("", true),
		DiffHunk:    style(colorCyan, false),
		DiffAdd:     style(colorGreen, false),
		DiffRemove:  style(colorRed, false),
		DiffContext: style(colorGray, false),

		Heading: style("", true),
		Value:   style("", false),
	}
}

// IsColorEnabled resolves a --color mode for writer. "always" and "never"
// are absolute; anything else means auto, which colors only terminals and
// honors NO_COLOR.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
