// Package trivia classifies the comments of a source document into region
// markers and ordinary trivia.
package trivia

import (
	"strings"
	"unicode"
)

// Kind classifies a trivia record.
type Kind uint8

const (
	KindOther Kind = iota
	KindRegionStart
	KindRegionEnd
)

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindRegionStart:
		return "region-start"
	case KindRegionEnd:
		return "region-end"
	default:
		return "other"
	}
}

// Span is a byte range [Start, End) in a document.
type Span struct {
	Start int
	End   int
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether offset lies within the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Trivia is one comment of a document.
type Trivia struct {
	Kind Kind

	// Span is the full span. A comment alone on its line covers the line's
	// indentation through its newline; otherwise just the comment.
	Span Span

	// Text is the raw comment text including delimiters.
	Text string

	// Name is the inline argument of a region-start marker.
	Name string
}

// Markers holds the keywords that open and close a region.
type Markers struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// DefaultMarkers returns the #region / #endregion keywords.
func DefaultMarkers() Markers {
	return Markers{Start: "#region", End: "#endregion"}
}

func (m Markers) orDefault() Markers {
	def := DefaultMarkers()
	if m.Start == "" {
		m.Start = def.Start
	}
	if m.End == "" {
		m.End = def.End
	}
	return m
}

// Classify inspects a comment body (delimiters removed) and reports whether
// it is a region marker. For start markers the trimmed name is returned.
func (m Markers) Classify(body string) (Kind, string) {
	m = m.orDefault()
	body = strings.TrimSpace(body)

	if _, ok := cutKeyword(body, m.End); ok {
		return KindRegionEnd, ""
	}
	if rest, ok := cutKeyword(body, m.Start); ok {
		return KindRegionStart, strings.TrimSpace(rest)
	}
	return KindOther, ""
}

// cutKeyword strips keyword from body when it is followed by whitespace or
// the end of the body.
func cutKeyword(body, keyword string) (string, bool) {
	rest, ok := strings.CutPrefix(body, keyword)
	if !ok {
		return "", false
	}
	if rest != "" && !unicode.IsSpace(rune(rest[0])) {
		return "", false
	}
	return rest, true
}

// lineSpan widens the comment at [start, end) to its whole line when nothing
// but blanks share the line with it.
func lineSpan(src []byte, start, end int) Span {
	lineStart := start
	for lineStart > 0 && isBlank(src[lineStart-1]) {
		lineStart--
	}
	if lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart = start
	}

	lineEnd := end
	for lineEnd < len(src) && isBlank(src[lineEnd]) {
		lineEnd++
	}
	switch {
	case lineEnd == len(src):
	case src[lineEnd] == '\n':
		lineEnd++
	case src[lineEnd] == '\r' && lineEnd+1 < len(src) && src[lineEnd+1] == '\n':
		lineEnd += 2
	default:
		return Span{Start: start, End: end}
	}
	return Span{Start: lineStart, End: lineEnd}
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}
