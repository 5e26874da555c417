// Package snippet normalizes extracted region text for display.
package snippet

import (
	"go/format"
	"strings"
)

// Formatter normalizes a code fragment. Fragments need not be complete
// compilable units.
type Formatter interface {
	Format(language, src string) (string, error)
}

// Compile-time interface checks.
var (
	_ Formatter = GoFormatter{}
	_ Formatter = TrimFormatter{}
	_ Formatter = (*LanguageFormatter)(nil)
)

// GoFormatter formats Go declaration or statement lists with gofmt rules.
// Fragments gofmt cannot parse are returned trimmed.
type GoFormatter struct{}

// Format implements Formatter.
func (GoFormatter) Format(_, src string) (string, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return "", nil
	}
	out, err := format.Source([]byte(trimmed))
	if err != nil {
		return TrimFormatter{}.Format("", trimmed)
	}
	return strings.TrimSpace(string(out)), nil
}

// TrimFormatter trims the fragment and strips trailing blanks on every line.
type TrimFormatter struct{}

// Format implements Formatter.
func (TrimFormatter) Format(_, src string) (string, error) {
	lines := strings.Split(strings.TrimSpace(src), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.Join(lines, "\n"), nil
}

// LanguageFormatter dispatches on the language name, using Fallback for
// languages without a dedicated formatter.
type LanguageFormatter struct {
	Formatters map[string]Formatter
	Fallback   Formatter
}

// Default returns gofmt for Go and trimming for everything else.
func Default() *LanguageFormatter {
	return &LanguageFormatter{
		Formatters: map[string]Formatter{"go": GoFormatter{}},
		Fallback:   TrimFormatter{},
	}
}

// Format implements Formatter.
func (f *LanguageFormatter) Format(language, src string) (string, error) {
	if formatter, ok := f.Formatters[language]; ok {
		return formatter.Format(language, src)
	}
	if f.Fallback != nil {
		return f.Fallback.Format(language, src)
	}
	return strings.TrimSpace(src), nil
}
