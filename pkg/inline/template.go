package inline

import (
	"errors"
	"fmt"
	"strings"
)

// Placeholder marks where buffer content goes in a program template.
const Placeholder = "{{content}}"

// DefaultTemplate wraps a snippet in a runnable Go main function.
const DefaultTemplate = "package main\n\nfunc main() {\n" + Placeholder + "\n}\n"

// DefaultDocument names a synthesized document whose buffer has no
// document name.
const DefaultDocument = "main.go"

// ErrInvalidTemplate indicates a template without exactly one placeholder.
var ErrInvalidTemplate = errors.New("invalid program template")

// Template is a parsed program skeleton.
type Template struct {
	prefix string
	suffix string
}

// ParseTemplate splits text around its single Placeholder. An empty text
// selects DefaultTemplate.
func ParseTemplate(text string) (Template, error) {
	if text == "" {
		text = DefaultTemplate
	}
	if n := strings.Count(text, Placeholder); n != 1 {
		return Template{}, fmt.Errorf("%w: %s appears %d times", ErrInvalidTemplate, Placeholder, n)
	}
	prefix, suffix, _ := strings.Cut(text, Placeholder)
	return Template{prefix: prefix, suffix: suffix}, nil
}

// Render embeds content verbatim.
func (t Template) Render(content string) string {
	return t.prefix + content + t.suffix
}

// Offset is where the content starts in a rendered document.
func (t Template) Offset() int {
	return len(t.prefix)
}
