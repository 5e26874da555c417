package fix

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the number of context lines to show around changes.
const contextLines = 3

// Diff is a unified diff between two versions of a document.
type Diff struct {
	// Path is the document name used in the diff headers.
	Path string

	// Unified is the patch text without the git header.
	Unified string

	// Additions is the number of lines added.
	Additions int

	// Deletions is the number of lines deleted.
	Deletions int
}

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged context line.
	DiffLineContext DiffLineKind = iota

	// DiffLineAdd is a line added in the modified version.
	DiffLineAdd

	// DiffLineRemove is a line removed from the original version.
	DiffLineRemove

	// DiffLineHeader is a file or hunk header.
	DiffLineHeader
)

// DiffLine is one classified line of a unified diff.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// GenerateDiff creates a unified diff between original and modified content.
// Returns nil if there are no changes.
func GenerateDiff(path string, original, modified []byte) (*Diff, error) {
	if string(original) == string(modified) {
		return nil, nil
	}

	name := strings.TrimPrefix(path, "/")
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(modified)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  contextLines,
	})
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", path, err)
	}
	if text == "" {
		return nil, nil
	}

	d := &Diff{Path: path, Unified: text}
	for _, line := range d.Lines() {
		switch line.Kind {
		case DiffLineAdd:
			d.Additions++
		case DiffLineRemove:
			d.Deletions++
		}
	}
	return d, nil
}

// Lines splits the patch into classified lines.
func (d *Diff) Lines() []DiffLine {
	if d == nil || d.Unified == "" {
		return nil
	}

	raw := strings.Split(strings.TrimSuffix(d.Unified, "\n"), "\n")
	lines := make([]DiffLine, 0, len(raw))
	for _, line := range raw {
		kind := DiffLineContext
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			kind = DiffLineHeader
		case strings.HasPrefix(line, "+"):
			kind = DiffLineAdd
		case strings.HasPrefix(line, "-"):
			kind = DiffLineRemove
		}
		lines = append(lines, DiffLine{Kind: kind, Content: line})
	}
	return lines
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String returns the diff in unified diff format (without the git header).
func (d *Diff) String() string {
	if d == nil {
		return ""
	}
	return d.Unified
}

// FullString returns the complete diff including the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.Unified
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && d.Unified != ""
}
