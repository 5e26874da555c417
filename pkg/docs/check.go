package docs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/snipsync/internal/logging"
	"github.com/yaklabco/snipsync/pkg/fsutil"
	"github.com/yaklabco/snipsync/pkg/langdetect"
	"github.com/yaklabco/snipsync/pkg/region"
	"github.com/yaklabco/snipsync/pkg/workspace"
)

// Status classifies a checked snippet.
type Status int

const (
	// StatusCurrent means the fence body matches its source.
	StatusCurrent Status = iota

	// StatusStale means the source changed since the fence was written.
	StatusStale

	// StatusError means the source or region could not be read.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusCurrent:
		return "current"
	case StatusStale:
		return "stale"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Check is the verdict for one snippet.
type Check struct {
	Snippet Snippet

	// SourcePath is the resolved location of Snippet.Source.
	SourcePath string

	// Want is the text the fence body should hold.
	Want string

	Status Status
	Err    error
}

// Checker compares snippets with the regions they quote.
type Checker struct {
	// Finder extracts regions. Nil means a zero Finder.
	Finder *region.Finder

	// Files reads source files. Nil means fsutil.Reader{}.
	Files workspace.FileReader
}

// Check verifies every snippet of file. Per-snippet failures are recorded
// on the Check; only cancellation is returned as an error.
func (c *Checker) Check(ctx context.Context, file *File) ([]Check, error) {
	logger := logging.FromContext(ctx).With(logging.FieldPath, file.Path)
	sources := make(map[string]*extracted)
	checks := make([]Check, 0, len(file.Snippets))

	for _, snip := range file.Snippets {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("check cancelled: %w", err)
		}

		check := Check{Snippet: snip, SourcePath: ResolveSource(file.Path, snip.Source)}

		src, ok := sources[check.SourcePath]
		if !ok {
			src = c.extract(ctx, check.SourcePath)
			sources[check.SourcePath] = src
		}

		check.Want, check.Err = src.want(snip.Region)
		switch {
		case check.Err != nil:
			check.Status = StatusError
		case normalize(snip.Body) != check.Want:
			check.Status = StatusStale
		}

		logger.Debug("checked snippet",
			logging.FieldSource, check.SourcePath,
			logging.FieldRegion, snip.Region,
			logging.FieldStatus, check.Status.String(),
		)
		checks = append(checks, check)
	}
	return checks, nil
}

// ResolveSource locates a fence's source relative to its Markdown file.
func ResolveSource(markdownPath, source string) string {
	if filepath.IsAbs(source) {
		return filepath.Clean(source)
	}
	return filepath.Join(filepath.Dir(markdownPath), filepath.FromSlash(source))
}

// extracted caches one source file's text and buffers.
type extracted struct {
	path    string
	text    string
	buffers []workspace.Buffer
	err     error
}

func (c *Checker) extract(ctx context.Context, path string) *extracted {
	files := c.Files
	if files == nil {
		files = fsutil.Reader{}
	}
	finder := c.Finder
	if finder == nil {
		finder = &region.Finder{}
	}

	out := &extracted{path: path}
	content, err := files.ReadFile(ctx, path)
	if err != nil {
		out.err = err
		return out
	}
	out.text = string(content)
	out.buffers, out.err = finder.Extract(ctx, path, out.text)
	return out
}

func (e *extracted) want(name string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	if name == "" {
		return normalize(e.text), nil
	}

	var found []workspace.Buffer
	for _, buf := range e.buffers {
		if buf.ID.RegionLabel == name {
			found = append(found, buf)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%s: %w: %q", e.path, region.ErrRegionNotFound, name)
	case 1:
		return normalize(found[0].Content), nil
	default:
		return "", fmt.Errorf("%s: %w: %q", e.path, region.ErrAmbiguousRegion, name)
	}
}

// normalize drops surrounding blank space and trailing blanks per line, so
// fence bodies compare equal to formatted region text.
func normalize(s string) string {
	lines := strings.Split(strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n")), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// Stale returns the stale checks.
func Stale(checks []Check) []Check {
	var out []Check
	for _, c := range checks {
		if c.Status == StatusStale {
			out = append(out, c)
		}
	}
	return out
}

// Errors joins the errors of failed checks, prefixed with their location.
func Errors(checks []Check) error {
	var errs []error
	for _, c := range checks {
		if c.Err != nil {
			errs = append(errs, fmt.Errorf("%s:%d: %w", c.Snippet.Path, c.Snippet.Line, c.Err))
		}
	}
	return errors.Join(errs...)
}

// Language returns the fence language, detected from the source when the
// fence does not declare one.
func (c Check) Language() string {
	if c.Snippet.Language != "" {
		return c.Snippet.Language
	}
	return langdetect.ForDocument(c.SourcePath, []byte(c.Want))
}
