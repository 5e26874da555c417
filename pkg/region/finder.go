package region

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/snipsync/internal/logging"
	"github.com/yaklabco/snipsync/pkg/langdetect"
	"github.com/yaklabco/snipsync/pkg/snippet"
	"github.com/yaklabco/snipsync/pkg/trivia"
	"github.com/yaklabco/snipsync/pkg/workspace"
)

// Finder locates regions in documents and extracts them as buffers.
// The zero value uses the default markers and formatter.
type Finder struct {
	Markers trivia.Markers

	// Formatter normalizes extracted text. Nil means snippet.Default().
	Formatter snippet.Formatter

	// Scanner overrides language-based scanner selection when set.
	Scanner trivia.Scanner
}

// NewFinder creates a Finder with the given markers and formatter.
func NewFinder(markers trivia.Markers, formatter snippet.Formatter) *Finder {
	return &Finder{Markers: markers, Formatter: formatter}
}

// ForDocument returns a copy of f whose scanner is fixed to the one chosen
// for the document's name and current text. Use it when the same document
// is scanned again after edits, so edited content cannot change how markers
// are recognized.
func (f *Finder) ForDocument(name, text string) *Finder {
	pinned := *f
	if pinned.Scanner == nil {
		pinned.Scanner = trivia.ForDocument(name, []byte(text), f.Markers)
	}
	return &pinned
}

// Find returns the regions of the named document text in close order.
func (f *Finder) Find(name, text string) ([]Region, error) {
	src := []byte(text)

	scanner := f.Scanner
	if scanner == nil {
		scanner = trivia.ForDocument(name, src, f.Markers)
	}

	items, err := scanner.Scan(src)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}

	regions, err := Match(items)
	if err != nil {
		var unbalanced *UnbalancedError
		if errors.As(err, &unbalanced) {
			unbalanced.Document = name
		}
		return nil, err
	}

	for i := range regions {
		regions[i].Document = name
	}
	return regions, nil
}

// Extract returns one buffer per region of the named document, in close
// order. Each buffer holds the formatted text between the markers with
// Position zero. A document without markers yields no buffers.
func (f *Finder) Extract(ctx context.Context, name, text string) ([]workspace.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	regions, err := f.ForDocument(name, text).Find(name, text)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	language := langdetect.ForDocument(name, []byte(text))
	formatter := f.formatter()

	buffers := make([]workspace.Buffer, 0, len(regions))
	for _, r := range regions {
		span := r.ContentSpan()
		content, err := formatter.Format(language, strings.TrimSpace(text[span.Start:span.End]))
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", r.Label(), err)
		}

		logger.Debug("extracted region",
			logging.FieldRegion, r.Label(),
			logging.FieldOffset, span.Start,
			logging.FieldLength, span.Len(),
		)

		buffers = append(buffers, workspace.Buffer{
			ID:      workspace.NewBufferID(name, r.Name),
			Content: content,
		})
	}
	return buffers, nil
}

//nolint:ireturn // Formatter is the capability callers configure.
func (f *Finder) formatter() snippet.Formatter {
	if f.Formatter == nil {
		return snippet.Default()
	}
	return f.Formatter
}
