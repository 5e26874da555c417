// Package region pairs region markers into labeled spans and extracts their
// text as buffers.
package region

import (
	"errors"
	"fmt"

	"github.com/yaklabco/snipsync/pkg/trivia"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrUnbalanced is matched by every *UnbalancedError.
	ErrUnbalanced = errors.New("unbalanced region markers")

	// ErrRegionNotFound indicates no region carries the requested name.
	ErrRegionNotFound = errors.New("region not found")

	// ErrAmbiguousRegion indicates several regions share the requested name.
	ErrAmbiguousRegion = errors.New("ambiguous region name")
)

// UnbalancedError describes a start marker without an end or an end marker
// without a start.
type UnbalancedError struct {
	Document string
	Marker   trivia.Trivia
}

func (e *UnbalancedError) Error() string {
	what := "end marker without matching start"
	if e.Marker.Kind == trivia.KindRegionStart {
		what = "start marker without matching end"
	}
	if e.Document == "" {
		return fmt.Sprintf("%s at offset %d: %q", what, e.Marker.Span.Start, e.Marker.Text)
	}
	return fmt.Sprintf("%s: %s at offset %d: %q", e.Document, what, e.Marker.Span.Start, e.Marker.Text)
}

// Unwrap lets errors.Is match ErrUnbalanced.
func (e *UnbalancedError) Unwrap() error {
	return ErrUnbalanced
}

// Region is a matched start/end marker pair.
type Region struct {
	Document string
	Name     string
	Start    trivia.Trivia
	End      trivia.Trivia
}

// Label returns "<document>@<name>".
func (r Region) Label() string {
	return r.Document + "@" + r.Name
}

// ContentSpan is the text strictly between the two markers.
func (r Region) ContentSpan() trivia.Span {
	return trivia.Span{Start: r.Start.Span.End, End: r.End.Span.Start}
}

// Match pairs region markers with a last-in-first-out discipline: an end
// marker closes the most recently opened region. Trivia sharing a start
// offset are counted once. Regions are returned in the order their end
// markers appear.
func Match(items []trivia.Trivia) ([]Region, error) {
	seen := make(map[int]struct{}, len(items))
	var open []trivia.Trivia
	var regions []Region

	for _, item := range items {
		if item.Kind == trivia.KindOther {
			continue
		}
		if _, dup := seen[item.Span.Start]; dup {
			continue
		}
		seen[item.Span.Start] = struct{}{}

		switch item.Kind {
		case trivia.KindRegionStart:
			open = append(open, item)
		case trivia.KindRegionEnd:
			if len(open) == 0 {
				return nil, &UnbalancedError{Marker: item}
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			regions = append(regions, Region{Name: start.Name, Start: start, End: item})
		}
	}

	if len(open) > 0 {
		return nil, &UnbalancedError{Marker: open[len(open)-1]}
	}
	return regions, nil
}

// Lookup returns the single region called name.
func Lookup(regions []Region, name string) (Region, error) {
	var found []Region
	for _, r := range regions {
		if r.Name == name {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return Region{}, fmt.Errorf("%w: %q", ErrRegionNotFound, name)
	case 1:
		return found[0], nil
	default:
		return Region{}, fmt.Errorf("%w: %q matches %d regions", ErrAmbiguousRegion, name, len(found))
	}
}
