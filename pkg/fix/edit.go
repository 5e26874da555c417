// Package fix provides byte-range text edits and their application. It is
// the splicing layer under buffer inlining and docs synchronization.
package fix

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrInvalidRange = errors.New("invalid edit range")
	ErrOverlap      = errors.New("overlapping edits")
)

// TextEdit replaces the bytes [StartOffset, EndOffset) of a text with NewText.
type TextEdit struct {
	StartOffset int
	EndOffset   int
	NewText     string
}

// Delta returns how much the edit changes the length of the text.
func (e TextEdit) Delta() int {
	return len(e.NewText) - (e.EndOffset - e.StartOffset)
}

// Shift maps an offset in the text before the edit to the text after it.
// Offsets at or past EndOffset move by Delta; offsets inside the replaced
// range collapse to StartOffset.
func (e TextEdit) Shift(offset int) int {
	switch {
	case offset >= e.EndOffset:
		return offset + e.Delta()
	case offset > e.StartOffset:
		return e.StartOffset
	default:
		return offset
	}
}

// RangeError reports an edit that does not fit the text it targets.
type RangeError struct {
	Edit TextEdit

	// Len is the length of the targeted text.
	Len int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v [%d:%d] in text of length %d", ErrInvalidRange, e.Edit.StartOffset, e.Edit.EndOffset, e.Len)
}

func (e *RangeError) Unwrap() error {
	return ErrInvalidRange
}

// OverlapError reports two edits that touch the same bytes.
type OverlapError struct {
	Earlier TextEdit
	Later   TextEdit
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%v: [%d:%d] and [%d:%d]", ErrOverlap,
		e.Earlier.StartOffset, e.Earlier.EndOffset,
		e.Later.StartOffset, e.Later.EndOffset)
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlap
}

func (e TextEdit) fits(n int) error {
	if e.StartOffset < 0 || e.EndOffset < e.StartOffset || e.EndOffset > n {
		return &RangeError{Edit: e, Len: n}
	}
	return nil
}

// Splice applies a single edit to text. Everything outside the edit's range
// is preserved.
func Splice(text string, edit TextEdit) (string, error) {
	if err := edit.fits(len(text)); err != nil {
		return "", err
	}
	return text[:edit.StartOffset] + edit.NewText + text[edit.EndOffset:], nil
}
