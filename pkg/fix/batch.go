package fix

import (
	"bytes"
	"cmp"
	"slices"
)

// Batch collects edits against one text and applies them together. Offsets
// always refer to the original text, whatever order edits are added in.
type Batch struct {
	edits []TextEdit
}

// Replace queues replacing bytes [start, end) with text.
func (b *Batch) Replace(start, end int, text string) {
	b.edits = append(b.edits, TextEdit{StartOffset: start, EndOffset: end, NewText: text})
}

// Insert queues inserting text at offset.
func (b *Batch) Insert(offset int, text string) {
	b.Replace(offset, offset, text)
}

// Len returns the number of queued edits.
func (b *Batch) Len() int {
	return len(b.edits)
}

// Edits returns the queued edits ordered by position.
func (b *Batch) Edits() []TextEdit {
	sorted := slices.Clone(b.edits)
	slices.SortStableFunc(sorted, func(x, y TextEdit) int {
		return cmp.Or(cmp.Compare(x.StartOffset, y.StartOffset), cmp.Compare(x.EndOffset, y.EndOffset))
	})
	return sorted
}

// Apply returns content with every queued edit applied. Content is not
// modified. Edits that fall outside content or overlap fail the whole batch;
// adjacent edits and several insertions at one offset are allowed.
func (b *Batch) Apply(content []byte) ([]byte, error) {
	edits := b.Edits()
	if len(edits) == 0 {
		return content, nil
	}

	delta := 0
	for i, e := range edits {
		if err := e.fits(len(content)); err != nil {
			return nil, err
		}
		if i > 0 && e.StartOffset < edits[i-1].EndOffset {
			return nil, &OverlapError{Earlier: edits[i-1], Later: e}
		}
		delta += e.Delta()
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.Write(content[cursor:])
	return out.Bytes(), nil
}
