// Package workspace defines the documents and buffers exchanged between region
// extraction and buffer inlining.
package workspace

import (
	"strings"
)

// BufferID identifies a buffer: a whole document (empty RegionLabel) or a
// named region inside it. Comparison is literal on both fields.
type BufferID struct {
	DocumentName string `json:"documentName" yaml:"documentName"`
	RegionLabel  string `json:"regionLabel"  yaml:"regionLabel"`
}

// NewBufferID returns the id of region label in document name.
func NewBufferID(name, label string) BufferID {
	return BufferID{DocumentName: name, RegionLabel: label}
}

// ParseBufferID parses the "<document>@<region>" form produced by String.
// The split happens at the last '@' so document names may contain '@'.
func ParseBufferID(s string) BufferID {
	idx := strings.LastIndex(s, "@")
	if idx < 0 {
		return BufferID{DocumentName: s}
	}
	return BufferID{DocumentName: s[:idx], RegionLabel: s[idx+1:]}
}

// IsWholeDocument reports whether the id addresses an entire document.
func (id BufferID) IsWholeDocument() bool {
	return id.RegionLabel == ""
}

// String returns "<document>@<region>", or the bare document name for
// whole-document ids.
func (id BufferID) String() string {
	if id.RegionLabel == "" {
		return id.DocumentName
	}
	return id.DocumentName + "@" + id.RegionLabel
}

// Buffer is an addressable unit of text with a caller-relative cursor.
type Buffer struct {
	ID      BufferID `json:"id"      yaml:"id"`
	Content string   `json:"content" yaml:"content"`

	// Position is an offset into Content supplied by the caller.
	Position int `json:"position" yaml:"position"`

	// AbsolutePosition is Position translated into the owning document after
	// inlining. It is derived, never supplied; zero when unresolved.
	AbsolutePosition int `json:"absolutePosition" yaml:"absolutePosition"`
}

// Workspace is the set of documents and buffers handled in one pass.
type Workspace struct {
	Documents []Document `json:"documents" yaml:"documents"`
	Buffers   []Buffer   `json:"buffers"   yaml:"buffers"`
}

// New returns a workspace holding copies of docs and buffers.
func New(docs []Document, buffers []Buffer) *Workspace {
	ws := &Workspace{
		Documents: make([]Document, len(docs)),
		Buffers:   make([]Buffer, len(buffers)),
	}
	copy(ws.Documents, docs)
	copy(ws.Buffers, buffers)
	return ws
}

// Clone returns a copy whose slices do not alias the receiver's.
func (w *Workspace) Clone() *Workspace {
	if w == nil {
		return nil
	}
	return New(w.Documents, w.Buffers)
}

// Document returns the first document named name.
func (w *Workspace) Document(name string) (Document, bool) {
	if w == nil {
		return Document{}, false
	}
	for _, doc := range w.Documents {
		if doc.Name == name {
			return doc, true
		}
	}
	return Document{}, false
}

// BuffersFor returns the buffers targeting document name, in input order.
func (w *Workspace) BuffersFor(name string) []Buffer {
	if w == nil {
		return nil
	}
	var out []Buffer
	for _, buf := range w.Buffers {
		if buf.ID.DocumentName == name {
			out = append(out, buf)
		}
	}
	return out
}

// Buffer returns the first buffer with the given id.
func (w *Workspace) Buffer(id BufferID) (Buffer, bool) {
	if w == nil {
		return Buffer{}, false
	}
	for _, buf := range w.Buffers {
		if buf.ID == id {
			return buf, true
		}
	}
	return Buffer{}, false
}

// DocumentNames returns every document name the workspace refers to: its
// documents first, then names only reachable through buffers, each once.
func (w *Workspace) DocumentNames() []string {
	if w == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(w.Documents))
	var names []string
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for _, doc := range w.Documents {
		add(doc.Name)
	}
	for _, buf := range w.Buffers {
		add(buf.ID.DocumentName)
	}
	return names
}
