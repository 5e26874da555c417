package workspace

import (
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Source is where a document's text comes from: InlineSource or DiskSource.
type Source interface {
	source()
}

// InlineSource is text supplied with the document.
type InlineSource struct {
	Text string
}

// DiskSource is text read from Path when the document is resolved.
type DiskSource struct {
	Path string
}

func (InlineSource) source() {}
func (DiskSource) source()   {}

// FileReader is the filesystem capability used to resolve DiskSource documents.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// Document is a named text. It is never modified in place; inlining produces
// new documents.
type Document struct {
	Name   string
	Source Source
}

// NewDocument returns a document with inline text.
func NewDocument(name, text string) Document {
	return Document{Name: name, Source: InlineSource{Text: text}}
}

// NewDiskDocument returns a document whose text is read from the path its
// name denotes.
func NewDiskDocument(name string) Document {
	return Document{Name: name, Source: DiskSource{Path: name}}
}

// InlineText returns the document's text when it was supplied inline.
func (d Document) InlineText() (string, bool) {
	if src, ok := d.Source.(InlineSource); ok {
		return src.Text, true
	}
	return "", false
}

// Resolve returns the document text, reading it through files when the
// document has no inline text.
func (d Document) Resolve(ctx context.Context, files FileReader) (string, error) {
	switch src := d.Source.(type) {
	case InlineSource:
		return src.Text, nil
	case DiskSource:
		if files == nil {
			return "", fmt.Errorf("resolve %s: no file reader", d.Name)
		}
		content, err := files.ReadFile(ctx, src.Path)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", d.Name, err)
		}
		return string(content), nil
	case nil:
		return d.withDiskSource().Resolve(ctx, files)
	default:
		return "", fmt.Errorf("resolve %s: unknown source %T", d.Name, src)
	}
}

func (d Document) withDiskSource() Document {
	return Document{Name: d.Name, Source: DiskSource{Path: d.Name}}
}

// documentWire is the serialized form: absent text means "read from disk".
type documentWire struct {
	Name string  `json:"name"           yaml:"name"`
	Text *string `json:"text,omitempty" yaml:"text,omitempty"`
}

func (d Document) wire() documentWire {
	out := documentWire{Name: d.Name}
	if text, ok := d.InlineText(); ok {
		out.Text = &text
	}
	return out
}

func (w documentWire) document() Document {
	if w.Text == nil {
		return NewDiskDocument(w.Name)
	}
	return NewDocument(w.Name, *w.Text)
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.wire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	var w documentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*d = w.document()
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Document) MarshalYAML() (any, error) {
	return d.wire(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	var w documentWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	*d = w.document()
	return nil
}
