package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Format is a serialization format for workspaces.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// IsValid returns true if the format is supported.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// ErrInvalidJSON is returned when a JSON payload is not well formed.
var ErrInvalidJSON = errors.New("invalid JSON workspace")

// Request is a workspace submitted together with the buffer the caller is
// editing, as sent by execution front-ends.
type Request struct {
	Workspace      *Workspace
	ActiveBufferID BufferID
	HasActive      bool
}

// DecodeRequest decodes a JSON payload that is either a bare workspace or an
// envelope of the form {"workspace": {...}, "activeBufferId": "doc@region"}.
func DecodeRequest(data []byte) (*Request, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	payload := data
	req := &Request{}
	if env := gjson.GetBytes(data, "workspace"); env.IsObject() {
		payload = []byte(env.Raw)
		if active := gjson.GetBytes(data, "activeBufferId"); active.Exists() {
			req.ActiveBufferID = ParseBufferID(active.String())
			req.HasActive = true
		}
	}

	ws := &Workspace{}
	if err := json.Unmarshal(payload, ws); err != nil {
		return nil, fmt.Errorf("decode workspace: %w", err)
	}
	req.Workspace = ws
	return req, nil
}

// Decode reads a workspace in the given format. JSON input may be wrapped in
// a request envelope.
func Decode(data []byte, format Format) (*Workspace, error) {
	switch format {
	case FormatYAML:
		ws := &Workspace{}
		if err := yaml.Unmarshal(data, ws); err != nil {
			return nil, fmt.Errorf("decode workspace: %w", err)
		}
		return ws, nil
	case FormatJSON, "":
		req, err := DecodeRequest(data)
		if err != nil {
			return nil, err
		}
		return req.Workspace, nil
	default:
		return nil, fmt.Errorf("unsupported workspace format: %s", format)
	}
}

// Encode writes ws to w in the given format. JSON is indented unless compact.
func Encode(w io.Writer, ws *Workspace, format Format, compact bool) error {
	if ws == nil {
		ws = &Workspace{}
	}
	out := ws.normalized()

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return nil
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		if !compact {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported workspace format: %s", format)
	}
}

// normalized returns a copy with non-nil slices so empty lists serialize as [].
func (w *Workspace) normalized() *Workspace {
	out := w.Clone()
	if out.Documents == nil {
		out.Documents = []Document{}
	}
	if out.Buffers == nil {
		out.Buffers = []Buffer{}
	}
	return out
}
