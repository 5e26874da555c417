package workspace_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/snipsync/pkg/workspace"
)

type mapReader map[string]string

func (m mapReader) ReadFile(_ context.Context, path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, errors.New("missing " + path)
	}
	return []byte(content), nil
}

func TestBufferID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  workspace.BufferID
	}{
		{"region", "main.go@alpha", workspace.NewBufferID("main.go", "alpha")},
		{"whole document", "main.go", workspace.NewBufferID("main.go", "")},
		{"at sign in path", "/tmp/a@b/main.go@alpha", workspace.NewBufferID("/tmp/a@b/main.go", "alpha")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := workspace.ParseBufferID(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestBufferID_EqualityIsLiteral(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t,
		workspace.NewBufferID("Main.go", "alpha"),
		workspace.NewBufferID("main.go", "alpha"))
	assert.NotEqual(t,
		workspace.NewBufferID("./main.go", "alpha"),
		workspace.NewBufferID("main.go", "alpha"))
	assert.True(t, workspace.NewBufferID("main.go", "").IsWholeDocument())
}

func TestDocument_Resolve(t *testing.T) {
	t.Parallel()

	files := mapReader{"disk.go": "package disk\n"}
	ctx := context.Background()

	text, err := workspace.NewDocument("inline.go", "package inline\n").Resolve(ctx, files)
	require.NoError(t, err)
	assert.Equal(t, "package inline\n", text)

	text, err = workspace.NewDiskDocument("disk.go").Resolve(ctx, files)
	require.NoError(t, err)
	assert.Equal(t, "package disk\n", text)

	_, err = workspace.NewDiskDocument("gone.go").Resolve(ctx, files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone.go")

	text, err = workspace.Document{Name: "disk.go"}.Resolve(ctx, files)
	require.NoError(t, err)
	assert.Equal(t, "package disk\n", text)
}

func TestWorkspace_Lookups(t *testing.T) {
	t.Parallel()

	ws := workspace.New(
		[]workspace.Document{workspace.NewDocument("a.go", "a")},
		[]workspace.Buffer{
			{ID: workspace.NewBufferID("b.go", "x"), Content: "1"},
			{ID: workspace.NewBufferID("a.go", "y"), Content: "2"},
			{ID: workspace.NewBufferID("b.go", "z"), Content: "3"},
		},
	)

	assert.Equal(t, []string{"a.go", "b.go"}, ws.DocumentNames())

	forB := ws.BuffersFor("b.go")
	require.Len(t, forB, 2)
	assert.Equal(t, "1", forB[0].Content)
	assert.Equal(t, "3", forB[1].Content)

	buf, ok := ws.Buffer(workspace.NewBufferID("a.go", "y"))
	require.True(t, ok)
	assert.Equal(t, "2", buf.Content)

	_, ok = ws.Document("b.go")
	assert.False(t, ok)
}

func TestWorkspace_CloneDoesNotAlias(t *testing.T) {
	t.Parallel()

	ws := workspace.New(nil, []workspace.Buffer{{Content: "x"}})
	clone := ws.Clone()
	clone.Buffers[0].Content = "y"

	assert.Equal(t, "x", ws.Buffers[0].Content)
	assert.Nil(t, (*workspace.Workspace)(nil).Clone())
}

func TestEncode_JSONShape(t *testing.T) {
	t.Parallel()

	ws := workspace.New(
		[]workspace.Document{
			workspace.NewDocument("main.go", "package main\n"),
			workspace.NewDiskDocument("lib.go"),
		},
		[]workspace.Buffer{{
			ID:               workspace.NewBufferID("main.go", "alpha"),
			Content:          "x := 1",
			Position:         2,
			AbsolutePosition: 40,
		}},
	)

	var out bytes.Buffer
	require.NoError(t, workspace.Encode(&out, ws, workspace.FormatJSON, true))

	want := `{"documents":[{"name":"main.go","text":"package main\n"},{"name":"lib.go"}],` +
		`"buffers":[{"id":{"documentName":"main.go","regionLabel":"alpha"},` +
		`"content":"x := 1","position":2,"absolutePosition":40}]}` + "\n"
	assert.Equal(t, want, out.String())
}

func TestDecode_JSON(t *testing.T) {
	t.Parallel()

	input := `{"documents":[{"name":"main.go","text":""},{"name":"lib.go"}],` +
		`"buffers":[{"id":{"documentName":"main.go","regionLabel":"alpha"},"content":"x","position":1}]}`

	ws, err := workspace.Decode([]byte(input), workspace.FormatJSON)
	require.NoError(t, err)
	require.Len(t, ws.Documents, 2)

	text, ok := ws.Documents[0].InlineText()
	assert.True(t, ok, "empty text is still inline")
	assert.Empty(t, text)

	_, ok = ws.Documents[1].InlineText()
	assert.False(t, ok, "absent text means on disk")
	assert.Equal(t, workspace.DiskSource{Path: "lib.go"}, ws.Documents[1].Source)

	require.Len(t, ws.Buffers, 1)
	assert.Equal(t, workspace.NewBufferID("main.go", "alpha"), ws.Buffers[0].ID)
	assert.Equal(t, 1, ws.Buffers[0].Position)
}

func TestDecodeRequest_Envelope(t *testing.T) {
	t.Parallel()

	input := `{"workspace":{"documents":[],"buffers":[{"id":{"documentName":"a.go","regionLabel":"r"},"content":"c"}]},` +
		`"activeBufferId":"a.go@r"}`

	req, err := workspace.DecodeRequest([]byte(input))
	require.NoError(t, err)
	assert.True(t, req.HasActive)
	assert.Equal(t, workspace.NewBufferID("a.go", "r"), req.ActiveBufferID)
	require.Len(t, req.Workspace.Buffers, 1)
	assert.Equal(t, "c", req.Workspace.Buffers[0].Content)
}

func TestDecode_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := workspace.Decode([]byte(`{"documents": [`), workspace.FormatJSON)
	require.ErrorIs(t, err, workspace.ErrInvalidJSON)
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	ws := workspace.New(
		[]workspace.Document{
			workspace.NewDocument("main.go", "package main\n"),
			workspace.NewDiskDocument("lib.go"),
		},
		[]workspace.Buffer{{ID: workspace.NewBufferID("main.go", "alpha"), Content: "x"}},
	)

	var out bytes.Buffer
	require.NoError(t, workspace.Encode(&out, ws, workspace.FormatYAML, false))
	assert.Contains(t, out.String(), "documentName: main.go")
	assert.Contains(t, out.String(), "regionLabel: alpha")

	decoded, err := workspace.Decode(out.Bytes(), workspace.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, ws, decoded)
}
