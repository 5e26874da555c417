package inline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/snipsync/pkg/fsutil"
	"github.com/yaklabco/snipsync/pkg/inline"
	"github.com/yaklabco/snipsync/pkg/region"
	"github.com/yaklabco/snipsync/pkg/workspace"
)

const twoRegions = `package p

//#region a
var x = 1
//#endregion

//#region b
var y = 2
//#endregion
`

func transform(t *testing.T, ws *workspace.Workspace) *workspace.Workspace {
	t.Helper()
	out, err := (&inline.Transformer{}).Transform(context.Background(), ws)
	require.NoError(t, err)
	require.NotNil(t, out)
	return out
}

func docText(t *testing.T, ws *workspace.Workspace, name string) string {
	t.Helper()
	doc, ok := ws.Document(name)
	require.True(t, ok, "document %q missing", name)
	text, ok := doc.InlineText()
	require.True(t, ok, "document %q has no inline text", name)
	return text
}

func TestTransform_NilWorkspace(t *testing.T) {
	t.Parallel()

	out, err := (&inline.Transformer{}).Transform(context.Background(), nil)
	require.ErrorIs(t, err, inline.ErrNilWorkspace)
	assert.Nil(t, out)
}

func TestTransform_WholeDocumentReplacement(t *testing.T) {
	t.Parallel()

	contents := []string{"package q\n", "", "no markers here", "//#region dangling\n"}
	for _, content := range contents {
		ws := workspace.New(
			[]workspace.Document{workspace.NewDocument("main.go", twoRegions)},
			[]workspace.Buffer{
				{ID: workspace.NewBufferID("main.go", "a"), Content: "var x = 9"},
				{ID: workspace.NewBufferID("main.go", ""), Content: content, Position: 3},
			},
		)

		out := transform(t, ws)
		assert.Equal(t, content, docText(t, out, "main.go"))
		assert.Equal(t, 3, out.Buffers[1].AbsolutePosition)
		assert.Zero(t, out.Buffers[0].AbsolutePosition, "region buffers are not applied after a whole replacement")
	}
}

func TestTransform_LengthDrift(t *testing.T) {
	t.Parallel()

	aStart := strings.Index(twoRegions, "var x")
	bStart := strings.Index(twoRegions, "var y")

	// Input order is b then a; splicing follows appearance order.
	ws := workspace.New(
		[]workspace.Document{workspace.NewDocument("p.go", twoRegions)},
		[]workspace.Buffer{
			{ID: workspace.NewBufferID("p.go", "b"), Content: "var y = 2", Position: 2},
			{ID: workspace.NewBufferID("p.go", "a"), Content: "var x = 100000", Position: 4},
		},
	)

	out := transform(t, ws)
	text := docText(t, out, "p.go")

	assert.Equal(t, strings.Replace(twoRegions, "var x = 1\n", "var x = 100000\n", 1), text)

	drift := len("var x = 100000") - len("var x = 1")
	assert.Equal(t, aStart+4, out.Buffers[1].AbsolutePosition)
	assert.Equal(t, bStart+drift+2, out.Buffers[0].AbsolutePosition)
	assert.Equal(t, "var y = 2", text[bStart+drift:bStart+drift+len("var y = 2")])
}

func TestTransform_RoundTrip(t *testing.T) {
	t.Parallel()

	buffers, err := (&region.Finder{}).Extract(context.Background(), "p.go", twoRegions)
	require.NoError(t, err)
	require.Len(t, buffers, 2)

	ws := workspace.New([]workspace.Document{workspace.NewDocument("p.go", twoRegions)}, buffers)
	out := transform(t, ws)

	assert.Equal(t, twoRegions, docText(t, out, "p.go"))
	assert.Equal(t, strings.Index(twoRegions, "var x"), out.Buffers[0].AbsolutePosition)
	assert.Equal(t, strings.Index(twoRegions, "var y"), out.Buffers[1].AbsolutePosition)
}

func TestTransform_AppendsNewlineToContent(t *testing.T) {
	t.Parallel()

	ws := workspace.New(
		[]workspace.Document{workspace.NewDocument("p.go", twoRegions)},
		[]workspace.Buffer{{ID: workspace.NewBufferID("p.go", "a"), Content: "var x = 2\nvar z = 3"}},
	)

	text := docText(t, transform(t, ws), "p.go")
	assert.Contains(t, text, "//#region a\nvar x = 2\nvar z = 3\n//#endregion\n")
}

const nested = `package p

//#region outer
var a = 1
//#region inner
var b = 2
//#endregion
var c = 3
//#endregion
`

func TestTransform_Splicing(t *testing.T) {
	t.Parallel()

	singleLine := "package p\n\nvar z = /* #region alpha */1/* #endregion */ + 2\n"
	scriptish := "//#region a\nx := 1\n//#endregion\n//#region b\ny := 2\n//#endregion\n"

	tests := []struct {
		name    string
		doc     string
		text    string
		buffers []workspace.Buffer
		want    string
		// wantAt lists, per buffer, the text found at its absolute position.
		wantAt []string
	}{
		{
			name: "inner region only",
			doc:  "n.go",
			text: nested,
			buffers: []workspace.Buffer{
				{ID: workspace.NewBufferID("n.go", "inner"), Content: "var b = 20"},
			},
			want:   strings.Replace(nested, "var b = 2\n", "var b = 20\n", 1),
			wantAt: []string{"var b = 20"},
		},
		{
			name: "outer then inner",
			doc:  "n.go",
			text: nested,
			buffers: []workspace.Buffer{
				{ID: workspace.NewBufferID("n.go", "inner"), Content: "var b = 30"},
				{ID: workspace.NewBufferID("n.go", "outer"), Content: "var a = 10\n//#region inner\nvar b = 2\n//#endregion\n"},
			},
			want:   "package p\n\n//#region outer\nvar a = 10\n//#region inner\nvar b = 30\n//#endregion\n//#endregion\n",
			wantAt: []string{"var b = 30", "var a = 10"},
		},
		{
			name: "markers on one line",
			doc:  "z.go",
			text: singleLine,
			buffers: []workspace.Buffer{
				{ID: workspace.NewBufferID("z.go", "alpha"), Content: "5"},
			},
			want:   "package p\n\nvar z = /* #region alpha */5/* #endregion */ + 2\n",
			wantAt: []string{"5"},
		},
		{
			name: "content keeps its own newline",
			doc:  "p.go",
			text: twoRegions,
			buffers: []workspace.Buffer{
				{ID: workspace.NewBufferID("p.go", "a"), Content: "var x = 4\n"},
			},
			want:   strings.Replace(twoRegions, "var x = 1\n", "var x = 4\n", 1),
			wantAt: []string{"var x = 4"},
		},
		{
			name: "name without extension keeps its scanner across edits",
			doc:  "doc",
			text: scriptish,
			buffers: []workspace.Buffer{
				{ID: workspace.NewBufferID("doc", "b"), Content: "z := 3"},
				{ID: workspace.NewBufferID("doc", "a"), Content: "def f():\n    pass"},
			},
			want:   "//#region a\ndef f():\n    pass\n//#endregion\n//#region b\nz := 3\n//#endregion\n",
			wantAt: []string{"z := 3", "def f():"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ws := workspace.New([]workspace.Document{workspace.NewDocument(tt.doc, tt.text)}, tt.buffers)
			out := transform(t, ws)

			text := docText(t, out, tt.doc)
			assert.Equal(t, tt.want, text)
			require.Len(t, out.Buffers, len(tt.wantAt))
			for i, want := range tt.wantAt {
				pos := out.Buffers[i].AbsolutePosition
				require.LessOrEqual(t, pos+len(want), len(text))
				assert.Equal(t, want, text[pos:pos+len(want)], "buffer %s", out.Buffers[i].ID)
			}
		})
	}
}

func TestTransform_OuterEditRemovingInnerMarkers(t *testing.T) {
	t.Parallel()

	ws := workspace.New(
		[]workspace.Document{workspace.NewDocument("n.go", nested)},
		[]workspace.Buffer{
			{ID: workspace.NewBufferID("n.go", "outer"), Content: "var a = 1"},
			{ID: workspace.NewBufferID("n.go", "inner"), Content: "var b = 3"},
		},
	)

	out, err := (&inline.Transformer{}).Transform(context.Background(), ws)
	require.ErrorIs(t, err, region.ErrRegionNotFound)
	assert.Nil(t, out)

	var resolution *inline.ResolutionError
	require.ErrorAs(t, err, &resolution)
	assert.Equal(t, workspace.NewBufferID("n.go", "inner"), resolution.Buffer)
}

func TestTransform_DuplicateDocumentNames(t *testing.T) {
	t.Parallel()

	ws := workspace.New(
		[]workspace.Document{
			workspace.NewDocument("p.go", twoRegions),
			workspace.NewDocument("p.go", "package other\n"),
		},
		nil,
	)

	out, err := (&inline.Transformer{}).Transform(context.Background(), ws)
	require.ErrorIs(t, err, inline.ErrDuplicateDocument)
	assert.Contains(t, err.Error(), "p.go")
	assert.Nil(t, out)
}

func TestTransform_InputNotModified(t *testing.T) {
	t.Parallel()

	ws := workspace.New(
		[]workspace.Document{workspace.NewDocument("p.go", twoRegions)},
		[]workspace.Buffer{{ID: workspace.NewBufferID("p.go", "a"), Content: "var x = 5", AbsolutePosition: 999}},
	)
	before := ws.Clone()

	out := transform(t, ws)
	assert.Equal(t, before, ws)
	assert.NotEqual(t, 999, out.Buffers[0].AbsolutePosition, "absolute positions are always derived")
}

func TestTransform_Synthesis(t *testing.T) {
	t.Parallel()

	prefix := len("package main\n\nfunc main() {\n")

	ws := workspace.New(nil, []workspace.Buffer{
		{ID: workspace.NewBufferID("", ""), Content: `println("hi")`, Position: 2},
	})
	out := transform(t, ws)

	require.Len(t, out.Documents, 1)
	assert.Equal(t, inline.DefaultDocument, out.Documents[0].Name)
	text := docText(t, out, inline.DefaultDocument)
	assert.Equal(t, "package main\n\nfunc main() {\nprintln(\"hi\")\n}\n", text)
	assert.Equal(t, prefix+2, out.Buffers[0].AbsolutePosition)
	assert.Equal(t, byte('i'), text[out.Buffers[0].AbsolutePosition])
}

func TestTransform_SynthesisCustomTemplate(t *testing.T) {
	t.Parallel()

	transformer := &inline.Transformer{
		Template:        "#!/bin/sh\n{{content}}\n",
		DefaultDocument: "run.sh",
	}
	ws := workspace.New(nil, []workspace.Buffer{{ID: workspace.NewBufferID("", ""), Content: "echo hi"}})

	out, err := transformer.Transform(context.Background(), ws)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho hi\n", docText(t, out, "run.sh"))
	assert.Equal(t, len("#!/bin/sh\n"), out.Buffers[0].AbsolutePosition)

	named := workspace.New(nil, []workspace.Buffer{{ID: workspace.NewBufferID("demo.sh", ""), Content: "ls"}})
	out, err = transformer.Transform(context.Background(), named)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\nls\n", docText(t, out, "demo.sh"))
}

func TestTransform_InvalidTemplate(t *testing.T) {
	t.Parallel()

	for _, tmpl := range []string{"no placeholder", "{{content}}{{content}}"} {
		_, err := (&inline.Transformer{Template: tmpl}).Transform(context.Background(), workspace.New(nil, nil))
		require.ErrorIs(t, err, inline.ErrInvalidTemplate)
	}
}

func TestTransform_FileBacked(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "lib.go")
	require.NoError(t, os.WriteFile(path, []byte(twoRegions), 0o600))

	t.Run("unmodified without buffers", func(t *testing.T) {
		t.Parallel()

		out := transform(t, workspace.New([]workspace.Document{workspace.NewDiskDocument(path)}, nil))
		assert.Equal(t, twoRegions, docText(t, out, path))
	})

	t.Run("spliced by region buffer", func(t *testing.T) {
		t.Parallel()

		ws := workspace.New(
			[]workspace.Document{workspace.NewDiskDocument(path)},
			[]workspace.Buffer{{ID: workspace.NewBufferID(path, "b"), Content: "var y = 3"}},
		)
		out := transform(t, ws)
		assert.Equal(t, strings.Replace(twoRegions, "var y = 2", "var y = 3", 1), docText(t, out, path))
	})

	t.Run("buffer-only name read from disk", func(t *testing.T) {
		t.Parallel()

		ws := workspace.New(
			[]workspace.Document{workspace.NewDocument("other.go", "package other\n")},
			[]workspace.Buffer{{ID: workspace.NewBufferID(path, "a"), Content: "var x = 7"}},
		)
		out := transform(t, ws)

		require.Len(t, out.Documents, 2)
		assert.Equal(t, "other.go", out.Documents[0].Name)
		assert.Equal(t, path, out.Documents[1].Name)
		assert.Contains(t, docText(t, out, path), "var x = 7\n")
	})

	t.Run("relative names resolve against reader root", func(t *testing.T) {
		t.Parallel()

		transformer := &inline.Transformer{Files: fsutil.Reader{Root: dir}}
		ws := workspace.New([]workspace.Document{workspace.NewDiskDocument("lib.go")}, nil)

		out, err := transformer.Transform(context.Background(), ws)
		require.NoError(t, err)
		assert.Equal(t, twoRegions, docText(t, out, "lib.go"))
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(dir, "missing.go")
		_, err := (&inline.Transformer{}).Transform(context.Background(),
			workspace.New([]workspace.Document{workspace.NewDiskDocument(missing)}, nil))
		require.ErrorIs(t, err, fsutil.ErrNotFound)
		assert.Contains(t, err.Error(), missing)
	})
}

func TestTransform_Unbalanced(t *testing.T) {
	t.Parallel()

	doc := "package p\n\n//#region open\nvar x = 1\n"
	ws := workspace.New(
		[]workspace.Document{workspace.NewDocument("p.go", doc)},
		[]workspace.Buffer{{ID: workspace.NewBufferID("p.go", "open"), Content: "var x = 2"}},
	)

	out, err := (&inline.Transformer{}).Transform(context.Background(), ws)
	require.ErrorIs(t, err, region.ErrUnbalanced)
	assert.Nil(t, out)
}

func TestTransform_UntargetedDocumentsPassThrough(t *testing.T) {
	t.Parallel()

	dangling := "package b\n\n//#region dangling\nvar z = 1\n"
	ws := workspace.New(
		[]workspace.Document{
			workspace.NewDocument("a.go", twoRegions),
			workspace.NewDocument("b.go", dangling),
		},
		[]workspace.Buffer{{ID: workspace.NewBufferID("a.go", "a"), Content: "var x = 7"}},
	)

	out := transform(t, ws)
	assert.Equal(t, dangling, docText(t, out, "b.go"))
	assert.Contains(t, docText(t, out, "a.go"), "var x = 7\n")
}

func TestTransform_ResolutionErrors(t *testing.T) {
	t.Parallel()

	duplicated := "//#region a\nvar x = 1\n//#endregion\n//#region a\nvar y = 2\n//#endregion\n"

	tests := []struct {
		name    string
		ws      *workspace.Workspace
		wantErr error
	}{
		{
			name: "unknown region",
			ws: workspace.New(
				[]workspace.Document{workspace.NewDocument("p.go", twoRegions)},
				[]workspace.Buffer{{ID: workspace.NewBufferID("p.go", "missing"), Content: "x"}},
			),
			wantErr: region.ErrRegionNotFound,
		},
		{
			name: "ambiguous label",
			ws: workspace.New(
				[]workspace.Document{workspace.NewDocument("dup.go", duplicated)},
				[]workspace.Buffer{{ID: workspace.NewBufferID("dup.go", "a"), Content: "x"}},
			),
			wantErr: region.ErrAmbiguousRegion,
		},
		{
			name: "unknown document",
			ws: workspace.New(
				[]workspace.Document{workspace.NewDocument("p.go", twoRegions)},
				[]workspace.Buffer{{ID: workspace.NewBufferID("nowhere/missing.go", "a"), Content: "x"}},
			),
			wantErr: inline.ErrNoDocument,
		},
		{
			name: "several whole buffers without a document",
			ws: workspace.New(nil, []workspace.Buffer{
				{ID: workspace.NewBufferID("", ""), Content: "a"},
				{ID: workspace.NewBufferID("", ""), Content: "b"},
			}),
			wantErr: inline.ErrNoDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := (&inline.Transformer{}).Transform(context.Background(), tt.ws)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, out)

			var resolution *inline.ResolutionError
			require.ErrorAs(t, err, &resolution)
			assert.Equal(t, tt.ws.Buffers[0].ID, resolution.Buffer)
		})
	}
}

func TestTransform_MultipleDocuments(t *testing.T) {
	t.Parallel()

	var docs []workspace.Document
	var buffers []workspace.Buffer
	for _, name := range []string{"e.go", "a.go", "d.go", "b.go", "c.go"} {
		docs = append(docs, workspace.NewDocument(name, twoRegions))
		buffers = append(buffers, workspace.Buffer{
			ID:      workspace.NewBufferID(name, "b"),
			Content: "var y = \"" + name + "\"",
		})
	}
	ws := workspace.New(docs, buffers)

	transformer := &inline.Transformer{Jobs: 3}
	first, err := transformer.Transform(context.Background(), ws)
	require.NoError(t, err)

	for range 10 {
		again, err := transformer.Transform(context.Background(), ws)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	require.Len(t, first.Documents, 5)
	for i, doc := range first.Documents {
		assert.Equal(t, docs[i].Name, doc.Name)
		assert.Contains(t, docText(t, first, doc.Name), `var y = "`+doc.Name+`"`)
	}
}

func TestTransform_JoinsDocumentErrors(t *testing.T) {
	t.Parallel()

	ws := workspace.New(
		[]workspace.Document{
			workspace.NewDocument("one.go", twoRegions),
			workspace.NewDocument("two.go", "//#region open\n"),
			workspace.NewDocument("three.go", twoRegions),
		},
		[]workspace.Buffer{
			{ID: workspace.NewBufferID("one.go", "nope"), Content: "x"},
			{ID: workspace.NewBufferID("two.go", "open"), Content: "x"},
			{ID: workspace.NewBufferID("three.go", "a"), Content: "var x = 3"},
		},
	)

	_, err := (&inline.Transformer{Jobs: 2}).Transform(context.Background(), ws)
	require.ErrorIs(t, err, region.ErrRegionNotFound)
	require.ErrorIs(t, err, region.ErrUnbalanced)

	msg := err.Error()
	assert.Less(t, strings.Index(msg, "one.go"), strings.Index(msg, "two.go"), "errors keep document order")
}

func TestTransform_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ws := workspace.New([]workspace.Document{workspace.NewDocument("p.go", twoRegions)}, nil)
	_, err := (&inline.Transformer{}).Transform(ctx, ws)
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	tmpl, err := inline.ParseTemplate("")
	require.NoError(t, err)
	assert.Equal(t, inline.DefaultTemplate, tmpl.Render(inline.Placeholder))

	tmpl, err = inline.ParseTemplate("<{{content}}>")
	require.NoError(t, err)
	assert.Equal(t, "<x>", tmpl.Render("x"))
	assert.Equal(t, 1, tmpl.Offset())
}
