package region_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/snipsync/pkg/region"
	"github.com/yaklabco/snipsync/pkg/snippet"
	"github.com/yaklabco/snipsync/pkg/trivia"
	"github.com/yaklabco/snipsync/pkg/workspace"
)

func marker(kind trivia.Kind, start int, name string) trivia.Trivia {
	return trivia.Trivia{Kind: kind, Span: trivia.Span{Start: start, End: start + 1}, Name: name}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	open := func(at int, name string) trivia.Trivia { return marker(trivia.KindRegionStart, at, name) }
	closeAt := func(at int) trivia.Trivia { return marker(trivia.KindRegionEnd, at, "") }
	other := func(at int) trivia.Trivia { return marker(trivia.KindOther, at, "") }

	tests := []struct {
		name      string
		items     []trivia.Trivia
		wantNames []string
		wantErr   bool
	}{
		{"empty", nil, nil, false},
		{"only other trivia", []trivia.Trivia{other(0), other(5)}, nil, false},
		{"sequential", []trivia.Trivia{open(0, "a"), closeAt(2), open(4, "b"), closeAt(6)}, []string{"a", "b"}, false},
		{"nested closes inner first", []trivia.Trivia{open(0, "outer"), open(2, "inner"), closeAt(4), closeAt(6)}, []string{"inner", "outer"}, false},
		{"duplicates by position counted once", []trivia.Trivia{open(0, "a"), open(0, "a"), closeAt(2), closeAt(2)}, []string{"a"}, false},
		{"same name twice", []trivia.Trivia{open(0, "a"), closeAt(2), open(4, "a"), closeAt(6)}, []string{"a", "a"}, false},
		{"dangling start", []trivia.Trivia{open(0, "a"), open(2, "b"), closeAt(4)}, nil, true},
		{"end without start", []trivia.Trivia{closeAt(0), open(2, "a"), closeAt(4)}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			regions, err := region.Match(tt.items)
			if tt.wantErr {
				require.ErrorIs(t, err, region.ErrUnbalanced)
				var unbalanced *region.UnbalancedError
				require.ErrorAs(t, err, &unbalanced)
				return
			}

			require.NoError(t, err)
			var names []string
			for _, r := range regions {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	regions := []region.Region{{Name: "a"}, {Name: "b"}, {Name: "b"}}

	got, err := region.Lookup(regions, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)

	_, err = region.Lookup(regions, "b")
	require.ErrorIs(t, err, region.ErrAmbiguousRegion)

	_, err = region.Lookup(regions, "c")
	require.ErrorIs(t, err, region.ErrRegionNotFound)
}

const alphaDoc = `package main

import "fmt"

func main() {
	//#region alpha
	var x = 1
	//#endregion
	fmt.Println(x)
}
`

func TestFinder_Find(t *testing.T) {
	t.Parallel()

	finder := &region.Finder{}
	regions, err := finder.Find("main.go", alphaDoc)
	require.NoError(t, err)
	require.Len(t, regions, 1)

	r := regions[0]
	assert.Equal(t, "alpha", r.Name)
	assert.Equal(t, "main.go@alpha", r.Label())

	span := r.ContentSpan()
	assert.Equal(t, "\tvar x = 1\n", alphaDoc[span.Start:span.End])
}

func TestFinder_Extract(t *testing.T) {
	t.Parallel()

	buffers, err := (&region.Finder{}).Extract(context.Background(), "main.go", alphaDoc)
	require.NoError(t, err)
	require.Len(t, buffers, 1)

	assert.Equal(t, workspace.NewBufferID("main.go", "alpha"), buffers[0].ID)
	assert.Equal(t, "var x = 1", buffers[0].Content)
	assert.Zero(t, buffers[0].Position)
}

func TestFinder_ExtractFormatsSnippets(t *testing.T) {
	t.Parallel()

	doc := "package p\n\nfunc f() {\n\t// #region messy\n\t\t\ty:=compute( 1,2 )\n\t\t_ = y\n\t// #endregion\n}\n"

	buffers, err := (&region.Finder{}).Extract(context.Background(), "p.go", doc)
	require.NoError(t, err)
	require.Len(t, buffers, 1)
	assert.Equal(t, "y := compute(1, 2)\n_ = y", buffers[0].Content)

	raw := &region.Finder{Formatter: snippet.TrimFormatter{}}
	buffers, err = raw.Extract(context.Background(), "p.go", doc)
	require.NoError(t, err)
	assert.Equal(t, "y:=compute( 1,2 )\n\t\t_ = y", buffers[0].Content)
}

func TestFinder_ExtractNestedInCloseOrder(t *testing.T) {
	t.Parallel()

	doc := strings.Join([]string{
		"package p",
		"",
		"func f() {",
		"\t//#region outer",
		"\ta := 1",
		"\t//#region inner",
		"\tb := 2",
		"\t//#endregion",
		"\t_ = a + b",
		"\t//#endregion",
		"}",
		"",
	}, "\n")

	buffers, err := (&region.Finder{}).Extract(context.Background(), "p.go", doc)
	require.NoError(t, err)
	require.Len(t, buffers, 2)

	assert.Equal(t, "inner", buffers[0].ID.RegionLabel)
	assert.Equal(t, "b := 2", buffers[0].Content)
	assert.Equal(t, "outer", buffers[1].ID.RegionLabel)
	assert.Contains(t, buffers[1].Content, "//#region inner")
	assert.Contains(t, buffers[1].Content, "_ = a + b")
}

func TestFinder_ExtractNoMarkers(t *testing.T) {
	t.Parallel()

	buffers, err := (&region.Finder{}).Extract(context.Background(), "p.go", "package p\n")
	require.NoError(t, err)
	assert.Empty(t, buffers)
}

func TestFinder_ExtractDuplicateNames(t *testing.T) {
	t.Parallel()

	doc := "//#region a\nx := 1\n//#endregion\n//#region a\ny := 2\n//#endregion\n"
	buffers, err := (&region.Finder{}).Extract(context.Background(), "p.go", doc)
	require.NoError(t, err)
	require.Len(t, buffers, 2)
	assert.Equal(t, buffers[0].ID, buffers[1].ID)
	assert.Equal(t, "x := 1", buffers[0].Content)
	assert.Equal(t, "y := 2", buffers[1].Content)
}

func TestFinder_UnbalancedFails(t *testing.T) {
	t.Parallel()

	doc := "package p\n\n//#region dangling\nvar x = 1\n"
	_, err := (&region.Finder{}).Extract(context.Background(), "p.go", doc)
	require.Error(t, err)
	require.ErrorIs(t, err, region.ErrUnbalanced)

	var unbalanced *region.UnbalancedError
	require.True(t, errors.As(err, &unbalanced))
	assert.Equal(t, "p.go", unbalanced.Document)
	assert.Contains(t, err.Error(), "start marker without matching end")
}

func TestFinder_NonGoDocument(t *testing.T) {
	t.Parallel()

	doc := "def main():\n    # #region body\n    print('hi')   \n    # #endregion\n"
	buffers, err := (&region.Finder{}).Extract(context.Background(), "tool.py", doc)
	require.NoError(t, err)
	require.Len(t, buffers, 1)
	assert.Equal(t, "print('hi')", buffers[0].Content)
}

func TestFinder_InconclusiveName(t *testing.T) {
	t.Parallel()

	doc := "// #region alpha\ndef f():\n    pass\n// #endregion\n"

	regions, err := (&region.Finder{}).Find("notes", doc)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "alpha", regions[0].Name)

	buffers, err := (&region.Finder{}).Extract(context.Background(), "notes", doc)
	require.NoError(t, err)
	require.Len(t, buffers, 1)
	assert.Equal(t, workspace.NewBufferID("notes", "alpha"), buffers[0].ID)
	assert.Contains(t, buffers[0].Content, "pass")
}

func TestFinder_ForDocumentPinsScanner(t *testing.T) {
	t.Parallel()

	base := &region.Finder{}
	pinned := base.ForDocument("doc", "//#region a\nx := 1\n//#endregion\n")
	assert.IsType(t, &trivia.GoScanner{}, pinned.Scanner)
	assert.Nil(t, base.Scanner, "the receiver is not modified")

	custom := &trivia.LineScanner{Prefixes: []string{";"}}
	assert.Same(t, custom, (&region.Finder{Scanner: custom}).ForDocument("p.go", "").Scanner)
}

func TestFinder_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&region.Finder{}).Extract(ctx, "p.go", alphaDoc)
	require.ErrorIs(t, err, context.Canceled)
}
