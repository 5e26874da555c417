package snippet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/snipsync/pkg/snippet"
)

func TestGoFormatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"statement list", "\n\t\tx:=1\n\t\tfmt.Println( x )\n\t", "x := 1\nfmt.Println(x)"},
		{"declaration", "func add(a,b int) int {return a+b}", "func add(a, b int) int { return a + b }"},
		{"blank", " \n\t ", ""},
		{"unparseable falls back to trim", "  var x = 1;;; }  \n", "var x = 1;;; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := snippet.GoFormatter{}.Format("go", tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrimFormatter(t *testing.T) {
	t.Parallel()

	got, err := snippet.TrimFormatter{}.Format("python", "\n    x = 1   \n    y = 2\t\n\n")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n    y = 2", got)
}

func TestLanguageFormatter(t *testing.T) {
	t.Parallel()

	formatter := snippet.Default()

	got, err := formatter.Format("go", "x:=1")
	require.NoError(t, err)
	assert.Equal(t, "x := 1", got)

	got, err = formatter.Format("python", "x=1  ")
	require.NoError(t, err)
	assert.Equal(t, "x=1", got, "non-Go text is only trimmed")

	empty := &snippet.LanguageFormatter{}
	got, err = empty.Format("go", "  x:=1 ")
	require.NoError(t, err)
	assert.Equal(t, "x:=1", got)
}
