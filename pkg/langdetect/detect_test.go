package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/snipsync/pkg/langdetect"
)

func TestForDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		document string
		content  string
		expected string
	}{
		{"go by extension", "main.go", "", "go"},
		{"absolute path", "/src/app/handler.go", "package app\n", "go"},
		{"python by extension", "tool.py", "print('hi')\n", "python"},
		{"csharp normalized", "Program.cs", "using System;\n\nclass Program {}\n", "csharp"},
		{"shell normalized", "run.sh", "echo hi\n", "bash"},
		{"empty name uses content", "", "#!/usr/bin/env python3\nprint(1)\n", "python"},
		{"nothing conclusive", "", "just words", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := langdetect.ForDocument(tt.document, []byte(tt.content))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"shebang bash", "#!/bin/bash\necho hello", "bash"},
		{"shebang python", "#!/usr/bin/env python3\nprint('hello')", "python"},
		{"go code", "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}", "go"},
		{"python code", "def foo():\n    pass\n\nif __name__ == '__main__':\n    foo()", "python"},
		{"json object", `{"key": "value", "number": 123}`, "json"},
		{"yaml content", "key: value\nother: 123\nlist:\n  - item1\n  - item2", "yaml"},
		{"sql query", "SELECT * FROM users WHERE id = 1;", "sql"},
		{"go statements without package", "x := compute(1)\nfmt.Println(x)", "go"},
		{"rust macros", "let mut x = 5;\nprintln!(\"{}\", x);", "rust"},
		{"javascript arrow", "const add = (a, b) => a + b;", "javascript"},
		{"python from import", "from os import path\nprint(path.sep)", "python"},
		{"html page", "<!DOCTYPE html>\n<html></html>", "html"},
		{"plain text fallback", "just some text without any code patterns", "text"},
		{"empty content fallback", "", "text"},
		{"whitespace only", " \n\t", langdetect.Text},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := langdetect.Detect([]byte(tt.content)); got != tt.expected {
				t.Errorf("Detect() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDetect_ShebangTakesPrecedence(t *testing.T) {
	t.Parallel()

	content := []byte("#!/bin/bash\ndef foo():\n    pass")
	if got := langdetect.Detect(content); got != "bash" {
		t.Errorf("Detect() = %q, want %q (shebang should take precedence)", got, "bash")
	}
}
