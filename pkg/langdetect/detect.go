// Package langdetect names the language of source documents and snippet
// bodies. The name picks the comment scanner and formatter used for region
// extraction and fills in fence languages when docs are synced.
package langdetect

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is returned when no language can be determined.
const Text = "text"

// classifierCandidates bounds the enry classifier to languages snippets are
// commonly written in.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Dockerfile",
}

// fenceTags maps enry names whose lowercase form is not a usable fence tag.
//
//nolint:gochecknoglobals // Read-only lookup table.
var fenceTags = map[string]string{
	"Shell": "bash",
	"C#":    "csharp",
	"F#":    "fsharp",
	"C++":   "cpp",
}

// hint recognizes a language from a distinctive construct. Hints are tried
// in order, so more specific ones come first.
type hint struct {
	language string
	match    func(src []byte) bool
}

//nolint:gochecknoglobals // Read-only lookup table.
var (
	pythonDef   = regexp.MustCompile(`(?m)^\s*(def|class)\s+\w+.*:\s*$`)
	pythonFrom  = regexp.MustCompile(`(?m)^\s*from\s+[\w.]+\s+import\s`)
	goDecl      = regexp.MustCompile(`(?m)^(package\s+\w+|func\s+(\(\w+\s+\*?\w+\)\s*)?\w+\()`)
	goShortVar  = regexp.MustCompile(`\w+\s*:=\s*`)
	rustMarkers = regexp.MustCompile(`\bfn\s+\w+\(|\w+!\(|\blet\s+mut\s`)
	jsMarkers   = regexp.MustCompile(`=>|\bconsole\.log\(|\b(const|let)\s+\w+\s*=`)
	sqlLead     = regexp.MustCompile(`(?i)^\s*(SELECT|INSERT|UPDATE|DELETE|CREATE|WITH)\s`)
	yamlKey     = regexp.MustCompile(`^[\w.-]+:(\s|$)|^- `)
	htmlTags    = regexp.MustCompile(`(?i)<!doctype html|<html|<head>|<body>`)
)

//nolint:gochecknoglobals // Read-only lookup table.
var hints = []hint{
	{"go", goDecl.Match},
	{"python", func(src []byte) bool {
		return pythonDef.Match(src) || pythonFrom.Match(src) || bytes.Contains(src, []byte("__name__"))
	}},
	{"html", htmlTags.Match},
	{"json", looksLikeJSON},
	{"dockerfile", looksLikeDockerfile},
	{"sql", sqlLead.Match},
	{"rust", rustMarkers.Match},
	{"go", goShortVar.Match},
	{"javascript", jsMarkers.Match},
	{"yaml", looksLikeYAML},
}

// ForDocument returns the language of a named document. The file name
// decides when it is conclusive; otherwise the content does.
func ForDocument(name string, content []byte) string {
	if name != "" {
		if lang := enry.GetLanguage(filepath.Base(name), content); lang != "" {
			return fenceTag(lang)
		}
	}
	return Detect(content)
}

// ForName returns the language a document name alone decides, and whether
// it decided one.
func ForName(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	base := filepath.Base(name)
	if lang, safe := enry.GetLanguageByFilename(base); safe && lang != "" {
		return fenceTag(lang), true
	}
	if lang, safe := enry.GetLanguageByExtension(base); safe && lang != "" {
		return fenceTag(lang), true
	}
	return "", false
}

// Detect returns the language of a nameless snippet, or Text when neither a
// shebang, a distinctive construct, nor a confident classification names
// one.
func Detect(content []byte) string {
	src := bytes.TrimSpace(content)
	if len(src) == 0 {
		return Text
	}

	if lang, safe := enry.GetLanguageByShebang(src); safe {
		return fenceTag(lang)
	}

	for _, h := range hints {
		if h.match(src) {
			return h.language
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(src, classifierCandidates); safe && lang != "" {
		return fenceTag(lang)
	}
	return Text
}

func fenceTag(lang string) string {
	if tag, ok := fenceTags[lang]; ok {
		return tag
	}
	return strings.ToLower(lang)
}

func looksLikeJSON(src []byte) bool {
	return (src[0] == '{' || src[0] == '[') && bytes.IndexByte(src, '"') >= 0
}

func looksLikeDockerfile(src []byte) bool {
	return bytes.HasPrefix(src, []byte("FROM ")) ||
		(bytes.Contains(src, []byte("\nFROM ")) && bytes.Contains(src, []byte("\nRUN "))) ||
		(bytes.Contains(src, []byte("WORKDIR ")) && bytes.Contains(src, []byte("COPY ")))
}

// looksLikeYAML wants at least two mapping keys or list items on lines
// that carry no code punctuation.
func looksLikeYAML(src []byte) bool {
	count := 0
	for line := range bytes.Lines(src) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' || bytes.ContainsAny(line, "({;") {
			continue
		}
		if yamlKey.Match(line) {
			count++
		}
	}
	return count >= 2
}
