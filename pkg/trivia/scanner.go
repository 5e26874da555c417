package trivia

import (
	"bytes"
	"go/scanner"
	"go/token"
	"strings"

	"github.com/yaklabco/snipsync/pkg/langdetect"
)

// Scanner extracts the trivia of a document in document order.
type Scanner interface {
	Scan(src []byte) ([]Trivia, error)
}

// Compile-time interface checks.
var (
	_ Scanner = (*GoScanner)(nil)
	_ Scanner = (*LineScanner)(nil)
)

// GoScanner reads comments with the Go tokenizer. Source that does not
// tokenize cleanly is still scanned; errors only stop at unrecoverable input.
type GoScanner struct {
	Markers Markers
}

// Scan implements Scanner.
func (s *GoScanner) Scan(src []byte) ([]Trivia, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var sc scanner.Scanner
	sc.Init(file, src, func(token.Position, string) {}, scanner.ScanComments)

	var out []Trivia
	for {
		pos, tok, _ := sc.Scan()
		if tok == token.EOF {
			break
		}
		if tok != token.COMMENT {
			continue
		}

		start := file.Offset(pos)
		end := goCommentEnd(src, start)
		raw := string(src[start:end])

		kind, name := s.Markers.Classify(goCommentBody(raw))
		out = append(out, Trivia{
			Kind: kind,
			Span: lineSpan(src, start, end),
			Text: raw,
			Name: name,
		})
	}
	return out, nil
}

// goCommentEnd returns the offset just past the comment starting at start.
func goCommentEnd(src []byte, start int) int {
	if bytes.HasPrefix(src[start:], []byte("/*")) {
		if idx := bytes.Index(src[start+2:], []byte("*/")); idx >= 0 {
			return start + 2 + idx + 2
		}
		return len(src)
	}
	idx := bytes.IndexByte(src[start:], '\n')
	if idx < 0 {
		return len(src)
	}
	end := start + idx
	if end > start && src[end-1] == '\r' {
		end--
	}
	return end
}

func goCommentBody(raw string) string {
	if body, ok := strings.CutPrefix(raw, "//"); ok {
		return body
	}
	body := strings.TrimPrefix(raw, "/*")
	return strings.TrimSuffix(body, "*/")
}

// LineScanner treats every line whose first non-blank characters are one of
// Prefixes as a comment. Comments trailing code are not recognized.
type LineScanner struct {
	Markers  Markers
	Prefixes []string
}

// Scan implements Scanner.
func (s *LineScanner) Scan(src []byte) ([]Trivia, error) {
	var out []Trivia

	offset := 0
	for offset < len(src) {
		lineEnd := bytes.IndexByte(src[offset:], '\n')
		if lineEnd < 0 {
			lineEnd = len(src)
		} else {
			lineEnd += offset
		}

		line := src[offset:lineEnd]
		indent := len(line) - len(bytes.TrimLeft(line, " \t"))
		content := bytes.TrimRight(line[indent:], "\r")

		if prefix, ok := s.matchPrefix(content); ok {
			start := offset + indent
			end := start + len(content)
			raw := string(content)

			kind, name := s.Markers.Classify(strings.TrimPrefix(raw, prefix))
			if kind == KindOther {
				// "#region" is itself a valid '#' comment.
				kind, name = s.Markers.Classify(raw)
			}
			out = append(out, Trivia{
				Kind: kind,
				Span: lineSpan(src, start, end),
				Text: raw,
				Name: name,
			})
		}

		offset = lineEnd + 1
	}
	return out, nil
}

func (s *LineScanner) matchPrefix(content []byte) (string, bool) {
	for _, prefix := range s.Prefixes {
		if bytes.HasPrefix(content, []byte(prefix)) {
			return prefix, true
		}
	}
	return "", false
}

// ForLanguage returns the scanner for a language name as reported by
// langdetect.ForDocument.
//
//nolint:ireturn // Callers only need the Scanner behavior.
func ForLanguage(lang string, markers Markers) Scanner {
	switch lang {
	case "go":
		return &GoScanner{Markers: markers}
	case "python", "bash", "shell", "yaml", "ruby", "perl", "r", "toml",
		"dockerfile", "makefile", "powershell", "elixir", "nim":
		return &LineScanner{Markers: markers, Prefixes: []string{"#"}}
	case "sql", "lua", "haskell", "ada":
		return &LineScanner{Markers: markers, Prefixes: []string{"--"}}
	case "clojure", "lisp", "scheme", "ini":
		return &LineScanner{Markers: markers, Prefixes: []string{";"}}
	default:
		// C-family line comments, plus '#' so C# style "#region" directives
		// are seen.
		return &LineScanner{Markers: markers, Prefixes: []string{"//", "#"}}
	}
}

// LinePrefixes are the line comment leaders recognized when a document's
// name does not decide its language.
//
//nolint:gochecknoglobals // Read-only lookup table.
var LinePrefixes = []string{"//", "#", "--", ";"}

// ForDocument returns the scanner for a document. A conclusive file name
// picks the language scanner. Otherwise Go source is read with the Go
// tokenizer and everything else with a LineScanner accepting every prefix
// in LinePrefixes, so markers are found whatever the body looks like.
//
// The choice depends on content for such documents; callers scanning the
// same document repeatedly should pick once and reuse the result.
//
//nolint:ireturn // Callers only need the Scanner behavior.
func ForDocument(name string, content []byte, markers Markers) Scanner {
	if lang, ok := langdetect.ForName(name); ok {
		return ForLanguage(lang, markers)
	}
	if langdetect.Detect(content) == "go" {
		return &GoScanner{Markers: markers}
	}
	return &LineScanner{Markers: markers, Prefixes: LinePrefixes}
}
