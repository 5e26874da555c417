// Package docs finds code snippets embedded in Markdown files, checks them
// against the source regions they quote, and rewrites stale ones.
//
// A snippet is a fenced code block whose info string names its source:
//
//	```go --source ../examples/hello.go --region greet
//	fmt.Println("hello")
//	```
//
// Without --region the whole source file is quoted.
package docs

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Markdown flavors accepted by NewParser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Snippet is one fenced code block bound to a source file.
type Snippet struct {
	// Path is the Markdown file containing the fence.
	Path string

	// Line is the 1-based line of the opening fence.
	Line int

	Fence

	// Body is the code block content as Markdown renders it.
	Body string

	// InfoStart and InfoEnd delimit the info string in the Markdown content.
	InfoStart int
	InfoEnd   int

	// BodyStart and BodyEnd delimit the block's lines in the Markdown
	// content, excluding both fence lines.
	BodyStart int
	BodyEnd   int

	// Plain reports whether the raw bytes in [BodyStart, BodyEnd) equal
	// Body. Fences nested in blockquotes or list items are not plain and
	// cannot be rewritten.
	Plain bool
}

// File is a parsed Markdown file.
type File struct {
	Path     string
	Content  []byte
	Snippets []Snippet
}

// Parser extracts snippets from Markdown.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a parser for the given flavor. Unknown flavors fall
// back to CommonMark.
func NewParser(flavor string) *Parser {
	var opts []goldmark.Option
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return &Parser{md: goldmark.New(opts...)}
}

// Parse walks the Markdown AST and returns every fence that names a source.
// Fences with malformed snippet options fail the whole file.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	file := &File{Path: path, Content: content}
	root := p.md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		block, ok := node.(*ast.FencedCodeBlock)
		if !entering || !ok || block.Info == nil {
			return ast.WalkContinue, nil
		}

		info := string(block.Info.Segment.Value(content))
		fence, ok, err := ParseFence(info)
		if err != nil {
			return ast.WalkStop, fmt.Errorf("%s:%d: %w", path, lineOf(content, block.Info.Segment.Start), err)
		}
		if ok {
			file.Snippets = append(file.Snippets, newSnippet(path, content, block, fence))
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

func newSnippet(path string, content []byte, block *ast.FencedCodeBlock, fence Fence) Snippet {
	info := block.Info.Segment
	snip := Snippet{
		Path:      path,
		Fence:     fence,
		Line:      lineOf(content, info.Start),
		InfoStart: info.Start,
		InfoEnd:   info.Stop,
	}

	lines := block.Lines()
	if lines.Len() == 0 {
		// Empty body: it starts right after the opening fence line.
		offset := len(content)
		if idx := bytes.IndexByte(content[info.Stop:], '\n'); idx >= 0 {
			offset = info.Stop + idx + 1
		}
		snip.BodyStart, snip.BodyEnd, snip.Plain = offset, offset, true
		return snip
	}

	var body bytes.Buffer
	for i := range lines.Len() {
		seg := lines.At(i)
		body.Write(seg.Value(content))
	}
	snip.Body = body.String()
	snip.BodyStart = lines.At(0).Start
	snip.BodyEnd = lines.At(lines.Len() - 1).Stop
	snip.Plain = string(content[snip.BodyStart:snip.BodyEnd]) == snip.Body
	return snip
}

func lineOf(content []byte, offset int) int {
	return bytes.Count(content[:offset], []byte("\n")) + 1
}
