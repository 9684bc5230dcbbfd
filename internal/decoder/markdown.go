package decoder

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FieldAttribute is the info string attribute naming the envelope field a
// fenced code block supplies.
const FieldAttribute = "field"

// MarkdownCodec reads literate case files: Markdown documents in which fenced
// code blocks tagged like
//
//	```json field=request
//
// carry the envelope fields. Prose and untagged blocks are ignored.
type MarkdownCodec struct{}

// NewMarkdownCodec creates a new MarkdownCodec.
func NewMarkdownCodec() *MarkdownCodec {
	return &MarkdownCodec{}
}

func (c *MarkdownCodec) Name() string { return "markdown" }

// SupportedExtensions returns the file extensions this codec handles.
func (c *MarkdownCodec) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Split walks the Markdown AST and collects tagged code blocks.
func (c *MarkdownCodec) Split(content []byte) (Document, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(content))

	doc := make(Document)
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var info string
		if block.Info != nil {
			info = string(block.Info.Segment.Value(content))
		}
		attrs := parseInfoString(info)
		name := attrs[FieldAttribute]
		if name == "" {
			return ast.WalkContinue, nil
		}

		line := 0
		if block.Lines().Len() > 0 {
			line = lineNumber(content, block.Lines().At(0).Start)
		}
		if _, dup := doc[name]; dup {
			return ast.WalkStop, fmt.Errorf("field %q defined twice (line %d)", name, line)
		}

		var buf bytes.Buffer
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(content))
		}

		f, err := valueField(attrs["_lang"], buf.Bytes())
		if err != nil {
			return ast.WalkStop, fmt.Errorf("block for field %q (line %d): %w", name, line, err)
		}
		doc[name] = f
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// parseInfoString parses a fenced code block info string like:
//
//	json field=request note="sum of two"
//
// The first token is stored under "_lang", the rest as key-value pairs.
func parseInfoString(info string) map[string]string {
	result := make(map[string]string)
	parts := splitInfoString(strings.TrimSpace(info))
	if len(parts) == 0 {
		return result
	}

	result["_lang"] = parts[0]
	for _, part := range parts[1:] {
		if idx := strings.Index(part, "="); idx > 0 {
			result[part[:idx]] = strings.Trim(part[idx+1:], "\"'")
		}
	}
	return result
}

// splitInfoString splits the info string on blanks, keeping quoted values together.
func splitInfoString(s string) []string {
	var parts []string
	var current strings.Builder
	quoteChar := byte(0)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quoteChar != 0:
			if c == quoteChar {
				quoteChar = 0
			}
			current.WriteByte(c)
		case c == '"' || c == '\'':
			quoteChar = c
			current.WriteByte(c)
		case c == ' ' || c == '\t':
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// lineNumber calculates the 1-based line number for a byte offset.
func lineNumber(content []byte, offset int) int {
	return bytes.Count(content[:offset], []byte("\n")) + 1
}
