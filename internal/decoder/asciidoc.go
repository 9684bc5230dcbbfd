package decoder

import (
	"fmt"
	"regexp"
	"strings"
)

// AsciiDocCodec reads literate case files written in AsciiDoc. Listing
// blocks declared as
//
//	[source,json,field=request]
//	----
//	{"a": 1}
//	----
//
// carry the envelope fields; everything else is ignored.
type AsciiDocCodec struct{}

// NewAsciiDocCodec creates a new AsciiDocCodec.
func NewAsciiDocCodec() *AsciiDocCodec {
	return &AsciiDocCodec{}
}

func (c *AsciiDocCodec) Name() string { return "asciidoc" }

// SupportedExtensions returns the file extensions this codec handles.
func (c *AsciiDocCodec) SupportedExtensions() []string {
	return []string{".adoc", ".asciidoc"}
}

var (
	// Matches [source,lang,attr1="val1",attr2=val2]
	asciidocSourceRe = regexp.MustCompile(`^\[source,([^,\]]+)(?:,(.+))?\]\s*$`)
	// Matches ---- delimiter
	asciidocDelimRe = regexp.MustCompile(`^----+\s*$`)
)

// Split scans for source blocks with a field attribute.
func (c *AsciiDocCodec) Split(content []byte) (Document, error) {
	lines := strings.Split(string(content), "\n")
	doc := make(Document)

	for i := 0; i < len(lines); i++ {
		m := asciidocSourceRe.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			continue
		}
		attrs := parseAsciidocAttrs(m[2])
		name := attrs[FieldAttribute]
		if name == "" {
			continue
		}
		directiveLine := i + 1

		i++
		if i >= len(lines) || !asciidocDelimRe.MatchString(lines[i]) {
			return nil, fmt.Errorf("block for field %q (line %d) must open with ----", name, directiveLine)
		}
		i++
		var body []string
		for i < len(lines) && !asciidocDelimRe.MatchString(lines[i]) {
			body = append(body, lines[i])
			i++
		}
		if i >= len(lines) {
			return nil, fmt.Errorf("block for field %q (line %d) is not closed", name, directiveLine)
		}

		if _, dup := doc[name]; dup {
			return nil, fmt.Errorf("field %q defined twice (line %d)", name, directiveLine)
		}
		f, err := valueField(strings.TrimSpace(m[1]), []byte(strings.Join(body, "\n")))
		if err != nil {
			return nil, fmt.Errorf("block for field %q (line %d): %w", name, directiveLine, err)
		}
		doc[name] = f
	}
	return doc, nil
}

// parseAsciidocAttrs parses comma-separated key="value" or key=value attributes.
func parseAsciidocAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range splitAsciidocAttrs(s) {
		part = strings.TrimSpace(part)
		if idx := strings.Index(part, "="); idx > 0 {
			key := strings.TrimSpace(part[:idx])
			val := strings.Trim(strings.TrimSpace(part[idx+1:]), "\"'")
			attrs[key] = val
		}
	}
	return attrs
}

// splitAsciidocAttrs splits on commas, respecting quoted values.
func splitAsciidocAttrs(s string) []string {
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
		case c == ',':
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
