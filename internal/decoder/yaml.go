package decoder

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLCodec reads case files holding a single YAML mapping.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAMLCodec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

func (c *YAMLCodec) Name() string { return "yaml" }

// SupportedExtensions returns the file extensions this codec handles.
func (c *YAMLCodec) SupportedExtensions() []string {
	return []string{".yaml", ".yml"}
}

// Split decodes the top-level mapping into raw fields.
func (c *YAMLCodec) Split(content []byte) (Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("empty YAML document")
	}

	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top-level YAML value must be a mapping (line %d)", mapping.Line)
	}

	doc := make(Document, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		doc[mapping.Content[i].Value] = yamlField{node: mapping.Content[i+1]}
	}
	return doc, nil
}

type yamlField struct {
	node *yaml.Node
}

func (f yamlField) Decode(target any) error {
	return f.node.Decode(target)
}

// valueField wraps a standalone encoded value of the given language, as found
// in Markdown code blocks and txtar members.
func valueField(lang string, content []byte) (Field, error) {
	switch normalizeExt(lang) {
	case "json":
		return jsonField(content), nil
	case "yaml", "yml":
		var root yaml.Node
		if err := yaml.Unmarshal(content, &root); err != nil {
			return nil, err
		}
		if len(root.Content) == 0 {
			return nullField{}, nil
		}
		return yamlField{node: root.Content[0]}, nil
	default:
		return nil, fmt.Errorf("unsupported value language %q (want json or yaml)", lang)
	}
}

// nullField leaves the target untouched.
type nullField struct{}

func (nullField) Decode(any) error { return nil }
