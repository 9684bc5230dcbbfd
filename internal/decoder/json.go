package decoder

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONCodec reads case files holding a single JSON object.
type JSONCodec struct{}

// NewJSONCodec creates a new JSONCodec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

func (c *JSONCodec) Name() string { return "json" }

// SupportedExtensions returns the file extensions this codec handles.
func (c *JSONCodec) SupportedExtensions() []string {
	return []string{".json"}
}

// Split decodes the top-level object into raw fields.
func (c *JSONCodec) Split(content []byte) (Document, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty JSON document")
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("top-level JSON value must be an object")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, err
	}

	doc := make(Document, len(raw))
	for k, v := range raw {
		doc[k] = jsonField(v)
	}
	return doc, nil
}

type jsonField json.RawMessage

func (f jsonField) Decode(target any) error {
	return json.Unmarshal(f, target)
}
