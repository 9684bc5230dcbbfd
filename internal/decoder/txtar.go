package decoder

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/tools/txtar"
)

// TxtarCodec reads case files stored as txtar archives. Each member named
// "<field>.json" or "<field>.yaml" supplies one envelope field; the archive
// comment is free text.
type TxtarCodec struct{}

// NewTxtarCodec creates a new TxtarCodec.
func NewTxtarCodec() *TxtarCodec {
	return &TxtarCodec{}
}

func (c *TxtarCodec) Name() string { return "txtar" }

// SupportedExtensions returns the file extensions this codec handles.
func (c *TxtarCodec) SupportedExtensions() []string {
	return []string{".txtar"}
}

// Split maps archive members to fields by their base name.
func (c *TxtarCodec) Split(content []byte) (Document, error) {
	archive := txtar.Parse(content)
	if len(archive.Files) == 0 {
		return nil, fmt.Errorf("txtar archive has no members")
	}

	doc := make(Document, len(archive.Files))
	for _, member := range archive.Files {
		ext := path.Ext(member.Name)
		name := strings.TrimSuffix(member.Name, ext)
		if _, dup := doc[name]; dup {
			return nil, fmt.Errorf("field %q defined twice", name)
		}
		f, err := valueField(ext, member.Data)
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", member.Name, err)
		}
		doc[name] = f
	}
	return doc, nil
}
