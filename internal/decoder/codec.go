package decoder

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Field is one top-level value of a case document, decoded lazily into a
// caller-supplied target.
type Field interface {
	Decode(target any) error
}

// Document maps top-level field names of a case file to their raw values.
type Document map[string]Field

// Lookup finds a field by exact name, falling back to a case-insensitive match.
// Among case-insensitive candidates the lexically smallest key wins.
func (d Document) Lookup(name string) (Field, bool) {
	if f, ok := d[name]; ok {
		return f, true
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, name) {
			return d[k], true
		}
	}
	return nil, false
}

// Codec splits raw case file content into top-level fields.
type Codec interface {
	Name() string
	Split(content []byte) (Document, error)
	SupportedExtensions() []string
}

// CodecRegistry maps file extensions to codecs.
type CodecRegistry interface {
	Register(codec Codec)
	CodecFor(extension string) (Codec, error)
}

// DefaultRegistry is a thread-safe codec registry with fallback support.
type DefaultRegistry struct {
	mu       sync.RWMutex
	codecs   map[string]Codec
	fallback Codec
}

// NewRegistry creates an empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		codecs: make(map[string]Codec),
	}
}

// NewDefaultRegistry returns a registry with every built-in codec registered
// and JSON as the fallback.
func NewDefaultRegistry() *DefaultRegistry {
	r := NewRegistry()
	fallback := NewJSONCodec()
	r.Register(fallback)
	r.Register(NewYAMLCodec())
	r.Register(NewMarkdownCodec())
	r.Register(NewAsciiDocCodec())
	r.Register(NewTxtarCodec())
	r.SetFallback(fallback)
	return r
}

// Register adds a codec to the registry for each of its supported extensions.
func (r *DefaultRegistry) Register(c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range c.SupportedExtensions() {
		r.codecs[normalizeExt(ext)] = c
	}
}

// SetFallback sets the codec used for unregistered extensions.
func (r *DefaultRegistry) SetFallback(c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = c
}

// CodecFor returns the codec registered for the given file extension.
// If no codec is found, it returns the fallback codec if set.
func (r *DefaultRegistry) CodecFor(extension string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.codecs[normalizeExt(extension)]; ok {
		return c, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("no codec registered for extension %q", extension)
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
