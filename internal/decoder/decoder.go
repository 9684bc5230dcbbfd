package decoder

import (
	"bytes"
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/fjglira/casefixtures/internal/domain"
)

// Default envelope settings.
const (
	DefaultInputField  = "request"
	DefaultOutputField = "response"
	DefaultMarker      = "####"
)

var utf8BOM = []byte("\xEF\xBB\xBF")

// Envelope is the typed shape of a case file.
type Envelope[In, Out any] struct {
	Request  In  `json:"request" yaml:"request"`
	Response Out `json:"response" yaml:"response"`
}

// Options configures a Decoder. Zero values select the defaults.
type Options struct {
	InputField  string
	OutputField string
	Marker      string
}

// Decoder turns case files into argument tuples.
type Decoder struct {
	registry CodecRegistry
	fields   [2]string
	marker   string
}

// NewDecoder creates a Decoder. A nil registry means NewDefaultRegistry().
func NewDecoder(registry CodecRegistry, opts Options) *Decoder {
	if registry == nil {
		registry = NewDefaultRegistry()
	}
	d := &Decoder{
		registry: registry,
		fields:   [2]string{DefaultInputField, DefaultOutputField},
		marker:   DefaultMarker,
	}
	if opts.InputField != "" {
		d.fields[0] = opts.InputField
	}
	if opts.OutputField != "" {
		d.fields[1] = opts.OutputField
	}
	if opts.Marker != "" {
		d.marker = opts.Marker
	}
	return d
}

// Decode decodes content, read from path, into values of the two target types
// and returns them followed by the highlighted path.
//
// Absent fields decode to the zero value of their type.
func (d *Decoder) Decode(content []byte, types []reflect.Type, path string) (domain.Tuple, error) {
	if len(types) != 2 {
		return nil, domain.NewError(domain.PhaseCaller, path,
			fmt.Sprintf("a case needs exactly 2 target types (input, expected output), got %d", len(types)), nil)
	}

	doc, err := d.split(content, path)
	if err != nil {
		return nil, err
	}

	tuple := make(domain.Tuple, 0, len(types)+1)
	for i, t := range types {
		if t == nil {
			return nil, domain.NewError(domain.PhaseCaller, path, fmt.Sprintf("target type %d is nil", i), nil)
		}
		target := reflect.New(t)
		if f, ok := doc.Lookup(d.fields[i]); ok {
			if err := f.Decode(target.Interface()); err != nil {
				return nil, domain.NewError(domain.PhaseDecode, path,
					fmt.Sprintf("field %q does not decode into %s", d.fields[i], t), err)
			}
		}
		tuple = append(tuple, target.Elem().Interface())
	}
	return append(tuple, d.Highlight(path)), nil
}

// Present reports which envelope fields the case file defines, without
// decoding their values.
func (d *Decoder) Present(content []byte, path string) (input, output bool, err error) {
	doc, err := d.split(content, path)
	if err != nil {
		return false, false, err
	}
	_, input = doc.Lookup(d.fields[0])
	_, output = doc.Lookup(d.fields[1])
	return input, output, nil
}

// split picks the codec for path and splits content into fields. A leading
// UTF-8 byte order mark is dropped.
func (d *Decoder) split(content []byte, path string) (Document, error) {
	codec, err := d.registry.CodecFor(filepath.Ext(path))
	if err != nil {
		return nil, domain.NewError(domain.PhaseDecode, path, "no codec for case file", err)
	}

	doc, err := codec.Split(bytes.TrimPrefix(content, utf8BOM))
	if err != nil {
		return nil, domain.NewErrorWithSuggestion(domain.PhaseDecode, path,
			"malformed "+codec.Name()+" case file",
			fmt.Sprintf("a case file holds two top-level fields, %q and %q", d.fields[0], d.fields[1]),
			err)
	}
	return doc, nil
}

// Highlight wraps path in the marker so it stands out in assertion output.
func (d *Decoder) Highlight(path string) string {
	return d.marker + " " + path + " " + d.marker
}

// Fields returns the input and output field names.
func (d *Decoder) Fields() (input, output string) {
	return d.fields[0], d.fields[1]
}

// DecodeAs decodes content into a typed Envelope and returns the highlighted path.
func DecodeAs[In, Out any](d *Decoder, content []byte, path string) (Envelope[In, Out], string, error) {
	var env Envelope[In, Out]
	tuple, err := d.Decode(content, []reflect.Type{reflect.TypeFor[In](), reflect.TypeFor[Out]()}, path)
	if err != nil {
		return env, "", err
	}
	if v, ok := tuple[0].(In); ok {
		env.Request = v
	}
	if v, ok := tuple[1].(Out); ok {
		env.Response = v
	}
	return env, tuple.Label(), nil
}
