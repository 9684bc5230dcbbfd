package cases

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fjglira/casefixtures/internal/domain"
)

// Run calls fn once per case file, each in its own subtest named after the
// file. fn takes a *testing.T followed by input, expected output and the
// case file path:
//
//	func(t *testing.T, in Input, want Output, file string)
//
// The case directory is resolved from the running top-level test's name.
// Failing to load the cases fails t before any subtest starts.
func Run(t *testing.T, fn any, opts ...Option) {
	t.Helper()

	ft := reflect.TypeOf(fn)
	if ft == nil || ft.Kind() != reflect.Func || ft.NumIn() == 0 || ft.In(0) != testingTType {
		t.Fatalf("cases.Run: body must be a func(*testing.T, ...), got %v", ft)
	}

	l, err := New(opts...)
	if err != nil {
		t.Fatalf("cases.Run: %v", err)
	}
	function, _, _ := strings.Cut(t.Name(), "/")
	cs, err := l.cases(fn, function)
	if err != nil {
		t.Fatalf("cases.Run: %v", err)
	}

	body := reflect.ValueOf(fn)
	for _, c := range cs {
		t.Run(caseName(c.File), func(t *testing.T) {
			args := append([]reflect.Value{reflect.ValueOf(t)}, argValues(c.Args, ft, 1)...)
			body.Call(args)
		})
	}
}

// caseName is the file base name without extension.
func caseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// argValues converts tuple values into call arguments for ft starting at
// parameter offset. Untyped nils become the zero value of the parameter and
// the plain string label is converted to a named string parameter type.
func argValues(tuple domain.Tuple, ft reflect.Type, offset int) []reflect.Value {
	values := make([]reflect.Value, len(tuple))
	for i, v := range tuple {
		param := ft.In(offset + i)
		if v == nil {
			values[i] = reflect.Zero(param)
			continue
		}
		rv := reflect.ValueOf(v)
		if !rv.Type().AssignableTo(param) && rv.Type().ConvertibleTo(param) {
			rv = rv.Convert(param)
		}
		values[i] = rv
	}
	return values
}
