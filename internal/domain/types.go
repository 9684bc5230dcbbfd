package domain

import "reflect"

// Identity names a test function the way the directory convention needs it.
type Identity struct {
	Module    string // module path from go.mod, e.g. "github.com/acme/calc"
	Namespace string // package path of the test, e.g. "github.com/acme/calc/ops"
	Function  string // test function name, e.g. "TestAdd_WhenBothPositive"
}

// Signature is the ordered list of parameter types a test function accepts.
// The trailing parameter is reserved for the decorated case file path.
type Signature struct {
	Owner  Identity
	Params []reflect.Type
}

// DecodeTypes returns the parameter types without the trailing path slot.
func (s *Signature) DecodeTypes() []reflect.Type {
	if len(s.Params) == 0 {
		return nil
	}
	return s.Params[:len(s.Params)-1]
}

// CaseFile is a single case file on disk. Content is loaded on demand.
type CaseFile struct {
	Path    string
	Content []byte
}

// Tuple holds the argument values for one invocation of a test function:
// input, expected output and the decorated case file path.
type Tuple []any

// Label returns the trailing diagnostic value of the tuple.
func (t Tuple) Label() string {
	if len(t) == 0 {
		return ""
	}
	s, _ := t[len(t)-1].(string)
	return s
}

// Case pairs a decoded Tuple with the case file it came from.
type Case struct {
	File string
	Args Tuple
}
