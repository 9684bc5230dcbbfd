package resolver

import (
	"path/filepath"
	"strings"

	"github.com/fjglira/casefixtures/internal/domain"
)

// WhenMarker separates the case directory name from the scenario part of a
// test function name.
const WhenMarker = "_When"

// Resolver derives a case directory from a test identity.
type Resolver interface {
	Resolve(id domain.Identity) (string, error)
}

// ConventionResolver implements Resolver with the namespace/function naming convention.
type ConventionResolver struct{}

// NewResolver creates a new ConventionResolver.
func NewResolver() *ConventionResolver {
	return &ConventionResolver{}
}

// Resolve returns the case directory for id, relative to the module root.
//
// The module prefix is cut from the namespace, the remaining namespace
// segments become directories and the function name up to the first
// "_When" becomes the leaf:
//
//	{Module: "Calc.Tests", Namespace: "Calc.Tests.Ops", Function: "Add_WhenPositive"} -> Ops/Add
func (r *ConventionResolver) Resolve(id domain.Identity) (string, error) {
	if id.Module == "" || id.Namespace == "" || id.Function == "" {
		return "", domain.NewError(domain.PhaseResolve, "",
			"test identity needs module, namespace and function (got "+describe(id)+")", nil)
	}

	sep := separatorFor(id.Namespace)
	rel, ok := trimModule(id.Namespace, id.Module, sep)
	if !ok {
		return "", domain.NewErrorWithSuggestion(domain.PhaseResolve, "",
			"namespace "+quote(id.Namespace)+" does not start with module "+quote(id.Module),
			"keep the test inside the module or pass an explicit case directory",
			nil)
	}

	leaf, _, _ := strings.Cut(id.Function, WhenMarker)
	if leaf == "" {
		return "", domain.NewError(domain.PhaseResolve, "",
			"function "+quote(id.Function)+" has no name before "+quote(WhenMarker), nil)
	}

	segments := append(strings.FieldsFunc(rel, func(r rune) bool { return r == sep }), leaf)
	return filepath.Join(segments...), nil
}

// trimModule strips module and one trailing sep from namespace.
func trimModule(namespace, module string, sep rune) (string, bool) {
	if namespace == module {
		return "", true
	}
	if !strings.HasPrefix(namespace, module) {
		return "", false
	}
	rest := namespace[len(module):]
	if rune(rest[0]) != sep {
		return "", false
	}
	return rest[1:], true
}

// separatorFor returns '/' for Go import paths, where dots are part of
// element names such as "api.v2", and '.' for dotted namespaces.
func separatorFor(namespace string) rune {
	if strings.Contains(namespace, "/") {
		return '/'
	}
	return '.'
}

func quote(s string) string {
	return "\"" + s + "\""
}

func describe(id domain.Identity) string {
	return "module=" + quote(id.Module) + " namespace=" + quote(id.Namespace) + " function=" + quote(id.Function)
}
