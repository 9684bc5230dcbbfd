package resolver

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/fjglira/casefixtures/internal/domain"
)

// FuncIdentity returns the package path and top-level function name of fn.
//
// Closures report their enclosing function, methods their method name, and
// external test packages ("pkg_test") are folded onto the package under test.
func FuncIdentity(fn any) (namespace, function string, err error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "", "", domain.NewError(domain.PhaseCaller, "", "expected a non-nil function value", nil)
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "", "", domain.NewError(domain.PhaseResolve, "", "no symbol for function value", nil)
	}
	return SplitSymbol(f.Name())
}

// SplitSymbol splits a runtime symbol such as
// "github.com/acme/calc/ops_test.TestAdd.func1" into package path and function.
func SplitSymbol(symbol string) (namespace, function string, err error) {
	symbol = stripTypeArgs(symbol)
	lastSlash := strings.LastIndex(symbol, "/")
	dot := strings.Index(symbol[lastSlash+1:], ".")
	if dot < 0 {
		return "", "", domain.NewError(domain.PhaseResolve, "", "malformed function symbol \""+symbol+"\"", nil)
	}
	dot += lastSlash + 1

	namespace = strings.TrimSuffix(symbol[:dot], "_test")
	parts := strings.Split(symbol[dot+1:], ".")
	function = parts[0]
	// Method values: "(*T).Method-fm" or "T.Method-fm".
	if strings.HasPrefix(function, "(") && len(parts) > 1 {
		function = parts[1]
	} else if len(parts) > 1 && strings.HasSuffix(parts[1], "-fm") {
		function = parts[1]
	}
	function = strings.TrimSuffix(function, "-fm")

	if function == "" || function == "init" || function == "glob" {
		return namespace, "", domain.NewErrorWithSuggestion(domain.PhaseResolve, "",
			"cannot derive a test function name from \""+symbol+"\"",
			"declare the case body inside a named test function or name the table explicitly",
			nil)
	}
	return namespace, function, nil
}

// FindModuleRoot walks up from dir to the nearest directory holding a go.mod.
func FindModuleRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", domain.NewError(domain.PhaseResolve, dir, "failed to make path absolute", err)
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", domain.NewError(domain.PhaseResolve, "", "no go.mod found above the working directory", nil)
		}
		dir = parent
	}
}

// ModulePath reads the module path declared in root/go.mod.
func ModulePath(root string) (string, error) {
	path := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", domain.NewError(domain.PhaseResolve, path, "failed to read go.mod", err)
	}
	mod := modfile.ModulePath(data)
	if mod == "" {
		return "", domain.NewError(domain.PhaseResolve, path, "go.mod declares no module path", nil)
	}
	return mod, nil
}

// stripTypeArgs removes bracketed type arguments, as in "pkg.TestX[...].func1",
// whose contents may hold dots and slashes.
func stripTypeArgs(symbol string) string {
	if !strings.Contains(symbol, "[") {
		return symbol
	}
	var b strings.Builder
	depth := 0
	for _, r := range symbol {
		switch {
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
