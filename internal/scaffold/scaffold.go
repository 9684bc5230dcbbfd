package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/casefixtures/internal/domain"
	"github.com/fjglira/casefixtures/internal/resolver"
)

// LibraryImport is the import path generated tests use.
const LibraryImport = "github.com/fjglira/casefixtures/pkg/cases"

// Test styles.
const (
	StyleTesting = "testing"
	StyleGinkgo  = "ginkgo"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Request describes the case directory and test to create.
type Request struct {
	ModuleRoot  string // directory holding go.mod
	Package     string // package directory relative to ModuleRoot; "" for the root package
	TestName    string // e.g. "Add_WhenBothPositive"; "Test" is prepended for StyleTesting
	Style       string // StyleTesting or StyleGinkgo
	Format      string // "json" or "yaml"
	InputType   string // Go type expression of the input parameter
	OutputType  string // Go type expression of the expected output parameter
	InputField  string
	OutputField string
	// BaseDir is the root of resolved case directories, relative to
	// ModuleRoot unless absolute. Empty means ModuleRoot.
	BaseDir string
	// CaseDir skips resolution, relative to the package directory unless
	// absolute, as the loader reads it from the test's working directory.
	CaseDir string
	DryRun  bool
}

// File is one rendered output file.
type File struct {
	Path    string
	Content []byte
	// Optional files are skipped instead of failing when they already exist.
	Optional bool
}

type templateData struct {
	Request
	PackageName   string
	LibraryImport string
	SuiteName     string
	SuiteTitle    string
}

// Engine renders scaffold files from the embedded templates.
type Engine struct {
	templates *template.Template
	log       *logrus.Logger
}

// NewEngine parses the embedded templates.
func NewEngine(log *logrus.Logger) (*Engine, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, domain.NewError(domain.PhaseScaffold, "", "failed to parse templates", err)
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Engine{templates: tmpl, log: log}, nil
}

// Plan renders every file req needs without touching the filesystem.
func (e *Engine) Plan(req Request) ([]File, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	module, err := resolver.ModulePath(req.ModuleRoot)
	if err != nil {
		return nil, err
	}
	pkgDir := filepath.Join(req.ModuleRoot, filepath.FromSlash(req.Package))
	pkgName := packageName(module, req.Package)

	function := req.TestName
	if req.Style == StyleTesting {
		function = "Test" + req.TestName
	}
	rel, err := resolver.NewResolver().Resolve(domain.Identity{
		Module:    module,
		Namespace: path.Join(module, filepath.ToSlash(req.Package)),
		Function:  function,
	})
	if err != nil {
		return nil, err
	}

	data := templateData{
		Request:       req,
		PackageName:   pkgName + "_test",
		LibraryImport: LibraryImport,
		SuiteName:     exported(pkgName),
		SuiteTitle:    exported(pkgName) + " Suite",
	}

	caseFile, err := e.render("case."+req.Format+".tmpl", data, false)
	if err != nil {
		return nil, err
	}
	testFile, err := e.render(req.Style+".go.tmpl", data, true)
	if err != nil {
		return nil, err
	}

	files := []File{
		{Path: filepath.Join(caseDir(req, pkgDir, rel), "example."+req.Format), Content: caseFile},
		{Path: filepath.Join(pkgDir, snakeCase(strings.TrimPrefix(filepath.Base(rel), "Test"))+"_cases_test.go"), Content: testFile},
	}
	if req.Style == StyleGinkgo {
		suite, err := e.render("suite.go.tmpl", data, true)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: filepath.Join(pkgDir, "suite_test.go"), Content: suite, Optional: true})
	}
	return files, nil
}

// Write renders and writes the files of req. Existing files are never
// overwritten: mandatory ones fail the whole call before anything is written.
func (e *Engine) Write(req Request) ([]File, error) {
	files, err := e.Plan(req)
	if err != nil {
		return nil, err
	}

	var pending []File
	for _, f := range files {
		_, statErr := os.Stat(f.Path)
		switch {
		case statErr == nil && f.Optional:
			e.log.Debugf("Keeping existing %s", f.Path)
		case statErr == nil:
			return nil, domain.NewErrorWithSuggestion(domain.PhaseScaffold, f.Path,
				"file already exists",
				"pick another test name or remove the file",
				nil)
		case errors.Is(statErr, fs.ErrNotExist):
			pending = append(pending, f)
		default:
			return nil, domain.NewError(domain.PhaseScaffold, f.Path, "failed to stat file", statErr)
		}
	}

	for _, f := range pending {
		if req.DryRun {
			e.log.Infof("[DRY-RUN] Would write: %s", f.Path)
			e.log.Debugf("[DRY-RUN] Content:\n%s", f.Content)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
			return nil, domain.NewError(domain.PhaseScaffold, filepath.Dir(f.Path), "failed to create directory", err)
		}
		e.log.Infof("Writing: %s", f.Path)
		if err := os.WriteFile(f.Path, f.Content, 0644); err != nil {
			return nil, domain.NewErrorWithSuggestion(domain.PhaseScaffold, f.Path,
				"failed to write file",
				"check disk space and write permissions",
				err)
		}
	}
	return pending, nil
}

func (e *Engine) render(name string, data templateData, goSource bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, domain.NewError(domain.PhaseScaffold, name, "failed to execute template", err)
	}
	if !goSource {
		return buf.Bytes(), nil
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, domain.NewErrorWithSuggestion(domain.PhaseScaffold, name,
			"generated code failed go/format validation",
			"check the --input and --output type expressions",
			err)
	}
	return formatted, nil
}

// caseDir places the case directory where the loader will look for it.
func caseDir(req Request, pkgDir, rel string) string {
	switch {
	case req.CaseDir != "" && filepath.IsAbs(req.CaseDir):
		return req.CaseDir
	case req.CaseDir != "":
		return filepath.Join(pkgDir, req.CaseDir)
	case req.BaseDir != "" && filepath.IsAbs(req.BaseDir):
		return filepath.Join(req.BaseDir, rel)
	default:
		return filepath.Join(req.ModuleRoot, req.BaseDir, rel)
	}
}

func checkRequest(req Request) error {
	var errs []string
	if req.ModuleRoot == "" {
		errs = append(errs, "module root must not be empty")
	}
	if req.TestName == "" || !isIdentifier(req.TestName) {
		errs = append(errs, fmt.Sprintf("test name %q must be a Go identifier", req.TestName))
	}
	if req.Style != StyleTesting && req.Style != StyleGinkgo {
		errs = append(errs, fmt.Sprintf("style must be %s or %s (got %q)", StyleTesting, StyleGinkgo, req.Style))
	}
	if req.Format != "json" && req.Format != "yaml" {
		errs = append(errs, fmt.Sprintf("format must be json or yaml (got %q)", req.Format))
	}
	if req.InputType == "" || req.OutputType == "" {
		errs = append(errs, "input and output types must not be empty")
	}
	if req.InputField == "" || req.OutputField == "" {
		errs = append(errs, "envelope field names must not be empty")
	}
	if len(errs) > 0 {
		return domain.NewError(domain.PhaseScaffold, "", strings.Join(errs, "; "), nil)
	}
	return nil
}

// packageName guesses the package name from the last import path element.
func packageName(module, pkg string) string {
	name := path.Base(path.Join(module, filepath.ToSlash(pkg)))
	name = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}, name)
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "p" + name
	}
	return name
}

func exported(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if !(unicode.IsLetter(r) || r == '_' || (i > 0 && unicode.IsDigit(r))) {
			return false
		}
	}
	return s != ""
}

// snakeCase converts a Go identifier into a file name component.
// e.g. "AddOperation" → "add_operation"
func snakeCase(name string) string {
	var b strings.Builder
	prev := rune(0)
	for _, c := range name {
		switch {
		case unicode.IsUpper(c):
			if b.Len() > 0 && prev != '_' && !unicode.IsUpper(prev) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(c))
		case unicode.IsLetter(c) || unicode.IsDigit(c):
			b.WriteRune(c)
		default:
			if b.Len() > 0 && prev != '_' {
				b.WriteByte('_')
			}
			c = '_'
		}
		prev = c
	}
	return strings.Trim(b.String(), "_")
}
