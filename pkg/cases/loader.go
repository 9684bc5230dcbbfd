package cases

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/casefixtures/internal/config"
	"github.com/fjglira/casefixtures/internal/decoder"
	"github.com/fjglira/casefixtures/internal/domain"
	"github.com/fjglira/casefixtures/internal/provider"
	"github.com/fjglira/casefixtures/internal/resolver"
	"github.com/fjglira/casefixtures/internal/scanner"
)

// Loader loads case files for test functions.
type Loader struct {
	module   string
	explicit bool
	provider *provider.CaseProvider
}

// New creates a Loader for the module enclosing the working directory.
func New(opts ...Option) (*Loader, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, domain.NewError(domain.PhaseConfig, "", "failed to get working directory", err)
	}
	root, rootErr := resolver.FindModuleRoot(wd)

	cfg, err := loadConfig(s.configFile, root)
	if err != nil {
		return nil, err
	}
	if s.directory != "" {
		cfg.Cases.Directory = s.directory
	}
	if s.baseDir != "" {
		cfg.Cases.BaseDir = s.baseDir
	}
	if len(s.patterns) > 0 {
		cfg.Cases.Patterns = s.patterns
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	l := &Loader{explicit: cfg.Cases.Directory != ""}
	if !l.explicit {
		if rootErr != nil {
			return nil, rootErr
		}
		if l.module, err = resolver.ModulePath(root); err != nil {
			return nil, err
		}
		switch {
		case cfg.Cases.BaseDir == "":
			cfg.Cases.BaseDir = root
		case !filepath.IsAbs(cfg.Cases.BaseDir):
			cfg.Cases.BaseDir = filepath.Join(root, cfg.Cases.BaseDir)
		}
	}

	log := s.log
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
		if cfg.Logging.Level == "debug" {
			log = config.NewLogger(cfg.Logging, os.Stderr)
		}
	}

	dec := decoder.NewDecoder(decoder.NewDefaultRegistry(), decoder.Options{
		InputField:  cfg.Envelope.InputField,
		OutputField: cfg.Envelope.OutputField,
		Marker:      cfg.Envelope.LabelMarker,
	})
	l.provider = provider.NewProvider(provider.Options{
		Directory: cfg.Cases.Directory,
		BaseDir:   cfg.Cases.BaseDir,
		Patterns:  cfg.Cases.Patterns,
	}, resolver.NewResolver(), scanner.NewScanner(), dec, log)
	return l, nil
}

// loadConfig reads path, or the module root's config file when path is empty
// and the file exists, and applies environment overrides.
func loadConfig(path, root string) (*config.Config, error) {
	if path == "" && root != "" {
		found, err := config.Find(root)
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	config.ApplyEnv(cfg)
	return cfg, nil
}

// Load returns the argument tuples for fn. function names the test for
// directory resolution; when empty it is derived from fn itself.
func (l *Loader) Load(fn any, function string) ([]domain.Tuple, error) {
	cs, err := l.cases(fn, function)
	if err != nil {
		return nil, err
	}
	tuples := make([]domain.Tuple, len(cs))
	for i, c := range cs {
		tuples[i] = c.Args
	}
	return tuples, nil
}

func (l *Loader) cases(fn any, function string) ([]domain.Case, error) {
	owner, err := l.identity(fn, function)
	if err != nil {
		return nil, err
	}
	sig, err := SignatureOf(fn, owner)
	if err != nil {
		return nil, err
	}
	return l.provider.GetCases(sig)
}

func (l *Loader) identity(fn any, function string) (domain.Identity, error) {
	namespace, derived, err := resolver.FuncIdentity(fn)
	if function == "" {
		function = derived
	}
	if err != nil && (namespace == "" || function == "") && !l.explicit {
		return domain.Identity{}, err
	}
	return domain.Identity{Module: l.module, Namespace: namespace, Function: function}, nil
}

var (
	testingTType = reflect.TypeFor[*testing.T]()
	contextType  = reflect.TypeFor[context.Context]()
)

// SignatureOf describes the parameters of fn. A leading *testing.T or
// context.Context parameter is supplied by the harness and left out.
func SignatureOf(fn any, owner domain.Identity) (*domain.Signature, error) {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return nil, domain.NewError(domain.PhaseCaller, "", "test body must be a function", nil)
	}
	if t.IsVariadic() {
		return nil, domain.NewError(domain.PhaseCaller, "", "test body must not be variadic", nil)
	}

	params := make([]reflect.Type, 0, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		params = append(params, t.In(i))
	}
	if len(params) > 0 && isHarnessParam(params[0]) {
		params = params[1:]
	}
	return &domain.Signature{Owner: owner, Params: params}, nil
}

func isHarnessParam(t reflect.Type) bool {
	return t == testingTType || (t.Kind() == reflect.Interface && t.Implements(contextType))
}
