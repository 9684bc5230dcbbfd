package cases

import "github.com/sirupsen/logrus"

// Option customizes a Loader.
type Option func(*settings)

type settings struct {
	directory  string
	baseDir    string
	configFile string
	patterns   []string
	log        *logrus.Logger
}

// WithDirectory reads cases from dir instead of the resolved directory.
func WithDirectory(dir string) Option {
	return func(s *settings) { s.directory = dir }
}

// WithBaseDir sets the root that resolved case directories are relative to.
// The default is the module root.
func WithBaseDir(dir string) Option {
	return func(s *settings) { s.baseDir = dir }
}

// WithPatterns sets the file name globs selecting case files.
func WithPatterns(patterns ...string) Option {
	return func(s *settings) { s.patterns = patterns }
}

// WithConfigFile loads settings from a YAML config file instead of the
// module root's casefixtures.yaml.
func WithConfigFile(path string) Option {
	return func(s *settings) { s.configFile = path }
}

// WithLogger sets the logger used while loading.
func WithLogger(log *logrus.Logger) Option {
	return func(s *settings) { s.log = log }
}
