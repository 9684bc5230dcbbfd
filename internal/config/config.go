package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fjglira/casefixtures/internal/domain"
)

// FileName is the config file looked up in the module root.
const FileName = "casefixtures.yaml"

// Config is the top-level configuration struct.
type Config struct {
	Cases    CasesConfig    `yaml:"cases"`
	Envelope EnvelopeConfig `yaml:"envelope"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type CasesConfig struct {
	Directory string   `yaml:"directory"` // overrides directory resolution
	BaseDir   string   `yaml:"base_dir"`  // root for resolved directories; module root when empty
	Patterns  []string `yaml:"patterns"`
}

type EnvelopeConfig struct {
	InputField  string `yaml:"input_field"`
	OutputField string `yaml:"output_field"`
	LabelMarker string `yaml:"label_marker"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError(domain.PhaseConfig, path, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError(domain.PhaseConfig, path, "failed to parse config file", err)
	}

	return cfg, nil
}

// Find returns the path of FileName inside dir, or "" when dir has none.
func Find(dir string) (string, error) {
	candidate := filepath.Join(dir, FileName)
	_, err := os.Stat(candidate)
	switch {
	case err == nil:
		return candidate, nil
	case errors.Is(err, fs.ErrNotExist):
		return "", nil
	default:
		return "", domain.NewError(domain.PhaseConfig, candidate, "failed to stat config file", err)
	}
}

// Environment variables read by ApplyEnv.
const (
	EnvDirectory = "CASEFIXTURES_DIRECTORY"
	EnvBaseDir   = "CASEFIXTURES_BASE_DIR"
	EnvPatterns  = "CASEFIXTURES_PATTERNS"
	EnvLogLevel  = "CASEFIXTURES_LOG_LEVEL"
)

// ApplyEnv overrides cfg with any CASEFIXTURES_* variables that are set.
func ApplyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvDirectory); ok {
		cfg.Cases.Directory = v
	}
	if v, ok := os.LookupEnv(EnvBaseDir); ok {
		cfg.Cases.BaseDir = v
	}
	if v, ok := os.LookupEnv(EnvPatterns); ok {
		var patterns []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		cfg.Cases.Patterns = patterns
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.Logging.Level = v
	}
}
