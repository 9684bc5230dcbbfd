package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fjglira/casefixtures/internal/domain"
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	if len(cfg.Cases.Patterns) == 0 {
		errs = append(errs, "cases.patterns must not be empty")
	}
	for _, p := range cfg.Cases.Patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			errs = append(errs, fmt.Sprintf("cases.patterns entry %q is not a valid glob: %v", p, err))
		}
		if strings.ContainsRune(p, filepath.Separator) {
			errs = append(errs, fmt.Sprintf("cases.patterns entry %q must match file names, not paths", p))
		}
	}

	if cfg.Envelope.InputField == "" {
		errs = append(errs, "envelope.input_field must not be empty")
	}
	if cfg.Envelope.OutputField == "" {
		errs = append(errs, "envelope.output_field must not be empty")
	}
	if cfg.Envelope.InputField != "" && strings.EqualFold(cfg.Envelope.InputField, cfg.Envelope.OutputField) {
		errs = append(errs, "envelope.input_field and envelope.output_field must differ")
	}
	if cfg.Envelope.LabelMarker == "" {
		errs = append(errs, "envelope.label_marker must not be empty")
	}

	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError(domain.PhaseConfig, "", fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}
