package config

import (
	"github.com/fjglira/casefixtures/internal/decoder"
	"github.com/fjglira/casefixtures/internal/scanner"
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Cases: CasesConfig{
			Patterns: []string{scanner.DefaultPattern},
		},
		Envelope: EnvelopeConfig{
			InputField:  decoder.DefaultInputField,
			OutputField: decoder.DefaultOutputField,
			LabelMarker: decoder.DefaultMarker,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
