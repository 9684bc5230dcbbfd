package cli

import (
	"os"
	"path/filepath"

	"github.com/fjglira/casefixtures/internal/config"
	"github.com/fjglira/casefixtures/internal/decoder"
	"github.com/fjglira/casefixtures/internal/provider"
	"github.com/fjglira/casefixtures/internal/resolver"
	"github.com/fjglira/casefixtures/internal/scanner"
)

// moduleRoot returns flagValue when set, else the module enclosing the working directory.
func moduleRoot(flagValue string) (string, error) {
	if flagValue != "" {
		return filepath.Abs(flagValue)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return resolver.FindModuleRoot(wd)
}

// newDecoder builds a decoder from the envelope settings.
func newDecoder(cfg *config.Config) *decoder.Decoder {
	return decoder.NewDecoder(decoder.NewDefaultRegistry(), decoder.Options{
		InputField:  cfg.Envelope.InputField,
		OutputField: cfg.Envelope.OutputField,
		Marker:      cfg.Envelope.LabelMarker,
	})
}

// newProvider wires all components the way the test helpers do.
func newProvider(cfg *config.Config, root string) *provider.CaseProvider {
	base := cfg.Cases.BaseDir
	if base == "" {
		base = root
	} else if !filepath.IsAbs(base) {
		base = filepath.Join(root, base)
	}
	return provider.NewProvider(provider.Options{
		Directory: cfg.Cases.Directory,
		BaseDir:   base,
		Patterns:  cfg.Cases.Patterns,
	}, resolver.NewResolver(), scanner.NewScanner(), newDecoder(cfg), log)
}
