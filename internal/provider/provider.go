package provider

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/casefixtures/internal/decoder"
	"github.com/fjglira/casefixtures/internal/domain"
	"github.com/fjglira/casefixtures/internal/resolver"
	"github.com/fjglira/casefixtures/internal/scanner"
)

// DataProvider supplies the argument tuples for a test function.
type DataProvider interface {
	GetData(sig *domain.Signature) ([]domain.Tuple, error)
}

// Options configures a CaseProvider.
type Options struct {
	// Directory, when set, is used as is and skips directory resolution.
	Directory string
	// BaseDir is joined in front of resolved directories.
	BaseDir  string
	Patterns []string
}

// CaseProvider implements DataProvider by wiring resolver, scanner and decoder.
type CaseProvider struct {
	opts     Options
	resolver resolver.Resolver
	scanner  scanner.Discoverer
	decoder  *decoder.Decoder
	log      *logrus.Logger
}

// NewProvider creates a new CaseProvider. A nil logger discards output.
func NewProvider(
	opts Options,
	r resolver.Resolver,
	s scanner.Discoverer,
	d *decoder.Decoder,
	log *logrus.Logger,
) *CaseProvider {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &CaseProvider{
		opts:     opts,
		resolver: r,
		scanner:  s,
		decoder:  d,
		log:      log,
	}
}

// GetData runs the full pipeline: resolve, discover, then read and decode each file.
// Any failure aborts the call; no partial result is returned.
func (p *CaseProvider) GetData(sig *domain.Signature) ([]domain.Tuple, error) {
	cases, err := p.GetCases(sig)
	if err != nil {
		return nil, err
	}
	tuples := make([]domain.Tuple, len(cases))
	for i, c := range cases {
		tuples[i] = c.Args
	}
	return tuples, nil
}

// GetCases is GetData keeping the undecorated path of every case file.
func (p *CaseProvider) GetCases(sig *domain.Signature) ([]domain.Case, error) {
	if err := checkSignature(sig); err != nil {
		return nil, err
	}

	dir, err := p.Directory(sig.Owner)
	if err != nil {
		return nil, err
	}

	p.log.Debugf("Discovering cases for %s in %s", sig.Owner.Function, dir)
	files, err := p.scanner.Discover(dir, p.opts.Patterns)
	if err != nil {
		return nil, err
	}
	p.log.Debugf("Found %d case file(s) in %s", len(files), dir)

	types := sig.DecodeTypes()
	result := make([]domain.Case, 0, len(files))
	for _, path := range files {
		cf, err := readCase(path)
		if err != nil {
			return nil, err
		}

		tuple, err := p.decoder.Decode(cf.Content, types, cf.Path)
		if err != nil {
			return nil, err
		}
		p.log.Debugf("Decoded %s", cf.Path)
		result = append(result, domain.Case{File: cf.Path, Args: tuple})
	}

	return result, nil
}

// Directory returns the case directory used for owner.
func (p *CaseProvider) Directory(owner domain.Identity) (string, error) {
	if p.opts.Directory != "" {
		return p.opts.Directory, nil
	}
	rel, err := p.resolver.Resolve(owner)
	if err != nil {
		return "", err
	}
	return filepath.Join(p.opts.BaseDir, rel), nil
}

// checkSignature rejects signatures without a string path slot.
func checkSignature(sig *domain.Signature) error {
	if sig == nil {
		return domain.NewError(domain.PhaseCaller, "", "signature must not be nil", nil)
	}
	if len(sig.Params) == 0 {
		return domain.NewError(domain.PhaseCaller, "",
			fmt.Sprintf("%s takes no parameters; the last one must receive the case file path", sig.Owner.Function), nil)
	}
	last := sig.Params[len(sig.Params)-1]
	if last == nil || last.Kind() != reflect.String {
		return domain.NewError(domain.PhaseCaller, "",
			fmt.Sprintf("last parameter of %s must be a string for the case file path, got %v", sig.Owner.Function, last), nil)
	}
	return nil
}

func readCase(path string) (domain.CaseFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.CaseFile{}, domain.NewErrorWithSuggestion(domain.PhaseDecode, path,
			"failed to read case file",
			"check that the file exists and has read permissions",
			err)
	}
	return domain.CaseFile{Path: path, Content: content}, nil
}
