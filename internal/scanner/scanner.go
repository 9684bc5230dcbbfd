package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fjglira/casefixtures/internal/domain"
)

// DefaultPattern matches JSON case files.
const DefaultPattern = "*.json"

// Discoverer lists the case files of a single directory.
type Discoverer interface {
	Discover(dir string, patterns []string) ([]string, error)
}

// FileScanner implements Discoverer on the local filesystem.
type FileScanner struct{}

// NewScanner creates a new FileScanner.
func NewScanner() *FileScanner {
	return &FileScanner{}
}

// Discover returns the sorted paths of regular files directly inside dir whose
// base name matches any of the glob patterns. Sub-directories are not walked.
// An empty pattern list means DefaultPattern.
//
// A missing directory and a directory without matches both fail; the first
// wraps fs.ErrNotExist, the second domain.ErrNoCases.
func (s *FileScanner) Discover(dir string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, domain.NewError(domain.PhaseDiscover, dir, "invalid case file pattern \""+p+"\"", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewErrorWithSuggestion(domain.PhaseDiscover, dir,
				"case directory does not exist",
				"create the directory next to the test or pass an explicit case directory",
				err)
		}
		return nil, domain.NewError(domain.PhaseDiscover, dir, "failed to read case directory", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if matchAny(entry.Name(), patterns) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	if len(files) == 0 {
		return nil, domain.NewErrorWithSuggestion(domain.PhaseDiscover, dir,
			"directory does not contain any "+strings.Join(patterns, ", ")+" files",
			"add at least one case file",
			domain.ErrNoCases)
	}

	sort.Strings(files)
	return files, nil
}

// matchAny matches a base name against the patterns. Patterns were validated
// before use, so match errors cannot occur here.
func matchAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if matched, _ := filepath.Match(p, name); matched {
			return true
		}
	}
	return false
}
