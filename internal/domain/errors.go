package domain

import (
	"errors"
	"fmt"
)

// Error phases.
const (
	PhaseCaller   = "caller"
	PhaseResolve  = "resolve"
	PhaseDiscover = "discover"
	PhaseDecode   = "decode"
	PhaseConfig   = "config"
	PhaseScaffold = "scaffold"
)

// ErrNoCases is the cause of a discovery error for a directory that exists
// but holds no matching case files.
var ErrNoCases = errors.New("no matching test cases")

// LoaderError is the base error type with context.
type LoaderError struct {
	Phase      string // one of the Phase* constants
	File       string // offending directory or file
	Message    string
	Suggestion string
	Cause      error
}

func (e *LoaderError) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *LoaderError) Unwrap() error {
	return e.Cause
}

// NewError creates a new LoaderError.
func NewError(phase, file, message string, cause error) *LoaderError {
	return &LoaderError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// NewErrorWithSuggestion creates a LoaderError carrying a hint on how to fix it.
func NewErrorWithSuggestion(phase, file, message, suggestion string, cause error) *LoaderError {
	e := NewError(phase, file, message, cause)
	e.Suggestion = suggestion
	return e
}

// IsPhase reports whether err is a LoaderError raised in the given phase.
func IsPhase(err error, phase string) bool {
	var le *LoaderError
	if errors.As(err, &le) {
		return le.Phase == phase
	}
	return false
}
