package formatter

import (
	"errors"
	"fmt"

	"github.com/chriserin/ftwiki/internal/parser"
)

var (
	// ErrUnsupported is matched by every SyntaxError: the formatter has no
	// way to recover from malformed input.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrClosed is returned by any call made after Close.
	ErrClosed = errors.New("formatter closed")

	// ErrNoSection is returned when a step arrives before any section.
	ErrNoSection = errors.New("step outside of a section")

	// ErrUnpairedResult is returned when a result has no step to pair with.
	ErrUnpairedResult = errors.New("result without a pending step")
)

// SyntaxError is the fatal error raised when the upstream parser reports
// malformed input.
type SyntaxError struct {
	URI   string
	Line  int
	Cause string
}

func (e *SyntaxError) Error() string {
	if e.URI != "" {
		return fmt.Sprintf("%s:%d: %s", e.URI, e.Line, e.Cause)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Cause)
}

func (e *SyntaxError) Unwrap() error { return ErrUnsupported }

func newSyntaxError(uri string, pe parser.ParseError) *SyntaxError {
	return &SyntaxError{URI: uri, Line: pe.Line, Cause: pe.Message}
}
