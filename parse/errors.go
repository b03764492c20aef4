package parse

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedTranscript indicates transcript input that does not match
	// the timecode+speaker+text line format.
	ErrMalformedTranscript = errors.New("malformed transcript")
)

// ParseError reports a structural parse failure at a specific input line.
// It wraps ErrMalformedTranscript so callers can branch with errors.Is.
type ParseError struct {
	Line   int // 1-based line number in the raw input
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedTranscript
}
