package preprocess

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds a preprocessing run can hit.
// Callers match them with errors.Is; the *Error wrapper carries the
// file context.
var (
	// ErrSourceUnreadable means the input path could not be read.
	// A caller processing many files typically reports it and moves on.
	ErrSourceUnreadable = errors.New("source file unreadable")

	// ErrInvalidInvocation means the marker was not followed by a
	// string literal.
	ErrInvalidInvocation = errors.New("only a string literal can appear inside the marker")

	// ErrUnterminatedLiteral means a string literal's closing quote
	// was never found before end of input.
	ErrUnterminatedLiteral = errors.New("unterminated string literal")

	// ErrMissingCloseParen means the invocation was not closed with
	// ')' after the string literal.
	ErrMissingCloseParen = errors.New("expected ')' after the string literal")

	// ErrHashCollision means two different literals produced the same
	// hash value. Only reported when a Registry is installed.
	ErrHashCollision = errors.New("hash collision")
)

// Error is a preprocessing failure tied to a location in a source
// file. Err is one of the sentinel errors above; Snippet holds the
// offending piece of input, truncated for display.
type Error struct {
	Path    string
	Line    int
	Snippet string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.Snippet != "" {
		msg = fmt.Sprintf("%s (near %q)", msg, e.Snippet)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, msg)
}

func (e *Error) Unwrap() error { return e.Err }

const maxSnippet = 40

// snippet truncates raw input for an error message.
func snippet(data []byte) string {
	if len(data) > maxSnippet {
		return string(data[:maxSnippet]) + "..."
	}
	return string(data)
}
