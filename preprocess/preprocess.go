// Package preprocess rewrites marker invocations into hashed integer
// literals. An occurrence of
//
//	SID( "hello" )
//
// becomes
//
//	0x0f923099 /* "hello" */
//
// so source code keeps a readable identifier while the compiled
// program pays nothing for the hash. Everything outside an invocation
// is copied through byte for byte; a malformed invocation fails the
// whole file and nothing is written.
package preprocess

import (
	"bytes"
	"fmt"
	"os"

	"github.com/rubiojr/sid/hash"
	"github.com/rubiojr/sid/scanner"
)

// DefaultMarker is the marker token looked for when none is configured.
const DefaultMarker = "SID"

// Preprocessor rewrites marker invocations in source text. The zero
// value is usable: it looks for SID and hashes with hash.DJB2.
type Preprocessor struct {
	// Marker is the token name to look for. Defaults to DefaultMarker.
	Marker string

	// Hash computes the replacement value from the literal's raw
	// bytes. Defaults to hash.DJB2.
	Hash hash.Func

	// Registry enables collision detection when non-nil. Share one
	// Registry across preprocessors to check a whole project.
	Registry *Registry
}

// Bytes preprocesses in-memory source content. name identifies the
// source in diagnostics. Returns the rewritten content and true when
// at least one invocation was rewritten; (nil, false, nil) when no
// invocation was found.
func (p *Preprocessor) Bytes(src []byte, name string) ([]byte, bool, error) {
	out := &bytes.Buffer{}
	out.Grow(len(src))

	sc := scanner.New(src, p.markerName(), out)
	modified := false
	for sc.Scan() {
		if err := p.rewrite(sc, out, name); err != nil {
			return nil, false, err
		}
		modified = true
	}
	if !modified {
		return nil, false, nil
	}
	return out.Bytes(), true, nil
}

// File preprocesses the file at path. When at least one invocation was
// rewritten the result is written to outPath, which may equal path.
// An empty outPath validates and reports without writing anything.
// When no invocation is found the destination is left untouched.
func (p *Preprocessor) File(path, outPath string) (bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return false, &Error{Path: path, Err: fmt.Errorf("%w: %v", ErrSourceUnreadable, err)}
	}
	out, modified, err := p.Bytes(src, path)
	if err != nil {
		return false, err
	}
	if !modified || outPath == "" {
		return modified, nil
	}
	if err := os.WriteFile(outPath, out, 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", outPath, err)
	}
	return true, nil
}

// rewrite consumes one invocation. On entry the scanner sits just past
// the marker's opening parenthesis; on success it sits just past the
// closing one and the replacement token has been appended to out.
func (p *Preprocessor) rewrite(sc *scanner.Scanner, out *bytes.Buffer, name string) error {
	sc.SkipWhitespace()
	ch, ok := sc.Byte()
	if !ok || ch != '"' {
		return &Error{
			Path:    name,
			Line:    sc.Line(),
			Snippet: snippet(sc.Remaining()),
			Err:     ErrInvalidInvocation,
		}
	}
	openLine := sc.Line()
	sc.Advance(1)

	lit, terminated := scanLiteral(sc.Remaining())
	if !terminated {
		return &Error{
			Path:    name,
			Line:    openLine,
			Snippet: snippet(lit),
			Err:     ErrUnterminatedLiteral,
		}
	}

	h := p.hashFunc()(lit)
	if p.Registry != nil {
		if err := p.Registry.record(h, lit); err != nil {
			return &Error{Path: name, Line: openLine, Err: err}
		}
	}
	fmt.Fprintf(out, "%s /* \"%s\" */", hash.Format(h), lit)

	sc.Advance(len(lit) + 1) // literal plus closing quote
	sc.SkipWhitespace()
	ch, ok = sc.Byte()
	if !ok || ch != ')' {
		return &Error{
			Path:    name,
			Line:    sc.Line(),
			Snippet: string(lit),
			Err:     ErrMissingCloseParen,
		}
	}
	sc.Advance(1)
	return nil
}

// scanLiteral reads a string literal's raw bytes from data, which
// starts just past the opening quote. A backslash consumes itself plus
// the following byte; which escape codes are legal is not sid's
// concern. Returns the literal span (closing quote excluded) and
// whether a terminating quote was found before end of input.
func scanLiteral(data []byte) ([]byte, bool) {
	i := 0
	for i < len(data) {
		switch data[i] {
		case '\\':
			i += 2
		case '"':
			return data[:i], true
		default:
			i++
		}
	}
	return data, false
}

func (p *Preprocessor) markerName() string {
	if p.Marker == "" {
		return DefaultMarker
	}
	return p.Marker
}

func (p *Preprocessor) hashFunc() hash.Func {
	if p.Hash == nil {
		return hash.DJB2
	}
	return p.Hash
}
