// Package scanner provides the copying scanner at the heart of the sid
// preprocessor. It walks an input buffer byte by byte, transcribing
// everything verbatim to an output buffer, and stops at each marker
// invocation (the marker token immediately followed by an opening
// parenthesis) so the caller can rewrite it.
//
// The marker is matched only at the start of an alphanumeric run, so a
// marker name embedded inside a longer identifier never fires. On a
// failed match the whole run is copied in one go rather than byte by
// byte, which prevents re-triggering on a substring of the same run.
package scanner

import "bytes"

// Scanner iterates over src, copying non-invocation bytes to out.
// The read position only moves forward; every input byte is either
// copied to out or consumed as part of a recognized invocation.
type Scanner struct {
	src    []byte
	marker []byte // marker token plus opening paren, e.g. "SID("
	pos    int
	line   int
	out    *bytes.Buffer
}

// New creates a Scanner over src looking for marker invocations,
// appending copied bytes to out. marker is the bare token name
// ("SID"); the opening parenthesis is implied.
func New(src []byte, marker string, out *bytes.Buffer) *Scanner {
	return &Scanner{
		src:    src,
		marker: append([]byte(marker), '('),
		line:   1,
		out:    out,
	}
}

// Scan copies bytes verbatim to the output buffer until it finds the
// next marker invocation or reaches end of input. Returns true when an
// invocation was found; the read position is then just past the
// marker's opening parenthesis. Returns false at end of input, with
// every remaining byte copied.
func (s *Scanner) Scan() bool {
	for {
		if s.eof() {
			return false
		}
		s.copyWhitespace()
		if s.eof() {
			return false
		}
		ch := s.src[s.pos]
		if !isAlnum(ch) {
			s.copyByte()
			continue
		}
		// Start of an alphanumeric run: the only place a marker
		// token may begin.
		if bytes.HasPrefix(s.src[s.pos:], s.marker) {
			s.pos += len(s.marker)
			return true
		}
		s.copyAlnumRun()
	}
}

// Pos returns the current read offset into the input.
func (s *Scanner) Pos() int { return s.pos }

// SetPos moves the read position forward to pos, updating line
// tracking. The scanner never walks backwards; positions before the
// current one are ignored.
func (s *Scanner) SetPos(pos int) {
	for s.pos < pos && s.pos < len(s.src) {
		if s.src[s.pos] == '\n' {
			s.line++
		}
		s.pos++
	}
}

// Advance moves the read position forward n bytes without copying.
func (s *Scanner) Advance(n int) {
	s.SetPos(s.pos + n)
}

// Line returns the 1-based line number of the current read position.
func (s *Scanner) Line() int { return s.line }

// Byte returns the byte at the current read position, or (0, false) at
// end of input.
func (s *Scanner) Byte() (byte, bool) {
	if s.eof() {
		return 0, false
	}
	return s.src[s.pos], true
}

// Remaining returns the unread tail of the input.
func (s *Scanner) Remaining() []byte { return s.src[s.pos:] }

// SkipWhitespace advances the read position past any whitespace run
// without copying it. Used inside invocations, where the surrounding
// text is replaced rather than transcribed.
func (s *Scanner) SkipWhitespace() {
	for !s.eof() && isSpace(s.src[s.pos]) {
		if s.src[s.pos] == '\n' {
			s.line++
		}
		s.pos++
	}
}

func (s *Scanner) eof() bool { return s.pos >= len(s.src) }

func (s *Scanner) copyByte() {
	if s.src[s.pos] == '\n' {
		s.line++
	}
	s.out.WriteByte(s.src[s.pos])
	s.pos++
}

func (s *Scanner) copyWhitespace() {
	for !s.eof() && isSpace(s.src[s.pos]) {
		s.copyByte()
	}
}

// copyAlnumRun copies an entire alphanumeric run in one step. Copying
// the run wholesale (rather than one byte and rescanning) is what
// keeps a marker name inside a longer identifier from matching.
func (s *Scanner) copyAlnumRun() {
	start := s.pos
	for !s.eof() && isAlnum(s.src[s.pos]) {
		s.pos++
	}
	s.out.Write(s.src[start:s.pos])
}

// isSpace matches C's isspace over ASCII, the whitespace model of the
// source files sid processes.
func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isAlnum(ch byte) bool {
	return ch >= '0' && ch <= '9' ||
		ch >= 'a' && ch <= 'z' ||
		ch >= 'A' && ch <= 'Z'
}
