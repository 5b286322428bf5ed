// Package reader implements a bounded-putback text scanner over an
// in-memory string, the primitive the parser builds line/token reads
// on top of.
package reader

import (
	"fmt"
	"strings"
)

// Reader wraps an immutable string with a cursor. All read methods
// return slices of the backing string, so scanning never allocates
// beyond the slices it hands back.
type Reader struct {
	s           string
	pos         int
	lastReadLen int
}

// New returns a Reader positioned at the start of s.
func New(s string) *Reader {
	return &Reader{s: s}
}

// Done reports whether the cursor is at the end of the string.
func (r *Reader) Done() bool {
	return r.pos >= len(r.s)
}

// ReadLine returns characters up to and including the next line feed,
// or the remainder of the string at EOF.
func (r *Reader) ReadLine() string {
	if r.Done() {
		r.lastReadLen = 0
		return ""
	}
	idx := strings.IndexByte(r.s[r.pos:], '\n')
	var out string
	if idx < 0 {
		out = r.s[r.pos:]
		r.pos = len(r.s)
	} else {
		out = r.s[r.pos : r.pos+idx+1]
		r.pos += idx + 1
	}
	r.lastReadLen = len(out)
	return out
}

// ReadUntil returns characters up to but not including the first
// occurrence of ch, advancing the cursor past them but not past ch
// itself. The second return value is false when ch was not found
// before EOF, in which case the remainder is returned and the reader
// is left done.
func (r *Reader) ReadUntil(ch byte) (string, bool) {
	if r.Done() {
		r.lastReadLen = 0
		return "", false
	}
	idx := strings.IndexByte(r.s[r.pos:], ch)
	var out string
	found := idx >= 0
	if found {
		out = r.s[r.pos : r.pos+idx]
		r.pos += idx
	} else {
		out = r.s[r.pos:]
		r.pos = len(r.s)
	}
	r.lastReadLen = len(out)
	return out, found
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// ReadUntilWhitespace returns characters up to the first ASCII
// whitespace byte, same found semantics as ReadUntil.
func (r *Reader) ReadUntilWhitespace() (string, bool) {
	if r.Done() {
		r.lastReadLen = 0
		return "", false
	}
	rest := r.s[r.pos:]
	idx := strings.IndexFunc(rest, func(rn rune) bool {
		return rn < 256 && isASCIISpace(byte(rn))
	})
	var out string
	found := idx >= 0
	if found {
		out = rest[:idx]
		r.pos += idx
	} else {
		out = rest
		r.pos = len(r.s)
	}
	r.lastReadLen = len(out)
	return out, found
}

// ReadToEnd returns and consumes the remainder of the string.
func (r *Reader) ReadToEnd() string {
	out := r.s[r.pos:]
	r.pos = len(r.s)
	r.lastReadLen = len(out)
	return out
}

// Skip advances the cursor by n characters, clamped to the end of the
// string.
func (r *Reader) Skip(n int) {
	r.pos += n
	if r.pos > len(r.s) {
		r.pos = len(r.s)
	}
	r.lastReadLen = 0
}

// SkipWhitespace advances the cursor past any run of ASCII whitespace.
func (r *Reader) SkipWhitespace() {
	for r.pos < len(r.s) && isASCIISpace(r.s[r.pos]) {
		r.pos++
	}
	r.lastReadLen = 0
}

// PutBack rewinds the cursor by n characters. n must not exceed the
// length of the most recently returned slice; a caller that needs to
// re-expose a line it just consumed (to test its prefix) calls this
// immediately after the read that produced it.
func (r *Reader) PutBack(n int) error {
	if n > r.lastReadLen {
		return fmt.Errorf("reader: put back %d exceeds last read length %d", n, r.lastReadLen)
	}
	if n < 0 {
		return fmt.Errorf("reader: put back negative length %d", n)
	}
	r.pos -= n
	r.lastReadLen -= n
	return nil
}

// PutBackLine is a convenience for the common case of putting back an
// entire line just read via ReadLine.
func (r *Reader) PutBackLine(line string) error {
	return r.PutBack(len(line))
}
