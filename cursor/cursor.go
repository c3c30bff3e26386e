// Package cursor implements a forward byte scanner tailored to the
// handful of primitives a perf-script line grammar needs: skip
// whitespace, scan an ASCII run up to a delimiter, parse a decimal
// integer, and rewind to a single saved position.
//
// A ByteCursor owns no parsing policy of its own; it is the byte-level
// building block the parser package is built on.
package cursor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// FormatFailure reports a malformed numeric field or an unexpected
// separator at a specific byte offset in the input stream.
type FormatFailure struct {
	Offset int64
	Err    error
}

func (e *FormatFailure) Error() string {
	return fmt.Sprintf("perfscript: format error at offset %d: %v", e.Offset, e.Err)
}

func (e *FormatFailure) Unwrap() error { return e.Err }

func newFormatFailure(offset int64, format string, args ...interface{}) *FormatFailure {
	return &FormatFailure{Offset: offset, Err: fmt.Errorf(format, args...)}
}

// MarkToken identifies a position saved with Mark. It is valid for
// exactly one call to Restore.
type MarkToken struct {
	valid bool
}

// A ByteCursor is a forward-only scanner over an io.Reader with one-byte
// (or deeper) lookahead and a single-shot mark/restore point.
type ByteCursor struct {
	r   *bufio.Reader
	buf []byte // lookahead queue; buf[0], if present, is the current byte

	offset int64

	marked     bool
	markOffset int64
	recordBuf  []byte
}

// New returns a ByteCursor reading from r.
func New(r io.Reader) *ByteCursor {
	return &ByteCursor{r: bufio.NewReader(r)}
}

// fillTo ensures len(c.buf) >= n, short of reaching end of stream.
func (c *ByteCursor) fillTo(n int) {
	for len(c.buf) < n {
		b, err := c.r.ReadByte()
		if err != nil {
			return
		}
		c.buf = append(c.buf, b)
	}
}

// Current returns the byte at the cursor's read position, or 0 at end of
// stream.
func (c *ByteCursor) Current() byte {
	c.fillTo(1)
	if len(c.buf) == 0 {
		return 0
	}
	return c.buf[0]
}

// Peek returns the byte k positions ahead of the current byte (Peek(0) is
// Current()), or 0 if the stream ends first.
func (c *ByteCursor) Peek(k int) byte {
	c.fillTo(k + 1)
	if len(c.buf) <= k {
		return 0
	}
	return c.buf[k]
}

// EndOfStream reports whether there are no more bytes to read.
func (c *ByteCursor) EndOfStream() bool {
	c.fillTo(1)
	return len(c.buf) == 0
}

// Offset returns the number of bytes consumed so far.
func (c *ByteCursor) Offset() int64 { return c.offset }

// Advance moves past the current byte.
func (c *ByteCursor) Advance() {
	c.fillTo(1)
	if len(c.buf) == 0 {
		return
	}
	if c.marked {
		c.recordBuf = append(c.recordBuf, c.buf[0])
	}
	c.buf = c.buf[1:]
	c.offset++
}

// SkipWhitespace advances past ASCII whitespace.
func (c *ByteCursor) SkipWhitespace() {
	for !c.EndOfStream() && isASCIISpace(c.Current()) {
		c.Advance()
	}
}

// SkipUntil advances until the current byte equals b, without consuming
// b. It also stops at end of stream.
func (c *ByteCursor) SkipUntil(b byte) {
	for !c.EndOfStream() && c.Current() != b {
		c.Advance()
	}
}

// ReadASCIIUntil returns the bytes from the current position up to (but
// not including) the next occurrence of b, advancing past them. It stops
// early at end of stream.
func (c *ByteCursor) ReadASCIIUntil(b byte) string {
	return c.ReadASCIIWhile(func(x byte) bool { return x != b })
}

// ReadASCIIWhile returns the run of bytes starting at the current
// position for which pred holds, advancing past them.
func (c *ByteCursor) ReadASCIIWhile(pred func(byte) bool) string {
	var out []byte
	for !c.EndOfStream() && pred(c.Current()) {
		out = append(out, c.Current())
		c.Advance()
	}
	return string(out)
}

// ReadIntDecimal parses a signed decimal integer starting at the current
// byte and advances past it.
func (c *ByteCursor) ReadIntDecimal() (int32, error) {
	startOffset := c.offset
	sign := ""
	if c.Current() == '-' {
		sign = "-"
		c.Advance()
	}
	digits := c.ReadASCIIWhile(isASCIIDigit)
	if digits == "" {
		return 0, newFormatFailure(startOffset, "expected decimal integer")
	}
	v, err := strconv.ParseInt(sign+digits, 10, 32)
	if err != nil {
		return 0, newFormatFailure(startOffset, "decimal integer %q%s: %v", sign, digits, err)
	}
	return int32(v), nil
}

// Mark saves the current read position. It is valid for exactly one
// subsequent call to Restore; the parser uses it for the one lookahead
// needed to decide an event's kind before re-scanning its payload.
func (c *ByteCursor) Mark() MarkToken {
	c.marked = true
	c.markOffset = c.offset
	c.recordBuf = c.recordBuf[:0]
	return MarkToken{valid: true}
}

// Restore rewinds the cursor to the position saved by the call to Mark
// that produced tok.
func (c *ByteCursor) Restore(tok MarkToken) {
	if !tok.valid || !c.marked {
		panic("cursor: Restore called without a matching Mark")
	}
	c.buf = append(c.recordBuf, c.buf...)
	c.offset = c.markOffset
	c.marked = false
	c.recordBuf = nil
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
