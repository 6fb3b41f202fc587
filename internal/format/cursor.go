package format

import (
	"fmt"

	"github.com/joshuapare/booxkit/internal/buf"
)

// Cursor is a read position over an in-memory byte stream. Reads consume,
// peeks never move the position. A Cursor belongs to one decode call at a time.
//
// Slices returned by Read and Peek alias the underlying buffer; callers that
// keep them beyond the lifetime of the buffer must copy.
type Cursor struct {
	data []byte
	off  int
}

// NewCursor returns a cursor positioned at the start of b.
func NewCursor(b []byte) *Cursor {
	return &Cursor{data: b}
}

// Offset returns the current read position.
func (c *Cursor) Offset() int { return c.off }

// Len returns the total size of the stream.
func (c *Cursor) Len() int { return len(c.data) }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.data) - c.off }

// EOF reports whether every byte has been consumed.
func (c *Cursor) EOF() bool { return c.off >= len(c.data) }

// Bytes returns the whole underlying stream.
func (c *Cursor) Bytes() []byte { return c.data }

// Read consumes n bytes. It is all-or-nothing: when fewer than n bytes remain
// it fails with ErrTruncated and the position does not change.
func (c *Cursor) Read(n int) ([]byte, error) {
	b, err := c.Peek(n)
	if err != nil {
		return nil, err
	}
	c.off += n
	return b, nil
}

// ReadByte consumes a single byte.
func (c *Cursor) ReadByte() (byte, error) {
	if c.off >= len(c.data) {
		return 0, c.truncated(1)
	}
	b := c.data[c.off]
	c.off++
	return b, nil
}

// Peek returns the next n bytes without consuming them.
func (c *Cursor) Peek(n int) ([]byte, error) {
	b, ok := buf.Slice(c.data, c.off, n)
	if !ok {
		return nil, c.truncated(n)
	}
	return b, nil
}

// PeekByte returns the next byte without consuming it; ok is false at end of stream.
func (c *Cursor) PeekByte() (b byte, ok bool) {
	if c.off >= len(c.data) {
		return 0, false
	}
	return c.data[c.off], true
}

// Skip consumes n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	_, err := c.Read(n)
	return err
}

// Seek moves the position to off, which must lie within [0, Len()].
func (c *Cursor) Seek(off int) error {
	if off < 0 || off > len(c.data) {
		return fmt.Errorf("format: seek to %d outside stream of %d bytes", off, len(c.data))
	}
	c.off = off
	return nil
}

func (c *Cursor) truncated(need int) error {
	return &FieldError{
		Offset: c.off,
		Err:    fmt.Errorf("%w (need %d bytes, have %d)", ErrTruncated, need, c.Remaining()),
	}
}

// FindLeadIn returns the first offset at or after from where the record
// lead-in assertions hold (0x0a, two opaque bytes, 0x0a, 0x20), or -1.
func FindLeadIn(b []byte, from int) int {
	for i := buf.Index(b, from, []byte{LeadInTagByte}); i >= 0; i = buf.Index(b, i+1, []byte{LeadInTagByte}) {
		lead, ok := buf.Slice(b, i, LeadInSize)
		if !ok {
			return -1
		}
		if lead[3] == LeadInSubTagByte && lead[4] == LeadInIDTagByte {
			return i
		}
	}
	return -1
}
