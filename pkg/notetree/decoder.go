package notetree

import (
	"errors"
	"io"
	"iter"
	"log/slog"

	"github.com/joshuapare/booxkit/internal/format"
)

// Decoder yields the records of a stream one at a time, in on-disk order.
//
//	dec := notetree.NewDecoder(data, nil)
//	for dec.Next() {
//	    rec := dec.Record()
//	    ...
//	}
//	if err := dec.Err(); err != nil {
//	    ...
//	}
//
// The stream has no record count; decoding ends when the cursor is exhausted
// exactly at a record boundary. Once Next returns false it keeps returning
// false until Resync re-arms the decoder.
type Decoder struct {
	c     *Cursor
	log   *slog.Logger
	rec   *Record
	err   error
	done  bool
	start int // offset of the record being decoded
	count int
}

// NewDecoder returns a decoder over b. A nil opts uses the defaults.
func NewDecoder(b []byte, opts *Options) *Decoder {
	return NewCursorDecoder(format.NewCursor(b), opts)
}

// NewCursorDecoder returns a decoder that consumes c from its current position.
func NewCursorDecoder(c *Cursor, opts *Options) *Decoder {
	var o Options
	if opts != nil {
		o = *opts
	}
	return &Decoder{c: c, log: loggerOr(o.Logger)}
}

// Next decodes the next record. It returns false at the end of the stream
// or on failure; Err distinguishes the two.
func (d *Decoder) Next() bool {
	if d.done {
		return false
	}
	d.start = d.c.Offset()
	rec, err := DecodeRecord(d.c)
	if err != nil {
		d.rec = nil
		d.done = true
		if errors.Is(err, io.EOF) {
			d.log.Debug("end of stream", "offset", d.start, "records", d.count)
			return false
		}
		d.err = err
		d.log.Warn("record decode failed", "record", d.count, "start", d.start, "error", err)
		return false
	}
	d.rec = rec
	d.count++
	d.log.Debug("record",
		"offset", rec.Offset,
		"length", rec.Length,
		"id", rec.ID.String(),
		"name", rec.Name,
		"d0", rec.D0.Extension.String(),
	)
	return true
}

// Record returns the record decoded by the last successful Next.
func (d *Decoder) Record() *Record { return d.rec }

// Err returns the failure that stopped the decoder, or nil after a clean end.
func (d *Decoder) Err() error { return d.err }

// Offset returns the cursor position.
func (d *Decoder) Offset() int { return d.c.Offset() }

// Count returns the number of records decoded so far.
func (d *Decoder) Count() int { return d.count }

// Resync moves the cursor to the next plausible lead-in after the start of
// the record that failed and re-arms the decoder. It returns false (leaving
// the cursor at the end of the stream) when no lead-in is found.
func (d *Decoder) Resync() bool {
	from := d.start + 1
	if d.err == nil {
		from = d.c.Offset()
	}
	next := format.FindLeadIn(d.c.Bytes(), from)
	if next < 0 {
		_ = d.c.Seek(d.c.Len())
		d.done = true
		return false
	}
	d.log.Info("resynchronised", "from", d.start, "to", next, "skipped", next-d.start)
	_ = d.c.Seek(next)
	d.err = nil
	d.done = false
	return true
}

// All returns the remaining records as a sequence. A failure is yielded once
// as a (nil, err) pair and ends the sequence.
func (d *Decoder) All() iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for d.Next() {
			if !yield(d.rec, nil) {
				return
			}
		}
		if d.err != nil {
			yield(nil, d.err)
		}
	}
}

// DecodeAll decodes every record of b. On failure it returns the records
// decoded before the failing one together with the error.
func DecodeAll(b []byte, opts *Options) ([]*Record, error) {
	dec := NewDecoder(b, opts)
	var out []*Record
	for dec.Next() {
		out = append(out, dec.Record())
	}
	return out, dec.Err()
}
