package notetree

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/joshuapare/booxkit/internal/format"
)

// DecodeRecord decodes one record at the cursor.
//
// An exhausted cursor returns io.EOF, the normal end of a stream. Any other
// failure aborts the record and returns a *FieldError (wrapping one of the
// Err* kinds) that names the failing step; nothing past the failing byte is
// read. The cursor is left where the failure happened so a caller can decide
// how to resynchronise.
func DecodeRecord(c *Cursor) (*Record, error) {
	if c.EOF() {
		return nil, io.EOF
	}
	d := recordDecoder{c: c, rec: &Record{Offset: c.Offset()}}
	if err := d.decode(); err != nil {
		return nil, err
	}
	d.rec.Length = c.Offset() - d.rec.Offset
	return d.rec, nil
}

type recordDecoder struct {
	c   *Cursor
	rec *Record
}

func (d *recordDecoder) decode() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"lead-in", d.leadIn},
		{"identifier", d.primaryID},
		{"block", d.block},
		{"name", d.name},
		{"active scene", d.activeScene},
		{"config 0x40", d.config40},
		{"scenes", d.scenes},
		{"blob 0x78", d.blob78},
		{"blob 0xaa", d.blobAA},
		{"raw 0xb5", d.rawB5},
		{"raw 0xbd", d.rawBD},
		{"text 0xc2", d.textC2},
		{"field 0xd0", d.fieldD0},
		{"trailer", d.trailer},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return at(s.name, err)
		}
	}
	return nil
}

func (d *recordDecoder) leadIn() error {
	off := d.c.Offset()
	b, err := d.c.Read(format.LeadInSize)
	if err != nil {
		return err
	}
	copy(d.rec.LeadIn[:], b)
	if err := format.ExpectAt("lead-in", off, b, 0, format.LeadInTagByte); err != nil {
		return err
	}
	if err := format.ExpectAt("lead-in", off, b, 3, format.LeadInSubTagByte); err != nil {
		return err
	}
	return format.ExpectAt("lead-in", off, b, 4, format.LeadInIDTagByte)
}

func (d *recordDecoder) primaryID() error {
	id, err := format.DecodeIdentifier(d.c)
	if err != nil {
		return err
	}
	d.rec.ID = id
	return nil
}

// block reads the 15 opaque bytes after the primary identifier. Its last
// byte decides whether a secondary identifier frame precedes the name.
func (d *recordDecoder) block() error {
	off := d.c.Offset()
	b, err := d.c.Read(format.BlockSize)
	if err != nil {
		return err
	}
	copy(d.rec.Block[:], b)
	if err := format.ExpectAt("block", off, b, format.BlockFixedOffset, format.BlockFixedByte); err != nil {
		return err
	}

	switch sel := b[format.BlockSelectOffset]; sel {
	case format.BlockSelectName:
		return nil
	case format.BlockSelectSecondary:
		id, err := d.secondaryID()
		if err != nil {
			return at("secondary identifier", err)
		}
		d.rec.SecondaryID = uuid.NullUUID{UUID: id, Valid: true}
		return nil
	default:
		return &FieldError{
			Offset:   off + format.BlockSelectOffset,
			Field:    "block selector",
			Expected: []byte{format.BlockSelectName, format.BlockSelectSecondary},
			Actual:   []byte{sel},
			Err:      ErrGrammarViolation,
		}
	}
}

func (d *recordDecoder) secondaryID() (uuid.UUID, error) {
	if err := format.Expect(d.c, "secondary tag", format.SecondaryIDTagByte); err != nil {
		return uuid.Nil, err
	}
	id, err := format.DecodeIdentifier(d.c)
	if err != nil {
		return uuid.Nil, err
	}
	if err := format.Expect(d.c, "secondary end", format.SecondaryIDEndByte); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (d *recordDecoder) name() error {
	s, err := format.ReadText(d.c)
	if err != nil {
		return err
	}
	d.rec.Name = s
	return nil
}

func (d *recordDecoder) activeScene() error {
	blob, err := d.markedBlob(format.MarkerActiveScene, nil)
	if err != nil {
		return err
	}
	d.rec.ActiveScene = blob
	return nil
}

func (d *recordDecoder) config40() error {
	return d.markedRaw(format.MarkerConfig40, d.rec.Config40[:])
}

func (d *recordDecoder) scenes() error {
	for i, m := range format.SceneMarkers {
		blob, err := d.markedBlob(m, nil)
		if err != nil {
			return err
		}
		d.rec.Scenes[i] = blob
	}
	return nil
}

func (d *recordDecoder) blob78() error {
	blob, err := d.markedBlob(format.MarkerBlob78, d.rec.Raw78[:])
	if err != nil {
		return err
	}
	d.rec.Blob78 = blob
	return nil
}

func (d *recordDecoder) blobAA() error {
	var raw [format.RawAASize]byte
	blob, err := d.markedBlob(format.MarkerBlobAA, raw[:])
	if err != nil {
		return err
	}
	d.rec.BlobAA = blob
	d.rec.RawAA = raw[0]
	return nil
}

func (d *recordDecoder) rawB5() error {
	return d.markedRaw(format.MarkerRawB5, d.rec.RawB5[:])
}

func (d *recordDecoder) rawBD() error {
	return d.markedRaw(format.MarkerRawBD, d.rec.RawBD[:])
}

func (d *recordDecoder) textC2() error {
	var raw [format.RawC2Size]byte
	if err := d.markedRaw(format.MarkerTextC2, raw[:]); err != nil {
		return err
	}
	d.rec.RawC2 = raw[0]
	s, err := format.ReadText(d.c)
	if err != nil {
		return err
	}
	d.rec.TextC2 = s
	return nil
}

// fieldD0 reads the 0xd0 field. Each optional level is decided by peeking
// one byte; the fixed tail must match format.D0Tail exactly.
func (d *recordDecoder) fieldD0() error {
	f := &d.rec.D0
	if err := d.markedRaw(format.MarkerD0, f.Head[:]); err != nil {
		return err
	}
	if b, ok := d.c.PeekByte(); ok && b == format.D0ExtPeekByte {
		ext, err := d.c.Read(format.D0ExtSize)
		if err != nil {
			return err
		}
		copy(f.Ext[:], ext)
		f.Extension = D0Short
		if b, ok := d.c.PeekByte(); ok && b == format.D0ExtraPeekByte {
			if _, err := d.c.ReadByte(); err != nil {
				return err
			}
			f.Extra = format.D0ExtraPeekByte
			f.Extension = D0Long
		}
	}
	off := d.c.Offset()
	tail, err := d.c.Read(format.D0TailSize)
	if err != nil {
		return err
	}
	copy(f.Tail[:], tail)
	return format.ExpectBytes("d0 tail", off, format.D0Tail, tail)
}

// trailer checks the fixed tag string and picks up the optional 3-byte
// suffix when the stream continues with something other than a lead-in.
func (d *recordDecoder) trailer() error {
	off := d.c.Offset()
	b, err := d.c.Read(format.TrailerSize)
	if err != nil {
		return err
	}
	if err := format.ExpectBytes("trailer", off, format.Trailer, b); err != nil {
		return err
	}
	if next, ok := d.c.PeekByte(); ok && next != format.LeadInTagByte {
		suffix, err := d.c.Read(format.TrailerSuffixSize)
		if err != nil {
			return at("trailer suffix", err)
		}
		d.rec.TrailerSuffix = append([]byte(nil), suffix...)
	}
	return nil
}

// markedRaw checks the marker and copies len(dst) raw bytes into dst.
func (d *recordDecoder) markedRaw(m Marker, dst []byte) error {
	if err := format.ExpectMarker(d.c, m); err != nil {
		return err
	}
	b, err := d.c.Read(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// markedBlob checks the marker, copies len(raw) opaque bytes into raw and
// reads a length-prefixed JSON blob.
func (d *recordDecoder) markedBlob(m Marker, raw []byte) (JSONBlob, error) {
	if err := format.ExpectMarker(d.c, m); err != nil {
		return JSONBlob{}, err
	}
	if len(raw) > 0 {
		b, err := d.c.Read(len(raw))
		if err != nil {
			return JSONBlob{}, err
		}
		copy(raw, b)
	}
	off, text, err := format.ReadJSONBlob(d.c)
	if err != nil {
		return JSONBlob{}, err
	}
	return JSONBlob{Marker: m, Offset: off, Text: text}, nil
}

// at names the grammar step on a field error.
func at(step string, err error) error {
	var fe *FieldError
	if !errors.As(err, &fe) {
		return fmt.Errorf("%s: %w", step, err)
	}
	switch fe.Field {
	case "":
		fe.Field = step
	case step:
	default:
		fe.Field = step + ": " + fe.Field
	}
	return err
}
