package notetree

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/joshuapare/booxkit/internal/buf"
	"github.com/joshuapare/booxkit/internal/format"
)

// Header is the leading frame of a backup file as read by the exploratory
// scanner.
type Header struct {
	Offset int
	Magic  uint32
	ID     uuid.UUID
	Block  [format.BlockSize]byte
	Name   string
}

// ReadHeader reads the file header: a little-endian magic, a 0x20
// separator, an identifier, 15 opaque bytes and a length-prefixed name.
func ReadHeader(c *Cursor) (*Header, error) {
	h := &Header{Offset: c.Offset()}

	off := c.Offset()
	magic, err := c.Read(format.HeaderMagicSize)
	if err != nil {
		return nil, at("header magic", err)
	}
	h.Magic = buf.U32LE(magic)
	if h.Magic != format.HeaderMagic {
		want := make([]byte, format.HeaderMagicSize)
		buf.PutU32LE(want, format.HeaderMagic)
		return nil, format.ExpectBytes("header magic", off, want, magic)
	}
	if err := format.Expect(c, "header separator", format.HeaderSeparator); err != nil {
		return nil, err
	}
	if h.ID, err = format.DecodeIdentifier(c); err != nil {
		return nil, at("header identifier", err)
	}
	block, err := c.Read(format.BlockSize)
	if err != nil {
		return nil, at("header block", err)
	}
	copy(h.Block[:], block)
	if h.Name, err = format.ReadText(c); err != nil {
		return nil, at("header name", err)
	}
	return h, nil
}

// ScanEntry is one marker read by the exploratory scanner.
type ScanEntry struct {
	Offset int
	Marker Marker
	Known  bool

	// Sub is the byte after 0x0a; HasSub reports whether it was read.
	Sub    byte
	HasSub bool

	ID     uuid.NullUUID // 0x0a 0x20
	Text   string        // JSON blob or text payload
	Raw    []byte        // opaque bytes, copied
	Length int           // 0xb7: the length value read without its payload

	Err error
}

// ScanReport is the result of an exploratory scan.
type ScanReport struct {
	Header  *Header
	Entries []ScanEntry
	End     int   // cursor offset when the scan stopped
	Err     error // truncation that ended the scan early, if any
}

// Unknown returns the entries whose marker is not in the dispatch table.
func (r *ScanReport) Unknown() []ScanEntry {
	var out []ScanEntry
	for _, e := range r.Entries {
		if !e.Known {
			out = append(out, e)
		}
	}
	return out
}

// Scan reads up to opts.Iterations markers and dispatches each on a table
// of known payload shapes. It does not enforce marker order.
//
// This path is for exploring unfamiliar layouts. An unknown marker is
// reported but consumes no payload, so later entries are likely misaligned.
// Field errors are recorded on the entry and scanning continues; running
// out of input ends the scan and is recorded in ScanReport.Err. The only
// error returned is a failure to read the header when opts.Header is set.
func Scan(c *Cursor, opts ScanOptions) (*ScanReport, error) {
	log := loggerOr(opts.Logger)
	report := &ScanReport{}
	if opts.Header {
		h, err := ReadHeader(c)
		if err != nil {
			report.End = c.Offset()
			report.Err = err
			return report, err
		}
		report.Header = h
		log.Debug("header", "id", h.ID.String(), "name", h.Name)
	}

	for i := 0; i < opts.iterations(); i++ {
		if c.EOF() {
			break
		}
		entry := scanOne(c)
		report.Entries = append(report.Entries, entry)
		log.Debug("marker",
			"offset", entry.Offset,
			"marker", fmt.Sprintf("0x%02x", byte(entry.Marker)),
			"known", entry.Known,
			"error", entry.Err,
		)
		if errors.Is(entry.Err, ErrTruncated) {
			report.Err = entry.Err
			break
		}
	}
	report.End = c.Offset()
	return report, nil
}

func scanOne(c *Cursor) ScanEntry {
	e := ScanEntry{Offset: c.Offset(), Known: true}
	m, err := c.ReadByte()
	if err != nil {
		e.Err = err
		return e
	}
	e.Marker = Marker(m)

	switch e.Marker {
	case format.MarkerLeadIn:
		e.Err = scanSub(c, &e)
	case format.MarkerActiveScene, format.MarkerScene5A, format.MarkerScene62,
		format.MarkerScene6A, format.MarkerScene72:
		_, e.Text, e.Err = format.ReadJSONBlob(c)
	case format.MarkerConfig40:
		e.Err = scanRaw(c, &e, format.Config40Size)
	case format.MarkerBlob78:
		if e.Err = scanRaw(c, &e, format.Raw78Size); e.Err == nil {
			_, e.Text, e.Err = format.ReadJSONBlob(c)
		}
	case format.MarkerBlobAA, format.MarkerTextC2:
		if e.Err = scanRaw(c, &e, 1); e.Err == nil {
			e.Text, e.Err = format.ReadText(c)
		}
	case format.MarkerRawB5, format.MarkerRawBD:
		e.Err = scanRaw(c, &e, format.RawB5Size)
	case format.MarkerD0:
		e.Err = scanD0(c, &e)
	case format.Marker10:
		e.Err = scanRaw(c, &e, format.Scan10Size)
	case format.Marker18:
		e.Err = scanRaw(c, &e, format.Scan18Size)
	case format.MarkerB7:
		if e.Err = scanRaw(c, &e, format.ScanB7Size); e.Err == nil {
			e.Length, e.Err = format.DecodeLength(c)
		}
	default:
		e.Known = false
	}
	if e.Err != nil {
		e.Err = at(e.Marker.String(), e.Err)
	}
	return e
}

func scanSub(c *Cursor, e *ScanEntry) error {
	sub, err := c.ReadByte()
	if err != nil {
		return err
	}
	e.Sub, e.HasSub = sub, true
	switch sub {
	case format.ScanSubID:
		id, err := format.DecodeIdentifier(c)
		if err != nil {
			return err
		}
		e.ID = uuid.NullUUID{UUID: id, Valid: true}
	case format.ScanSubSkip:
		return scanRaw(c, e, format.ScanSub0ASize)
	}
	return nil
}

// scanD0 is the 0xd0 field without the strict tail check.
func scanD0(c *Cursor, e *ScanEntry) error {
	if err := scanRaw(c, e, format.D0HeadSize); err != nil {
		return err
	}
	if b, ok := c.PeekByte(); !ok || b != format.D0ExtPeekByte {
		return nil
	}
	if err := scanRaw(c, e, format.D0ExtSize); err != nil {
		return err
	}
	if b, ok := c.PeekByte(); ok && b == format.D0ExtraPeekByte {
		return scanRaw(c, e, format.D0ExtraSize)
	}
	return nil
}

// scanRaw appends n opaque bytes to e.Raw.
func scanRaw(c *Cursor, e *ScanEntry, n int) error {
	b, err := c.Read(n)
	if err != nil {
		return err
	}
	e.Raw = append(e.Raw, b...)
	return nil
}
