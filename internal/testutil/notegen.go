// Package testutil builds synthetic note tree streams for tests.
package testutil

import (
	"testing"

	"github.com/joshuapare/booxkit/internal/buf"
	"github.com/joshuapare/booxkit/internal/format"
)

// Identifiers used when a spec leaves them empty.
const (
	DefaultID          = "6f1c2a3b4d5e4f608a9b0c1d2e3f4a5b"
	DefaultSecondaryID = "0f0e0d0c0b0a49088706050403020100"
)

// D0 extension levels for RecordSpec.D0Level.
const (
	D0None  = 0 // 5-byte head + tail
	D0Short = 1 // head + 5-byte extension + tail
	D0Long  = 2 // head + extension + 1 byte + tail
)

// RecordSpec describes one synthetic record. Zero values produce a valid
// record with empty texts and zeroed opaque bytes.
type RecordSpec struct {
	LeadInOpaque [2]byte
	ID           string // 32 hex characters; DefaultID when empty
	Block        [format.BlockSize]byte
	SecondaryID  string // non-empty selects the secondary identifier branch
	Name         string

	ActiveScene string
	Config40    [format.Config40Size]byte
	Scenes      [4]string
	Raw78       [format.Raw78Size]byte
	Blob78      string
	RawAA       byte
	BlobAA      string
	RawB5       [format.RawB5Size]byte
	RawBD       [format.RawBDSize]byte
	RawC2       byte
	TextC2      string

	D0Head  [format.D0HeadSize]byte
	D0Level int
	D0Ext   [format.D0ExtSize]byte // first byte is forced to 0x80

	// TrailerSuffix is written after the trailer; its first byte must not be
	// 0x0a for a decoder to pick it up.
	TrailerSuffix []byte
}

// Built is an encoded record plus the offset of every grammar step, keyed
// by step name ("lead-in", "id", "block", "secondary", "name", "0x3a", ...,
// "0xd0", "trailer", "suffix").
type Built struct {
	Bytes   []byte
	Offsets map[string]int
}

// BuildRecord encodes spec. It panics on texts longer than the length
// encoding allows; use MustRecord from tests.
func BuildRecord(spec RecordSpec) Built {
	w := &writer{offsets: map[string]int{}}

	w.mark("lead-in")
	w.put(format.LeadInTagByte, spec.LeadInOpaque[0], spec.LeadInOpaque[1], format.LeadInSubTagByte, format.LeadInIDTagByte)
	w.mark("id")
	w.put([]byte(orDefault(spec.ID, DefaultID))...)

	block := spec.Block
	block[format.BlockFixedOffset] = format.BlockFixedByte
	if spec.SecondaryID != "" {
		block[format.BlockSelectOffset] = format.BlockSelectSecondary
	} else {
		block[format.BlockSelectOffset] = format.BlockSelectName
	}
	w.mark("block")
	w.put(block[:]...)
	if spec.SecondaryID != "" {
		w.mark("secondary")
		w.put(format.SecondaryIDTagByte)
		w.put([]byte(spec.SecondaryID)...)
		w.put(format.SecondaryIDEndByte)
	}
	w.mark("name")
	w.text(spec.Name)

	w.marker(format.MarkerActiveScene)
	w.text(spec.ActiveScene)
	w.marker(format.MarkerConfig40)
	w.put(spec.Config40[:]...)
	for i, m := range format.SceneMarkers {
		w.marker(m)
		w.text(spec.Scenes[i])
	}
	w.marker(format.MarkerBlob78)
	w.put(spec.Raw78[:]...)
	w.text(spec.Blob78)
	w.marker(format.MarkerBlobAA)
	w.put(spec.RawAA)
	w.text(spec.BlobAA)
	w.marker(format.MarkerRawB5)
	w.put(spec.RawB5[:]...)
	w.marker(format.MarkerRawBD)
	w.put(spec.RawBD[:]...)
	w.marker(format.MarkerTextC2)
	w.put(spec.RawC2)
	w.text(spec.TextC2)

	w.marker(format.MarkerD0)
	w.put(spec.D0Head[:]...)
	if spec.D0Level >= D0Short {
		ext := spec.D0Ext
		ext[0] = format.D0ExtPeekByte
		w.put(ext[:]...)
	}
	if spec.D0Level >= D0Long {
		w.put(format.D0ExtraPeekByte)
	}
	w.put(format.D0Tail...)

	w.mark("trailer")
	w.put(format.Trailer...)
	if len(spec.TrailerSuffix) > 0 {
		w.mark("suffix")
		w.put(spec.TrailerSuffix...)
	}
	return Built{Bytes: w.b, Offsets: w.offsets}
}

// MustRecord is BuildRecord for tests, with an optional mutate hook applied
// to the encoded bytes.
func MustRecord(t testing.TB, spec RecordSpec, mutate func([]byte)) Built {
	t.Helper()
	var built Built
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("BuildRecord: %v", r)
			}
		}()
		built = BuildRecord(spec)
	}()
	if mutate != nil {
		mutate(built.Bytes)
	}
	return built
}

// Header encodes the file header read by the exploratory scanner.
func Header(id string, block [format.BlockSize]byte, name string) []byte {
	w := &writer{offsets: map[string]int{}}
	magic := make([]byte, format.HeaderMagicSize)
	buf.PutU32LE(magic, format.HeaderMagic)
	w.put(magic...)
	w.put(format.HeaderSeparator)
	w.put([]byte(orDefault(id, DefaultID))...)
	w.put(block[:]...)
	w.text(name)
	return w.b
}

// Concat joins encoded records into one stream.
func Concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

type writer struct {
	b       []byte
	offsets map[string]int
}

func (w *writer) mark(step string) { w.offsets[step] = len(w.b) }

func (w *writer) put(b ...byte) { w.b = append(w.b, b...) }

func (w *writer) marker(m format.Marker) {
	w.mark(markerKey(m))
	w.put(byte(m))
}

func (w *writer) text(s string) {
	n, err := format.EncodeLength(len(s))
	if err != nil {
		panic(err)
	}
	w.put(n...)
	w.put([]byte(s)...)
}

func markerKey(m format.Marker) string {
	const digits = "0123456789abcdef"
	return "0x" + string([]byte{digits[byte(m)>>4], digits[byte(m)&0x0f]})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
