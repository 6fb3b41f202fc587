package notetree

import (
	"github.com/google/uuid"

	"github.com/joshuapare/booxkit/internal/format"
)

// Re-export the low-level types so callers only need to import pkg/notetree.
type (
	Cursor     = format.Cursor
	Marker     = format.Marker
	FieldError = format.FieldError
	Prelude    = format.Prelude
	BraceMode  = format.BraceMode
)

// Brace counting modes.
const (
	BraceNaive      = format.BraceNaive
	BraceQuoteAware = format.BraceQuoteAware
)

// NewCursor returns a cursor positioned at the start of b.
var NewCursor = format.NewCursor

// Error kinds. Match them with errors.Is; use errors.As with *FieldError
// for the offset and the expected/actual bytes.
var (
	ErrTruncated           = format.ErrTruncated
	ErrGrammarViolation    = format.ErrGrammarViolation
	ErrMalformedIdentifier = format.ErrMalformedIdentifier
	ErrUnterminatedJSON    = format.ErrUnterminatedJSON
	ErrInvalidText         = format.ErrInvalidText
)

// JSONBlob is a length-prefixed JSON document. Text is exactly the declared
// number of bytes and valid UTF-8; its JSON syntax is not checked.
type JSONBlob struct {
	Marker Marker
	Offset int // stream offset of the first JSON byte
	Text   string
}

// D0Extension is the variant of the 0xd0 field, chosen by peeking.
type D0Extension int

const (
	// D0None: 5-byte head directly followed by the tail.
	D0None D0Extension = iota
	// D0Short: a 5-byte extension starting with 0x80 follows the head.
	D0Short
	// D0Long: the extension is followed by a single 0x01 byte.
	D0Long
)

func (e D0Extension) String() string {
	switch e {
	case D0None:
		return "none"
	case D0Short:
		return "short"
	case D0Long:
		return "long"
	default:
		return "unknown"
	}
}

// D0Field holds the raw bytes of the 0xd0 field.
type D0Field struct {
	Head      [format.D0HeadSize]byte
	Extension D0Extension
	Ext       [format.D0ExtSize]byte // zero unless Extension >= D0Short
	Extra     byte                   // zero unless Extension == D0Long
	Tail      [format.D0TailSize]byte
}

// Record is one decoded note tree node. All byte ranges are copies; a Record
// stays valid after the source buffer is released.
//
// Fields named after a marker (Config40, Raw78, BlobAA, ...) carry content
// whose meaning is not known.
type Record struct {
	Offset int // stream offset of the lead-in
	Length int // bytes consumed, trailer suffix included

	LeadIn      [format.LeadInSize]byte
	ID          uuid.UUID
	Block       [format.BlockSize]byte
	SecondaryID uuid.NullUUID
	Name        string

	ActiveScene JSONBlob // 0x3a
	Config40    [format.Config40Size]byte
	Scenes      [4]JSONBlob // 0x5a 0x62 0x6a 0x72
	Raw78       [format.Raw78Size]byte
	Blob78      JSONBlob
	RawAA       byte
	BlobAA      JSONBlob
	RawB5       [format.RawB5Size]byte
	RawBD       [format.RawBDSize]byte
	RawC2       byte
	TextC2      string
	D0          D0Field

	// TrailerSuffix holds the 3 bytes that follow the trailer when the next
	// byte is not a lead-in; nil otherwise.
	TrailerSuffix []byte
}

// SceneTexts returns the five scene/config JSON texts: the active scene
// followed by the four sequential scenes.
func (r *Record) SceneTexts() [5]string {
	return [5]string{
		r.ActiveScene.Text,
		r.Scenes[0].Text,
		r.Scenes[1].Text,
		r.Scenes[2].Text,
		r.Scenes[3].Text,
	}
}

// JSONBlobs returns every JSON blob of the record in on-disk order.
func (r *Record) JSONBlobs() []JSONBlob {
	return []JSONBlob{
		r.ActiveScene,
		r.Scenes[0], r.Scenes[1], r.Scenes[2], r.Scenes[3],
		r.Blob78,
		r.BlobAA,
	}
}
