// Package format houses the low-level decoders for the note tree container
// found in note backups. Everything here works over a Cursor that wraps an
// in-memory byte slice; higher-level packages assemble records from these
// primitives.
package format

// Marker is the single byte that announces which field schema follows.
type Marker byte

// Markers used by the record grammar, in the order they appear on disk.
const (
	MarkerLeadIn      Marker = 0x0a
	MarkerActiveScene Marker = 0x3a
	MarkerConfig40    Marker = 0x40
	MarkerScene5A     Marker = 0x5a
	MarkerScene62     Marker = 0x62
	MarkerScene6A     Marker = 0x6a
	MarkerScene72     Marker = 0x72
	MarkerBlob78      Marker = 0x78
	MarkerBlobAA      Marker = 0xaa
	MarkerRawB5       Marker = 0xb5
	MarkerRawBD       Marker = 0xbd
	MarkerTextC2      Marker = 0xc2
	MarkerD0          Marker = 0xd0
)

// Markers only seen by the exploratory scanner.
const (
	Marker10 Marker = 0x10
	Marker18 Marker = 0x18
	MarkerB7 Marker = 0xb7
)

// SceneMarkers are the four sequential scene blob markers.
var SceneMarkers = [4]Marker{MarkerScene5A, MarkerScene62, MarkerScene6A, MarkerScene72}

const (
	// IdentifierSize is the on-disk size of an identifier: 32 hex characters.
	IdentifierSize = 32

	// MaxLength is the largest value the two-byte length encoding can carry.
	MaxLength = 0x3fff

	// LengthContinuation is the high bit that marks a two-byte length.
	LengthContinuation = 0x80

	// LengthLowMask keeps the seven value bits of the first length byte.
	LengthLowMask = 0x7f
)

// Record lead-in. Layout:
//
//	0x00  0x0a
//	0x01  2 opaque bytes
//	0x03  0x0a
//	0x04  0x20, followed by the primary identifier
const (
	LeadInSize       = 5
	LeadInTagByte    = 0x0a
	LeadInSubTagByte = 0x0a
	LeadInIDTagByte  = 0x20
)

// Block following the primary identifier. Byte 13 is fixed, byte 14 selects
// whether a secondary identifier follows.
const (
	BlockSize         = 15
	BlockFixedOffset  = 13
	BlockFixedByte    = 0x31
	BlockSelectOffset = 14

	// BlockSelectSecondary means a secondary identifier frame follows.
	BlockSelectSecondary = 0x22
	// BlockSelectName means the name follows directly.
	BlockSelectName = 0x32

	// SecondaryIDTagByte precedes the secondary identifier.
	SecondaryIDTagByte = 0x20
	// SecondaryIDEndByte closes the secondary identifier frame.
	SecondaryIDEndByte = 0x32
)

// Raw field sizes.
const (
	Config40Size = 11 // 1+4+4+1+1
	Raw78Size    = 18
	RawAASize    = 1
	RawB5Size    = 5
	RawBDSize    = 5
	RawC2Size    = 1
)

// 0xd0 field. A 5-byte head, an optional 5-byte extension gated by a peeked
// 0x80, an optional single byte gated by a peeked 0x01, then a fixed 8-byte tail.
const (
	D0HeadSize      = 5
	D0ExtSize       = 5
	D0ExtPeekByte   = 0x80
	D0ExtraSize     = 1
	D0ExtraPeekByte = 0x01
	D0TailSize      = 8
)

// D0Tail is the fixed byte sequence closing the 0xd0 field.
var D0Tail = []byte{0xa0, 0x02, 0x03, 0xa8, 0x02, 0x01, 0xba, 0x02}

// Record trailer: 0x0a followed by the literal "share_user".
const (
	TrailerSize = 11
	// TrailerSuffixSize is the size of the optional suffix present when the
	// byte after the trailer is not the next record's lead-in.
	TrailerSuffixSize = 3
)

// Trailer is the fixed tag string that closes every record.
var Trailer = []byte{0x0a, 's', 'h', 'a', 'r', 'e', '_', 'u', 's', 'e', 'r'}

// File header read by the exploratory scanner. Layout:
//
//	0x00  uint32 LE magic 0x0a18f40a
//	0x04  0x20 separator
//	0x05  identifier (32 hex characters)
//	0x25  15 opaque bytes
//	0x34  length-prefixed name
const (
	HeaderMagic     = 0x0a18f40a
	HeaderMagicSize = 4
	HeaderSeparator = 0x20
)

// Scanner payload sizes for markers outside the strict grammar.
const (
	ScanSub0ASize = 6 // 0x0a 0x02: 03 a8 02 01 ba 02
	Scan10Size    = 6
	Scan18Size    = 4
	ScanB7Size    = 2

	// ScanSubID follows 0x0a when an identifier comes next.
	ScanSubID = 0x20
	// ScanSubSkip follows 0x0a when six opaque bytes come next.
	ScanSubSkip = 0x02

	// DefaultScanIterations bounds the exploratory tag loop.
	DefaultScanIterations = 12
)
