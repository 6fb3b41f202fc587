// Package hexview renders raw byte ranges for diagnostics: a hex column and
// a character column, with each byte classified so callers can colour it.
package hexview

import (
	"strconv"
	"strings"
)

// Class groups bytes for display.
type Class int

const (
	// Printable covers ASCII 0x20-0x7e, space included.
	Printable Class = iota
	// Whitespace covers \t \n \v \f \r.
	Whitespace
	// Other is any byte outside the two classes above.
	Other
)

// Placeholder replaces whitespace and non-printable bytes in the character column.
const Placeholder = ':'

// Classify returns the display class of b.
func Classify(b byte) Class {
	switch {
	case b >= 0x20 && b <= 0x7e:
		return Printable
	case b >= '\t' && b <= '\r':
		return Whitespace
	default:
		return Other
	}
}

// Styler decorates one rendered token of the given class.
type Styler func(Class, string) string

// Plain leaves tokens untouched.
func Plain(_ Class, s string) string { return s }

const hexDigits = "0123456789abcdef"

// Hex renders b as space-separated hex pairs followed by the byte count,
// e.g. "0a 20 (2 bytes)". A nil style means Plain.
func Hex(b []byte, style Styler) string {
	if style == nil {
		style = Plain
	}
	var sb strings.Builder
	sb.Grow(len(b)*3 + 12)
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(style(Classify(v), string([]byte{hexDigits[v>>4], hexDigits[v&0x0f]})))
	}
	if len(b) > 0 {
		sb.WriteByte(' ')
	}
	sb.WriteByte('(')
	sb.WriteString(strconv.Itoa(len(b)))
	sb.WriteString(" bytes)")
	return sb.String()
}

// Chars renders printable bytes as themselves and everything else as Placeholder.
func Chars(b []byte) string {
	out := make([]byte, len(b))
	for i, v := range b {
		if Classify(v) == Printable {
			out[i] = v
		} else {
			out[i] = Placeholder
		}
	}
	return string(out)
}

// Compact renders b as space-separated hex pairs without a byte count.
func Compact(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	out := make([]byte, 0, len(b)*3-1)
	for i, v := range b {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, hexDigits[v>>4], hexDigits[v&0x0f])
	}
	return string(out)
}
