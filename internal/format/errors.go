package format

import (
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	// ErrTruncated indicates the stream ended before a required read completed.
	ErrTruncated = errors.New("format: truncated input")
	// ErrGrammarViolation indicates a fixed byte did not hold its expected value.
	ErrGrammarViolation = errors.New("format: grammar violation")
	// ErrMalformedIdentifier indicates a 32-character identifier was not hexadecimal.
	ErrMalformedIdentifier = errors.New("format: malformed identifier")
	// ErrUnterminatedJSON indicates brace depth never returned to zero.
	ErrUnterminatedJSON = errors.New("format: unterminated JSON object")
	// ErrInvalidText indicates a text or JSON payload was not valid UTF-8.
	ErrInvalidText = errors.New("format: invalid UTF-8 payload")
)

// FieldError describes a field-level decode failure with enough context to
// diagnose grammar drift: where it happened, which field, and the bytes that
// were expected versus found. It unwraps to one of the sentinel errors above.
type FieldError struct {
	Offset   int    // stream offset of the offending byte (or of the short read)
	Field    string // grammar step, e.g. "marker 0x5a"
	Expected []byte // nil when the failure is not a byte comparison
	Actual   []byte
	Err      error
}

func (e *FieldError) Error() string {
	switch {
	case e.Expected != nil:
		return fmt.Sprintf("%s at offset %d: %v (expected %s, got %s)",
			e.Field, e.Offset, e.Err, hex.EncodeToString(e.Expected), hex.EncodeToString(e.Actual))
	case e.Actual != nil:
		return fmt.Sprintf("%s at offset %d: %v (got %s)",
			e.Field, e.Offset, e.Err, hex.EncodeToString(e.Actual))
	default:
		return fmt.Sprintf("%s at offset %d: %v", e.Field, e.Offset, e.Err)
	}
}

func (e *FieldError) Unwrap() error { return e.Err }

// violation builds a grammar violation for a single byte.
func violation(field string, off int, want, got byte) *FieldError {
	return &FieldError{
		Offset:   off,
		Field:    field,
		Expected: []byte{want},
		Actual:   []byte{got},
		Err:      ErrGrammarViolation,
	}
}

// Expect consumes one byte and fails with a grammar violation when it is not want.
// The byte is consumed either way.
func Expect(c *Cursor, field string, want byte) error {
	off := c.Offset()
	got, err := c.ReadByte()
	if err != nil {
		return wrapField(field, err)
	}
	if got != want {
		return violation(field, off, want, got)
	}
	return nil
}

// ExpectMarker is Expect for a grammar marker.
func ExpectMarker(c *Cursor, m Marker) error {
	return Expect(c, m.String(), byte(m))
}

// ExpectAt checks b[i] == want where b was read starting at stream offset base.
func ExpectAt(field string, base int, b []byte, i int, want byte) error {
	if i >= len(b) {
		return &FieldError{Offset: base + len(b), Field: field, Err: ErrTruncated}
	}
	if b[i] != want {
		return violation(field, base+i, want, b[i])
	}
	return nil
}

// ExpectBytes checks that got equals want; got was read at stream offset off.
// The reported offset is that of the first differing byte.
func ExpectBytes(field string, off int, want, got []byte) error {
	if string(want) == string(got) {
		return nil
	}
	i := 0
	for i < len(want) && i < len(got) && want[i] == got[i] {
		i++
	}
	return &FieldError{
		Offset:   off + i,
		Field:    field,
		Expected: append([]byte(nil), want...),
		Actual:   append([]byte(nil), got...),
		Err:      ErrGrammarViolation,
	}
}

// wrapField attaches a field name to a cursor error that lacks one.
func wrapField(field string, err error) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		if fe.Field == "" {
			fe.Field = field
		}
		return fe
	}
	return fmt.Errorf("%s: %w", field, err)
}

// String renders the marker as it appears in diagnostics.
func (m Marker) String() string {
	return fmt.Sprintf("marker 0x%02x", byte(m))
}
