package format

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ReadPayload reads a length prefix followed by that many bytes. A declared
// length beyond the end of the stream is ErrTruncated; the length bytes stay
// consumed in that case since the record is abandoned anyway.
func ReadPayload(c *Cursor) (off int, b []byte, err error) {
	n, err := DecodeLength(c)
	if err != nil {
		return 0, nil, err
	}
	off = c.Offset()
	b, err = c.Read(n)
	if err != nil {
		return 0, nil, err
	}
	return off, b, nil
}

// ReadText reads a length-prefixed UTF-8 string.
func ReadText(c *Cursor) (string, error) {
	off, b, err := ReadPayload(c)
	if err != nil {
		return "", err
	}
	if err := ValidateUTF8(off, b); err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadJSONBlob reads a length-prefixed JSON document. The content is not
// parsed; only its length and UTF-8 validity are checked. It returns the
// offset of the first payload byte alongside the text.
func ReadJSONBlob(c *Cursor) (int, string, error) {
	off, b, err := ReadPayload(c)
	if err != nil {
		return 0, "", err
	}
	if err := ValidateUTF8(off, b); err != nil {
		return 0, "", err
	}
	return off, string(b), nil
}

// ValidateUTF8 fails with ErrInvalidText at the first invalid sequence.
func ValidateUTF8(off int, b []byte) error {
	_, n, err := transform.Bytes(encoding.UTF8Validator, b)
	if err != nil {
		n = min(n, len(b))
		end := min(n+4, len(b))
		return &FieldError{
			Offset: off + n,
			Field:  "text",
			Actual: append([]byte(nil), b[n:end]...),
			Err:    ErrInvalidText,
		}
	}
	return nil
}

// IsUTF8 reports whether b is valid UTF-8.
func IsUTF8(b []byte) bool {
	_, _, err := transform.Bytes(encoding.UTF8Validator, b)
	return err == nil
}

// Latin1 renders arbitrary bytes as text by mapping each byte to its
// ISO 8859-1 code point. Used for diagnostics only; it never fails.
func Latin1(b []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
