package format

import (
	"encoding/hex"
	"io"
)

// BraceMode selects how ExtractJSONObject counts braces.
type BraceMode int

const (
	// BraceNaive counts every '{' and '}' byte, including those inside string
	// literals. A literal brace in a quoted string desynchronises the depth
	// count. This matches the behaviour of the exploratory tool the format
	// was discovered with.
	BraceNaive BraceMode = iota
	// BraceQuoteAware tracks '"' and '\' escapes and ignores braces inside
	// string literals.
	BraceQuoteAware
)

func (m BraceMode) String() string {
	switch m {
	case BraceNaive:
		return "naive"
	case BraceQuoteAware:
		return "quote-aware"
	default:
		return "unknown"
	}
}

// Prelude holds the bytes seen before a JSON object's opening brace. They
// are kept verbatim since they usually carry the surrounding record's tag and
// length bytes.
type Prelude struct {
	Offset int
	Bytes  []byte
}

// IsText reports whether the prelude decodes as UTF-8.
func (p Prelude) IsText() bool { return IsUTF8(p.Bytes) }

// String renders the prelude as UTF-8 text when valid, otherwise as hex.
func (p Prelude) String() string {
	if p.IsText() {
		return string(p.Bytes)
	}
	return hex.EncodeToString(p.Bytes)
}

// ExtractJSONObject scans forward for the first brace-balanced JSON object.
// Bytes before the first '{' become the prelude. Scanning stops right after
// the brace that returns depth to zero; later bytes are untouched.
//
// An exhausted cursor yields io.EOF. Running out of bytes before depth
// returns to zero yields ErrUnterminatedJSON together with whatever prelude
// was collected.
func ExtractJSONObject(c *Cursor, mode BraceMode) (Prelude, string, error) {
	if c.EOF() {
		return Prelude{Offset: c.Offset()}, "", io.EOF
	}

	data := c.Bytes()
	start := c.Offset()
	open := -1
	for i := start; i < len(data); i++ {
		if data[i] == '{' {
			open = i
			break
		}
	}
	if open < 0 {
		pre := Prelude{Offset: start, Bytes: clone(data[start:])}
		c.off = len(data)
		return pre, "", &FieldError{Offset: len(data), Field: "json object", Err: ErrUnterminatedJSON}
	}
	pre := Prelude{Offset: start, Bytes: clone(data[start:open])}

	depth := 0
	inString, escaped := false, false
	for i := open; i < len(data); i++ {
		ch := data[i]
		if mode == BraceQuoteAware && inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			if mode == BraceQuoteAware {
				inString = true
			}
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 {
			obj := data[open : i+1]
			c.off = i + 1
			if err := ValidateUTF8(open, obj); err != nil {
				return pre, "", err
			}
			return pre, string(obj), nil
		}
	}

	c.off = len(data)
	return pre, "", &FieldError{Offset: len(data), Field: "json object", Err: ErrUnterminatedJSON}
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}
