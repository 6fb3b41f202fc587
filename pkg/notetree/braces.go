package notetree

import (
	"errors"
	"io"

	"github.com/joshuapare/booxkit/internal/format"
)

// JSONObject is a brace-balanced object found by ExtractObjects.
type JSONObject struct {
	Prelude Prelude
	Offset  int // stream offset of the opening brace
	Text    string
}

// DeclaredLength decodes prelude bytes 1 and 2 as a length value. In record
// data the prelude of a blob ends with its marker and length prefix, so this
// is a cheap hint of whether the brace span and the declared size agree.
// ok is false for preludes shorter than three bytes.
func (o JSONObject) DeclaredLength() (n int, ok bool) {
	p := o.Prelude.Bytes
	if len(p) <= 2 {
		return 0, false
	}
	return format.DecodeLengthBytes(p[1], p[2]), true
}

// ExtractJSONObject finds the next brace-balanced JSON object at the cursor.
// See BraceMode for how braces inside strings are treated.
func ExtractJSONObject(c *Cursor, mode BraceMode) (Prelude, string, error) {
	return format.ExtractJSONObject(c, mode)
}

// ExtractObjects repeatedly extracts JSON objects until the stream is
// exhausted or opts.Max objects were found. Trailing bytes without an opening
// brace end the walk cleanly. An object that is opened but never closed is
// returned as an error alongside the objects found before it.
func ExtractObjects(c *Cursor, opts BraceOptions) ([]JSONObject, error) {
	var out []JSONObject
	for len(out) < opts.max() {
		pre, text, err := format.ExtractJSONObject(c, opts.Mode)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if errors.Is(err, ErrUnterminatedJSON) && pre.Offset+len(pre.Bytes) == c.Len() {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, JSONObject{
			Prelude: pre,
			Offset:  pre.Offset + len(pre.Bytes),
			Text:    text,
		})
	}
	return out, nil
}
