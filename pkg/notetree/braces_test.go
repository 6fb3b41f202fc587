package notetree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/booxkit/internal/format"
	"github.com/joshuapare/booxkit/internal/testutil"
)

func TestExtractObjects_Record(t *testing.T) {
	spec := fullSpec()
	spec.Raw78 = [format.Raw78Size]byte{} // 0x7b and 0x7d are braces
	built := testutil.MustRecord(t, spec, nil)

	rec, err := DecodeRecord(NewCursor(built.Bytes))
	require.NoError(t, err)

	objs, err := ExtractObjects(NewCursor(built.Bytes), BraceOptions{})
	require.NoError(t, err)

	blobs := rec.JSONBlobs()
	require.Len(t, objs, len(blobs))
	for i, b := range blobs {
		require.Equal(t, b.Text, objs[i].Text, "object %d", i)
		require.Equal(t, b.Offset, objs[i].Offset, "object %d", i)
	}

	// The first prelude is everything up to the active scene blob.
	require.Equal(t, 0, objs[0].Prelude.Offset)
	require.Equal(t, built.Bytes[:rec.ActiveScene.Offset], objs[0].Prelude.Bytes)
	require.False(t, objs[0].Prelude.IsText())

	// The 0x62 blob directly follows the 0x5a blob: marker and length only.
	require.Equal(t, []byte{0x62, byte(len(spec.Scenes[1]))}, objs[2].Prelude.Bytes)
	_, ok := objs[2].DeclaredLength()
	require.False(t, ok)
}

func TestJSONObject_DeclaredLength(t *testing.T) {
	obj := JSONObject{Prelude: Prelude{Bytes: []byte{0x3a, 0x85, 0x01}}}
	n, ok := obj.DeclaredLength()
	require.True(t, ok)
	require.Equal(t, 133, n)

	obj = JSONObject{Prelude: Prelude{Bytes: []byte{0x3a, 0x0b, 0x00}}}
	n, ok = obj.DeclaredLength()
	require.True(t, ok)
	require.Equal(t, 11, n)
}

func TestExtractObjects_Max(t *testing.T) {
	c := NewCursor([]byte(`{}{}{}{}`))
	objs, err := ExtractObjects(c, BraceOptions{Max: 2})
	require.NoError(t, err)
	require.Len(t, objs, 2)
	require.Equal(t, 4, c.Offset())
}

func TestExtractObjects_Modes(t *testing.T) {
	data := []byte(`AB{"a":"}"}`)

	objs, err := ExtractObjects(NewCursor(data), BraceOptions{Mode: BraceQuoteAware})
	require.NoError(t, err)
	require.Len(t, objs, 1)
	require.Equal(t, `{"a":"}"}`, objs[0].Text)
	require.Equal(t, "AB", objs[0].Prelude.String())
	require.Equal(t, 2, objs[0].Offset)

	// Naive counting closes on the quoted brace and leaves `"}` behind,
	// which holds no further object.
	c := NewCursor(data)
	objs, err = ExtractObjects(c, BraceOptions{})
	require.NoError(t, err)
	require.True(t, c.EOF())
	require.Len(t, objs, 1)
	require.Equal(t, `{"a":"}`, objs[0].Text)
}

func TestExtractObjects_Unterminated(t *testing.T) {
	objs, err := ExtractObjects(NewCursor([]byte(`{"ok":1}xx{"a":{`)), BraceOptions{})
	require.ErrorIs(t, err, ErrUnterminatedJSON)
	require.Len(t, objs, 1)
	require.Equal(t, `{"ok":1}`, objs[0].Text)
}

func TestExtractJSONObject_Wrapper(t *testing.T) {
	c := NewCursor([]byte(`XY{"a":1}rest`))
	pre, text, err := ExtractJSONObject(c, BraceNaive)
	require.NoError(t, err)
	require.Equal(t, "XY", string(pre.Bytes))
	require.Equal(t, `{"a":1}`, text)
	require.Equal(t, 9, c.Offset())
}
