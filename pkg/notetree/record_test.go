package notetree

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/booxkit/internal/format"
	"github.com/joshuapare/booxkit/internal/testutil"
)

// fullSpec returns a record spec with a distinct value in every field.
func fullSpec() testutil.RecordSpec {
	spec := testutil.RecordSpec{
		LeadInOpaque: [2]byte{0xf4, 0x18},
		Name:         "Meeting notes",
		ActiveScene:  `{"scene":"active","zoom":1.5}`,
		Scenes: [4]string{
			`{"scene":1}`,
			`{"scene":2,"layers":[]}`,
			`{"scene":3,"nested":{"k":"v"}}`,
			`{"scene":4}`,
		},
		Blob78: `{"blob":"78"}`,
		RawAA:  0x07,
		BlobAA: `{"blob":"aa"}`,
		RawC2:  0x01,
		TextC2: "owner@example",
	}
	for i := range spec.Config40 {
		spec.Config40[i] = byte(0x40 + i)
	}
	for i := range spec.Raw78 {
		spec.Raw78[i] = byte(0x78 + i)
	}
	spec.Block[0] = 0x11
	spec.RawB5 = [5]byte{0xb5, 1, 2, 3, 4}
	spec.RawBD = [5]byte{0xbd, 5, 6, 7, 8}
	spec.D0Head = [5]byte{0xd0, 0x0d, 0x0e, 0x0a, 0x0d}
	spec.D0Ext = [5]byte{0x00, 0xe1, 0xe2, 0xe3, 0xe4}
	return spec
}

func TestDecodeRecord_FullRecord(t *testing.T) {
	spec := fullSpec()
	built := testutil.MustRecord(t, spec, nil)

	c := NewCursor(built.Bytes)
	rec, err := DecodeRecord(c)
	require.NoError(t, err)
	require.True(t, c.EOF(), "cursor should be at end of stream")

	require.Equal(t, 0, rec.Offset)
	require.Equal(t, len(built.Bytes), rec.Length)
	require.Equal(t, [5]byte{0x0a, 0xf4, 0x18, 0x0a, 0x20}, rec.LeadIn)
	require.Equal(t, uuid.MustParse("6f1c2a3b-4d5e-4f60-8a9b-0c1d2e3f4a5b"), rec.ID)
	require.False(t, rec.SecondaryID.Valid)
	require.Equal(t, byte(0x11), rec.Block[0])
	require.Equal(t, byte(0x31), rec.Block[13])
	require.Equal(t, byte(0x32), rec.Block[14])
	require.Equal(t, spec.Name, rec.Name)

	require.Equal(t, [5]string{
		spec.ActiveScene,
		spec.Scenes[0], spec.Scenes[1], spec.Scenes[2], spec.Scenes[3],
	}, rec.SceneTexts())
	require.Equal(t, Marker(0x3a), rec.ActiveScene.Marker)
	require.Equal(t, built.Offsets["0x3a"]+2, rec.ActiveScene.Offset)
	for i, m := range []Marker{0x5a, 0x62, 0x6a, 0x72} {
		require.Equal(t, m, rec.Scenes[i].Marker)
	}

	require.Equal(t, spec.Config40, rec.Config40)
	require.Equal(t, spec.Raw78, rec.Raw78)
	require.Equal(t, spec.Blob78, rec.Blob78.Text)
	require.Equal(t, spec.RawAA, rec.RawAA)
	require.Equal(t, spec.BlobAA, rec.BlobAA.Text)
	require.Equal(t, spec.RawB5, rec.RawB5)
	require.Equal(t, spec.RawBD, rec.RawBD)
	require.Equal(t, spec.RawC2, rec.RawC2)
	require.Equal(t, spec.TextC2, rec.TextC2)

	require.Equal(t, D0None, rec.D0.Extension)
	require.Equal(t, spec.D0Head, rec.D0.Head)
	require.Equal(t, format.D0Tail, rec.D0.Tail[:])
	require.Nil(t, rec.TrailerSuffix)

	blobs := rec.JSONBlobs()
	require.Len(t, blobs, 7)
	require.Equal(t, spec.BlobAA, blobs[6].Text)
}

func TestDecodeRecord_D0Extensions(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  D0Extension
	}{
		{"absent", testutil.D0None, D0None},
		{"short", testutil.D0Short, D0Short},
		{"long", testutil.D0Long, D0Long},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := fullSpec()
			spec.D0Level = tt.level
			built := testutil.MustRecord(t, spec, nil)

			c := NewCursor(built.Bytes)
			rec, err := DecodeRecord(c)
			require.NoError(t, err)
			require.True(t, c.EOF())
			require.Equal(t, tt.want, rec.D0.Extension)
			require.Equal(t, spec.Scenes[3], rec.Scenes[3].Text)

			switch tt.want {
			case D0None:
				require.Equal(t, [5]byte{}, rec.D0.Ext)
				require.Zero(t, rec.D0.Extra)
			case D0Short:
				require.Equal(t, [5]byte{0x80, 0xe1, 0xe2, 0xe3, 0xe4}, rec.D0.Ext)
				require.Zero(t, rec.D0.Extra)
			case D0Long:
				require.Equal(t, byte(0x80), rec.D0.Ext[0])
				require.Equal(t, byte(0x01), rec.D0.Extra)
			}
			require.Equal(t, format.D0Tail, rec.D0.Tail[:])
		})
	}
}

func TestDecodeRecord_SecondaryID(t *testing.T) {
	spec := fullSpec()
	spec.SecondaryID = testutil.DefaultSecondaryID
	built := testutil.MustRecord(t, spec, nil)

	rec, err := DecodeRecord(NewCursor(built.Bytes))
	require.NoError(t, err)
	require.True(t, rec.SecondaryID.Valid)
	require.Equal(t, "0f0e0d0c-0b0a-4908-8706-050403020100", rec.SecondaryID.UUID.String())
	require.Equal(t, byte(0x22), rec.Block[14])
	require.Equal(t, spec.Name, rec.Name)
}

func TestDecodeRecord_TwoByteLengths(t *testing.T) {
	spec := fullSpec()
	spec.Name = strings.Repeat("n", 300)
	spec.Scenes[2] = `{"pad":"` + strings.Repeat("x", 1000) + `"}`
	built := testutil.MustRecord(t, spec, nil)

	rec, err := DecodeRecord(NewCursor(built.Bytes))
	require.NoError(t, err)
	require.Equal(t, spec.Name, rec.Name)
	require.Equal(t, spec.Scenes[2], rec.Scenes[2].Text)
}

func TestDecodeRecord_TrailerSuffix(t *testing.T) {
	first := fullSpec()
	first.TrailerSuffix = []byte{0x12, 0x34, 0x56}
	second := fullSpec()
	second.Name = "second"
	stream := testutil.Concat(
		testutil.MustRecord(t, first, nil).Bytes,
		testutil.MustRecord(t, second, nil).Bytes,
	)

	c := NewCursor(stream)
	rec, err := DecodeRecord(c)
	require.NoError(t, err)
	require.Equal(t, []byte{0x12, 0x34, 0x56}, rec.TrailerSuffix)

	rec2, err := DecodeRecord(c)
	require.NoError(t, err)
	require.Equal(t, "second", rec2.Name)
	require.Nil(t, rec2.TrailerSuffix)
	require.Equal(t, rec.Length, rec2.Offset)
}

func TestDecodeRecord_MarkerMismatch(t *testing.T) {
	built := testutil.MustRecord(t, fullSpec(), nil)
	off := built.Offsets["0x5a"]
	require.Equal(t, byte(0x5a), built.Bytes[off])
	built.Bytes[off] = 0x5b

	c := NewCursor(built.Bytes)
	rec, err := DecodeRecord(c)
	require.Nil(t, rec)
	require.ErrorIs(t, err, ErrGrammarViolation)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, off, fe.Offset)
	require.Equal(t, []byte{0x5a}, fe.Expected)
	require.Equal(t, []byte{0x5b}, fe.Actual)
	require.Contains(t, fe.Field, "marker 0x5a")
	require.Equal(t, off+1, c.Offset(), "no reads past the offending marker")
}

func TestDecodeRecord_GrammarViolations(t *testing.T) {
	tests := []struct {
		name      string
		secondary bool
		mutate    func(b []byte, offs map[string]int)
		at        func(offs map[string]int) int
	}{
		{
			name:   "lead-in first byte",
			mutate: func(b []byte, o map[string]int) { b[0] = 0x0b },
			at:     func(o map[string]int) int { return 0 },
		},
		{
			name:   "lead-in id tag",
			mutate: func(b []byte, o map[string]int) { b[4] = 0x21 },
			at:     func(o map[string]int) int { return 4 },
		},
		{
			name:   "block fixed byte",
			mutate: func(b []byte, o map[string]int) { b[o["block"]+13] = 0x30 },
			at:     func(o map[string]int) int { return o["block"] + 13 },
		},
		{
			name:   "block selector",
			mutate: func(b []byte, o map[string]int) { b[o["block"]+14] = 0x33 },
			at:     func(o map[string]int) int { return o["block"] + 14 },
		},
		{
			name:      "secondary end byte",
			secondary: true,
			mutate:    func(b []byte, o map[string]int) { b[o["secondary"]+33] = 0x00 },
			at:        func(o map[string]int) int { return o["secondary"] + 33 },
		},
		{
			name:   "active scene marker",
			mutate: func(b []byte, o map[string]int) { b[o["0x3a"]] = 0x3b },
			at:     func(o map[string]int) int { return o["0x3a"] },
		},
		{
			name:   "d0 tail",
			mutate: func(b []byte, o map[string]int) { b[o["trailer"]-1] = 0xff },
			at:     func(o map[string]int) int { return o["trailer"] - 1 },
		},
		{
			name:   "trailer text",
			mutate: func(b []byte, o map[string]int) { b[o["trailer"]+5] = 'X' },
			at:     func(o map[string]int) int { return o["trailer"] + 5 },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := fullSpec()
			if tt.secondary {
				spec.SecondaryID = testutil.DefaultSecondaryID
			}
			built := testutil.MustRecord(t, spec, nil)
			tt.mutate(built.Bytes, built.Offsets)

			_, err := DecodeRecord(NewCursor(built.Bytes))
			require.ErrorIs(t, err, ErrGrammarViolation)
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			require.Equal(t, tt.at(built.Offsets), fe.Offset)
		})
	}
}

func TestDecodeRecord_MalformedIdentifier(t *testing.T) {
	spec := fullSpec()
	spec.ID = "zz1c2a3b4d5e4f608a9b0c1d2e3f4a5b"
	built := testutil.MustRecord(t, spec, nil)

	c := NewCursor(built.Bytes)
	_, err := DecodeRecord(c)
	require.ErrorIs(t, err, ErrMalformedIdentifier)
	require.Equal(t, built.Offsets["block"], c.Offset(), "identifier bytes stay consumed")
}

func TestDecodeRecord_InvalidUTF8(t *testing.T) {
	spec := fullSpec()
	spec.TextC2 = "ab"
	built := testutil.MustRecord(t, spec, nil)
	// "ab" sits right before the 0xd0 marker.
	built.Bytes[built.Offsets["0xd0"]-1] = 0xff

	_, err := DecodeRecord(NewCursor(built.Bytes))
	require.ErrorIs(t, err, ErrInvalidText)
}

func TestDecodeRecord_Truncated(t *testing.T) {
	spec := fullSpec()
	spec.SecondaryID = testutil.DefaultSecondaryID
	spec.D0Level = testutil.D0Long
	spec.Name = strings.Repeat("n", 200)
	built := testutil.MustRecord(t, spec, nil)

	for n := 1; n < len(built.Bytes); n++ {
		_, err := DecodeRecord(NewCursor(built.Bytes[:n]))
		if !errors.Is(err, ErrTruncated) {
			t.Fatalf("prefix of %d/%d bytes: err = %v, want ErrTruncated", n, len(built.Bytes), err)
		}
	}
}

func TestDecodeRecord_EndOfStream(t *testing.T) {
	_, err := DecodeRecord(NewCursor(nil))
	require.ErrorIs(t, err, io.EOF)

	built := testutil.MustRecord(t, fullSpec(), nil)
	c := NewCursor(built.Bytes)
	require.NoError(t, c.Seek(len(built.Bytes)))
	_, err = DecodeRecord(c)
	require.ErrorIs(t, err, io.EOF)
}
