package format

import (
	"errors"
	"testing"
)

func TestReadText(t *testing.T) {
	name := "Pilot ✎"
	in := append([]byte{byte(len(name))}, name...)
	in = append(in, 0x3a)
	c := NewCursor(in)

	got, err := ReadText(c)
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if got != name {
		t.Fatalf("ReadText = %q, want %q", got, name)
	}
	if b, _ := c.PeekByte(); b != 0x3a {
		t.Fatalf("cursor not left at next marker: %#x", b)
	}
}

func TestReadJSONBlobTwoByteLength(t *testing.T) {
	body := make([]byte, 200)
	body[0] = '{'
	for i := 1; i < len(body)-1; i++ {
		body[i] = ' '
	}
	body[len(body)-1] = '}'
	prefix, err := EncodeLength(len(body))
	if err != nil {
		t.Fatalf("EncodeLength: %v", err)
	}
	c := NewCursor(append(prefix, body...))

	off, got, err := ReadJSONBlob(c)
	if err != nil {
		t.Fatalf("ReadJSONBlob: %v", err)
	}
	if off != 2 || len(got) != 200 || !c.EOF() {
		t.Fatalf("off=%d len=%d eof=%v", off, len(got), c.EOF())
	}
}

func TestReadPayloadBeyondStream(t *testing.T) {
	c := NewCursor([]byte{0x05, 'a', 'b'})
	if _, _, err := ReadPayload(c); !errors.Is(err, ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestReadTextInvalidUTF8(t *testing.T) {
	c := NewCursor([]byte{0x03, 'a', 0xff, 'b'})
	_, err := ReadText(c)
	if !errors.Is(err, ErrInvalidText) {
		t.Fatalf("err = %v, want ErrInvalidText", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Offset != 2 {
		t.Fatalf("expected FieldError at offset 2, got %#v", err)
	}
}

func TestLatin1(t *testing.T) {
	if got := Latin1([]byte{'a', 0xe9}); got != "aé" {
		t.Fatalf("Latin1 = %q, want %q", got, "aé")
	}
	if !IsUTF8([]byte("plain")) || IsUTF8([]byte{0xc3}) {
		t.Fatalf("IsUTF8 misclassified input")
	}
}

func TestValidateUTF8(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		wantOff int // -1 when valid
	}{
		{"empty", nil, -1},
		{"ascii", []byte(`{"a":1}`), -1},
		{"multibyte", []byte("scène ✎"), -1},
		{"lone continuation", []byte{'a', 'b', 0x80}, 102},
		{"truncated sequence", []byte{'x', 0xe2, 0x9c}, 101},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUTF8(100, tt.in)
			if tt.wantOff < 0 {
				if err != nil {
					t.Fatalf("ValidateUTF8: %v", err)
				}
				return
			}
			var fe *FieldError
			if !errors.As(err, &fe) || !errors.Is(err, ErrInvalidText) {
				t.Fatalf("err = %v, want ErrInvalidText", err)
			}
			if fe.Offset != tt.wantOff {
				t.Fatalf("offset = %d, want %d", fe.Offset, tt.wantOff)
			}
		})
	}
}
