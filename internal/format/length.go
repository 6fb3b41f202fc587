package format

import "fmt"

// DecodeLength reads the 1-or-2-byte length prefix used by text and JSON
// fields.
//
// Encoding:
//
//	b1 & 0x80 == 0  value = b1                        (1 byte)
//	otherwise       value = (b1 & 0x7f) | (b2 << 7)   (2 bytes)
//
// The value is only bounded by the 14 bits the encoding can carry; callers
// check it against the remaining stream when reading the payload.
func DecodeLength(c *Cursor) (int, error) {
	b1, ok := c.PeekByte()
	if !ok {
		return 0, c.truncated(1)
	}
	if b1&LengthContinuation == 0 {
		c.off++
		return int(b1), nil
	}
	b, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return DecodeLengthBytes(b[0], b[1]), nil
}

// DecodeLengthBytes decodes a length from two already-read bytes. b2 is
// ignored when b1 has its high bit clear.
func DecodeLengthBytes(b1, b2 byte) int {
	if b1&LengthContinuation == 0 {
		return int(b1)
	}
	return int(b1&LengthLowMask) | int(b2)<<7
}

// EncodeLength returns the on-disk encoding of n.
func EncodeLength(n int) ([]byte, error) {
	switch {
	case n < 0 || n > MaxLength:
		return nil, fmt.Errorf("format: length %d outside [0, %d]", n, MaxLength)
	case n <= LengthLowMask:
		return []byte{byte(n)}, nil
	default:
		return []byte{byte(n&LengthLowMask) | LengthContinuation, byte(n >> 7)}, nil
	}
}
