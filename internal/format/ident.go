package format

import (
	"github.com/google/uuid"
)

// DecodeIdentifier reads a 32-character hexadecimal identifier and returns
// it as a UUID (rendered canonically as 8-4-4-4-12).
//
// Fewer than 32 remaining bytes is ErrTruncated and nothing is consumed.
// Non-hex content is ErrMalformedIdentifier; the 32 bytes stay consumed so
// callers can try to resynchronise past them.
func DecodeIdentifier(c *Cursor) (uuid.UUID, error) {
	off := c.Offset()
	raw, err := c.Read(IdentifierSize)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := ParseIdentifier(raw)
	if err != nil {
		return uuid.Nil, &FieldError{
			Offset: off,
			Field:  "identifier",
			Actual: append([]byte(nil), raw...),
			Err:    ErrMalformedIdentifier,
		}
	}
	return id, nil
}

// ParseIdentifier regroups 32 hex characters into 8-4-4-4-12 and parses them.
// Upper-case hex is accepted; the canonical rendering is lower case.
func ParseIdentifier(raw []byte) (uuid.UUID, error) {
	if len(raw) != IdentifierSize {
		return uuid.Nil, ErrMalformedIdentifier
	}
	var s [36]byte
	j := 0
	for i, ch := range raw {
		if i == 8 || i == 12 || i == 16 || i == 20 {
			s[j] = '-'
			j++
		}
		s[j] = ch
		j++
	}
	return uuid.ParseBytes(s[:])
}

// EncodeIdentifier is the on-disk form of id: 32 lower-case hex characters.
func EncodeIdentifier(id uuid.UUID) []byte {
	s := id.String()
	out := make([]byte, 0, IdentifierSize)
	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			out = append(out, s[i])
		}
	}
	return out
}
