package pgtype

import (
	"encoding/hex"
	"fmt"
)

// UUID is the value casters for uuid columns produce. It encodes itself in both
// formats. UUID libraries convert through it.
type UUID [16]byte

// ParseUUID parses the standard 36 character form of a UUID or the 32 hex
// digit form without dashes.
func ParseUUID(src string) (UUID, error) {
	var s [32]byte
	switch len(src) {
	case 36:
		if src[8] != '-' || src[13] != '-' || src[18] != '-' || src[23] != '-' {
			return UUID{}, fmt.Errorf("cannot parse UUID %q", src)
		}
		copy(s[0:8], src[0:8])
		copy(s[8:12], src[9:13])
		copy(s[12:16], src[14:18])
		copy(s[16:20], src[19:23])
		copy(s[20:], src[24:])
	case 32:
		copy(s[:], src)
	default:
		return UUID{}, fmt.Errorf("cannot parse UUID %q", src)
	}

	var dst UUID
	if _, err := hex.Decode(dst[:], s[:]); err != nil {
		return UUID{}, fmt.Errorf("cannot parse UUID %q: %w", src, err)
	}
	return dst, nil
}

// String returns the standard 36 character form of u.
func (u UUID) String() string {
	var buf [36]byte

	hex.Encode(buf[0:8], u[:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], u[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], u[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], u[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:], u[10:])

	return string(buf[:])
}

func (u UUID) DataTypeOID() OID {
	return UUIDOID
}

func (u UUID) EncodeText(ci ConnInfo, buf []byte) ([]byte, error) {
	return append(buf, u.String()...), nil
}

func (u UUID) EncodeBinary(ci ConnInfo, buf []byte) ([]byte, error) {
	return append(buf, u[:]...), nil
}

func castUUIDText(src []byte) (any, error) {
	return ParseUUID(string(src))
}

func castUUIDBinary(src []byte) (any, error) {
	if len(src) != 16 {
		return nil, fmt.Errorf("invalid length for UUID: %v", len(src))
	}

	var u UUID
	copy(u[:], src)
	return u, nil
}
