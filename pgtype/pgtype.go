package pgtype

import (
	"fmt"
)

// OID is a PostgreSQL object identifier. It identifies the data type of a
// parameter or result column.
type OID = uint32

// UnknownOID is the invalid OID. Casters registered under it in the global
// registry are the fallback for every OID without a registered caster.
const UnknownOID OID = 0

// PostgreSQL oids for common types
const (
	BoolOID        OID = 16
	ByteaOID       OID = 17
	CharOID        OID = 18
	NameOID        OID = 19
	Int8OID        OID = 20
	Int2OID        OID = 21
	Int4OID        OID = 23
	TextOID        OID = 25
	OIDOID         OID = 26
	JSONOID        OID = 114
	Float4OID      OID = 700
	Float8OID      OID = 701
	UnknownTypeOID OID = 705
	BPCharOID      OID = 1042
	VarcharOID     OID = 1043
	DateOID        OID = 1082
	TimestampOID   OID = 1114
	TimestamptzOID OID = 1184
	NumericOID     OID = 1700
	UUIDOID        OID = 2950
	JSONBOID       OID = 3802
)

// Format is the PostgreSQL wire format of a parameter or result column.
type Format int16

// PostgreSQL format codes
const (
	TextFormat   Format = 0
	BinaryFormat Format = 1
)

func (f Format) String() string {
	switch f {
	case TextFormat:
		return "text"
	case BinaryFormat:
		return "binary"
	default:
		return fmt.Sprintf("invalid format %d", int16(f))
	}
}

func (f Format) valid() bool {
	return f == TextFormat || f == BinaryFormat
}

// ConnInfo is the view of a connection available to adapter and caster
// factories. A nil ConnInfo means no connection is bound.
type ConnInfo interface {
	// ClientEncoding returns the PostgreSQL name of the connection's client
	// encoding, e.g. "UTF8" or "LATIN1".
	ClientEncoding() string
}

// TextEncoder is implemented by values that can encode themselves into the
// PostgreSQL text wire format. It is consulted only when no adapter is
// registered for the value's type in any scope.
type TextEncoder interface {
	// EncodeText should append the text format of self to buf. If self is the
	// SQL value NULL then append nothing and return (nil, nil).
	EncodeText(ci ConnInfo, buf []byte) (newBuf []byte, err error)
}

// BinaryEncoder is the binary format counterpart of TextEncoder.
type BinaryEncoder interface {
	// EncodeBinary should append the binary format of self to buf. If self is
	// the SQL value NULL then append nothing and return (nil, nil).
	EncodeBinary(ci ConnInfo, buf []byte) (newBuf []byte, err error)
}

// DataTypeOIDer may be implemented by a TextEncoder or BinaryEncoder to report
// the OID of the data type it encodes. Without it TextOID is assumed.
type DataTypeOIDer interface {
	DataTypeOID() OID
}
