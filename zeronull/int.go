package zeronull

import (
	"strconv"

	"github.com/jackc/pgio"
	"github.com/jackc/pgxadapt/pgtype"
)

type Int2 int16

func (Int2) DataTypeOID() pgtype.OID {
	return pgtype.Int2OID
}

func (src Int2) EncodeText(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	if src == 0 {
		return nil, nil
	}
	return strconv.AppendInt(buf, int64(src), 10), nil
}

func (src Int2) EncodeBinary(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	if src == 0 {
		return nil, nil
	}
	return pgio.AppendInt16(buf, int16(src)), nil
}

type Int4 int32

func (Int4) DataTypeOID() pgtype.OID {
	return pgtype.Int4OID
}

func (src Int4) EncodeText(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	if src == 0 {
		return nil, nil
	}
	return strconv.AppendInt(buf, int64(src), 10), nil
}

func (src Int4) EncodeBinary(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	if src == 0 {
		return nil, nil
	}
	return pgio.AppendInt32(buf, int32(src)), nil
}

type Int8 int64

func (Int8) DataTypeOID() pgtype.OID {
	return pgtype.Int8OID
}

func (src Int8) EncodeText(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	if src == 0 {
		return nil, nil
	}
	return strconv.AppendInt(buf, int64(src), 10), nil
}

func (src Int8) EncodeBinary(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	if src == 0 {
		return nil, nil
	}
	return pgio.AppendInt64(buf, int64(src)), nil
}
