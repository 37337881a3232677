package zeronull

import (
	"github.com/jackc/pgxadapt/pgtype"
)

type UUID [16]byte

func (UUID) DataTypeOID() pgtype.OID {
	return pgtype.UUIDOID
}

func (u UUID) EncodeText(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	if u == (UUID{}) {
		return nil, nil
	}
	return pgtype.UUID(u).EncodeText(ci, buf)
}

func (u UUID) EncodeBinary(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	if u == (UUID{}) {
		return nil, nil
	}
	return pgtype.UUID(u).EncodeBinary(ci, buf)
}
