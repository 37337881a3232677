package zeronull

import (
	"github.com/jackc/pgxadapt/pgtype"
)

// Text is sent in the client encoding of the connection in both formats.
type Text string

func (Text) DataTypeOID() pgtype.OID {
	return pgtype.TextOID
}

func (src Text) EncodeText(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	if src == "" {
		return nil, nil
	}
	return pgtype.AppendClientText(ci, buf, string(src))
}

func (src Text) EncodeBinary(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	return src.EncodeText(ci, buf)
}
