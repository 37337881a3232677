package zeronull

import (
	"math"
	"strconv"

	"github.com/jackc/pgio"
	"github.com/jackc/pgxadapt/pgtype"
)

type Float8 float64

func (Float8) DataTypeOID() pgtype.OID {
	return pgtype.Float8OID
}

func (src Float8) EncodeText(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	if src == 0 {
		return nil, nil
	}
	return strconv.AppendFloat(buf, float64(src), 'f', -1, 64), nil
}

func (src Float8) EncodeBinary(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	if src == 0 {
		return nil, nil
	}
	return pgio.AppendUint64(buf, math.Float64bits(float64(src))), nil
}
