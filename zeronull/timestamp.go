package zeronull

import (
	"time"

	"github.com/jackc/pgio"
	"github.com/jackc/pgxadapt/pgtype"
)

const (
	microsecFromUnixEpochToY2K = 946684800 * 1000000

	pgTimestampFormat   = "2006-01-02 15:04:05.999999"
	pgTimestamptzFormat = "2006-01-02 15:04:05.999999Z07:00"
)

// Timestamp is a timestamp without time zone. The wall clock of the time is sent; its location is ignored.
type Timestamp time.Time

func (Timestamp) DataTypeOID() pgtype.OID {
	return pgtype.TimestampOID
}

func (src Timestamp) EncodeText(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	t := time.Time(src)
	if t.IsZero() {
		return nil, nil
	}
	return t.AppendFormat(buf, pgTimestampFormat), nil
}

func (src Timestamp) EncodeBinary(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	t := time.Time(src)
	if t.IsZero() {
		return nil, nil
	}

	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return pgio.AppendInt64(buf, microsecSinceY2K(wall)), nil
}

type Timestamptz time.Time

func (Timestamptz) DataTypeOID() pgtype.OID {
	return pgtype.TimestamptzOID
}

func (src Timestamptz) EncodeText(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	t := time.Time(src)
	if t.IsZero() {
		return nil, nil
	}
	return t.UTC().AppendFormat(buf, pgTimestamptzFormat), nil
}

func (src Timestamptz) EncodeBinary(ci pgtype.ConnInfo, buf []byte) ([]byte, error) {
	t := time.Time(src)
	if t.IsZero() {
		return nil, nil
	}
	return pgio.AppendInt64(buf, microsecSinceY2K(t)), nil
}

func microsecSinceY2K(t time.Time) int64 {
	microsecSinceUnixEpoch := t.Unix()*1000000 + int64(t.Nanosecond())/1000
	return microsecSinceUnixEpoch - microsecFromUnixEpochToY2K
}
