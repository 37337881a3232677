// Package uuid registers adapters and casters for github.com/gofrs/uuid.
package uuid

import (
	"github.com/gofrs/uuid"
	"github.com/jackc/pgxadapt/pgtype"
)

// Register makes uuid.UUID and uuid.NullUUID usable as parameters in scope, and makes uuid columns read in scope
// decode to uuid.UUID. A nil scope registers process-wide.
func Register(scope pgtype.Scope) error {
	for _, format := range []pgtype.Format{pgtype.TextFormat, pgtype.BinaryFormat} {
		format := format

		err := pgtype.RegisterEncoder(scope, format, pgtype.UUIDOID, func(u uuid.UUID) ([]byte, error) {
			return encode(u, format), nil
		})
		if err != nil {
			return err
		}

		err = pgtype.RegisterEncoder(scope, format, pgtype.UUIDOID, func(u uuid.NullUUID) ([]byte, error) {
			if !u.Valid {
				return nil, nil
			}
			return encode(u.UUID, format), nil
		})
		if err != nil {
			return err
		}
	}

	if _, err := pgtype.RegisterCaster(pgtype.UUIDOID, castText, scope, pgtype.TextFormat); err != nil {
		return err
	}
	if _, err := pgtype.RegisterBinaryCaster(pgtype.UUIDOID, castBinary, scope); err != nil {
		return err
	}

	return nil
}

func encode(u uuid.UUID, format pgtype.Format) []byte {
	if format == pgtype.TextFormat {
		return []byte(u.String())
	}

	buf := make([]byte, uuid.Size)
	copy(buf, u[:])
	return buf
}

func castText(src []byte) (any, error) {
	return uuid.FromString(string(src))
}

func castBinary(src []byte) (any, error) {
	return uuid.FromBytes(src)
}
