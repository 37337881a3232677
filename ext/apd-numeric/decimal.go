// Package numeric registers adapters and casters for github.com/cockroachdb/apd.
package numeric

import (
	"math/big"

	"github.com/cockroachdb/apd"
	"github.com/jackc/pgxadapt/pgtype"
)

// Register makes apd.Decimal and *apd.Decimal usable as parameters in scope, and makes numeric columns read in
// scope decode to *apd.Decimal. A nil scope registers process-wide.
func Register(scope pgtype.Scope) error {
	for _, format := range []pgtype.Format{pgtype.TextFormat, pgtype.BinaryFormat} {
		format := format

		err := pgtype.RegisterEncoder(scope, format, pgtype.NumericOID, func(d *apd.Decimal) ([]byte, error) {
			return encode(d, format)
		})
		if err != nil {
			return err
		}

		err = pgtype.RegisterEncoder(scope, format, pgtype.NumericOID, func(d apd.Decimal) ([]byte, error) {
			return encode(&d, format)
		})
		if err != nil {
			return err
		}
	}

	if _, err := pgtype.RegisterCaster(pgtype.NumericOID, castText, scope, pgtype.TextFormat); err != nil {
		return err
	}
	if _, err := pgtype.RegisterBinaryCaster(pgtype.NumericOID, castBinary, scope); err != nil {
		return err
	}

	return nil
}

func encode(d *apd.Decimal, format pgtype.Format) ([]byte, error) {
	n := ToNumeric(d)
	if format == pgtype.TextFormat {
		return n.EncodeText(nil, nil)
	}
	return n.EncodeBinary(nil, nil)
}

// ToNumeric converts d to the numeric interchange value. Signaling NaNs become NaN.
func ToNumeric(d *apd.Decimal) pgtype.Numeric {
	switch d.Form {
	case apd.NaN, apd.NaNSignaling:
		return pgtype.Numeric{NaN: true}
	case apd.Infinite:
		if d.Negative {
			return pgtype.Numeric{InfinityModifier: pgtype.NegativeInfinity}
		}
		return pgtype.Numeric{InfinityModifier: pgtype.Infinity}
	}

	n := pgtype.Numeric{Int: new(big.Int).Set(&d.Coeff), Exp: d.Exponent}
	if d.Negative {
		n.Int.Neg(n.Int)
	}
	return n
}

// FromNumeric converts n to a new *apd.Decimal.
func FromNumeric(n pgtype.Numeric) *apd.Decimal {
	switch {
	case n.NaN:
		return &apd.Decimal{Form: apd.NaN}
	case n.InfinityModifier == pgtype.Infinity:
		return &apd.Decimal{Form: apd.Infinite}
	case n.InfinityModifier == pgtype.NegativeInfinity:
		return &apd.Decimal{Form: apd.Infinite, Negative: true}
	case n.Int == nil:
		return apd.New(0, n.Exp)
	}

	return apd.NewWithBigInt(n.Int, n.Exp)
}

func castText(src []byte) (any, error) {
	n, err := pgtype.DecodeNumericText(src)
	if err != nil {
		return nil, err
	}
	return FromNumeric(n), nil
}

func castBinary(src []byte) (any, error) {
	n, err := pgtype.DecodeNumericBinary(src)
	if err != nil {
		return nil, err
	}
	return FromNumeric(n), nil
}
