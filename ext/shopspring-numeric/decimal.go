// Package numeric registers adapters and casters for github.com/shopspring/decimal.
package numeric

import (
	"fmt"

	"github.com/jackc/pgxadapt/pgtype"
	"github.com/shopspring/decimal"
)

// Register makes decimal.Decimal and decimal.NullDecimal usable as parameters in scope, and makes numeric
// columns read in scope decode to decimal.Decimal. A nil scope registers process-wide.
func Register(scope pgtype.Scope) error {
	for _, format := range []pgtype.Format{pgtype.TextFormat, pgtype.BinaryFormat} {
		err := pgtype.RegisterEncoder(scope, format, pgtype.NumericOID, encoder(format, func(d decimal.Decimal) (decimal.Decimal, bool) {
			return d, true
		}))
		if err != nil {
			return err
		}

		err = pgtype.RegisterEncoder(scope, format, pgtype.NumericOID, encoder(format, func(d decimal.NullDecimal) (decimal.Decimal, bool) {
			return d.Decimal, d.Valid
		}))
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

func encoder[T any](format pgtype.Format, get func(T) (decimal.Decimal, bool)) func(T) ([]byte, error) {
	return func(v T) ([]byte, error) {
		d, ok := get(v)
		if !ok {
			return nil, nil
		}

		if format == pgtype.TextFormat {
			return []byte(decimalString(d)), nil
		}

		num, err := ToNumeric(d)
		if err != nil {
			return nil, err
		}
		return num.EncodeBinary(nil, nil)
	}
}

// decimalString keeps trailing fractional zeros, so the scale of d reaches the server.
func decimalString(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}

// ToNumeric converts d to the numeric interchange value.
func ToNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	return pgtype.NumericFromString(decimalString(d))
}

// FromNumeric converts n to a decimal.Decimal. decimal.Decimal has no NaN or infinities.
func FromNumeric(n pgtype.Numeric) (decimal.Decimal, error) {
	if n.NaN {
		return decimal.Decimal{}, fmt.Errorf("cannot convert NaN to decimal.Decimal")
	}
	if n.InfinityModifier != pgtype.Finite {
		return decimal.Decimal{}, fmt.Errorf("cannot convert %v to decimal.Decimal", n.InfinityModifier)
	}
	if n.Int == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

func castText(src []byte) (any, error) {
	n, err := pgtype.DecodeNumericText(src)
	if err != nil {
		return nil, err
	}
	return FromNumeric(n)
}

func castBinary(src []byte) (any, error) {
	n, err := pgtype.DecodeNumericBinary(src)
	if err != nil {
		return nil, err
	}
	return FromNumeric(n)
}
