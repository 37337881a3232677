package numeric_test

import (
	"testing"

	"github.com/jackc/pgxadapt"
	numeric "github.com/jackc/pgxadapt/ext/shopspring-numeric"
	"github.com/jackc/pgxadapt/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransformer(t *testing.T) *pgxadapt.Transformer {
	t.Helper()
	conn, err := pgxadapt.NewConn(&pgxadapt.ConnConfig{})
	require.NoError(t, err)
	require.NoError(t, numeric.Register(conn))
	return pgxadapt.NewTransformer(pgxadapt.ConnContext(conn))
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestAdaptDecimal(t *testing.T) {
	t.Parallel()

	tr := newTransformer(t)

	buf, oid, err := tr.Adapt(mustDecimal(t, "1.50"), pgtype.TextFormat)
	require.NoError(t, err)
	assert.Equal(t, pgtype.NumericOID, oid)
	assert.Equal(t, "1.50", string(buf))

	buf, oid, err = tr.Adapt(mustDecimal(t, "1.50"), pgtype.BinaryFormat)
	require.NoError(t, err)
	assert.Equal(t, pgtype.NumericOID, oid)
	assert.Equal(t, []byte{0, 2, 0, 0, 0, 0, 0, 2, 0, 1, 0x13, 0x88}, buf)

	buf, _, err = tr.Adapt(decimal.NullDecimal{}, pgtype.TextFormat)
	require.NoError(t, err)
	assert.Nil(t, buf)

	buf, _, err = tr.Adapt(decimal.NullDecimal{Decimal: mustDecimal(t, "-7"), Valid: true}, pgtype.TextFormat)
	require.NoError(t, err)
	assert.Equal(t, "-7", string(buf))
}

func TestCastDecimal(t *testing.T) {
	t.Parallel()

	tr := newTransformer(t)

	for _, s := range []string{"0", "1.50", "-123456789.000123456789", "10000"} {
		want := mustDecimal(t, s)
		for _, format := range []pgtype.Format{pgtype.TextFormat, pgtype.BinaryFormat} {
			buf, _, err := tr.Adapt(want, format)
			require.NoError(t, err)

			v, err := tr.Cast(buf, pgtype.NumericOID, format)
			require.NoError(t, err)
			require.IsType(t, decimal.Decimal{}, v)
			assert.True(t, want.Equal(v.(decimal.Decimal)), "%v %s: got %v", format, s, v)
		}
	}
}

func TestCastDecimalRejectsSpecialValues(t *testing.T) {
	t.Parallel()

	tr := newTransformer(t)

	for _, s := range []string{"NaN", "Infinity", "-Infinity"} {
		_, err := tr.Cast([]byte(s), pgtype.NumericOID, pgtype.TextFormat)
		var decodeErr *pgtype.DecodeError
		require.ErrorAs(t, err, &decodeErr, s)
	}
}

func TestRegisterIsScoped(t *testing.T) {
	t.Parallel()

	_ = newTransformer(t)

	conn, err := pgxadapt.NewConn(&pgxadapt.ConnConfig{})
	require.NoError(t, err)
	tr := pgxadapt.NewTransformer(pgxadapt.ConnContext(conn))

	v, err := tr.Cast([]byte("1.5"), pgtype.NumericOID, pgtype.TextFormat)
	require.NoError(t, err)
	assert.IsType(t, pgtype.Numeric{}, v)

	_, _, err = tr.Adapt(decimal.Decimal{}, pgtype.TextFormat)
	var adaptErr *pgtype.AdaptError
	require.ErrorAs(t, err, &adaptErr)
}

func TestNumericConversions(t *testing.T) {
	t.Parallel()

	n, err := numeric.ToNumeric(mustDecimal(t, "-0.050"))
	require.NoError(t, err)
	assert.Equal(t, "-0.050", n.String())

	d, err := numeric.FromNumeric(n)
	require.NoError(t, err)
	assert.True(t, mustDecimal(t, "-0.05").Equal(d))

	d, err = numeric.FromNumeric(pgtype.Numeric{})
	require.NoError(t, err)
	assert.True(t, decimal.Zero.Equal(d))
}
