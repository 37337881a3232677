package numeric_test

import (
	"testing"

	"github.com/cockroachdb/apd"
	"github.com/jackc/pgxadapt"
	numeric "github.com/jackc/pgxadapt/ext/apd-numeric"
	"github.com/jackc/pgxadapt/pgtype"
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

func TestAdaptDecimal(t *testing.T) {
	t.Parallel()

	tr := newTransformer(t)

	buf, oid, err := tr.Adapt(apd.New(150, -2), pgtype.TextFormat)
	require.NoError(t, err)
	assert.Equal(t, pgtype.NumericOID, oid)
	assert.Equal(t, "1.50", string(buf))

	buf, oid, err = tr.Adapt(*apd.New(150, -2), pgtype.BinaryFormat)
	require.NoError(t, err)
	assert.Equal(t, pgtype.NumericOID, oid)
	assert.Equal(t, []byte{0, 2, 0, 0, 0, 0, 0, 2, 0, 1, 0x13, 0x88}, buf)

	buf, _, err = tr.Adapt(&apd.Decimal{Form: apd.Infinite, Negative: true}, pgtype.TextFormat)
	require.NoError(t, err)
	assert.Equal(t, "-Infinity", string(buf))

	buf, _, err = tr.Adapt((*apd.Decimal)(nil), pgtype.TextFormat)
	require.NoError(t, err)
	assert.Nil(t, buf)
}

func TestCastDecimal(t *testing.T) {
	t.Parallel()

	tr := newTransformer(t)

	for _, want := range []*apd.Decimal{
		apd.New(0, 0),
		apd.New(150, -2),
		apd.New(-123456789000123456, -9),
		apd.New(1, 4),
		{Form: apd.NaN},
		{Form: apd.Infinite},
		{Form: apd.Infinite, Negative: true},
	} {
		for _, format := range []pgtype.Format{pgtype.TextFormat, pgtype.BinaryFormat} {
			buf, _, err := tr.Adapt(want, format)
			require.NoError(t, err)

			v, err := tr.Cast(buf, pgtype.NumericOID, format)
			require.NoError(t, err)
			require.IsType(t, &apd.Decimal{}, v)

			got := v.(*apd.Decimal)
			assert.Equal(t, want.Form, got.Form, "%v %v", format, want)
			assert.Equal(t, want.Negative, got.Negative, "%v %v", format, want)
			if want.Form == apd.Finite {
				assert.Equal(t, 0, want.Cmp(got), "%v %v: got %v", format, want, got)
			}
		}
	}
}

func TestCastDecimalText(t *testing.T) {
	t.Parallel()

	tr := newTransformer(t)

	v, err := tr.Cast([]byte("-0.050"), pgtype.NumericOID, pgtype.TextFormat)
	require.NoError(t, err)
	d := v.(*apd.Decimal)
	assert.True(t, d.Negative)
	assert.Equal(t, int32(-3), d.Exponent)
	assert.Equal(t, int64(50), d.Coeff.Int64())

	_, err = tr.Cast([]byte("fifty"), pgtype.NumericOID, pgtype.TextFormat)
	var decodeErr *pgtype.DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestNumericConversions(t *testing.T) {
	t.Parallel()

	n := numeric.ToNumeric(&apd.Decimal{Form: apd.NaNSignaling})
	assert.True(t, n.NaN)

	n = numeric.ToNumeric(apd.New(-5, -1))
	assert.Equal(t, "-0.5", n.String())

	d := numeric.FromNumeric(pgtype.Numeric{})
	assert.Equal(t, apd.Finite, d.Form)
	assert.Equal(t, 0, d.Sign())
}
