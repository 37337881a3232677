package uuid_test

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgxadapt"
	gofrs "github.com/jackc/pgxadapt/ext/gofrs-uuid"
	"github.com/jackc/pgxadapt/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUUID = "f81d4fae-7dec-11d0-a765-00a0c91e6bf6"

func newTransformer(t *testing.T) *pgxadapt.Transformer {
	t.Helper()
	conn, err := pgxadapt.NewConn(&pgxadapt.ConnConfig{})
	require.NoError(t, err)
	require.NoError(t, gofrs.Register(conn))
	return pgxadapt.NewTransformer(pgxadapt.ConnContext(conn))
}

func TestAdaptUUID(t *testing.T) {
	t.Parallel()

	tr := newTransformer(t)
	u := uuid.Must(uuid.FromString(testUUID))

	buf, oid, err := tr.Adapt(u, pgtype.TextFormat)
	require.NoError(t, err)
	assert.Equal(t, pgtype.UUIDOID, oid)
	assert.Equal(t, testUUID, string(buf))

	buf, oid, err = tr.Adapt(u, pgtype.BinaryFormat)
	require.NoError(t, err)
	assert.Equal(t, pgtype.UUIDOID, oid)
	assert.Equal(t, u.Bytes(), buf)

	buf, _, err = tr.Adapt(uuid.NullUUID{}, pgtype.BinaryFormat)
	require.NoError(t, err)
	assert.Nil(t, buf)

	buf, _, err = tr.Adapt(uuid.NullUUID{UUID: u, Valid: true}, pgtype.TextFormat)
	require.NoError(t, err)
	assert.Equal(t, testUUID, string(buf))
}

func TestCastUUID(t *testing.T) {
	t.Parallel()

	tr := newTransformer(t)
	u, err := uuid.NewV4()
	require.NoError(t, err)

	for _, format := range []pgtype.Format{pgtype.TextFormat, pgtype.BinaryFormat} {
		buf, _, err := tr.Adapt(u, format)
		require.NoError(t, err)

		v, err := tr.Cast(buf, pgtype.UUIDOID, format)
		require.NoError(t, err)
		assert.Equal(t, u, v, "%v", format)
	}

	_, err = tr.Cast([]byte{1, 2, 3}, pgtype.UUIDOID, pgtype.BinaryFormat)
	var decodeErr *pgtype.DecodeError
	require.ErrorAs(t, err, &decodeErr)

	_, err = tr.Cast([]byte("not-a-uuid"), pgtype.UUIDOID, pgtype.TextFormat)
	require.ErrorAs(t, err, &decodeErr)
}

func TestBuiltinUUIDConverts(t *testing.T) {
	t.Parallel()

	conn, err := pgxadapt.NewConn(&pgxadapt.ConnConfig{})
	require.NoError(t, err)
	tr := pgxadapt.NewTransformer(pgxadapt.ConnContext(conn))

	v, err := tr.Cast([]byte(testUUID), pgtype.UUIDOID, pgtype.TextFormat)
	require.NoError(t, err)
	require.IsType(t, pgtype.UUID{}, v)
	assert.Equal(t, uuid.Must(uuid.FromString(testUUID)), uuid.UUID(v.(pgtype.UUID)))
}
