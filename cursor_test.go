package pgxadapt_test

import (
	"context"
	"testing"

	"github.com/jackc/pgproto3/v2"
	"github.com/jackc/pgxadapt"
	"github.com/jackc/pgxadapt/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorBindParams(t *testing.T) {
	t.Parallel()

	cur := mustNewConn(t, nil).Cursor(context.Background())

	parse, bind, err := cur.BindParams(
		"select $1::int4, $2, $3",
		[]any{int32(42), "ada", nil},
		[]pgtype.Format{pgtype.BinaryFormat, pgtype.TextFormat, pgtype.TextFormat},
		[]pgtype.Format{pgtype.BinaryFormat},
	)
	require.NoError(t, err)

	assert.Equal(t, &pgproto3.Parse{
		Query:         "select $1::int4, $2, $3",
		ParameterOIDs: []uint32{pgtype.Int4OID, pgtype.TextOID, pgtype.TextOID},
	}, parse)
	assert.Equal(t, &pgproto3.Bind{
		ParameterFormatCodes: []int16{1, 0, 0},
		Parameters:           [][]byte{{0, 0, 0, 42}, []byte("ada"), nil},
		ResultFormatCodes:    []int16{1},
	}, bind)
}

type cursorScoped struct{}

func TestCursorBindParamsSeesNewRegistrations(t *testing.T) {
	t.Parallel()

	cur := mustNewConn(t, nil).Cursor(context.Background())

	_, _, err := cur.BindParams("select $1", []any{cursorScoped{}}, nil, nil)
	var adaptErr *pgtype.AdaptError
	require.ErrorAs(t, err, &adaptErr)

	_, err = pgtype.RegisterAdapter(pgtype.TypeFor[cursorScoped](), func(v any) ([]byte, error) { return []byte("scoped"), nil }, cur, pgtype.TextFormat)
	require.NoError(t, err)

	_, bind, err := cur.BindParams("select $1", []any{cursorScoped{}}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("scoped")}, bind.Parameters)
	assert.Nil(t, bind.ParameterFormatCodes)
}

func TestCursorUsesConnRowFactory(t *testing.T) {
	t.Parallel()

	conn := mustNewConn(t, &pgxadapt.ConnConfig{RowFactory: pgxadapt.MapRow})
	cur := conn.Cursor(context.Background())
	cur.SetResult(userResult())

	row, err := cur.FetchOne()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": int32(1), "user name": "ada"}, row)
}

func TestCursorResultScopeCasters(t *testing.T) {
	t.Parallel()

	conn := mustNewConn(t, nil)
	_, err := pgtype.RegisterCaster(pgtype.TextOID, func(src []byte) (any, error) { return "conn:" + string(src), nil }, conn, pgtype.TextFormat)
	require.NoError(t, err)

	cur := conn.Cursor(context.Background())
	_, err = pgtype.RegisterCaster(pgtype.Int4OID, func(src []byte) (any, error) { return "cur:" + string(src), nil }, cur, pgtype.TextFormat)
	require.NoError(t, err)

	cur.SetResult(userResult())
	row, err := cur.FetchOne()
	require.NoError(t, err)
	assert.Equal(t, []any{"cur:1", "conn:ada"}, row)
}

func TestCursorReset(t *testing.T) {
	t.Parallel()

	cur := mustNewConn(t, nil).Cursor(context.Background())
	cur.SetResult(userResult())
	tr := cur.Transformer()
	require.NotNil(t, cur.Result())

	cur.Reset()
	assert.Nil(t, cur.Result())
	assert.Nil(t, cur.Description())
	assert.NotSame(t, tr, cur.Transformer())

	_, err := cur.FetchOne()
	require.Error(t, err)
}

func TestZeroValueCursor(t *testing.T) {
	t.Parallel()

	cur := &pgxadapt.Cursor{}
	tr := cur.Transformer()
	require.NotNil(t, tr)
	assert.Nil(t, tr.Conn())

	buf, oid, err := tr.Adapt(int32(7), pgtype.TextFormat)
	require.NoError(t, err)
	assert.Equal(t, pgtype.Int4OID, oid)
	assert.Equal(t, "7", string(buf))

	cur.SetResult(userResult())
	row, err := cur.FetchOne()
	require.NoError(t, err)
	assert.Equal(t, []any{int32(1), "ada"}, row)
}
