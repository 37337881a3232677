package pgresult_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jackc/pgproto3/v2"
	"github.com/jackc/pgxadapt/pgresult"
	"github.com/jackc/pgxadapt/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userFields() []pgproto3.FieldDescription {
	return []pgproto3.FieldDescription{
		{Name: []byte("id"), DataTypeOID: pgtype.Int4OID, Format: 0},
		{Name: []byte("user name"), DataTypeOID: pgtype.TextOID, Format: 0},
	}
}

func encodeMessages(msgs ...pgproto3.BackendMessage) []byte {
	var buf []byte
	for _, msg := range msgs {
		buf = msg.Encode(buf)
	}
	return buf
}

func TestNewCopiesInput(t *testing.T) {
	fields := userFields()
	rows := [][][]byte{{[]byte("1"), []byte("ada")}, {[]byte("2"), nil}}

	res := pgresult.New(fields, rows)
	fields[0].Name[0] = 'X'
	rows[0][1][0] = 'X'

	require.Equal(t, 2, res.NFields())
	require.Equal(t, 2, res.NTuples())
	assert.Equal(t, "id", res.FieldName(0))
	assert.Equal(t, "user name", res.FieldName(1))
	assert.Equal(t, pgtype.Int4OID, res.FieldType(0))
	assert.Equal(t, pgtype.TextFormat, res.FieldFormat(1))
	assert.Equal(t, []byte("ada"), res.GetValue(0, 1))
	assert.Nil(t, res.GetValue(1, 1))
	assert.Nil(t, res.GetValue(1, 5))
}

func TestReadResult(t *testing.T) {
	stream := encodeMessages(
		&pgproto3.ParseComplete{},
		&pgproto3.BindComplete{},
		&pgproto3.RowDescription{Fields: userFields()},
		&pgproto3.DataRow{Values: [][]byte{[]byte("1"), []byte("ada")}},
		&pgproto3.DataRow{Values: [][]byte{[]byte("2"), nil}},
		&pgproto3.CommandComplete{CommandTag: []byte("SELECT 2")},
		&pgproto3.ReadyForQuery{TxStatus: 'I'},
	)

	res, err := pgresult.ReadResult(bytes.NewReader(stream))
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "SELECT 2", res.CommandTag())
	assert.Equal(t, 2, res.NTuples())
	assert.Equal(t, "user name", res.FieldName(1))
	assert.Equal(t, []byte("1"), res.GetValue(0, 0))
	assert.Equal(t, []byte("ada"), res.GetValue(0, 1))
	assert.Equal(t, []byte("2"), res.GetValue(1, 0))
	assert.Nil(t, res.GetValue(1, 1))
}

func TestReadResultsMultipleStatements(t *testing.T) {
	stream := encodeMessages(
		&pgproto3.CommandComplete{CommandTag: []byte("CREATE TABLE")},
		&pgproto3.RowDescription{Fields: userFields()[:1]},
		&pgproto3.DataRow{Values: [][]byte{[]byte("7")}},
		&pgproto3.CommandComplete{CommandTag: []byte("SELECT 1")},
		&pgproto3.EmptyQueryResponse{},
		&pgproto3.ReadyForQuery{TxStatus: 'I'},
	)

	results, err := pgresult.ReadResults(bytes.NewReader(stream))
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "CREATE TABLE", results[0].CommandTag())
	assert.Equal(t, 0, results[0].NFields())
	assert.Equal(t, 1, results[1].NTuples())
	assert.Equal(t, []byte("7"), results[1].GetValue(0, 0))
	assert.Equal(t, "", results[2].CommandTag())

	_, err = pgresult.ReadResult(bytes.NewReader(stream))
	require.ErrorIs(t, err, pgresult.ErrUnexpectedMessage)
}

func TestReadResultsErrorResponse(t *testing.T) {
	stream := encodeMessages(
		&pgproto3.RowDescription{Fields: userFields()},
		&pgproto3.DataRow{Values: [][]byte{[]byte("1"), []byte("ada")}},
		&pgproto3.ErrorResponse{Severity: "ERROR", Code: "22012", Message: "division by zero"},
		&pgproto3.ReadyForQuery{TxStatus: 'I'},
	)

	results, err := pgresult.ReadResults(bytes.NewReader(stream))
	var resultErr *pgresult.ResultError
	require.True(t, errors.As(err, &resultErr))
	assert.Equal(t, "22012", resultErr.Code)
	assert.Equal(t, "ERROR: division by zero (SQLSTATE 22012)", err.Error())
	assert.Empty(t, results)
}

func TestReadResultsWithoutReadyForQuery(t *testing.T) {
	stream := encodeMessages(
		&pgproto3.RowDescription{Fields: userFields()},
		&pgproto3.DataRow{Values: [][]byte{[]byte("1"), []byte("ada")}},
		&pgproto3.CommandComplete{CommandTag: []byte("SELECT 1")},
	)

	res, err := pgresult.ReadResult(bytes.NewReader(stream))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.NTuples())

	res, err = pgresult.ReadResult(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestReadResultsTruncatedResult(t *testing.T) {
	stream := encodeMessages(
		&pgproto3.RowDescription{Fields: userFields()},
		&pgproto3.DataRow{Values: [][]byte{[]byte("1"), []byte("ada")}},
	)

	_, err := pgresult.ReadResults(bytes.NewReader(stream))
	require.Error(t, err)
}

func TestReadResultsDataRowWithoutDescription(t *testing.T) {
	stream := encodeMessages(
		&pgproto3.DataRow{Values: [][]byte{[]byte("1")}},
		&pgproto3.ReadyForQuery{TxStatus: 'I'},
	)

	_, err := pgresult.ReadResults(bytes.NewReader(stream))
	require.ErrorIs(t, err, pgresult.ErrUnexpectedMessage)
}

func TestReadResultsRejectsUnknownFormatCode(t *testing.T) {
	stream := encodeMessages(
		&pgproto3.RowDescription{Fields: []pgproto3.FieldDescription{
			{Name: []byte("id"), DataTypeOID: pgtype.Int4OID, Format: 2},
		}},
		&pgproto3.DataRow{Values: [][]byte{[]byte("1")}},
		&pgproto3.CommandComplete{CommandTag: []byte("SELECT 1")},
		&pgproto3.ReadyForQuery{TxStatus: 'I'},
	)

	_, err := pgresult.ReadResults(bytes.NewReader(stream))
	require.ErrorIs(t, err, pgresult.ErrUnexpectedMessage)
}
