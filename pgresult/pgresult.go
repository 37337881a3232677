// Package pgresult provides query results built from PostgreSQL backend protocol messages.
package pgresult

import (
	"errors"
	"fmt"
	"io"

	"github.com/jackc/chunkreader/v2"
	"github.com/jackc/pgproto3/v2"
	"github.com/jackc/pgxadapt/pgtype"
)

// Result is one statement's result: column descriptions, rows of raw column values, and the command tag. It
// implements pgxadapt.Result. A nil value in a row is SQL NULL.
type Result struct {
	fields     []pgproto3.FieldDescription
	rows       [][][]byte
	commandTag string
}

// New builds a Result from field descriptions and rows. Both are copied.
func New(fields []pgproto3.FieldDescription, rows [][][]byte) *Result {
	r := &Result{fields: copyFields(fields)}
	for _, row := range rows {
		r.appendRow(row)
	}
	return r
}

func copyFields(fields []pgproto3.FieldDescription) []pgproto3.FieldDescription {
	if fields == nil {
		return nil
	}
	fds := make([]pgproto3.FieldDescription, len(fields))
	for i, fd := range fields {
		fds[i] = fd
		fds[i].Name = append([]byte(nil), fd.Name...)
	}
	return fds
}

func (r *Result) appendRow(values [][]byte) {
	row := make([][]byte, len(values))
	for i, v := range values {
		if v != nil {
			row[i] = append(make([]byte, 0, len(v)), v...)
		}
	}
	r.rows = append(r.rows, row)
}

func (r *Result) NFields() int {
	return len(r.fields)
}

func (r *Result) NTuples() int {
	return len(r.rows)
}

func (r *Result) FieldName(col int) string {
	return string(r.fields[col].Name)
}

func (r *Result) FieldType(col int) pgtype.OID {
	return r.fields[col].DataTypeOID
}

func (r *Result) FieldFormat(col int) pgtype.Format {
	return pgtype.Format(r.fields[col].Format)
}

// GetValue returns the raw value at row and col. Columns missing from a short row read as NULL.
func (r *Result) GetValue(row, col int) []byte {
	values := r.rows[row]
	if col >= len(values) {
		return nil
	}
	return values[col]
}

// FieldDescriptions returns the column descriptions as received.
func (r *Result) FieldDescriptions() []pgproto3.FieldDescription {
	return r.fields
}

// CommandTag returns the tag of the CommandComplete message, such as "SELECT 2".
func (r *Result) CommandTag() string {
	return r.commandTag
}

// ResultError is an ErrorResponse sent by the server while a result was being read.
type ResultError struct {
	Severity string
	Code     string
	Message  string
	Detail   string
	Hint     string
}

func (e *ResultError) Error() string {
	return e.Severity + ": " + e.Message + " (SQLSTATE " + e.Code + ")"
}

// ErrUnexpectedMessage is returned when the message stream is not a valid sequence of query responses.
var ErrUnexpectedMessage = errors.New("unexpected message")

// ReadResults reads backend messages from r until ReadyForQuery and returns one Result per statement. Messages that do
// not carry result data, such as ParseComplete or NoticeResponse, are skipped. A stream that ends between statements
// without ReadyForQuery returns the results read so far.
//
// If the server sent an ErrorResponse, the results before it are returned along with a *ResultError.
func ReadResults(r io.Reader) ([]*Result, error) {
	frontend := pgproto3.NewFrontend(chunkreader.New(r), io.Discard)

	var results []*Result
	var current *Result
	var resultErr error

	for {
		msg, err := frontend.Receive()
		if err != nil {
			if (errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)) && current == nil {
				return results, resultErr
			}
			return results, fmt.Errorf("failed to read message: %w", err)
		}

		switch msg := msg.(type) {
		case *pgproto3.RowDescription:
			for _, fd := range msg.Fields {
				if fd.Format != int16(pgtype.TextFormat) && fd.Format != int16(pgtype.BinaryFormat) {
					return results, fmt.Errorf("%w: unknown format code %d for column %s", ErrUnexpectedMessage, fd.Format, fd.Name)
				}
			}
			current = &Result{fields: copyFields(msg.Fields)}
		case *pgproto3.DataRow:
			if current == nil {
				return results, fmt.Errorf("%w: DataRow before RowDescription", ErrUnexpectedMessage)
			}
			current.appendRow(msg.Values)
		case *pgproto3.CommandComplete:
			if current == nil {
				current = &Result{}
			}
			current.commandTag = string(msg.CommandTag)
			results = append(results, current)
			current = nil
		case *pgproto3.EmptyQueryResponse:
			results = append(results, &Result{})
			current = nil
		case *pgproto3.ErrorResponse:
			resultErr = &ResultError{
				Severity: msg.Severity,
				Code:     msg.Code,
				Message:  msg.Message,
				Detail:   msg.Detail,
				Hint:     msg.Hint,
			}
			current = nil
		case *pgproto3.ReadyForQuery:
			return results, resultErr
		}
	}
}

// ReadResult reads a message stream holding a single statement's result. It returns nil when the stream holds no
// result.
func ReadResult(r io.Reader) (*Result, error) {
	results, err := ReadResults(r)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	if len(results) > 1 {
		return nil, fmt.Errorf("%w: expected one result, got %d", ErrUnexpectedMessage, len(results))
	}
	return results[0], nil
}
