package pgxadapt

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgproto3/v2"
	"github.com/jackc/pgxadapt/pgtype"
)

// FieldDescription describes a column of a bound result.
type FieldDescription struct {
	Name        string
	DataTypeOID pgtype.OID
	Format      pgtype.Format
	Position    int
}

// Cursor is the operation-level collaborator of the adaptation layer. It owns the operation-scope registry and the row
// factory, and builds rows from the result of the current query. A Cursor must not be used concurrently.
type Cursor struct {
	conn     *Conn
	ctx      context.Context
	registry *pgtype.Registry

	rowFactory RowFactory
	tupleRows  bool

	transformer *Transformer
	result      Result
	rowMaker    RowMaker
	pos         int
}

// Registry returns the operation-scope registry. It makes *Cursor usable as a pgtype.Scope.
func (c *Cursor) Registry() *pgtype.Registry {
	return c.registry
}

// Conn returns the connection the cursor was created from.
func (c *Cursor) Conn() *Conn {
	return c.conn
}

// Context returns the context the cursor was created with.
func (c *Cursor) Context() context.Context {
	return c.ctx
}

// RowFactory returns the current row factory.
func (c *Cursor) RowFactory() RowFactory {
	return c.rowFactory
}

// SetRowFactory sets the row factory used for subsequent results. nil means TupleRow.
func (c *Cursor) SetRowFactory(rf RowFactory) {
	if rf == nil {
		rf = TupleRow
	}
	c.rowFactory = rf
	c.tupleRows = isTupleRow(rf)
}

func isTupleRow(rf RowFactory) bool {
	return reflect.ValueOf(rf).Pointer() == reflect.ValueOf(RowFactory(TupleRow)).Pointer()
}

// Transformer returns the transformer of the current query, creating one if no query has started.
func (c *Cursor) Transformer() *Transformer {
	if c.transformer == nil {
		c.transformer = NewTransformer(CursorContext(c))
	}
	return c.transformer
}

// Reset starts a new query. The previous transformer, result, and row maker are discarded so registrations made since
// the last query take effect.
func (c *Cursor) Reset() {
	c.transformer = nil
	c.result = nil
	c.rowMaker = nil
	c.pos = 0
}

// BindParams starts a new query and adapts values into the Parse and Bind messages of the extended query protocol.
// formats gives the parameter format of each value; nil means text for all. resultFormats is copied into the Bind
// message as is.
func (c *Cursor) BindParams(sql string, values []any, formats []pgtype.Format, resultFormats []pgtype.Format) (*pgproto3.Parse, *pgproto3.Bind, error) {
	c.Reset()

	payloads, oids, err := c.Transformer().AdaptSequence(values, formats)
	if err != nil {
		return nil, nil, err
	}

	parse := &pgproto3.Parse{
		Query:         sql,
		ParameterOIDs: oids,
	}
	bind := &pgproto3.Bind{
		ParameterFormatCodes: formatCodes(formats),
		Parameters:           payloads,
		ResultFormatCodes:    formatCodes(resultFormats),
	}

	return parse, bind, nil
}

func formatCodes(formats []pgtype.Format) []int16 {
	if formats == nil {
		return nil
	}
	codes := make([]int16, len(formats))
	for i, f := range formats {
		codes[i] = int16(f)
	}
	return codes
}

// SetResult binds the result of the current query. res may be nil when the query produced no result. The row factory
// is invoked in both cases; with no result the built-in factories return NoResult.
func (c *Cursor) SetResult(res Result) {
	c.result = res
	c.pos = 0
	if res != nil {
		c.Transformer().SetResult(res)
	}
	if c.rowFactory == nil {
		c.SetRowFactory(nil)
	}
	c.rowMaker = c.rowFactory(c)
}

// Result returns the bound result or nil.
func (c *Cursor) Result() Result {
	return c.result
}

// Description returns the column descriptions of the bound result, or nil when no result is bound.
func (c *Cursor) Description() []FieldDescription {
	if c.result == nil {
		return nil
	}

	n := c.result.NFields()
	fds := make([]FieldDescription, n)
	for i := 0; i < n; i++ {
		fds[i] = FieldDescription{
			Name:        c.result.FieldName(i),
			DataTypeOID: c.result.FieldType(i),
			Format:      c.result.FieldFormat(i),
			Position:    i,
		}
	}
	return fds
}

// Fetch builds the row at index row of the bound result with the current row maker.
func (c *Cursor) Fetch(row int) (any, error) {
	if c.rowMaker == nil {
		return nil, errNoResult
	}
	if c.result == nil {
		return c.rowMaker(nil)
	}
	if row < 0 || row >= c.result.NTuples() {
		return nil, fmt.Errorf("row %d out of range [0, %d)", row, c.result.NTuples())
	}

	values, err := c.transformer.LoadRow(c.result, row)
	if err != nil {
		return nil, err
	}
	if c.tupleRows {
		return values, nil
	}
	return c.rowMaker(values)
}

// FetchOne builds the next row. It returns ErrNoRows when every row has been fetched.
func (c *Cursor) FetchOne() (any, error) {
	if c.result != nil && c.pos >= c.result.NTuples() {
		return nil, ErrNoRows
	}
	row, err := c.Fetch(c.pos)
	if err != nil {
		return nil, err
	}
	c.pos++
	return row, nil
}

// FetchAll builds every row not yet fetched.
func (c *Cursor) FetchAll() ([]any, error) {
	if c.result == nil {
		_, err := c.Fetch(0)
		return nil, err
	}

	rows := make([]any, 0, c.result.NTuples()-c.pos)
	for c.pos < c.result.NTuples() {
		row, err := c.Fetch(c.pos)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		c.pos++
	}
	return rows, nil
}

// CollectRows builds every row not yet fetched and asserts each row to T. It is typically used with StructRow[T],
// ScalarRow, or MapRow.
func CollectRows[T any](c *Cursor) ([]T, error) {
	rows, err := c.FetchAll()
	if err != nil {
		return nil, err
	}

	values := make([]T, len(rows))
	for i, row := range rows {
		v, ok := row.(T)
		if !ok && row != nil {
			return nil, fmt.Errorf("row %d is %T, not %v", i, row, reflect.TypeOf((*T)(nil)).Elem())
		}
		values[i] = v
	}
	return values, nil
}
