package pgxadapt

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgxadapt/internal/anynil"
	"github.com/jackc/pgxadapt/pgtype"
)

// Result is the part of a query result the adaptation layer reads. GetValue returns nil for SQL NULL.
type Result interface {
	NFields() int
	NTuples() int
	FieldName(col int) string
	FieldType(col int) pgtype.OID
	FieldFormat(col int) pgtype.Format
	GetValue(row, col int) []byte
}

type adaptContextKind int8

const (
	noContext adaptContextKind = iota
	connContext
	cursorContext
)

// AdaptContext selects the registries a Transformer resolves against. Build one with NoContext, ConnContext, or
// CursorContext.
type AdaptContext struct {
	kind   adaptContextKind
	conn   *Conn
	cursor *Cursor
}

// NoContext resolves against the process-wide registry only.
func NoContext() AdaptContext {
	return AdaptContext{kind: noContext}
}

// ConnContext resolves against conn's registry and then the process-wide registry. A nil conn is the same as
// NoContext.
func ConnContext(conn *Conn) AdaptContext {
	if conn == nil {
		return NoContext()
	}
	return AdaptContext{kind: connContext, conn: conn}
}

// CursorContext resolves against cur's registry, its connection's registry, and then the process-wide registry. A nil
// cur, or one not created by Conn.Cursor, is the same as NoContext.
func CursorContext(cur *Cursor) AdaptContext {
	if cur == nil || cur.conn == nil {
		return NoContext()
	}
	return AdaptContext{kind: cursorContext, conn: cur.conn, cursor: cur}
}

type adaptKey struct {
	hostType reflect.Type
	format   pgtype.Format
}

type castKey struct {
	oid    pgtype.OID
	format pgtype.Format
}

// Transformer adapts parameters and casts results for a single query. Resolved handlers are cached for the life of the
// Transformer, so registrations made after a handler was resolved are not seen. A Transformer must not be used
// concurrently.
type Transformer struct {
	conn   *Conn
	cursor *Cursor
	ctx    context.Context
	chain  *pgtype.ScopeChain
	tracer ResolveTracer

	encoders map[adaptKey]pgtype.EncodePlan
	decoders map[castKey]pgtype.DecodePlan

	result     Result
	rowCasters []pgtype.DecodePlan
}

// NewTransformer creates a Transformer for actx. The scope chain is fixed at creation.
func NewTransformer(actx AdaptContext) *Transformer {
	t := &Transformer{
		ctx:      context.Background(),
		encoders: make(map[adaptKey]pgtype.EncodePlan),
		decoders: make(map[castKey]pgtype.DecodePlan),
	}

	switch actx.kind {
	case cursorContext:
		t.cursor = actx.cursor
		t.conn = actx.conn
		t.ctx = actx.cursor.ctx
		t.chain = pgtype.NewScopeChain(actx.cursor.registry, actx.conn.registry)
	case connContext:
		t.conn = actx.conn
		t.chain = pgtype.NewScopeChain(actx.conn.registry)
	default:
		t.chain = pgtype.NewScopeChain()
	}

	if t.conn != nil {
		t.tracer = t.conn.tracer()
	}

	return t
}

// Conn returns the connection the Transformer is bound to or nil.
func (t *Transformer) Conn() *Conn {
	return t.conn
}

// Cursor returns the cursor the Transformer is bound to or nil.
func (t *Transformer) Cursor() *Cursor {
	return t.cursor
}

func (t *Transformer) connInfo() pgtype.ConnInfo {
	if t.conn == nil {
		return nil
	}
	return t.conn
}

// Adapt encodes value in format. It returns the payload and the OID the value should be sent as. nil and typed nil
// values encode as SQL NULL: a nil payload with TextOID.
func (t *Transformer) Adapt(value any, format pgtype.Format) ([]byte, pgtype.OID, error) {
	if anynil.Is(value) {
		return nil, pgtype.TextOID, nil
	}

	plan, err := t.encodePlan(reflect.TypeOf(value), format)
	if err != nil {
		return nil, 0, err
	}
	return plan(value)
}

func (t *Transformer) encodePlan(hostType reflect.Type, format pgtype.Format) (pgtype.EncodePlan, error) {
	key := adaptKey{hostType: hostType, format: format}
	if plan, ok := t.encoders[key]; ok {
		return plan, nil
	}

	plan, err := t.chain.PlanAdapter(hostType, format, t.connInfo())
	if t.tracer != nil {
		t.tracer.TraceResolveAdapter(t.ctx, t.conn, TraceResolveAdapterData{HostType: hostType, Format: format, Err: err})
	}
	if err != nil {
		return nil, err
	}

	t.encoders[key] = plan
	return plan, nil
}

// AdaptSequence encodes values pairwise with formats. A nil formats means text for every value; otherwise formats
// must be as long as values.
func (t *Transformer) AdaptSequence(values []any, formats []pgtype.Format) ([][]byte, []pgtype.OID, error) {
	if formats != nil && len(formats) != len(values) {
		return nil, nil, fmt.Errorf("got %d formats for %d values", len(formats), len(values))
	}

	payloads := make([][]byte, len(values))
	oids := make([]pgtype.OID, len(values))
	for i, v := range values {
		format := pgtype.TextFormat
		if formats != nil {
			format = formats[i]
		}

		buf, oid, err := t.Adapt(v, format)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode parameter %d: %w", i, err)
		}
		payloads[i] = buf
		oids[i] = oid
	}

	return payloads, oids, nil
}

// Result returns the bound result or nil.
func (t *Transformer) Result() Result {
	return t.result
}

// SetResult binds res and resolves one caster per column. Binding the result that is already bound does nothing.
func (t *Transformer) SetResult(res Result) {
	if sameResult(res, t.result) {
		return
	}
	t.result = res
	if res == nil {
		t.rowCasters = nil
		return
	}

	n := res.NFields()
	casters := make([]pgtype.DecodePlan, n)
	for i := 0; i < n; i++ {
		casters[i] = t.decodePlan(res.FieldType(i), res.FieldFormat(i))
	}
	t.rowCasters = casters

	if t.tracer != nil {
		t.tracer.TraceBindResult(t.ctx, t.conn, TraceBindResultData{NFields: n, NTuples: res.NTuples()})
	}
}

// sameResult reports whether a and b are the same result object. Results of non-comparable types are never the same.
func sameResult(a, b Result) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

func (t *Transformer) decodePlan(oid pgtype.OID, format pgtype.Format) pgtype.DecodePlan {
	key := castKey{oid: oid, format: format}
	if plan, ok := t.decoders[key]; ok {
		return plan
	}

	plan := t.chain.PlanCaster(oid, format, t.connInfo())
	if t.tracer != nil {
		t.tracer.TraceResolveCaster(t.ctx, t.conn, TraceResolveCasterData{OID: oid, Format: format, Fallback: t.chain.IsFallback(oid, format)})
	}

	t.decoders[key] = plan
	return plan
}

// Cast decodes data of type oid in format. nil data is SQL NULL and decodes to nil without calling a caster.
func (t *Transformer) Cast(data []byte, oid pgtype.OID, format pgtype.Format) (any, error) {
	if data == nil {
		return nil, nil
	}
	return t.decodePlan(oid, format)(data)
}

// CastRow binds res and returns an iterator that decodes row one column at a time.
func (t *Transformer) CastRow(res Result, row int) *RowValues {
	t.SetResult(res)
	return &RowValues{result: res, row: row, casters: t.rowCasters}
}

// LoadRow decodes every column of row.
func (t *Transformer) LoadRow(res Result, row int) ([]any, error) {
	rv := t.CastRow(res, row)
	values := make([]any, 0, rv.Len())
	for rv.Next() {
		values = append(values, rv.Value())
	}
	if err := rv.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// RowValues iterates over the decoded values of one row. Values are decoded on demand. A RowValues cannot be
// restarted.
type RowValues struct {
	result  Result
	row     int
	casters []pgtype.DecodePlan

	col   int
	value any
	err   error
}

// Next decodes the next column. It returns false when every column has been decoded or a caster failed.
func (rv *RowValues) Next() bool {
	if rv.err != nil || rv.col >= len(rv.casters) {
		return false
	}

	col := rv.col
	rv.col++

	src := rv.result.GetValue(rv.row, col)
	if src == nil {
		rv.value = nil
		return true
	}

	value, err := rv.casters[col](src)
	if err != nil {
		rv.value = nil
		rv.err = err
		return false
	}
	rv.value = value
	return true
}

// Value returns the value decoded by the last call to Next.
func (rv *RowValues) Value() any {
	return rv.value
}

// Err returns the caster error that stopped iteration, if any.
func (rv *RowValues) Err() error {
	return rv.err
}

// Len returns the number of columns.
func (rv *RowValues) Len() int {
	return len(rv.casters)
}
