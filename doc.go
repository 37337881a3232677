// Package pgxadapt converts Go values to PostgreSQL wire payloads and wire payloads back to Go values.
/*
Adapters encode Go values before a query is sent. Casters decode column values after a result is received. Both are
kept in pgtype.Registry values at three levels of specificity: the operation (a Cursor), the connection (a Conn), and
the process-wide registry returned by pgtype.Globals. Lookups walk from the most specific registry to the least
specific and the first match wins.

	conn, err := pgxadapt.NewConn(nil)
	if err != nil {
		return err
	}

	// Every cursor of this connection sends money values as numeric.
	_, err = pgtype.RegisterAdapter(pgtype.TypeFor[Money](), encodeMoney, conn, pgtype.TextFormat)

Encoding

A Transformer caches the resolved encoder for each Go type and format. Nil and typed nil values are always sent as
SQL NULL. A type with no registered adapter may still encode itself by implementing pgtype.TextEncoder or
pgtype.BinaryEncoder. When nothing applies Adapt returns a *pgtype.AdaptError.

Decoding

Decoding never fails to find a caster: OIDs without a registration are decoded by the fallback caster, which returns
a string decoded with the connection's client encoding for text columns and a copy of the raw bytes for binary
columns.

Row shapes

A RowFactory is invoked once per result and returns the RowMaker used for every row. TupleRow returns the decoded
values as a []any. MapRow returns a map keyed by column name. NamedTupleRow returns a *Record whose field names are
sanitized column names. StructRow fills a struct by column name and ScalarRow returns the first column only.
*/
package pgxadapt
