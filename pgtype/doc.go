// Package pgtype converts between Go values and PostgreSQL wire payloads.
/*
Adapters encode Go values into parameter payloads. They are registered per Go type and format with RegisterAdapter:

	pgtype.RegisterAdapter(pgtype.TypeFor[Money](), func(v any) ([]byte, error) {
		return []byte(v.(Money).String()), nil
	}, nil, pgtype.TextFormat)

Casters decode column payloads into Go values. They are registered per OID and format with RegisterCaster. Casters are
never called for NULL.

Both kinds of handler may be plain functions, the Adapter/OIDAdapter and Caster interfaces, or factories. A factory
receives the Go type or OID being resolved and the ConnInfo of the connection, and is instantiated at most once per
transformer.

Registrations live in a Registry. The process-wide registry returned by Globals holds the built-in handlers. Connections
and cursors have their own registries, and a ScopeChain searches them from the most specific to the process-wide one.
The first registry holding an entry wins.

Types implementing TextEncoder or BinaryEncoder encode themselves when no adapter is registered for them. Numeric and UUID
do this, and are what the built-in numeric and uuid casters return.

Columns whose OID has no caster decode with the fallback casters: text is decoded in the client encoding of the
connection and binary payloads are returned as a copy of the bytes.
*/
package pgtype
