package pgxadapt

import (
	"context"
	"reflect"

	"github.com/jackc/pgxadapt/pgtype"
)

// ResolveTracer traces adapter and caster resolution. Each event fires when a Transformer resolves a handler for the
// first time, not on every cached use.
type ResolveTracer interface {
	TraceResolveAdapter(ctx context.Context, conn *Conn, data TraceResolveAdapterData)
	TraceResolveCaster(ctx context.Context, conn *Conn, data TraceResolveCasterData)
	TraceBindResult(ctx context.Context, conn *Conn, data TraceBindResultData)
}

type TraceResolveAdapterData struct {
	HostType reflect.Type
	Format   pgtype.Format
	Err      error
}

type TraceResolveCasterData struct {
	OID    pgtype.OID
	Format pgtype.Format

	// Fallback is true when no caster is registered for OID and the fallback caster is used.
	Fallback bool
}

type TraceBindResultData struct {
	NFields int
	NTuples int
}
