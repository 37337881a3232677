// Package multitracer provides a Tracer that can combine several tracers into one.
package multitracer

import (
	"context"

	"github.com/jackc/pgxadapt"
)

// Tracer can combine several tracers into one. Events are delivered to Tracers in order.
type Tracer struct {
	Tracers []pgxadapt.ResolveTracer
}

// New returns new Tracer from tracers. nil tracers are skipped.
func New(tracers ...pgxadapt.ResolveTracer) *Tracer {
	var t Tracer

	for i := range tracers {
		if tracers[i] != nil {
			t.Tracers = append(t.Tracers, tracers[i])
		}
	}

	return &t
}

func (t *Tracer) TraceResolveAdapter(ctx context.Context, conn *pgxadapt.Conn, data pgxadapt.TraceResolveAdapterData) {
	for i := range t.Tracers {
		t.Tracers[i].TraceResolveAdapter(ctx, conn, data)
	}
}

func (t *Tracer) TraceResolveCaster(ctx context.Context, conn *pgxadapt.Conn, data pgxadapt.TraceResolveCasterData) {
	for i := range t.Tracers {
		t.Tracers[i].TraceResolveCaster(ctx, conn, data)
	}
}

func (t *Tracer) TraceBindResult(ctx context.Context, conn *pgxadapt.Conn, data pgxadapt.TraceBindResultData) {
	for i := range t.Tracers {
		t.Tracers[i].TraceBindResult(ctx, conn, data)
	}
}
