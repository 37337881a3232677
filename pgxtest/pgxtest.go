// Package pgxtest provides utilities for testing pgxadapt and packages that register adapters and casters with it.
package pgxtest

import (
	"context"
	"testing"

	"github.com/jackc/pgxadapt"
)

// AdaptContextKind names one of the contexts a Transformer can be created in.
type AdaptContextKind int

const (
	NoContext AdaptContextKind = iota
	ConnContext
	CursorContext
)

func (k AdaptContextKind) String() string {
	switch k {
	case NoContext:
		return "NoContext"
	case ConnContext:
		return "ConnContext"
	case CursorContext:
		return "CursorContext"
	default:
		return "invalid"
	}
}

// AllAdaptContextKinds is every AdaptContextKind.
var AllAdaptContextKinds = []AdaptContextKind{NoContext, ConnContext, CursorContext}

// ConnTestRunner controls how a *pgxadapt.Conn is created for tests. All fields are required. Use
// DefaultConnTestRunner to get a ConnTestRunner with reasonable default values.
type ConnTestRunner struct {
	// CreateConfig returns a *pgxadapt.ConnConfig suitable for use with pgxadapt.NewConn.
	CreateConfig func(ctx context.Context, t testing.TB) *pgxadapt.ConnConfig

	// AfterConnect is called after conn is created. It allows for registering adapters and casters before a test
	// begins.
	AfterConnect func(ctx context.Context, t testing.TB, conn *pgxadapt.Conn)

	// AfterTest is called after the test is run.
	AfterTest func(ctx context.Context, t testing.TB, conn *pgxadapt.Conn)
}

// DefaultConnTestRunner returns a new ConnTestRunner with all fields set to reasonable default values.
func DefaultConnTestRunner() ConnTestRunner {
	return ConnTestRunner{
		CreateConfig: func(ctx context.Context, t testing.TB) *pgxadapt.ConnConfig {
			config, err := pgxadapt.ParseConfig("")
			if err != nil {
				t.Fatalf("ParseConfig failed: %v", err)
			}
			return config
		},
		AfterConnect: func(ctx context.Context, t testing.TB, conn *pgxadapt.Conn) {},
		AfterTest:    func(ctx context.Context, t testing.TB, conn *pgxadapt.Conn) {},
	}
}

// RunTest creates a Conn and runs f with it.
func (ctr *ConnTestRunner) RunTest(ctx context.Context, t testing.TB, f func(ctx context.Context, t testing.TB, conn *pgxadapt.Conn)) {
	config := ctr.CreateConfig(ctx, t)
	conn, err := pgxadapt.NewConn(config)
	if err != nil {
		t.Fatalf("NewConn failed: %v", err)
	}

	ctr.AfterConnect(ctx, t, conn)
	f(ctx, t, conn)
	ctr.AfterTest(ctx, t, conn)
}

// RunWithAdaptContexts runs f in a new test for each element of kinds with a Transformer created in that context. If
// kinds is nil all AdaptContextKinds are tested. The connection for ConnContext and CursorContext is created with ctr.
func RunWithAdaptContexts(ctx context.Context, t *testing.T, ctr ConnTestRunner, kinds []AdaptContextKind, f func(ctx context.Context, t testing.TB, tr *pgxadapt.Transformer)) {
	if kinds == nil {
		kinds = AllAdaptContextKinds
	}

	for _, kind := range kinds {
		kind := kind
		t.Run(kind.String(),
			func(t *testing.T) {
				if kind == NoContext {
					f(ctx, t, pgxadapt.NewTransformer(pgxadapt.NoContext()))
					return
				}

				ctr.RunTest(ctx, t, func(ctx context.Context, t testing.TB, conn *pgxadapt.Conn) {
					if kind == ConnContext {
						f(ctx, t, pgxadapt.NewTransformer(pgxadapt.ConnContext(conn)))
						return
					}
					f(ctx, t, pgxadapt.NewTransformer(pgxadapt.CursorContext(conn.Cursor(ctx))))
				})
			},
		)
	}
}
