package pgxadapt

import (
	"context"
	"sync"

	"github.com/jackc/pgxadapt/pgtype"
)

// Conn is the connection-level collaborator of the adaptation layer. It owns the connection-scope registry and the
// client encoding. Conn does not perform network I/O; the executor that talks to the server reports run-time parameter
// changes through SetClientEncoding.
//
// Registrations on a Conn are visible to every Transformer created afterwards for the connection or its cursors.
type Conn struct {
	config   *ConnConfig
	registry *pgtype.Registry

	mux            sync.RWMutex
	clientEncoding string
}

// NewConn creates a Conn from config. A nil config is equivalent to the result of ParseConfig(""). config must not be
// modified after it has been passed to NewConn.
func NewConn(config *ConnConfig) (*Conn, error) {
	if config == nil {
		var err error
		config, err = ParseConfig("")
		if err != nil {
			return nil, err
		}
	}

	encoding := config.ClientEncoding
	if encoding == "" {
		encoding = "UTF8"
	}
	if _, err := pgtype.LookupClientEncoding(encoding); err != nil {
		return nil, err
	}

	c := &Conn{
		config:         config.Copy(),
		registry:       pgtype.NewRegistry(),
		clientEncoding: encoding,
	}

	return c, nil
}

// Registry returns the connection-scope registry. It makes *Conn usable as a pgtype.Scope.
func (c *Conn) Registry() *pgtype.Registry {
	return c.registry
}

// ClientEncoding returns the current client encoding name. It makes *Conn usable as a pgtype.ConnInfo.
func (c *Conn) ClientEncoding() string {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.clientEncoding
}

// SetClientEncoding records a change of the client_encoding run-time parameter. Transformers created before the change
// keep the casters they already resolved.
func (c *Conn) SetClientEncoding(name string) error {
	if _, err := pgtype.LookupClientEncoding(name); err != nil {
		return err
	}
	c.mux.Lock()
	c.clientEncoding = name
	c.mux.Unlock()
	return nil
}

// Config returns a copy of config that was used to create the connection.
func (c *Conn) Config() *ConnConfig {
	return c.config.Copy()
}

// Cursor creates a cursor bound to the connection. ctx is passed to tracer calls made for the cursor's operations.
func (c *Conn) Cursor(ctx context.Context) *Cursor {
	if ctx == nil {
		ctx = context.Background()
	}
	cur := &Cursor{
		conn:     c,
		ctx:      ctx,
		registry: pgtype.NewRegistry(),
	}
	cur.SetRowFactory(c.config.RowFactory)
	return cur
}

func (c *Conn) tracer() ResolveTracer {
	return c.config.Tracer
}
