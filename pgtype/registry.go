package pgtype

import (
	"reflect"
	"sync"

	"github.com/jackc/pgxadapt/internal/anynil"
)

type adapterKey struct {
	hostType reflect.Type
	format   Format
}

type casterKey struct {
	oid    OID
	format Format
}

// Registry holds the adapters and casters of one scope: the process-wide scope,
// a connection, or a single operation.
//
// Registration is meant to happen while configuring a scope, not interleaved
// with queries running against it. The maps are guarded by a sync.RWMutex so
// doing so anyway does not corrupt them, but a lookup racing a registration may
// observe either the old or the new handler.
type Registry struct {
	mu       sync.RWMutex
	adapters map[adapterKey]any
	casters  map[casterKey]any
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[adapterKey]any),
		casters:  make(map[casterKey]any),
	}
}

// Registry returns r. It allows a *Registry to be used directly as a Scope.
func (r *Registry) Registry() *Registry {
	return r
}

func (r *Registry) setAdapter(key adapterKey, adapter any) {
	r.mu.Lock()
	r.adapters[key] = adapter
	r.mu.Unlock()
}

func (r *Registry) adapter(key adapterKey) (any, bool) {
	r.mu.RLock()
	a, ok := r.adapters[key]
	r.mu.RUnlock()
	return a, ok
}

func (r *Registry) setCaster(key casterKey, caster any) {
	r.mu.Lock()
	r.casters[key] = caster
	r.mu.Unlock()
}

func (r *Registry) caster(key casterKey) (any, bool) {
	r.mu.RLock()
	c, ok := r.casters[key]
	r.mu.RUnlock()
	return c, ok
}

// HasAdapter reports whether r itself, ignoring every other scope, has an
// adapter for hostType and format.
func (r *Registry) HasAdapter(hostType reflect.Type, format Format) bool {
	_, ok := r.adapter(adapterKey{hostType: hostType, format: format})
	return ok
}

// HasCaster reports whether r itself has a caster for oid and format.
func (r *Registry) HasCaster(oid OID, format Format) bool {
	_, ok := r.caster(casterKey{oid: oid, format: format})
	return ok
}

// Scope is a level at which adapters and casters can be registered. It is
// implemented by *Registry and by the connection and cursor types of package
// pgxadapt.
type Scope interface {
	Registry() *Registry
}

var globalRegistry = NewRegistry()

// Globals returns the process-wide Registry. It is the last scope of every
// ScopeChain.
func Globals() *Registry {
	return globalRegistry
}

func registryForScope(scope Scope) (*Registry, error) {
	if scope == nil {
		return globalRegistry, nil
	}
	if anynil.Is(scope) {
		return nil, configErrorf("the scope should be a connection, a cursor or a registry, got nil %T", scope)
	}

	r := scope.Registry()
	if r == nil {
		return nil, configErrorf("the scope %T has no registry", scope)
	}
	return r, nil
}
