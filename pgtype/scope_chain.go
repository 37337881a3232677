package pgtype

import (
	"fmt"
	"reflect"
)

// ScopeChain is the ordered list of registries consulted by a lookup, most
// specific first. The process-wide registry is always last. Lookups stop at the
// first registry holding an entry; entries are never merged across registries.
type ScopeChain struct {
	registries []*Registry
}

// NewScopeChain returns a ScopeChain of scopes followed by the process-wide
// registry. nil scopes are skipped, so a transformer without a cursor can pass
// nil for it.
func NewScopeChain(scopes ...*Registry) *ScopeChain {
	registries := make([]*Registry, 0, len(scopes)+1)
	for _, r := range scopes {
		if r != nil && r != globalRegistry {
			registries = append(registries, r)
		}
	}
	registries = append(registries, globalRegistry)

	return &ScopeChain{registries: registries}
}

// Len returns the number of registries in sc including the process-wide one.
func (sc *ScopeChain) Len() int {
	return len(sc.registries)
}

// LookupAdapter returns the adapter registered for hostType and format in the
// most specific scope that has one. It returns *AdaptError when no scope has
// one.
func (sc *ScopeChain) LookupAdapter(hostType reflect.Type, format Format) (any, error) {
	key := adapterKey{hostType: hostType, format: format}
	for _, r := range sc.registries {
		if a, ok := r.adapter(key); ok {
			return a, nil
		}
	}

	return nil, &AdaptError{HostType: hostType, Format: format}
}

// PlanAdapter looks up and plans the encoder for hostType and format. When no
// scope has an adapter but hostType implements TextEncoder or BinaryEncoder for
// format, the values encode themselves.
func (sc *ScopeChain) PlanAdapter(hostType reflect.Type, format Format, ci ConnInfo) (EncodePlan, error) {
	adapter, err := sc.LookupAdapter(hostType, format)
	if err != nil {
		if plan, ok := planSelfEncode(hostType, format, ci); ok {
			return plan, nil
		}
		return nil, err
	}

	return PlanEncode(adapter, hostType, format, ci)
}

// LookupCaster returns the caster registered for oid and format in the most
// specific scope that has one. When no scope has one it returns the
// process-wide caster for UnknownOID in format. format must be TextFormat or
// BinaryFormat; PlanCaster accepts any format.
func (sc *ScopeChain) LookupCaster(oid OID, format Format) any {
	key := casterKey{oid: oid, format: format}
	for _, r := range sc.registries {
		if c, ok := r.caster(key); ok {
			return c
		}
	}

	c, ok := globalRegistry.caster(casterKey{oid: UnknownOID, format: format})
	if !ok {
		panic("pgtype: no fallback caster for " + format.String())
	}
	return c
}

// IsFallback reports whether LookupCaster would resolve oid and format to the
// UnknownOID fallback.
func (sc *ScopeChain) IsFallback(oid OID, format Format) bool {
	key := casterKey{oid: oid, format: format}
	for _, r := range sc.registries {
		if _, ok := r.caster(key); ok {
			return oid == UnknownOID
		}
	}
	return true
}

// PlanCaster looks up and plans the decoder for oid and format. It never fails: an unknown format code or a broken
// caster factory yields a plan whose every call returns *DecodeError.
func (sc *ScopeChain) PlanCaster(oid OID, format Format, ci ConnInfo) DecodePlan {
	if !format.valid() {
		return failedDecodePlan(oid, format, fmt.Errorf("unknown format code %d", int16(format)))
	}
	return PlanDecode(sc.LookupCaster(oid, format), oid, format, ci)
}
