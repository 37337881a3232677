package pgtype

import (
	"github.com/jackc/pgxadapt/internal/anynil"
)

// Caster decodes a non-NULL wire payload into a Go value. Casters are never
// called for NULL. src must not be retained after Cast returns.
type Caster interface {
	Cast(src []byte) (any, error)
}

// CastFunc is a stateless Caster.
type CastFunc func(src []byte) (any, error)

// Cast calls f(src).
func (f CastFunc) Cast(src []byte) (any, error) {
	return f(src)
}

// CasterFactory builds a stateful Caster. A Transformer calls NewCaster at most
// once per OID and format, with the connection it is bound to (ci is nil when
// there is none), and reuses the result.
type CasterFactory interface {
	NewCaster(oid OID, ci ConnInfo) Caster
}

// CasterFactoryFunc is a function CasterFactory.
type CasterFactoryFunc func(oid OID, ci ConnInfo) Caster

// NewCaster calls f(oid, ci).
func (f CasterFactoryFunc) NewCaster(oid OID, ci ConnInfo) Caster {
	return f(oid, ci)
}

// DecodePlan is a resolved decoder.
type DecodePlan func(src []byte) (any, error)

func isCaster(caster any) bool {
	switch caster.(type) {
	case CasterFactory, Caster, func([]byte) (any, error):
		return true
	default:
		return false
	}
}

// RegisterCaster registers caster for payloads of type oid in format. scope
// selects where it is stored: nil is process-wide. caster must be a Caster, a
// CasterFactory or a func([]byte) (any, error). An existing registration for the
// same OID and format in the same scope is replaced.
//
// RegisterCaster returns caster so registrations can be chained.
func RegisterCaster(oid OID, caster any, scope Scope, format Format) (any, error) {
	if caster == nil || !isCaster(caster) {
		return nil, configErrorf("casters should be functions, Caster or CasterFactory, got %T instead", caster)
	}
	if !format.valid() {
		return nil, configErrorf("cannot register caster for OID %d: %v", oid, format)
	}

	r, err := registryForScope(scope)
	if err != nil {
		return nil, err
	}

	r.setCaster(casterKey{oid: oid, format: format}, caster)
	return caster, nil
}

// RegisterBinaryCaster is RegisterCaster in BinaryFormat.
func RegisterBinaryCaster(oid OID, caster any, scope Scope) (any, error) {
	return RegisterCaster(oid, caster, scope, BinaryFormat)
}

// PlanDecode turns caster, as returned by ScopeChain.LookupCaster, into a
// DecodePlan. A CasterFactory is instantiated here. Errors returned by the plan
// are wrapped in *DecodeError.
func PlanDecode(caster any, oid OID, format Format, ci ConnInfo) DecodePlan {
	if factory, ok := caster.(CasterFactory); ok {
		caster = factory.NewCaster(oid, ci)
		if anynil.Is(caster) {
			return failedDecodePlan(oid, format, configErrorf("caster factory %T returned nil for OID %d", factory, oid))
		}
	}

	var plan DecodePlan
	switch c := caster.(type) {
	case Caster:
		plan = c.Cast
	case func([]byte) (any, error):
		plan = c
	default:
		return failedDecodePlan(oid, format, configErrorf("cannot use %T as a caster for OID %d", caster, oid))
	}

	return func(src []byte) (any, error) {
		v, err := plan(src)
		if err != nil {
			return nil, &DecodeError{OID: oid, Format: format, err: err}
		}
		return v, nil
	}
}

// failedDecodePlan returns a DecodePlan that fails every value with err. Lookup itself never fails, so errors found
// while planning surface when a value is decoded.
func failedDecodePlan(oid OID, format Format, err error) DecodePlan {
	decodeErr := &DecodeError{OID: oid, Format: format, err: err}
	return func(src []byte) (any, error) {
		return nil, decodeErr
	}
}
