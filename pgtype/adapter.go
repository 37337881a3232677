package pgtype

import (
	"reflect"

	"github.com/jackc/pgxadapt/internal/anynil"
)

// Adapter encodes a Go value into a wire payload. The payload is assumed to be
// of type text. An Adapter that also implements OIDAdapter reports the OID of
// the payload through AdaptOID instead.
type Adapter interface {
	Adapt(value any) ([]byte, error)
}

// OIDAdapter encodes a Go value into a wire payload and the OID of its data
// type.
type OIDAdapter interface {
	AdaptOID(value any) ([]byte, OID, error)
}

// EncodeFunc is a stateless Adapter.
type EncodeFunc func(value any) ([]byte, error)

// Adapt calls f(value).
func (f EncodeFunc) Adapt(value any) ([]byte, error) {
	return f(value)
}

// EncodeOIDFunc is a stateless OIDAdapter.
type EncodeOIDFunc func(value any) ([]byte, OID, error)

// AdaptOID calls f(value).
func (f EncodeOIDFunc) AdaptOID(value any) ([]byte, OID, error) {
	return f(value)
}

// AdapterFactory builds a stateful Adapter. A Transformer calls NewAdapter at
// most once per host type and format, with the connection it is bound to (ci
// is nil when there is none), and reuses the result.
type AdapterFactory interface {
	NewAdapter(hostType reflect.Type, ci ConnInfo) Adapter
}

// AdapterFactoryFunc is a function AdapterFactory.
type AdapterFactoryFunc func(hostType reflect.Type, ci ConnInfo) Adapter

// NewAdapter calls f(hostType, ci).
func (f AdapterFactoryFunc) NewAdapter(hostType reflect.Type, ci ConnInfo) Adapter {
	return f(hostType, ci)
}

// EncodePlan is a resolved encoder. It returns the payload and its OID. A nil
// payload is SQL NULL.
type EncodePlan func(value any) ([]byte, OID, error)

// TypeFor returns the type token used to register adapters for values of type
// T.
func TypeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func isAdapter(adapter any) bool {
	switch adapter.(type) {
	case AdapterFactory, OIDAdapter, Adapter:
		return true
	case func(any) ([]byte, error), func(any) ([]byte, OID, error):
		return true
	default:
		return false
	}
}

// RegisterAdapter registers adapter for values whose dynamic type is hostType in
// format. scope selects where it is stored: nil is process-wide. adapter must be
// an Adapter, an OIDAdapter, an AdapterFactory, a func(any) ([]byte, error) or
// a func(any) ([]byte, OID, error). An existing registration for the same type
// and format in the same scope is replaced.
//
// RegisterAdapter returns adapter so registrations can be chained.
func RegisterAdapter(hostType reflect.Type, adapter any, scope Scope, format Format) (any, error) {
	if hostType == nil {
		return nil, configErrorf("adapters should be registered on types, got nil instead")
	}
	if adapter == nil || !isAdapter(adapter) {
		return nil, configErrorf("adapters should be functions, Adapter, OIDAdapter or AdapterFactory, got %T instead", adapter)
	}
	if !format.valid() {
		return nil, configErrorf("cannot register adapter for %v: %v", hostType, format)
	}

	r, err := registryForScope(scope)
	if err != nil {
		return nil, err
	}

	r.setAdapter(adapterKey{hostType: hostType, format: format}, adapter)
	return adapter, nil
}

// RegisterBinaryAdapter is RegisterAdapter in BinaryFormat.
func RegisterBinaryAdapter(hostType reflect.Type, adapter any, scope Scope) (any, error) {
	return RegisterAdapter(hostType, adapter, scope, BinaryFormat)
}

// RegisterEncoder registers a typed encoder for T. The payload is assumed to be
// of type oid.
func RegisterEncoder[T any](scope Scope, format Format, oid OID, fn func(v T) ([]byte, error)) error {
	if fn == nil {
		return configErrorf("cannot register nil encoder for %v", TypeFor[T]())
	}

	_, err := RegisterAdapter(TypeFor[T](), EncodeOIDFunc(func(value any) ([]byte, OID, error) {
		buf, err := fn(value.(T))
		return buf, oid, err
	}), scope, format)
	return err
}

// PlanEncode turns adapter, as returned by ScopeChain.LookupAdapter, into an
// EncodePlan. An AdapterFactory is instantiated here. Errors returned by the
// plan are wrapped in *EncodeError.
func PlanEncode(adapter any, hostType reflect.Type, format Format, ci ConnInfo) (EncodePlan, error) {
	if factory, ok := adapter.(AdapterFactory); ok {
		adapter = factory.NewAdapter(hostType, ci)
		if anynil.Is(adapter) {
			return nil, configErrorf("adapter factory %T returned nil for %v", factory, hostType)
		}
	}

	var plan EncodePlan
	switch a := adapter.(type) {
	case OIDAdapter:
		plan = a.AdaptOID
	case Adapter:
		plan = func(value any) ([]byte, OID, error) {
			buf, err := a.Adapt(value)
			return buf, TextOID, err
		}
	case func(any) ([]byte, OID, error):
		plan = a
	case func(any) ([]byte, error):
		plan = func(value any) ([]byte, OID, error) {
			buf, err := a(value)
			return buf, TextOID, err
		}
	default:
		return nil, configErrorf("cannot use %T as an adapter for %v", adapter, hostType)
	}

	return func(value any) ([]byte, OID, error) {
		buf, oid, err := plan(value)
		if err != nil {
			return nil, 0, &EncodeError{HostType: hostType, Format: format, err: err}
		}
		return buf, oid, nil
	}, nil
}

// planSelfEncode returns an EncodePlan for host types that implement
// TextEncoder or BinaryEncoder. ok is false when hostType encodes itself in
// neither format.
func planSelfEncode(hostType reflect.Type, format Format, ci ConnInfo) (plan EncodePlan, ok bool) {
	var encode func(value any, buf []byte) ([]byte, error)
	switch format {
	case TextFormat:
		if !hostType.Implements(textEncoderType) {
			return nil, false
		}
		encode = func(value any, buf []byte) ([]byte, error) {
			return value.(TextEncoder).EncodeText(ci, buf)
		}
	case BinaryFormat:
		if !hostType.Implements(binaryEncoderType) {
			return nil, false
		}
		encode = func(value any, buf []byte) ([]byte, error) {
			return value.(BinaryEncoder).EncodeBinary(ci, buf)
		}
	default:
		return nil, false
	}

	return func(value any) ([]byte, OID, error) {
		oid := TextOID
		if o, ok := value.(DataTypeOIDer); ok {
			oid = o.DataTypeOID()
		}

		buf, err := encode(value, make([]byte, 0, 32))
		if err != nil {
			return nil, 0, &EncodeError{HostType: hostType, Format: format, err: err}
		}
		return buf, oid, nil
	}, true
}

var (
	textEncoderType   = TypeFor[TextEncoder]()
	binaryEncoderType = TypeFor[BinaryEncoder]()
)
