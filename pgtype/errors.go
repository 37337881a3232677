package pgtype

import (
	"fmt"
	"reflect"
)

// ConfigError is returned when a registration is invalid: a nil type, a handler
// that is neither an encoder/decoder nor a factory, an invalid scope or an
// invalid format.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return e.msg
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// AdaptError is returned when no adapter for a Go type and format exists in any
// scope of a ScopeChain. It is never cached: a later registration may make the
// same adaptation succeed.
type AdaptError struct {
	HostType reflect.Type
	Format   Format
}

func (e *AdaptError) Error() string {
	return fmt.Sprintf("cannot adapt type %v to format %v", e.HostType, e.Format)
}

// EncodeError wraps an error returned by an adapter while encoding a value.
type EncodeError struct {
	HostType reflect.Type
	Format   Format
	err      error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode %v in %v format: %v", e.HostType, e.Format, e.err)
}

func (e *EncodeError) Unwrap() error {
	return e.err
}

// DecodeError wraps an error returned by a caster while decoding a value. It is
// a content error: decoder lookup itself never fails.
type DecodeError struct {
	OID    OID
	Format Format
	err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode OID %d in %v format: %v", e.OID, e.Format, e.err)
}

func (e *DecodeError) Unwrap() error {
	return e.err
}
