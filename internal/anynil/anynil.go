// Package anynil detects typed nils, such as (*T)(nil) or []byte(nil), stored in
// interface values.
package anynil

import "reflect"

// Nilable reports whether a value of type t can be nil.
func Nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Ptr, reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		return true
	default:
		return false
	}
}

// Is returns true if value is nil or a typed nil.
func Is(value any) bool {
	if value == nil {
		return true
	}

	refVal := reflect.ValueOf(value)
	if !Nilable(refVal.Type()) {
		return false
	}
	return refVal.IsNil()
}
