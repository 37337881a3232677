package pgtype

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/jackc/pgio"
)

// registerBuiltins registers adapters and casters for Go basic types and the
// PostgreSQL types they naturally map to.
func registerBuiltins(r *Registry) {
	stringAdapter := AdapterFactoryFunc(newStringAdapter)
	for _, f := range []Format{TextFormat, BinaryFormat} {
		r.setAdapter(adapterKey{TypeFor[string](), f}, stringAdapter)
	}

	r.setAdapter(adapterKey{TypeFor[[]byte](), TextFormat}, EncodeOIDFunc(encodeByteaText))
	r.setAdapter(adapterKey{TypeFor[[]byte](), BinaryFormat}, EncodeOIDFunc(encodeByteaBinary))
	r.setAdapter(adapterKey{TypeFor[bool](), TextFormat}, EncodeOIDFunc(encodeBoolText))
	r.setAdapter(adapterKey{TypeFor[bool](), BinaryFormat}, EncodeOIDFunc(encodeBoolBinary))

	for _, t := range []reflect.Type{
		TypeFor[int](), TypeFor[int8](), TypeFor[int16](), TypeFor[int32](), TypeFor[int64](),
		TypeFor[uint](), TypeFor[uint8](), TypeFor[uint16](), TypeFor[uint32](), TypeFor[uint64](),
	} {
		r.setAdapter(adapterKey{t, TextFormat}, EncodeOIDFunc(encodeIntText))
		r.setAdapter(adapterKey{t, BinaryFormat}, EncodeOIDFunc(encodeIntBinary))
	}
	for _, t := range []reflect.Type{TypeFor[float32](), TypeFor[float64]()} {
		r.setAdapter(adapterKey{t, TextFormat}, EncodeOIDFunc(encodeFloatText))
		r.setAdapter(adapterKey{t, BinaryFormat}, EncodeOIDFunc(encodeFloatBinary))
	}

	textCaster := unknownTextCaster{}
	for _, oid := range []OID{TextOID, VarcharOID, BPCharOID, NameOID, UnknownTypeOID, JSONOID} {
		r.setCaster(casterKey{oid, TextFormat}, textCaster)
		r.setCaster(casterKey{oid, BinaryFormat}, textCaster)
	}

	r.setCaster(casterKey{BoolOID, TextFormat}, CastFunc(castBoolText))
	r.setCaster(casterKey{BoolOID, BinaryFormat}, CastFunc(castBoolBinary))
	r.setCaster(casterKey{ByteaOID, TextFormat}, CastFunc(castByteaText))
	r.setCaster(casterKey{ByteaOID, BinaryFormat}, CastFunc(castUnknownBinary))
	r.setCaster(casterKey{Int2OID, TextFormat}, intTextCaster(16))
	r.setCaster(casterKey{Int4OID, TextFormat}, intTextCaster(32))
	r.setCaster(casterKey{Int8OID, TextFormat}, intTextCaster(64))
	r.setCaster(casterKey{OIDOID, TextFormat}, CastFunc(castOIDText))
	r.setCaster(casterKey{Int2OID, BinaryFormat}, CastFunc(castInt2Binary))
	r.setCaster(casterKey{Int4OID, BinaryFormat}, CastFunc(castInt4Binary))
	r.setCaster(casterKey{Int8OID, BinaryFormat}, CastFunc(castInt8Binary))
	r.setCaster(casterKey{OIDOID, BinaryFormat}, CastFunc(castOIDBinary))
	r.setCaster(casterKey{Float4OID, TextFormat}, floatTextCaster(32))
	r.setCaster(casterKey{Float8OID, TextFormat}, floatTextCaster(64))
	r.setCaster(casterKey{Float4OID, BinaryFormat}, CastFunc(castFloat4Binary))
	r.setCaster(casterKey{Float8OID, BinaryFormat}, CastFunc(castFloat8Binary))
	r.setCaster(casterKey{NumericOID, TextFormat}, CastFunc(castNumericText))
	r.setCaster(casterKey{NumericOID, BinaryFormat}, CastFunc(castNumericBinary))
	r.setCaster(casterKey{UUIDOID, TextFormat}, CastFunc(castUUIDText))
	r.setCaster(casterKey{UUIDOID, BinaryFormat}, CastFunc(castUUIDBinary))
}

type stringAdapter struct {
	encode func(s string) ([]byte, error)
}

func newStringAdapter(hostType reflect.Type, ci ConnInfo) Adapter {
	return &stringAdapter{encode: textEncoder(clientEncoding(ci))}
}

func (a *stringAdapter) Adapt(value any) ([]byte, error) {
	return a.encode(value.(string))
}

func (a *stringAdapter) AdaptOID(value any) ([]byte, OID, error) {
	buf, err := a.encode(value.(string))
	return buf, TextOID, err
}

func encodeByteaText(value any) ([]byte, OID, error) {
	src := value.([]byte)
	buf := make([]byte, 2+hex.EncodedLen(len(src)))
	buf[0], buf[1] = '\\', 'x'
	hex.Encode(buf[2:], src)
	return buf, ByteaOID, nil
}

func encodeByteaBinary(value any) ([]byte, OID, error) {
	src := value.([]byte)
	buf := make([]byte, len(src))
	copy(buf, src)
	return buf, ByteaOID, nil
}

func encodeBoolText(value any) ([]byte, OID, error) {
	if value.(bool) {
		return []byte{'t'}, BoolOID, nil
	}
	return []byte{'f'}, BoolOID, nil
}

func encodeBoolBinary(value any) ([]byte, OID, error) {
	if value.(bool) {
		return []byte{1}, BoolOID, nil
	}
	return []byte{0}, BoolOID, nil
}

// intOID picks the narrowest integer type able to hold every value of the Go
// type, and returns n widened to int64.
func intOID(value any) (n int64, oid OID, err error) {
	switch v := value.(type) {
	case int8:
		return int64(v), Int2OID, nil
	case uint8:
		return int64(v), Int2OID, nil
	case int16:
		return int64(v), Int2OID, nil
	case uint16:
		return int64(v), Int4OID, nil
	case int32:
		return int64(v), Int4OID, nil
	case uint32:
		return int64(v), Int8OID, nil
	case int64:
		return v, Int8OID, nil
	case int:
		return int64(v), Int8OID, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, 0, fmt.Errorf("%d is greater than maximum value for int8", v)
		}
		return int64(v), Int8OID, nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, 0, fmt.Errorf("%d is greater than maximum value for int8", v)
		}
		return int64(v), Int8OID, nil
	default:
		return 0, 0, fmt.Errorf("cannot convert %T to integer", value)
	}
}

func encodeIntText(value any) ([]byte, OID, error) {
	n, oid, err := intOID(value)
	if err != nil {
		return nil, 0, err
	}
	return strconv.AppendInt(nil, n, 10), oid, nil
}

func encodeIntBinary(value any) ([]byte, OID, error) {
	n, oid, err := intOID(value)
	if err != nil {
		return nil, 0, err
	}

	switch oid {
	case Int2OID:
		return pgio.AppendInt16(nil, int16(n)), oid, nil
	case Int4OID:
		return pgio.AppendInt32(nil, int32(n)), oid, nil
	default:
		return pgio.AppendInt64(nil, n), oid, nil
	}
}

func encodeFloatText(value any) ([]byte, OID, error) {
	switch v := value.(type) {
	case float32:
		return strconv.AppendFloat(nil, float64(v), 'g', -1, 32), Float4OID, nil
	case float64:
		return strconv.AppendFloat(nil, v, 'g', -1, 64), Float8OID, nil
	default:
		return nil, 0, fmt.Errorf("cannot convert %T to float", value)
	}
}

func encodeFloatBinary(value any) ([]byte, OID, error) {
	switch v := value.(type) {
	case float32:
		return pgio.AppendUint32(nil, math.Float32bits(v)), Float4OID, nil
	case float64:
		return pgio.AppendUint64(nil, math.Float64bits(v)), Float8OID, nil
	default:
		return nil, 0, fmt.Errorf("cannot convert %T to float", value)
	}
}

func castBoolText(src []byte) (any, error) {
	if len(src) != 1 {
		return nil, fmt.Errorf("invalid length for bool: %v", len(src))
	}
	switch src[0] {
	case 't':
		return true, nil
	case 'f':
		return false, nil
	default:
		return nil, fmt.Errorf("invalid bool: %q", src)
	}
}

func castBoolBinary(src []byte) (any, error) {
	if len(src) != 1 {
		return nil, fmt.Errorf("invalid length for bool: %v", len(src))
	}
	return src[0] == 1, nil
}

func castByteaText(src []byte) (any, error) {
	if len(src) < 2 || src[0] != '\\' || src[1] != 'x' {
		return nil, fmt.Errorf("invalid hex format")
	}

	buf := make([]byte, hex.DecodedLen(len(src)-2))
	_, err := hex.Decode(buf, src[2:])
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func intTextCaster(bitSize int) CastFunc {
	return func(src []byte) (any, error) {
		n, err := strconv.ParseInt(string(src), 10, bitSize)
		if err != nil {
			return nil, err
		}

		switch bitSize {
		case 16:
			return int16(n), nil
		case 32:
			return int32(n), nil
		default:
			return n, nil
		}
	}
}

func castOIDText(src []byte) (any, error) {
	n, err := strconv.ParseUint(string(src), 10, 32)
	if err != nil {
		return nil, err
	}
	return uint32(n), nil
}

func castInt2Binary(src []byte) (any, error) {
	if len(src) != 2 {
		return nil, fmt.Errorf("invalid length for int2: %v", len(src))
	}
	return int16(binary.BigEndian.Uint16(src)), nil
}

func castInt4Binary(src []byte) (any, error) {
	if len(src) != 4 {
		return nil, fmt.Errorf("invalid length for int4: %v", len(src))
	}
	return int32(binary.BigEndian.Uint32(src)), nil
}

func castInt8Binary(src []byte) (any, error) {
	if len(src) != 8 {
		return nil, fmt.Errorf("invalid length for int8: %v", len(src))
	}
	return int64(binary.BigEndian.Uint64(src)), nil
}

func castOIDBinary(src []byte) (any, error) {
	if len(src) != 4 {
		return nil, fmt.Errorf("invalid length for oid: %v", len(src))
	}
	return binary.BigEndian.Uint32(src), nil
}

func floatTextCaster(bitSize int) CastFunc {
	return func(src []byte) (any, error) {
		f, err := strconv.ParseFloat(string(src), bitSize)
		if err != nil {
			return nil, err
		}
		if bitSize == 32 {
			return float32(f), nil
		}
		return f, nil
	}
}

func castFloat4Binary(src []byte) (any, error) {
	if len(src) != 4 {
		return nil, fmt.Errorf("invalid length for float4: %v", len(src))
	}
	return math.Float32frombits(binary.BigEndian.Uint32(src)), nil
}

func castFloat8Binary(src []byte) (any, error) {
	if len(src) != 8 {
		return nil, fmt.Errorf("invalid length for float8: %v", len(src))
	}
	return math.Float64frombits(binary.BigEndian.Uint64(src)), nil
}
