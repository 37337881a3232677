package pgtype

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/jackc/pgio"
)

// PostgreSQL internal numeric storage uses 16-bit "digits" with base of 10,000
const nbase = 10000

const (
	pgNumericNaN     = 0x00000000c0000000
	pgNumericNaNSign = 0xc000

	pgNumericPosInf     = 0x00000000d0000000
	pgNumericPosInfSign = 0xd000

	pgNumericNegInf     = 0x00000000f0000000
	pgNumericNegInfSign = 0xf000

	pgNumericNegSign = 0x4000
)

var (
	big0    = big.NewInt(0)
	big1    = big.NewInt(1)
	big10   = big.NewInt(10)
	big100  = big.NewInt(100)
	big1000 = big.NewInt(1000)

	bigNBase   = big.NewInt(nbase)
	bigNBaseX2 = big.NewInt(nbase * nbase)
	bigNBaseX3 = big.NewInt(nbase * nbase * nbase)
	bigNBaseX4 = big.NewInt(nbase * nbase * nbase * nbase)
)

// InfinityModifier marks a Numeric as one of the infinite values.
type InfinityModifier int8

const (
	Finite           InfinityModifier = 0
	Infinity         InfinityModifier = 1
	NegativeInfinity InfinityModifier = -1
)

func (im InfinityModifier) String() string {
	switch im {
	case Finite:
		return "finite"
	case Infinity:
		return "infinity"
	case NegativeInfinity:
		return "-infinity"
	default:
		return "invalid"
	}
}

// Numeric is the value casters for numeric columns produce: Int * 10^Exp, or NaN,
// or an infinity. It encodes itself in both formats, so a Numeric parameter
// needs no registered adapter. Decimal libraries convert through it.
type Numeric struct {
	Int              *big.Int
	Exp              int32
	NaN              bool
	InfinityModifier InfinityModifier
}

// NumericFromString parses the PostgreSQL text form of a numeric, including
// NaN, Infinity and -Infinity. Exponent notation such as 1.5e3 is accepted.
func NumericFromString(s string) (Numeric, error) {
	switch s {
	case "NaN":
		return Numeric{NaN: true}, nil
	case "Infinity", "+Infinity", "inf", "+inf":
		return Numeric{InfinityModifier: Infinity}, nil
	case "-Infinity", "-inf":
		return Numeric{InfinityModifier: NegativeInfinity}, nil
	}

	num, exp, err := parseNumericString(s)
	if err != nil {
		return Numeric{}, err
	}
	return Numeric{Int: num, Exp: exp}, nil
}

func parseNumericString(str string) (n *big.Int, exp int32, err error) {
	mantissa := str
	if i := strings.IndexAny(str, "eE"); i >= 0 {
		e, err := strconv.ParseInt(str[i+1:], 10, 32)
		if err != nil {
			return nil, 0, fmt.Errorf("%s is not a number", str)
		}
		exp = int32(e)
		mantissa = str[:i]
	}

	parts := strings.SplitN(mantissa, ".", 2)
	digits := strings.Join(parts, "")

	if len(parts) > 1 {
		exp -= int32(len(parts[1]))
	} else {
		for len(digits) > 1 && digits[len(digits)-1] == '0' && digits[len(digits)-2] != '-' {
			digits = digits[:len(digits)-1]
			exp++
		}
	}

	accum := &big.Int{}
	if _, ok := accum.SetString(digits, 10); !ok {
		return nil, 0, fmt.Errorf("%s is not a number", str)
	}

	return accum, exp, nil
}

// String returns n in plain decimal notation, keeping trailing fractional
// zeros: 150e-2 is "1.50".
func (n Numeric) String() string {
	switch {
	case n.NaN:
		return "NaN"
	case n.InfinityModifier == Infinity:
		return "Infinity"
	case n.InfinityModifier == NegativeInfinity:
		return "-Infinity"
	case n.Int == nil:
		return "0"
	}

	digits := n.Int.String()
	if n.Exp >= 0 {
		if n.Int.Sign() == 0 {
			return "0"
		}
		return digits + strings.Repeat("0", int(n.Exp))
	}

	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	scale := int(-n.Exp)
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}

	s := digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	if neg {
		s = "-" + s
	}
	return s
}

func (n Numeric) DataTypeOID() OID {
	return NumericOID
}

func (n Numeric) EncodeText(ci ConnInfo, buf []byte) ([]byte, error) {
	return append(buf, n.String()...), nil
}

func (n Numeric) EncodeBinary(ci ConnInfo, buf []byte) ([]byte, error) {
	if n.NaN {
		buf = pgio.AppendUint64(buf, pgNumericNaN)
		return buf, nil
	} else if n.InfinityModifier == Infinity {
		buf = pgio.AppendUint64(buf, pgNumericPosInf)
		return buf, nil
	} else if n.InfinityModifier == NegativeInfinity {
		buf = pgio.AppendUint64(buf, pgNumericNegInf)
		return buf, nil
	}

	if n.Int == nil {
		n.Int = big0
	}

	var sign int16
	if n.Int.Sign() < 0 {
		sign = pgNumericNegSign
	}

	absInt := &big.Int{}
	wholePart := &big.Int{}
	fracPart := &big.Int{}
	remainder := &big.Int{}
	absInt.Abs(n.Int)

	// Normalize absInt and exp to where exp is always a multiple of 4. This makes
	// converting to 16-bit base 10,000 digits easier.
	var exp int32
	switch n.Exp % 4 {
	case 1, -3:
		exp = n.Exp - 1
		absInt.Mul(absInt, big10)
	case 2, -2:
		exp = n.Exp - 2
		absInt.Mul(absInt, big100)
	case 3, -1:
		exp = n.Exp - 3
		absInt.Mul(absInt, big1000)
	default:
		exp = n.Exp
	}

	if exp < 0 {
		divisor := &big.Int{}
		divisor.Exp(big10, big.NewInt(int64(-exp)), nil)
		wholePart.DivMod(absInt, divisor, fracPart)
		fracPart.Add(fracPart, divisor)
	} else {
		wholePart = absInt
	}

	var wholeDigits, fracDigits []int16

	for wholePart.Cmp(big0) != 0 {
		wholePart.DivMod(wholePart, bigNBase, remainder)
		wholeDigits = append(wholeDigits, int16(remainder.Int64()))
	}

	if fracPart.Cmp(big0) != 0 {
		for fracPart.Cmp(big1) != 0 {
			fracPart.DivMod(fracPart, bigNBase, remainder)
			fracDigits = append(fracDigits, int16(remainder.Int64()))
		}
	}

	buf = pgio.AppendInt16(buf, int16(len(wholeDigits)+len(fracDigits)))

	var weight int16
	if len(wholeDigits) > 0 {
		weight = int16(len(wholeDigits) - 1)
		if exp > 0 {
			weight += int16(exp / 4)
		}
	} else {
		weight = int16(exp/4) - 1 + int16(len(fracDigits))
	}
	buf = pgio.AppendInt16(buf, weight)

	buf = pgio.AppendInt16(buf, sign)

	var dscale int16
	if n.Exp < 0 {
		dscale = int16(-n.Exp)
	}
	buf = pgio.AppendInt16(buf, dscale)

	for i := len(wholeDigits) - 1; i >= 0; i-- {
		buf = pgio.AppendInt16(buf, wholeDigits[i])
	}

	for i := len(fracDigits) - 1; i >= 0; i-- {
		buf = pgio.AppendInt16(buf, fracDigits[i])
	}

	return buf, nil
}

// DecodeNumericText decodes the text format of a numeric column.
func DecodeNumericText(src []byte) (Numeric, error) {
	return NumericFromString(string(src))
}

// DecodeNumericBinary decodes the binary format of a numeric column.
func DecodeNumericBinary(src []byte) (Numeric, error) {
	if len(src) < 8 {
		return Numeric{}, fmt.Errorf("numeric incomplete %v", src)
	}

	rp := 0
	ndigits := binary.BigEndian.Uint16(src[rp:])
	rp += 2
	weight := int16(binary.BigEndian.Uint16(src[rp:]))
	rp += 2
	sign := binary.BigEndian.Uint16(src[rp:])
	rp += 2
	dscale := int16(binary.BigEndian.Uint16(src[rp:]))
	rp += 2

	switch sign {
	case pgNumericNaNSign:
		return Numeric{NaN: true}, nil
	case pgNumericPosInfSign:
		return Numeric{InfinityModifier: Infinity}, nil
	case pgNumericNegInfSign:
		return Numeric{InfinityModifier: NegativeInfinity}, nil
	}

	if ndigits == 0 {
		return Numeric{Int: big.NewInt(0), Exp: -int32(dscale)}, nil
	}

	if len(src[rp:]) < int(ndigits)*2 {
		return Numeric{}, fmt.Errorf("numeric incomplete %v", src)
	}

	accum := &big.Int{}

	for i := 0; i < int(ndigits+3)/4; i++ {
		int64accum, bytesRead, digitsRead := nbaseDigitsToInt64(src[rp : 8+int(ndigits)*2])
		rp += bytesRead

		if i > 0 {
			var mul *big.Int
			switch digitsRead {
			case 1:
				mul = bigNBase
			case 2:
				mul = bigNBaseX2
			case 3:
				mul = bigNBaseX3
			case 4:
				mul = bigNBaseX4
			default:
				return Numeric{}, fmt.Errorf("invalid digitsRead: %d (this can't happen)", digitsRead)
			}
			accum.Mul(accum, mul)
		}

		accum.Add(accum, big.NewInt(int64accum))
	}

	exp := (int32(weight) - int32(ndigits) + 1) * 4

	if dscale > 0 {
		fracNBaseDigits := int16(int32(ndigits) - int32(weight) - 1)
		fracDecimalDigits := fracNBaseDigits * 4

		if dscale > fracDecimalDigits {
			multCount := int(dscale - fracDecimalDigits)
			for i := 0; i < multCount; i++ {
				accum.Mul(accum, big10)
				exp--
			}
		} else if dscale < fracDecimalDigits {
			divCount := int(fracDecimalDigits - dscale)
			for i := 0; i < divCount; i++ {
				accum.Div(accum, big10)
				exp++
			}
		}
	}

	reduced := &big.Int{}
	remainder := &big.Int{}
	if exp >= 0 {
		for {
			reduced.DivMod(accum, big10, remainder)
			if remainder.Cmp(big0) != 0 || accum.Sign() == 0 {
				break
			}
			accum.Set(reduced)
			exp++
		}
	}

	if sign != 0 {
		accum.Neg(accum)
	}

	return Numeric{Int: accum, Exp: exp}, nil
}

func nbaseDigitsToInt64(src []byte) (accum int64, bytesRead, digitsRead int) {
	digits := len(src) / 2
	if digits > 4 {
		digits = 4
	}

	rp := 0

	for i := 0; i < digits; i++ {
		if i > 0 {
			accum *= nbase
		}
		accum += int64(binary.BigEndian.Uint16(src[rp:]))
		rp += 2
	}

	return accum, rp, digits
}

func castNumericText(src []byte) (any, error) {
	return DecodeNumericText(src)
}

func castNumericBinary(src []byte) (any, error) {
	return DecodeNumericBinary(src)
}
