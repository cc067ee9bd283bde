package stats

import (
	"encoding/json"
	"math"
	"strconv"

	"golang.org/x/xerrors"
)

var (
	ErrTypeMismatch = xerrors.New("type mismatch")
	ErrOverflow     = xerrors.New("total overflows float64")
)

// Number is an integer or a float. Integer arithmetic stays integer until a
// float operand or an overflow promotes it.
type Number struct {
	i       int64
	f       float64
	isFloat bool
}

func Int(v int64) Number {
	return Number{i: v}
}

func Float(v float64) Number {
	return Number{f: v, isFloat: true}
}

func (n Number) IsFloat() bool {
	return n.isFloat
}

func (n Number) Float64() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

// Int64 reports the integer value and whether n is integer-like.
func (n Number) Int64() (int64, bool) {
	return n.i, !n.isFloat
}

func (n Number) Add(m Number) Number {
	if n.isFloat || m.isFloat {
		return Float(n.Float64() + m.Float64())
	}
	sum := n.i + m.i
	if (m.i > 0 && sum < n.i) || (m.i < 0 && sum > n.i) {
		return Float(float64(n.i) + float64(m.i))
	}
	return Int(sum)
}

// Interface returns an int64 or a float64.
func (n Number) Interface() interface{} {
	if n.isFloat {
		return n.f
	}
	return n.i
}

func (n Number) String() string {
	if n.isFloat {
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
	return strconv.FormatInt(n.i, 10)
}

func (n Number) MarshalYAML() (interface{}, error) {
	return n.Interface(), nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Interface())
}

// ToNumber converts any finite Go numeric value. Everything else, nil, NaN
// and infinities included, is a type mismatch.
func ToNumber(v interface{}) (Number, error) {
	switch x := v.(type) {
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint(uint64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint(x), nil
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Number{}, xerrors.Errorf("json number %q: %w", x.String(), ErrTypeMismatch)
		}
		return fromFloat(f)
	}
	return Number{}, xerrors.Errorf("%T: %w", v, ErrTypeMismatch)
}

func fromUint(u uint64) Number {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}

func fromFloat(f float64) (Number, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}, xerrors.Errorf("non-finite %v: %w", f, ErrTypeMismatch)
	}
	return Float(f), nil
}

// IsFinite is false only for a float total that overflowed.
func (n Number) IsFinite() bool {
	return !n.isFloat || !math.IsInf(n.f, 0)
}
