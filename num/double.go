package num

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Double is the float64 factory.
var Double = &DoubleFactory{}

type DoubleFactory struct{}

func (*DoubleFactory) Name() string  { return "double" }
func (*DoubleFactory) MinusOne() Num { return DoubleNum(-1) }
func (*DoubleFactory) Zero() Num     { return DoubleNum(0) }
func (*DoubleFactory) One() Num      { return DoubleNum(1) }
func (*DoubleFactory) Two() Num      { return DoubleNum(2) }
func (*DoubleFactory) Three() Num    { return DoubleNum(3) }
func (*DoubleFactory) Hundred() Num  { return DoubleNum(100) }
func (*DoubleFactory) Thousand() Num { return DoubleNum(1000) }
func (*DoubleFactory) NumOf(v float64) Num {
	return double(v)
}
func (*DoubleFactory) NumOfInt(v int64) Num {
	return DoubleNum(float64(v))
}

func (*DoubleFactory) Parse(s string) (Num, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", s, err)
	}
	return double(v), nil
}

func (*DoubleFactory) Produces(n Num) bool {
	if n.IsNaN() {
		return true
	}
	_, ok := n.(DoubleNum)
	return ok
}

// DoubleNum is a float64 value. It never holds math.NaN; such results are
// replaced by NaN.
type DoubleNum float64

func double(v float64) Num {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NaN
	}
	return DoubleNum(v)
}

func operand(o Num) (float64, bool) {
	if o == nil || o.IsNaN() {
		return 0, false
	}
	if d, ok := o.(DoubleNum); ok {
		return float64(d), true
	}
	return o.Float64(), true
}

func (n DoubleNum) Plus(o Num) Num {
	v, ok := operand(o)
	if !ok {
		return NaN
	}
	return double(float64(n) + v)
}

func (n DoubleNum) Minus(o Num) Num {
	v, ok := operand(o)
	if !ok {
		return NaN
	}
	return double(float64(n) - v)
}

func (n DoubleNum) MultipliedBy(o Num) Num {
	v, ok := operand(o)
	if !ok {
		return NaN
	}
	return double(float64(n) * v)
}

func (n DoubleNum) DividedBy(o Num) Num {
	v, ok := operand(o)
	if !ok || v == 0 {
		return NaN
	}
	return double(float64(n) / v)
}

func (n DoubleNum) Pow(k int) Num {
	if k < 0 && n == 0 {
		return NaN
	}
	return double(math.Pow(float64(n), float64(k)))
}

func (n DoubleNum) Sqrt() Num {
	if n < 0 {
		return NaN
	}
	return DoubleNum(math.Sqrt(float64(n)))
}

func (n DoubleNum) Abs() Num { return DoubleNum(math.Abs(float64(n))) }
func (n DoubleNum) Neg() Num { return -n }

func (n DoubleNum) Min(o Num) Num {
	v, ok := operand(o)
	if !ok {
		return NaN
	}
	return DoubleNum(math.Min(float64(n), v))
}

func (n DoubleNum) Max(o Num) Num {
	v, ok := operand(o)
	if !ok {
		return NaN
	}
	return DoubleNum(math.Max(float64(n), v))
}

func (n DoubleNum) IsNaN() bool      { return false }
func (n DoubleNum) IsZero() bool     { return n == 0 }
func (n DoubleNum) IsPositive() bool { return n > 0 }
func (n DoubleNum) IsNegative() bool { return n < 0 }

func (n DoubleNum) IsEqual(o Num) bool {
	v, ok := operand(o)
	return ok && float64(n) == v
}

func (n DoubleNum) IsLessThan(o Num) bool {
	v, ok := operand(o)
	return ok && float64(n) < v
}

func (n DoubleNum) IsLessThanOrEqual(o Num) bool {
	v, ok := operand(o)
	return ok && float64(n) <= v
}

func (n DoubleNum) IsGreaterThan(o Num) bool {
	v, ok := operand(o)
	return ok && float64(n) > v
}

func (n DoubleNum) IsGreaterThanOrEqual(o Num) bool {
	v, ok := operand(o)
	return ok && float64(n) >= v
}

func (n DoubleNum) Float64() float64 { return float64(n) }
func (n DoubleNum) String() string   { return strconv.FormatFloat(float64(n), 'f', -1, 64) }
func (n DoubleNum) Factory() Factory { return Double }
