package num

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of fractional digits kept by divisions and
// square roots of the default decimal factory.
const DefaultPrecision int32 = 32

// Decimal is the default decimal factory.
var Decimal = NewDecimalFactory(DefaultPrecision)

// DecimalFactory creates DecimalNum values rounded to a fixed precision.
type DecimalFactory struct {
	precision int32

	minusOne, zero, one, two, three, hundred, thousand DecimalNum
}

func NewDecimalFactory(precision int32) *DecimalFactory {
	f := &DecimalFactory{precision: precision}
	f.minusOne = f.wrap(decimal.NewFromInt(-1))
	f.zero = f.wrap(decimal.Zero)
	f.one = f.wrap(decimal.NewFromInt(1))
	f.two = f.wrap(decimal.NewFromInt(2))
	f.three = f.wrap(decimal.NewFromInt(3))
	f.hundred = f.wrap(decimal.NewFromInt(100))
	f.thousand = f.wrap(decimal.NewFromInt(1000))
	return f
}

func (f *DecimalFactory) Name() string {
	return fmt.Sprintf("decimal(%d)", f.precision)
}

func (f *DecimalFactory) Precision() int32 { return f.precision }
func (f *DecimalFactory) MinusOne() Num    { return f.minusOne }
func (f *DecimalFactory) Zero() Num        { return f.zero }
func (f *DecimalFactory) One() Num         { return f.one }
func (f *DecimalFactory) Two() Num         { return f.two }
func (f *DecimalFactory) Three() Num       { return f.three }
func (f *DecimalFactory) Hundred() Num     { return f.hundred }
func (f *DecimalFactory) Thousand() Num    { return f.thousand }

func (f *DecimalFactory) NumOf(v float64) Num {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NaN
	}
	return f.wrap(decimal.NewFromFloat(v))
}

func (f *DecimalFactory) NumOfInt(v int64) Num {
	return f.wrap(decimal.NewFromInt(v))
}

func (f *DecimalFactory) Parse(s string) (Num, error) {
	if strings.EqualFold(strings.TrimSpace(s), "nan") {
		return NaN, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", s, err)
	}
	return f.wrap(d), nil
}

func (f *DecimalFactory) Produces(n Num) bool {
	if n.IsNaN() {
		return true
	}
	d, ok := n.(DecimalNum)
	return ok && d.f == f
}

func (f *DecimalFactory) wrap(d decimal.Decimal) DecimalNum {
	return DecimalNum{d: d, f: f}
}

// DecimalNum is an arbitrary precision value.
type DecimalNum struct {
	d decimal.Decimal
	f *DecimalFactory
}

// Decimal exposes the underlying value.
func (n DecimalNum) Decimal() decimal.Decimal { return n.d }

// operand converts o for arithmetic with n. It fails for NaN.
func (n DecimalNum) operand(o Num) (decimal.Decimal, bool) {
	switch v := o.(type) {
	case DecimalNum:
		return v.d, true
	case nil:
		return decimal.Zero, false
	default:
		if o.IsNaN() {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(o.Float64()), true
	}
}

func (n DecimalNum) Plus(o Num) Num {
	d, ok := n.operand(o)
	if !ok {
		return NaN
	}
	return n.f.wrap(n.d.Add(d))
}

func (n DecimalNum) Minus(o Num) Num {
	d, ok := n.operand(o)
	if !ok {
		return NaN
	}
	return n.f.wrap(n.d.Sub(d))
}

func (n DecimalNum) MultipliedBy(o Num) Num {
	d, ok := n.operand(o)
	if !ok {
		return NaN
	}
	return n.f.wrap(n.d.Mul(d))
}

func (n DecimalNum) DividedBy(o Num) Num {
	d, ok := n.operand(o)
	if !ok || d.IsZero() {
		return NaN
	}
	return n.f.wrap(n.d.DivRound(d, n.f.precision))
}

func (n DecimalNum) Pow(k int) Num {
	if k == 0 {
		return n.f.one
	}
	e := k
	if e < 0 {
		e = -e
	}
	result := decimal.NewFromInt(1)
	base := n.d
	for e > 0 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		e >>= 1
	}
	if k < 0 {
		if result.IsZero() {
			return NaN
		}
		result = decimal.NewFromInt(1).DivRound(result, n.f.precision)
	}
	return n.f.wrap(result)
}

// Sqrt refines a float64 estimate with Newton iterations at the factory
// precision.
func (n DecimalNum) Sqrt() Num {
	switch {
	case n.d.IsNegative():
		return NaN
	case n.d.IsZero():
		return n.f.zero
	}
	x := decimal.NewFromFloat(math.Sqrt(n.d.InexactFloat64()))
	if x.IsZero() {
		return n.f.zero
	}
	two := decimal.NewFromInt(2)
	for i := 0; i < 4; i++ {
		x = x.Add(n.d.DivRound(x, n.f.precision)).DivRound(two, n.f.precision)
	}
	return n.f.wrap(x)
}

func (n DecimalNum) Abs() Num { return n.f.wrap(n.d.Abs()) }
func (n DecimalNum) Neg() Num { return n.f.wrap(n.d.Neg()) }

func (n DecimalNum) Min(o Num) Num {
	d, ok := n.operand(o)
	if !ok {
		return NaN
	}
	if d.LessThan(n.d) {
		return n.f.wrap(d)
	}
	return n
}

func (n DecimalNum) Max(o Num) Num {
	d, ok := n.operand(o)
	if !ok {
		return NaN
	}
	if d.GreaterThan(n.d) {
		return n.f.wrap(d)
	}
	return n
}

func (n DecimalNum) IsNaN() bool      { return false }
func (n DecimalNum) IsZero() bool     { return n.d.IsZero() }
func (n DecimalNum) IsPositive() bool { return n.d.IsPositive() }
func (n DecimalNum) IsNegative() bool { return n.d.IsNegative() }

func (n DecimalNum) IsEqual(o Num) bool {
	d, ok := n.operand(o)
	return ok && n.d.Equal(d)
}

func (n DecimalNum) IsLessThan(o Num) bool {
	d, ok := n.operand(o)
	return ok && n.d.LessThan(d)
}

func (n DecimalNum) IsLessThanOrEqual(o Num) bool {
	d, ok := n.operand(o)
	return ok && n.d.LessThanOrEqual(d)
}

func (n DecimalNum) IsGreaterThan(o Num) bool {
	d, ok := n.operand(o)
	return ok && n.d.GreaterThan(d)
}

func (n DecimalNum) IsGreaterThanOrEqual(o Num) bool {
	d, ok := n.operand(o)
	return ok && n.d.GreaterThanOrEqual(d)
}

func (n DecimalNum) Float64() float64 { return n.d.InexactFloat64() }
func (n DecimalNum) String() string   { return n.d.String() }
func (n DecimalNum) Factory() Factory { return n.f }
