// Package num provides the numeric values the engine computes with. A Num is
// produced by a Factory; the decimal factory is backed by shopspring/decimal
// and the double factory by float64. NaN is shared by every factory.
package num

import (
	"math"

	"github.com/shopspring/decimal"
)

// Num is an immutable numeric value. Arithmetic involving NaN yields NaN and
// every comparison against NaN is false.
type Num interface {
	Plus(o Num) Num
	Minus(o Num) Num
	MultipliedBy(o Num) Num
	// DividedBy returns NaN for a zero divisor.
	DividedBy(o Num) Num
	Pow(n int) Num
	// Sqrt returns NaN for negative values.
	Sqrt() Num
	Abs() Num
	Neg() Num
	Min(o Num) Num
	Max(o Num) Num

	IsNaN() bool
	IsZero() bool
	IsPositive() bool
	IsNegative() bool
	IsEqual(o Num) bool
	IsLessThan(o Num) bool
	IsLessThanOrEqual(o Num) bool
	IsGreaterThan(o Num) bool
	IsGreaterThanOrEqual(o Num) bool

	Float64() float64
	String() string
	// Factory returns the factory that produced the value, nil for NaN.
	Factory() Factory
}

// Factory creates values of one numeric kind.
type Factory interface {
	Name() string
	MinusOne() Num
	Zero() Num
	One() Num
	Two() Num
	Three() Num
	Hundred() Num
	Thousand() Num
	NumOf(v float64) Num
	NumOfInt(v int64) Num
	Parse(s string) (Num, error)
	// Produces reports whether n can be combined with values of this
	// factory. NaN is accepted by every factory.
	Produces(n Num) bool
}

// NaN is the canonical undefined value.
var NaN Num = nan{}

type nan struct{}

func (nan) Plus(Num) Num                  { return NaN }
func (nan) Minus(Num) Num                 { return NaN }
func (nan) MultipliedBy(Num) Num          { return NaN }
func (nan) DividedBy(Num) Num             { return NaN }
func (nan) Pow(int) Num                   { return NaN }
func (nan) Sqrt() Num                     { return NaN }
func (nan) Abs() Num                      { return NaN }
func (nan) Neg() Num                      { return NaN }
func (nan) Min(Num) Num                   { return NaN }
func (nan) Max(Num) Num                   { return NaN }
func (nan) IsNaN() bool                   { return true }
func (nan) IsZero() bool                  { return false }
func (nan) IsPositive() bool              { return false }
func (nan) IsNegative() bool              { return false }
func (nan) IsEqual(Num) bool              { return false }
func (nan) IsLessThan(Num) bool           { return false }
func (nan) IsLessThanOrEqual(Num) bool    { return false }
func (nan) IsGreaterThan(Num) bool        { return false }
func (nan) IsGreaterThanOrEqual(Num) bool { return false }
func (nan) Float64() float64              { return math.NaN() }
func (nan) String() string                { return "NaN" }
func (nan) Factory() Factory              { return nil }

// FromDecimal converts a decimal into a value of factory f without a string
// round trip when f is a decimal factory.
func FromDecimal(f Factory, d decimal.Decimal) Num {
	if df, ok := f.(*DecimalFactory); ok {
		return df.wrap(d)
	}
	return f.NumOf(d.InexactFloat64())
}

// SameFactory reports whether all values can be combined with each other.
func SameFactory(f Factory, values ...Num) bool {
	for _, v := range values {
		if v == nil || !f.Produces(v) {
			return false
		}
	}
	return true
}
