package num

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

var factories = []Factory{Decimal, Double}

func TestNaNPropagation(t *testing.T) {
	for _, f := range factories {
		t.Run(f.Name(), func(t *testing.T) {
			x := f.NumOf(3)
			ops := map[string]Num{
				"plus":     x.Plus(NaN),
				"minus":    x.Minus(NaN),
				"mul":      x.MultipliedBy(NaN),
				"div":      x.DividedBy(NaN),
				"min":      x.Min(NaN),
				"max":      x.Max(NaN),
				"nan plus": NaN.Plus(x),
				"nan sqrt": NaN.Sqrt(),
			}
			for name, got := range ops {
				if !got.IsNaN() {
					t.Errorf("%s = %s, want NaN", name, got)
				}
			}
			if x.IsEqual(NaN) || x.IsLessThan(NaN) || x.IsGreaterThan(NaN) ||
				x.IsLessThanOrEqual(NaN) || x.IsGreaterThanOrEqual(NaN) {
				t.Errorf("comparison against NaN returned true")
			}
			if NaN.IsEqual(NaN) {
				t.Errorf("NaN compared equal to itself")
			}
		})
	}
}

func TestDomainErrorsYieldNaN(t *testing.T) {
	for _, f := range factories {
		t.Run(f.Name(), func(t *testing.T) {
			if got := f.One().DividedBy(f.Zero()); !got.IsNaN() {
				t.Errorf("1/0 = %s, want NaN", got)
			}
			if got := f.MinusOne().Sqrt(); !got.IsNaN() {
				t.Errorf("sqrt(-1) = %s, want NaN", got)
			}
			if got := f.Zero().Pow(-1); !got.IsNaN() {
				t.Errorf("0^-1 = %s, want NaN", got)
			}
			if got := f.NumOf(math.NaN()); !got.IsNaN() {
				t.Errorf("NumOf(NaN) = %s, want NaN", got)
			}
		})
	}
}

func TestConstants(t *testing.T) {
	tests := []struct {
		name string
		get  func(Factory) Num
		want float64
	}{
		{"minus one", Factory.MinusOne, -1},
		{"zero", Factory.Zero, 0},
		{"one", Factory.One, 1},
		{"two", Factory.Two, 2},
		{"three", Factory.Three, 3},
		{"hundred", Factory.Hundred, 100},
		{"thousand", Factory.Thousand, 1000},
	}
	for _, f := range factories {
		for _, tt := range tests {
			t.Run(f.Name()+"/"+tt.name, func(t *testing.T) {
				got := tt.get(f)
				if got.Float64() != tt.want {
					t.Errorf("%s = %s, want %v", tt.name, got, tt.want)
				}
				if !f.Produces(got) {
					t.Errorf("constant not produced by its factory")
				}
			})
		}
	}
}

func TestDecimalArithmetic(t *testing.T) {
	f := Decimal
	a, _ := f.Parse("10.5")
	b, _ := f.Parse("2")
	tests := []struct {
		name string
		got  Num
		want string
	}{
		{"plus", a.Plus(b), "12.5"},
		{"minus", a.Minus(b), "8.5"},
		{"mul", a.MultipliedBy(b), "21"},
		{"div", a.DividedBy(b), "5.25"},
		{"pow", b.Pow(10), "1024"},
		{"pow negative", b.Pow(-2), "0.25"},
		{"abs", b.Neg().Abs(), "2"},
		{"min", a.Min(b), "2"},
		{"max", a.Max(b), "10.5"},
		{"sqrt", f.NumOfInt(144).Sqrt(), "12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := decimal.RequireFromString(tt.want)
			got := tt.got.(DecimalNum).Decimal()
			if !got.Equal(want) {
				t.Fatalf("%s = %s, want %s", tt.name, got, want)
			}
		})
	}
}

func TestDecimalSqrtPrecision(t *testing.T) {
	got := Decimal.NumOfInt(2).Sqrt()
	want := decimal.RequireFromString("1.4142135623730950488016887242097")
	diff := got.(DecimalNum).Decimal().Sub(want).Abs()
	if diff.GreaterThan(decimal.New(1, -30)) {
		t.Fatalf("sqrt(2) = %s, want %s", got, want)
	}
}

func TestParse(t *testing.T) {
	for _, f := range factories {
		t.Run(f.Name(), func(t *testing.T) {
			if _, err := f.Parse("abc"); err == nil {
				t.Errorf("Parse(abc) error = nil")
			}
			if v, err := f.Parse("1.25"); err != nil || v.Float64() != 1.25 {
				t.Errorf("Parse(1.25) = %v, %v", v, err)
			}
		})
	}
	if v, err := Decimal.Parse("NaN"); err != nil || !v.IsNaN() {
		t.Errorf("Parse(NaN) = %v, %v", v, err)
	}
}

func TestFactoryMismatch(t *testing.T) {
	if Decimal.Produces(Double.One()) {
		t.Errorf("decimal factory accepted a double")
	}
	if Double.Produces(Decimal.One()) {
		t.Errorf("double factory accepted a decimal")
	}
	if NewDecimalFactory(8).Produces(Decimal.One()) {
		t.Errorf("factories with different precision treated as equal")
	}
	if !SameFactory(Decimal, Decimal.One(), NaN) {
		t.Errorf("NaN rejected by SameFactory")
	}
}

func TestFromDecimal(t *testing.T) {
	d := decimal.RequireFromString("101.25")
	if got := FromDecimal(Decimal, d); got.String() != "101.25" {
		t.Errorf("FromDecimal(decimal) = %s", got)
	}
	if got := FromDecimal(Double, d); got.Float64() != 101.25 {
		t.Errorf("FromDecimal(double) = %s", got)
	}
}
