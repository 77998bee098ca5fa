package indicator

import (
	"taengine/num"
)

type binary struct {
	a, b Numeric
	op   func(x, y num.Num) num.Num
}

func (n *binary) calculate(i int, _ bool) num.Num {
	return n.op(n.a.At(i), n.b.At(i))
}

func newBinary(a, b Numeric, op func(x, y num.Num) num.Num) (*Cached[num.Num], error) {
	if err := compatible(a, b); err != nil {
		return nil, err
	}
	return newCached[num.Num](a.Series(), &binary{a: a, b: b, op: op}, 0, maxUnstable(a, b), a, b), nil
}

func Plus(a, b Numeric) (*Cached[num.Num], error) {
	return newBinary(a, b, num.Num.Plus)
}

func Minus(a, b Numeric) (*Cached[num.Num], error) {
	return newBinary(a, b, num.Num.Minus)
}

func Multiply(a, b Numeric) (*Cached[num.Num], error) {
	return newBinary(a, b, num.Num.MultipliedBy)
}

// Divide yields NaN where b is zero.
func Divide(a, b Numeric) (*Cached[num.Num], error) {
	return newBinary(a, b, num.Num.DividedBy)
}

type unary struct {
	src Numeric
	op  func(num.Num) num.Num
}

func (n *unary) calculate(i int, _ bool) num.Num {
	return n.op(n.src.At(i))
}

func newUnary(src Numeric, op func(num.Num) num.Num) *Cached[num.Num] {
	return newCached[num.Num](src.Series(), &unary{src: src, op: op}, 0, src.UnstableBars(), src)
}

func Abs(src Numeric) *Cached[num.Num] {
	return newUnary(src, num.Num.Abs)
}

// Sqrt yields NaN for negative inputs.
func Sqrt(src Numeric) *Cached[num.Num] {
	return newUnary(src, num.Num.Sqrt)
}

// Scale multiplies src by a constant of the series factory.
func Scale(src Numeric, k num.Num) (*Cached[num.Num], error) {
	if err := sameFactory(src.Series(), k); err != nil {
		return nil, err
	}
	return newUnary(src, func(v num.Num) num.Num { return v.MultipliedBy(k) }), nil
}

type previous struct {
	src Numeric
	n   int
}

func (p *previous) calculate(i int, _ bool) num.Num {
	j := i - p.n
	if j < p.src.Series().BeginIndex() {
		return num.NaN
	}
	return p.src.At(j)
}

// Previous is src shifted n bars back, NaN before the first retained bar.
func Previous(src Numeric, n int) *Cached[num.Num] {
	mustWindow(n)
	return newCached[num.Num](src.Series(), &previous{src: src, n: n}, n, src.UnstableBars()+n, src)
}

type difference struct {
	src Numeric
}

func (d *difference) calculate(i int, _ bool) num.Num {
	if i == d.src.Series().BeginIndex() {
		return d.src.Series().Factory().Zero()
	}
	return d.src.At(i).Minus(d.src.At(i - 1))
}

// Difference is src(i) - src(i-1), zero at the first retained bar.
func Difference(src Numeric) *Cached[num.Num] {
	return newCached[num.Num](src.Series(), &difference{src: src}, 1, src.UnstableBars()+1, src)
}
