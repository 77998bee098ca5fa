package indicator

import (
	"taengine/num"
)

type crossing struct {
	a, b Numeric
	up   bool
	// last is the sign of a-b at the latest index where they differed, zero
	// when unknown or after a NaN.
	last int
}

func (c *crossing) sign(i int) (int, bool) {
	x, y := c.a.At(i), c.b.At(i)
	if x.IsNaN() || y.IsNaN() {
		return 0, false
	}
	switch {
	case x.IsGreaterThan(y):
		return 1, true
	case x.IsLessThan(y):
		return -1, true
	}
	return 0, true
}

func (c *crossing) calculate(i int, prior bool) bool {
	if !prior {
		c.last = c.rewind(i - 1)
	}
	d, ok := c.sign(i)
	if !ok {
		c.last = 0
		return false
	}
	if d == 0 {
		return false
	}
	fired := c.last == -d && (d > 0) == c.up
	c.last = d
	return fired
}

// rewind finds the sign at the latest index <= i where a and b differed.
func (c *crossing) rewind(i int) int {
	begin := c.a.Series().BeginIndex()
	for ; i >= begin; i-- {
		d, ok := c.sign(i)
		if !ok {
			return 0
		}
		if d != 0 {
			return d
		}
	}
	return 0
}

func newCrossing(a, b Numeric, up bool) (*Cached[bool], error) {
	if err := compatible(a, b); err != nil {
		return nil, err
	}
	st := &crossing{a: a, b: b, up: up}
	return newCached[bool](a.Series(), st, 1, maxUnstable(a, b), a, b), nil
}

// CrossedUp is true only at the index where a moves from below b to above
// it. Equal values in between do not reset the crossing, NaN does.
func CrossedUp(a, b Numeric) (*Cached[bool], error) {
	return newCrossing(a, b, true)
}

// CrossedDown is true only at the index where a moves from above b to below
// it.
func CrossedDown(a, b Numeric) (*Cached[bool], error) {
	return newCrossing(a, b, false)
}

// CrossedUpValue compares a against a constant threshold.
func CrossedUpValue(a Numeric, v num.Num) (*Cached[bool], error) {
	c, err := Constant(a.Series(), v)
	if err != nil {
		return nil, err
	}
	return CrossedUp(a, c)
}

func CrossedDownValue(a Numeric, v num.Num) (*Cached[bool], error) {
	c, err := Constant(a.Series(), v)
	if err != nil {
		return nil, err
	}
	return CrossedDown(a, c)
}
