package indicator

import (
	"taengine/internal/series"
	"taengine/num"
	"taengine/types"
)

type change struct {
	src  Numeric
	gain bool
}

func (c *change) calculate(i int, _ bool) num.Num {
	s := c.src.Series()
	if i == s.BeginIndex() {
		return s.Factory().Zero()
	}
	d := c.src.At(i).Minus(c.src.At(i - 1))
	if d.IsNaN() {
		return num.NaN
	}
	if !c.gain {
		d = d.Neg()
	}
	if d.IsPositive() {
		return d
	}
	return s.Factory().Zero()
}

// Gain is the positive part of the bar to bar change, zero at the first bar.
func Gain(src Numeric) *Cached[num.Num] {
	return newCached[num.Num](src.Series(), &change{src: src, gain: true}, 1, src.UnstableBars()+1, src)
}

// Loss is the magnitude of the negative part of the bar to bar change.
func Loss(src Numeric) *Cached[num.Num] {
	return newCached[num.Num](src.Series(), &change{src: src}, 1, src.UnstableBars()+1, src)
}

type rsi struct {
	gain, loss Numeric
	f          num.Factory
}

func (r *rsi) calculate(i int, _ bool) num.Num {
	g, l := r.gain.At(i), r.loss.At(i)
	if g.IsNaN() || l.IsNaN() {
		return num.NaN
	}
	if l.IsZero() {
		if g.IsZero() {
			return r.f.Zero()
		}
		return r.f.Hundred()
	}
	rs := g.DividedBy(l)
	return r.f.Hundred().Minus(r.f.Hundred().DividedBy(r.f.One().Plus(rs)))
}

// RSI is the relative strength index over Wilder averages of gains and
// losses.
func RSI(src Numeric, w int) *Cached[num.Num] {
	mustWindow(w)
	st := &rsi{gain: MMA(Gain(src), w), loss: MMA(Loss(src), w), f: src.Series().Factory()}
	return newCached[num.Num](src.Series(), st, 0, maxUnstable(st.gain, st.loss), st.gain, st.loss)
}

type trueRange struct {
	s *series.BarSeries
}

func (t *trueRange) calculate(i int, _ bool) num.Num {
	bar := t.s.MustBar(i)
	hl := bar.High.Minus(bar.Low).Abs()
	if i == t.s.BeginIndex() {
		return hl
	}
	prevClose := t.s.MustBar(i - 1).Close
	hc := bar.High.Minus(prevClose).Abs()
	lc := prevClose.Minus(bar.Low).Abs()
	return hl.Max(hc).Max(lc)
}

// TR is the true range, high minus low at the first bar.
func TR(s *series.BarSeries) *Cached[num.Num] {
	return newCached[num.Num](s, &trueRange{s: s}, 1, 1)
}

// ATR is the Wilder average of the true range.
func ATR(s *series.BarSeries, w int) *Cached[num.Num] {
	return MMA(TR(s), w)
}

type directionalMove struct {
	s    *series.BarSeries
	plus bool
}

func (d *directionalMove) calculate(i int, _ bool) num.Num {
	zero := d.s.Factory().Zero()
	if i == d.s.BeginIndex() {
		return zero
	}
	cur, prev := d.s.MustBar(i), d.s.MustBar(i-1)
	up, down := upDown(prev, cur)
	if !d.plus {
		up, down = down, up
	}
	if up.IsNaN() || down.IsNaN() {
		return num.NaN
	}
	if up.IsGreaterThan(down) && up.IsPositive() {
		return up
	}
	return zero
}

func upDown(prev, cur types.Bar) (up, down num.Num) {
	return cur.High.Minus(prev.High), prev.Low.Minus(cur.Low)
}

// PlusDM is the positive directional movement.
func PlusDM(s *series.BarSeries) *Cached[num.Num] {
	return newCached[num.Num](s, &directionalMove{s: s, plus: true}, 1, 1)
}

// MinusDM is the negative directional movement.
func MinusDM(s *series.BarSeries) *Cached[num.Num] {
	return newCached[num.Num](s, &directionalMove{s: s}, 1, 1)
}
