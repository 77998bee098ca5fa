package indicator

import (
	"taengine/internal/series"
	"taengine/num"
)

// rolling keeps the last w values of a window with running sums. NaN values
// are counted instead of summed.
type rolling struct {
	buf        []num.Num
	head, n    int
	sum, sumSq num.Num
	nans       int
	zero       num.Num
}

func newRolling(w int, zero num.Num) rolling {
	r := rolling{buf: make([]num.Num, w), zero: zero}
	r.reset()
	return r
}

func (r *rolling) reset() {
	r.head, r.n, r.nans = 0, 0, 0
	r.sum, r.sumSq = r.zero, r.zero
}

func (r *rolling) push(v num.Num) {
	if r.n == len(r.buf) {
		r.remove(r.buf[r.head])
		r.buf[r.head] = v
		r.head = (r.head + 1) % len(r.buf)
	} else {
		r.buf[(r.head+r.n)%len(r.buf)] = v
		r.n++
	}
	if v.IsNaN() {
		r.nans++
		return
	}
	r.sum = r.sum.Plus(v)
	r.sumSq = r.sumSq.Plus(v.MultipliedBy(v))
}

func (r *rolling) remove(v num.Num) {
	if v.IsNaN() {
		r.nans--
		return
	}
	r.sum = r.sum.Minus(v)
	r.sumSq = r.sumSq.Minus(v.MultipliedBy(v))
}

// fill rebuilds the window ending at i from src.
func (r *rolling) fill(s *series.BarSeries, src Numeric, i int) {
	r.reset()
	for j := windowStart(s, i, len(r.buf)); j <= i; j++ {
		r.push(src.At(j))
	}
}

func (r *rolling) advance(s *series.BarSeries, src Numeric, i int, prior bool) {
	if prior {
		r.push(src.At(i))
		return
	}
	r.fill(s, src, i)
}

type windowFunc func(r *rolling, f num.Factory) num.Num

type window struct {
	s    *series.BarSeries
	src  Numeric
	roll rolling
	fn   windowFunc
}

func (w *window) calculate(i int, prior bool) num.Num {
	w.roll.advance(w.s, w.src, i, prior)
	if w.roll.nans > 0 {
		return num.NaN
	}
	return w.fn(&w.roll, w.s.Factory())
}

func newWindow(src Numeric, size int, fn windowFunc) *Cached[num.Num] {
	mustWindow(size)
	s := src.Series()
	st := &window{s: s, src: src, roll: newRolling(size, s.Factory().Zero()), fn: fn}
	return newCached[num.Num](s, st, size-1, src.UnstableBars()+size-1, src)
}

// Sum is the running total over the last w bars.
func Sum(src Numeric, w int) *Cached[num.Num] {
	return newWindow(src, w, func(r *rolling, _ num.Factory) num.Num {
		return r.sum
	})
}

// SMA averages the last w bars. Near the first retained bar the window is
// shorter and the average uses the bars available.
func SMA(src Numeric, w int) *Cached[num.Num] {
	return newWindow(src, w, mean)
}

func mean(r *rolling, f num.Factory) num.Num {
	return r.sum.DividedBy(f.NumOfInt(int64(r.n)))
}

// sampleVariance is NaN for fewer than two values and never negative.
func sampleVariance(r *rolling, f num.Factory) num.Num {
	if r.n < 2 {
		return num.NaN
	}
	n := f.NumOfInt(int64(r.n))
	v := r.sumSq.Minus(r.sum.MultipliedBy(r.sum).DividedBy(n)).DividedBy(n.Minus(f.One()))
	if v.IsNegative() {
		return f.Zero()
	}
	return v
}

// Variance is the sample variance over the last w bars.
func Variance(src Numeric, w int) *Cached[num.Num] {
	return newWindow(src, w, sampleVariance)
}

// StdDev is the sample standard deviation over the last w bars.
func StdDev(src Numeric, w int) *Cached[num.Num] {
	return newWindow(src, w, func(r *rolling, f num.Factory) num.Num {
		return sampleVariance(r, f).Sqrt()
	})
}

// StdErr is StdDev divided by the square root of the window size.
func StdErr(src Numeric, w int) *Cached[num.Num] {
	mustWindow(w)
	div := src.Series().Factory().NumOfInt(int64(w)).Sqrt()
	return newWindow(src, w, func(r *rolling, f num.Factory) num.Num {
		return sampleVariance(r, f).Sqrt().DividedBy(div)
	})
}
