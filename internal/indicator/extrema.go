package indicator

import (
	"taengine/internal/series"
	"taengine/num"
)

type entry struct {
	index int
	value num.Num
}

// extremes is a monotonic deque over a sliding window. The front holds the
// extreme value, ties resolve to the most recent index. NaN values never
// enter the deque.
type extremes struct {
	size  int
	q     []entry
	worse func(kept, incoming num.Num) bool
}

func (e *extremes) reset() {
	e.q = e.q[:0]
}

func (e *extremes) push(i int, v num.Num) {
	for len(e.q) > 0 && e.q[0].index <= i-e.size {
		e.q = e.q[1:]
	}
	if v.IsNaN() {
		return
	}
	for len(e.q) > 0 && e.worse(e.q[len(e.q)-1].value, v) {
		e.q = e.q[:len(e.q)-1]
	}
	e.q = append(e.q, entry{index: i, value: v})
}

func (e *extremes) front() (entry, bool) {
	if len(e.q) == 0 {
		return entry{}, false
	}
	return e.q[0], true
}

func (e *extremes) advance(s *series.BarSeries, src Numeric, i int, prior bool) {
	if prior {
		e.push(i, src.At(i))
		return
	}
	e.reset()
	for j := windowStart(s, i, e.size); j <= i; j++ {
		e.push(j, src.At(j))
	}
}

func lowest(size int) extremes {
	return extremes{size: size, worse: func(kept, in num.Num) bool { return kept.IsGreaterThanOrEqual(in) }}
}

func highest(size int) extremes {
	return extremes{size: size, worse: func(kept, in num.Num) bool { return kept.IsLessThanOrEqual(in) }}
}

type extremum struct {
	s   *series.BarSeries
	src Numeric
	ext extremes
}

// calculate is NaN when the current value is NaN, otherwise NaNs inside the
// window are skipped.
func (x *extremum) calculate(i int, prior bool) num.Num {
	x.ext.advance(x.s, x.src, i, prior)
	if x.src.At(i).IsNaN() {
		return num.NaN
	}
	e, ok := x.ext.front()
	if !ok {
		return num.NaN
	}
	return e.value
}

func newExtremum(src Numeric, w int, ext extremes) *Cached[num.Num] {
	mustWindow(w)
	st := &extremum{s: src.Series(), src: src, ext: ext}
	return newCached[num.Num](src.Series(), st, w-1, src.UnstableBars()+w-1, src)
}

// Lowest is the minimum over the last w bars.
func Lowest(src Numeric, w int) *Cached[num.Num] {
	return newExtremum(src, w, lowest(w))
}

// Highest is the maximum over the last w bars.
func Highest(src Numeric, w int) *Cached[num.Num] {
	return newExtremum(src, w, highest(w))
}

type aroon struct {
	s        *series.BarSeries
	src      Numeric
	barCount int
	ext      extremes
}

func (a *aroon) calculate(i int, prior bool) num.Num {
	a.ext.advance(a.s, a.src, i, prior)
	if a.src.At(i).IsNaN() {
		return num.NaN
	}
	e, ok := a.ext.front()
	if !ok {
		return num.NaN
	}
	f := a.s.Factory()
	since := int64(i - e.index)
	return f.NumOfInt(int64(a.barCount) - since).MultipliedBy(f.Hundred()).DividedBy(f.NumOfInt(int64(a.barCount)))
}

func newAroon(src Numeric, barCount int, ext extremes) *Cached[num.Num] {
	mustWindow(barCount)
	st := &aroon{s: src.Series(), src: src, barCount: barCount, ext: ext}
	return newCached[num.Num](src.Series(), st, barCount, src.UnstableBars()+barCount, src)
}

// AroonUp is 100 * (barCount - bars since the highest high) / barCount over
// the last barCount+1 bars.
func AroonUp(s *series.BarSeries, barCount int) *Cached[num.Num] {
	return newAroon(HighPrice(s), barCount, highest(barCount+1))
}

// AroonDown mirrors AroonUp on the lowest low.
func AroonDown(s *series.BarSeries, barCount int) *Cached[num.Num] {
	return newAroon(LowPrice(s), barCount, lowest(barCount+1))
}
