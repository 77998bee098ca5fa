package indicator

import (
	"taengine/internal/series"
	"taengine/types"
)

type engulfing struct {
	s       *series.BarSeries
	bullish bool
}

func (e *engulfing) calculate(i int, _ bool) bool {
	if i == e.s.BeginIndex() {
		return false
	}
	prev, cur := e.s.MustBar(i-1), e.s.MustBar(i)
	if e.bullish {
		return isEngulfing(prev, cur)
	}
	return isEngulfing(mirror(prev), mirror(cur))
}

// isEngulfing reports a bearish bar followed by a bullish one whose body
// covers it.
func isEngulfing(prev, cur types.Bar) bool {
	return prev.IsBearish() && cur.IsBullish() &&
		cur.Open.IsLessThan(prev.Close) && cur.Close.IsGreaterThan(prev.Open)
}

// mirror negates the body so the bearish pattern can reuse isEngulfing.
func mirror(b types.Bar) types.Bar {
	b.Open, b.Close = b.Open.Neg(), b.Close.Neg()
	return b
}

// BullishEngulfing flags a bullish bar engulfing the previous bearish one.
func BullishEngulfing(s *series.BarSeries) *Cached[bool] {
	return newCached[bool](s, &engulfing{s: s, bullish: true}, 1, 1)
}

// BearishEngulfing flags a bearish bar engulfing the previous bullish one.
func BearishEngulfing(s *series.BarSeries) *Cached[bool] {
	return newCached[bool](s, &engulfing{s: s}, 1, 1)
}

type shadowPattern struct {
	s *series.BarSeries
	// prev is the previous close and trend its moving average.
	prev, trend Numeric
	// upper selects the long upper shadow of the inverted hammer, otherwise
	// the long lower shadow of the hanging man.
	upper bool
}

// Shadow to body ratios of the single bar patterns.
const (
	longShadowRatio  = 2
	shortShadowRatio = 1
)

func (p *shadowPattern) calculate(i int, _ bool) bool {
	if i == p.s.BeginIndex() {
		return false
	}
	bar := p.s.MustBar(i)
	body := bar.Close.Minus(bar.Open).Abs()
	if !body.IsPositive() {
		return false
	}
	top, bottom := bar.Open.Max(bar.Close), bar.Open.Min(bar.Close)
	upper, lower := bar.High.Minus(top), bottom.Minus(bar.Low)
	long, short := lower, upper
	if p.upper {
		long, short = upper, lower
	}
	f := p.s.Factory()
	if long.IsLessThan(body.MultipliedBy(f.NumOfInt(longShadowRatio))) ||
		short.IsGreaterThan(body.MultipliedBy(f.NumOfInt(shortShadowRatio))) {
		return false
	}

	prev, avg := p.prev.At(i), p.trend.At(i)
	if p.upper {
		return prev.IsLessThan(avg)
	}
	return prev.IsGreaterThan(avg)
}

func newShadowPattern(s *series.BarSeries, trend int, upper bool) *Cached[bool] {
	mustWindow(trend)
	prev := Previous(ClosePrice(s), 1)
	st := &shadowPattern{s: s, prev: prev, trend: SMA(prev, trend), upper: upper}
	return newCached[bool](s, st, 0, st.trend.UnstableBars(), st.prev, st.trend)
}

// InvertedHammer flags a bar with a long upper shadow and a short lower one
// that follows a downtrend. The trend compares the previous close with the
// average of the trend closes before the pattern.
func InvertedHammer(s *series.BarSeries, trend int) *Cached[bool] {
	return newShadowPattern(s, trend, true)
}

// HangingMan flags a bar with a long lower shadow and a short upper one that
// follows an uptrend.
func HangingMan(s *series.BarSeries, trend int) *Cached[bool] {
	return newShadowPattern(s, trend, false)
}
