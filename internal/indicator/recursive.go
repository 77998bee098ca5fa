package indicator

import (
	"taengine/internal/series"
	"taengine/num"
)

// smoothing is prev + k * (v - prev), seeded with the first retained value.
type smoothing struct {
	s    *series.BarSeries
	src  Numeric
	k    num.Num
	prev num.Num
}

func (m *smoothing) calculate(i int, prior bool) num.Num {
	if !prior {
		m.prev = m.src.At(m.s.BeginIndex())
		for j := m.s.BeginIndex() + 1; j <= i; j++ {
			m.prev = m.next(j)
		}
		return m.prev
	}
	m.prev = m.next(i)
	return m.prev
}

func (m *smoothing) next(i int) num.Num {
	v := m.src.At(i)
	return m.prev.Plus(m.k.MultipliedBy(v.Minus(m.prev)))
}

func newSmoothing(src Numeric, w int, k num.Num) *Cached[num.Num] {
	st := &smoothing{s: src.Series(), src: src, k: k}
	return newCached[num.Num](src.Series(), st, 1, src.UnstableBars()+w-1, src)
}

// EMA is the exponential moving average with k = 2 / (w + 1).
func EMA(src Numeric, w int) *Cached[num.Num] {
	mustWindow(w)
	f := src.Series().Factory()
	return newSmoothing(src, w, f.Two().DividedBy(f.NumOfInt(int64(w+1))))
}

// MMA is the modified (Wilder) moving average with k = 1 / w.
func MMA(src Numeric, w int) *Cached[num.Num] {
	mustWindow(w)
	f := src.Series().Factory()
	return newSmoothing(src, w, f.One().DividedBy(f.NumOfInt(int64(w))))
}

type kama struct {
	s          *series.BarSeries
	src        Numeric
	volatility *Cached[num.Num]
	n          int
	fast, slow num.Num
	prev       num.Num
}

func (k *kama) calculate(i int, prior bool) num.Num {
	if !prior {
		k.prev = k.src.At(k.s.BeginIndex())
		for j := k.s.BeginIndex() + 1; j <= i; j++ {
			k.prev = k.next(j)
		}
		return k.prev
	}
	k.prev = k.next(i)
	return k.prev
}

func (k *kama) next(i int) num.Num {
	price := k.src.At(i)
	start := max(k.s.BeginIndex(), i-k.n)
	change := price.Minus(k.src.At(start)).Abs()
	vol := k.volatility.At(i)
	er := k.s.Factory().Zero()
	if !vol.IsZero() {
		er = change.DividedBy(vol)
	}
	sc := er.MultipliedBy(k.fast.Minus(k.slow)).Plus(k.slow).Pow(2)
	return k.prev.Plus(sc.MultipliedBy(price.Minus(k.prev)))
}

// KAMA is Kaufman's adaptive moving average. The efficiency ratio compares
// the net change over n bars with the sum of absolute bar to bar changes;
// a flat window has ratio zero.
func KAMA(src Numeric, n, fast, slow int) *Cached[num.Num] {
	mustWindow(n)
	mustWindow(fast)
	mustWindow(slow)
	f := src.Series().Factory()
	st := &kama{
		s:          src.Series(),
		src:        src,
		volatility: Sum(Abs(Difference(src)), n),
		n:          n,
		fast:       f.Two().DividedBy(f.NumOfInt(int64(fast + 1))),
		slow:       f.Two().DividedBy(f.NumOfInt(int64(slow + 1))),
	}
	return newCached[num.Num](src.Series(), st, 1, src.UnstableBars()+n, src, st.volatility)
}
