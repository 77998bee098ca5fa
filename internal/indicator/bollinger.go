package indicator

import (
	"taengine/num"
)

// Bollinger groups the band indicators built from one source, window and
// band width multiplier.
type Bollinger struct {
	Middle    *Cached[num.Num]
	Upper     *Cached[num.Num]
	Lower     *Cached[num.Num]
	Bandwidth *Cached[num.Num]
	PercentB  *Cached[num.Num]
}

type bands struct {
	src, middle, dev Numeric
	k                num.Num
	f                num.Factory
}

func (b *bands) upper(i int) num.Num {
	return b.middle.At(i).Plus(b.dev.At(i).MultipliedBy(b.k))
}

func (b *bands) lower(i int) num.Num {
	return b.middle.At(i).Minus(b.dev.At(i).MultipliedBy(b.k))
}

type bandFunc func(b *bands, i int) num.Num

type bandStep struct {
	b  *bands
	fn bandFunc
}

func (s *bandStep) calculate(i int, _ bool) num.Num {
	return s.fn(s.b, i)
}

// NewBollinger builds bands of k sample standard deviations around the w
// bar SMA of src.
func NewBollinger(src Numeric, w int, k num.Num) (*Bollinger, error) {
	s := src.Series()
	if err := sameFactory(s, k); err != nil {
		return nil, err
	}
	b := &bands{src: src, middle: SMA(src, w), dev: StdDev(src, w), k: k, f: s.Factory()}
	unstable := maxUnstable(b.middle, b.dev)
	band := func(fn bandFunc) *Cached[num.Num] {
		return newCached[num.Num](s, &bandStep{b: b, fn: fn}, 0, unstable, src, b.middle, b.dev)
	}
	return &Bollinger{
		Middle: band(func(b *bands, i int) num.Num { return b.middle.At(i) }),
		Upper:  band((*bands).upper),
		Lower:  band((*bands).lower),
		Bandwidth: band(func(b *bands, i int) num.Num {
			return b.upper(i).Minus(b.lower(i)).DividedBy(b.middle.At(i)).MultipliedBy(b.f.Hundred())
		}),
		PercentB: band(func(b *bands, i int) num.Num {
			lo := b.lower(i)
			return b.src.At(i).Minus(lo).DividedBy(b.upper(i).Minus(lo))
		}),
	}, nil
}
