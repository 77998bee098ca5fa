package indicator

import (
	"taengine/internal/series"
	"taengine/num"
	"taengine/types"
)

type barField struct {
	s   *series.BarSeries
	get func(types.Bar) num.Num
}

func (b *barField) calculate(i int, _ bool) num.Num {
	return b.get(b.s.MustBar(i))
}

func newBarField(s *series.BarSeries, get func(types.Bar) num.Num) *Cached[num.Num] {
	return newCached[num.Num](s, &barField{s: s, get: get}, 0, 0)
}

func ClosePrice(s *series.BarSeries) *Cached[num.Num] {
	return newBarField(s, func(b types.Bar) num.Num { return b.Close })
}

func OpenPrice(s *series.BarSeries) *Cached[num.Num] {
	return newBarField(s, func(b types.Bar) num.Num { return b.Open })
}

func HighPrice(s *series.BarSeries) *Cached[num.Num] {
	return newBarField(s, func(b types.Bar) num.Num { return b.High })
}

func LowPrice(s *series.BarSeries) *Cached[num.Num] {
	return newBarField(s, func(b types.Bar) num.Num { return b.Low })
}

func Volume(s *series.BarSeries) *Cached[num.Num] {
	return newBarField(s, func(b types.Bar) num.Num { return b.Volume })
}

// TypicalPrice is (high + low + close) / 3.
func TypicalPrice(s *series.BarSeries) *Cached[num.Num] {
	three := s.Factory().Three()
	return newBarField(s, func(b types.Bar) num.Num {
		return b.High.Plus(b.Low).Plus(b.Close).DividedBy(three)
	})
}

// MedianPrice is (high + low) / 2.
func MedianPrice(s *series.BarSeries) *Cached[num.Num] {
	two := s.Factory().Two()
	return newBarField(s, func(b types.Bar) num.Num {
		return b.High.Plus(b.Low).DividedBy(two)
	})
}

type constant struct {
	v num.Num
}

func (c constant) calculate(int, bool) num.Num { return c.v }

// Constant returns v at every index. v must come from the series factory.
func Constant(s *series.BarSeries, v num.Num) (*Cached[num.Num], error) {
	if err := sameFactory(s, v); err != nil {
		return nil, err
	}
	return newCached[num.Num](s, constant{v: v}, 0, 0), nil
}
