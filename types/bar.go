package types

import (
	"errors"
	"taengine/num"
	"time"
)

var (
	ErrMissingPeriod = errors.New("bar has no time period")
	ErrMissingTime   = errors.New("bar has neither begin nor end time")
	ErrTimeMismatch  = errors.New("bar end time does not match begin time plus period")
)

// Bar is one sealed OHLCV aggregate covering [BeginTime, EndTime).
type Bar struct {
	TimePeriod time.Duration
	BeginTime  time.Time
	EndTime    time.Time
	Open       num.Num
	High       num.Num
	Low        num.Num
	Close      num.Num
	Volume     num.Num
	Amount     num.Num
	Trades     int64
}

// InPeriod reports whether t falls inside the bar.
func (b Bar) InPeriod(t time.Time) bool {
	return !t.Before(b.BeginTime) && t.Before(b.EndTime)
}

func (b Bar) IsBullish() bool {
	return b.Open.IsLessThan(b.Close)
}

func (b Bar) IsBearish() bool {
	return b.Open.IsGreaterThan(b.Close)
}

// Factory returns the numeric factory of the bar's prices, nil when every
// price is NaN.
func (b Bar) Factory() num.Factory {
	for _, v := range []num.Num{b.Close, b.Open, b.High, b.Low, b.Volume} {
		if v != nil && !v.IsNaN() {
			return v.Factory()
		}
	}
	return nil
}

// BarBuilder assembles a Bar either from explicit prices or by accumulating
// trades. Missing prices are NaN, missing volume and amount are zero.
type BarBuilder struct {
	factory    num.Factory
	period     time.Duration
	begin, end time.Time

	open, high, low, close num.Num
	volume, amount         num.Num
	trades                 int64
}

func NewBarBuilder(f num.Factory) *BarBuilder {
	return &BarBuilder{factory: f}
}

func (b *BarBuilder) TimePeriod(d time.Duration) *BarBuilder {
	b.period = d
	return b
}

func (b *BarBuilder) BeginTime(t time.Time) *BarBuilder {
	b.begin = t
	return b
}

func (b *BarBuilder) EndTime(t time.Time) *BarBuilder {
	b.end = t
	return b
}

func (b *BarBuilder) Open(v num.Num) *BarBuilder {
	b.open = v
	return b
}

func (b *BarBuilder) High(v num.Num) *BarBuilder {
	b.high = v
	return b
}

func (b *BarBuilder) Low(v num.Num) *BarBuilder {
	b.low = v
	return b
}

func (b *BarBuilder) Close(v num.Num) *BarBuilder {
	b.close = v
	return b
}

func (b *BarBuilder) Volume(v num.Num) *BarBuilder {
	b.volume = v
	return b
}

func (b *BarBuilder) Amount(v num.Num) *BarBuilder {
	b.amount = v
	return b
}

func (b *BarBuilder) Trades(n int64) *BarBuilder {
	b.trades = n
	return b
}

// OHLCV sets every price and the volume from plain floats.
func (b *BarBuilder) OHLCV(open, high, low, close, volume float64) *BarBuilder {
	f := b.factory
	return b.Open(f.NumOf(open)).High(f.NumOf(high)).Low(f.NumOf(low)).Close(f.NumOf(close)).Volume(f.NumOf(volume))
}

// AddTrade folds one trade into the open bar.
func (b *BarBuilder) AddTrade(volume, price num.Num) *BarBuilder {
	if b.open == nil {
		b.open = price
	}
	b.close = price
	if b.high == nil || price.IsGreaterThan(b.high) {
		b.high = price
	}
	if b.low == nil || price.IsLessThan(b.low) {
		b.low = price
	}
	if b.volume == nil {
		b.volume = b.factory.Zero()
	}
	if b.amount == nil {
		b.amount = b.factory.Zero()
	}
	b.volume = b.volume.Plus(volume)
	b.amount = b.amount.Plus(volume.MultipliedBy(price))
	b.trades++
	return b
}

// HasTrades reports whether AddTrade was called since the last Reset.
func (b *BarBuilder) HasTrades() bool {
	return b.trades > 0
}

// Reset clears prices and counters but keeps the factory and period.
func (b *BarBuilder) Reset() *BarBuilder {
	*b = BarBuilder{factory: b.factory, period: b.period}
	return b
}

func (b *BarBuilder) Build() (Bar, error) {
	if b.period <= 0 {
		return Bar{}, ErrMissingPeriod
	}
	begin, end := b.begin, b.end
	switch {
	case begin.IsZero() && end.IsZero():
		return Bar{}, ErrMissingTime
	case begin.IsZero():
		begin = end.Add(-b.period)
	case end.IsZero():
		end = begin.Add(b.period)
	case !end.Equal(begin.Add(b.period)):
		return Bar{}, ErrTimeMismatch
	}
	return Bar{
		TimePeriod: b.period,
		BeginTime:  begin,
		EndTime:    end,
		Open:       orNaN(b.open),
		High:       orNaN(b.high),
		Low:        orNaN(b.low),
		Close:      orNaN(b.close),
		Volume:     orValue(b.volume, b.factory.Zero()),
		Amount:     orValue(b.amount, b.factory.Zero()),
		Trades:     b.trades,
	}, nil
}

func orNaN(v num.Num) num.Num {
	return orValue(v, num.NaN)
}

func orValue(v, fallback num.Num) num.Num {
	if v == nil {
		return fallback
	}
	return v
}
