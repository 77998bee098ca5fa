package rule

import (
	"fmt"
	"taengine/internal/indicator"
	"taengine/internal/series"
	"taengine/internal/trading"
	"taengine/num"
	"taengine/types"
)

type waitFor struct {
	s         *series.BarSeries
	tradeType types.TradeType
	bars      int
}

func (w waitFor) IsSatisfied(rec *trading.Record) bool {
	if rec == nil {
		return false
	}
	last, ok := rec.LastTradeOfType(w.tradeType)
	if !ok {
		return false
	}
	return w.s.CurrentIndex()-last.Index >= w.bars
}

func (waitFor) Refresh(series.Tick) {}
func (waitFor) IsStable() bool      { return true }

// WaitFor is satisfied once bars bars have passed since the last trade of
// tradeType. It is never satisfied without such a trade.
func WaitFor(s *series.BarSeries, tradeType types.TradeType, bars int) Rule {
	return waitFor{s: s, tradeType: tradeType, bars: bars}
}

// threshold compares the price against the entry of the open position moved
// by a percentage.
type threshold struct {
	price indicator.Numeric
	pct   num.Num
	gain  bool
}

func (t threshold) IsSatisfied(rec *trading.Record) bool {
	if rec == nil || !rec.IsOpened() {
		return false
	}
	entry := rec.CurrentPosition().Entry
	f := rec.Factory()
	move := entry.Price.MultipliedBy(t.pct).DividedBy(f.Hundred())
	price := t.price.Value()
	// a long position gains above the entry, a short one below it
	up := (entry.Type == types.TradeTypeBuy) == t.gain
	if up {
		return price.IsGreaterThanOrEqual(entry.Price.Plus(move))
	}
	return price.IsLessThanOrEqual(entry.Price.Minus(move))
}

func (t threshold) Refresh(tick series.Tick) { t.price.Refresh(tick) }
func (t threshold) IsStable() bool           { return t.price.IsStable() }

func newThreshold(price indicator.Numeric, pct num.Num, gain bool) (Rule, error) {
	if !num.SameFactory(price.Series().Factory(), pct) || pct.IsNaN() {
		return nil, fmt.Errorf("percentage %s: %w", pct, indicator.ErrFactoryMismatch)
	}
	return threshold{price: price, pct: pct, gain: gain}, nil
}

// StopLoss is satisfied when the open position lost at least pct percent.
func StopLoss(price indicator.Numeric, pct num.Num) (Rule, error) {
	return newThreshold(price, pct, false)
}

// StopGain is satisfied when the open position gained at least pct percent.
func StopGain(price indicator.Numeric, pct num.Num) (Rule, error) {
	return newThreshold(price, pct, true)
}
