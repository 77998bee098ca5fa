// Package donchian trades channel breakouts: buy a break of the highest high
// of the preceding bars, sell a break of their lowest low or when price
// falls a multiple of the ATR below the entry.
package donchian

import (
	"fmt"
	"taengine/internal/indicator"
	"taengine/internal/rule"
	"taengine/internal/series"
	"taengine/internal/strategy"
	"taengine/internal/trading"
	"taengine/num"
	"taengine/types"
)

const Name = "donchian"

type Config struct {
	// Channel is the number of completed bars the breakout levels span.
	Channel int
	ATR     int
	// ATRMultiple sets the stop distance, zero disables the stop.
	ATRMultiple float64
}

// ConfigFrom reads "channel", "atr" and "atr_multiple". The defaults are a
// 20 bar channel with a 2 ATR(20) stop.
func ConfigFrom(p strategy.Params) Config {
	return Config{
		Channel:     p.Int("channel", 20),
		ATR:         p.Int("atr", 20),
		ATRMultiple: p.Float("atr_multiple", 2),
	}
}

func Build(p strategy.Params) (strategy.Factory, error) {
	return New(ConfigFrom(p))
}

func New(cfg Config) (strategy.Factory, error) {
	if cfg.Channel <= 0 || cfg.ATR <= 0 || cfg.ATRMultiple < 0 {
		return nil, fmt.Errorf("invalid donchian config %+v", cfg)
	}
	name := fmt.Sprintf("%s_%d", Name, cfg.Channel)

	return func(s *series.BarSeries) (*strategy.Strategy, error) {
		high := indicator.HighPrice(s)
		low := indicator.LowPrice(s)
		// channel of the preceding bars, excluding the current one
		upper := indicator.Previous(indicator.Highest(high, cfg.Channel), 1)
		lower := indicator.Previous(indicator.Lowest(low, cfg.Channel), 1)

		entry, err := rule.Over(high, upper)
		if err != nil {
			return nil, err
		}
		exit, err := rule.Under(low, lower)
		if err != nil {
			return nil, err
		}

		unstable := cfg.Channel
		if cfg.ATRMultiple > 0 {
			atr := indicator.ATR(s, cfg.ATR)
			exit = rule.Or(exit, ATRStop(indicator.ClosePrice(s), atr, s.Factory().NumOf(cfg.ATRMultiple)))
			unstable = max(unstable, atr.UnstableBars())
		}
		return strategy.New(name, s, entry, exit, unstable), nil
	}, nil
}

type atrStop struct {
	price indicator.Numeric
	atr   indicator.Numeric
	mult  num.Num
	guard series.TickGuard
}

// ATRStop is satisfied when price moved more than mult times the current
// ATR against the open position's entry.
func ATRStop(price, atr indicator.Numeric, mult num.Num) rule.Rule {
	return &atrStop{price: price, atr: atr, mult: mult}
}

func (a *atrStop) IsSatisfied(rec *trading.Record) bool {
	if rec == nil || !rec.IsOpened() {
		return false
	}
	entry := rec.CurrentPosition().Entry
	distance := a.atr.Value().MultipliedBy(a.mult)
	if entry.Type == types.TradeTypeBuy {
		return a.price.Value().IsLessThan(entry.Price.Minus(distance))
	}
	return a.price.Value().IsGreaterThan(entry.Price.Plus(distance))
}

func (a *atrStop) Refresh(tick series.Tick) {
	if !a.guard.Enter(tick) {
		return
	}
	a.price.Refresh(tick)
	a.atr.Refresh(tick)
}

func (a *atrStop) IsStable() bool {
	return a.price.IsStable() && a.atr.IsStable()
}
