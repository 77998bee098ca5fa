// Package rsi is a mean reversion strategy: it buys when the RSI recovers
// from oversold and sells when it falls back from overbought.
package rsi

import (
	"errors"
	"fmt"
	"taengine/internal/indicator"
	"taengine/internal/rule"
	"taengine/internal/series"
	"taengine/internal/strategy"
)

const Name = "rsi"

var ErrInvalidLevels = errors.New("rsi levels must satisfy 0 <= oversold < overbought <= 100")

type Config struct {
	Period     int
	Oversold   float64
	Overbought float64
	// StopLoss and TakeProfit are percentages of the entry price, zero
	// disables them.
	StopLoss   float64
	TakeProfit float64
}

func ConfigFrom(p strategy.Params) Config {
	return Config{
		Period:     p.Int("period", 14),
		Oversold:   p.Float("oversold", 30),
		Overbought: p.Float("overbought", 70),
		StopLoss:   p.Float("stop_loss", 0),
		TakeProfit: p.Float("take_profit", 0),
	}
}

func Build(p strategy.Params) (strategy.Factory, error) {
	return New(ConfigFrom(p))
}

func New(cfg Config) (strategy.Factory, error) {
	if cfg.Period <= 0 {
		return nil, fmt.Errorf("rsi period %d must be positive", cfg.Period)
	}
	if cfg.Oversold < 0 || cfg.Oversold >= cfg.Overbought || cfg.Overbought > 100 {
		return nil, fmt.Errorf("%w: got %v and %v", ErrInvalidLevels, cfg.Oversold, cfg.Overbought)
	}
	name := fmt.Sprintf("%s_%d", Name, cfg.Period)

	return func(s *series.BarSeries) (*strategy.Strategy, error) {
		f := s.Factory()
		closePrice := indicator.ClosePrice(s)
		rsi := indicator.RSI(closePrice, cfg.Period)

		entry, err := rule.CrossedUpThreshold(rsi, f.NumOf(cfg.Oversold))
		if err != nil {
			return nil, err
		}
		exit, err := rule.CrossedDownThreshold(rsi, f.NumOf(cfg.Overbought))
		if err != nil {
			return nil, err
		}
		if cfg.StopLoss > 0 {
			stop, err := rule.StopLoss(closePrice, f.NumOf(cfg.StopLoss))
			if err != nil {
				return nil, err
			}
			exit = rule.Or(exit, stop)
		}
		if cfg.TakeProfit > 0 {
			gain, err := rule.StopGain(closePrice, f.NumOf(cfg.TakeProfit))
			if err != nil {
				return nil, err
			}
			exit = rule.Or(exit, gain)
		}

		return strategy.New(name, s, entry, exit, rsi.UnstableBars()), nil
	}, nil
}
