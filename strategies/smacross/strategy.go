// Package smacross trades moving average crossovers: a golden cross of the
// fast over the slow SMA enters, a death cross exits.
package smacross

import (
	"errors"
	"fmt"
	"taengine/internal/indicator"
	"taengine/internal/rule"
	"taengine/internal/series"
	"taengine/internal/strategy"
)

const Name = "smacross"

var ErrInvalidPeriods = errors.New("fast period must be positive and below the slow period")

// Config holds the crossover parameters.
type Config struct {
	Fast int
	Slow int
	// RSI, when positive, adds an RSI filter of that period that blocks
	// entries while the market is overbought.
	RSI        int
	Overbought float64
	// StopLoss is a percentage below the entry price, zero disables it.
	StopLoss float64
}

// ConfigFrom reads "fast", "slow", "rsi", "overbought" and "stop_loss".
func ConfigFrom(p strategy.Params) Config {
	return Config{
		Fast:       p.Int("fast", 9),
		Slow:       p.Int("slow", 21),
		RSI:        p.Int("rsi", 0),
		Overbought: p.Float("overbought", 70),
		StopLoss:   p.Float("stop_loss", 0),
	}
}

func (c Config) validate() error {
	if c.Fast <= 0 || c.Fast >= c.Slow {
		return fmt.Errorf("%w: fast %d, slow %d", ErrInvalidPeriods, c.Fast, c.Slow)
	}
	if c.RSI < 0 || c.StopLoss < 0 {
		return fmt.Errorf("rsi period and stop loss must not be negative")
	}
	return nil
}

// Build is the registry builder.
func Build(p strategy.Params) (strategy.Factory, error) {
	return New(ConfigFrom(p))
}

// New validates cfg and returns a factory for fresh crossover strategies.
func New(cfg Config) (strategy.Factory, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s_%d_%d", Name, cfg.Fast, cfg.Slow)

	return func(s *series.BarSeries) (*strategy.Strategy, error) {
		closePrice := indicator.ClosePrice(s)
		fast := indicator.SMA(closePrice, cfg.Fast)
		slow := indicator.SMA(closePrice, cfg.Slow)

		entry, err := rule.CrossedUp(fast, slow)
		if err != nil {
			return nil, err
		}
		exit, err := rule.CrossedDown(fast, slow)
		if err != nil {
			return nil, err
		}

		unstable := cfg.Slow
		if cfg.RSI > 0 {
			rsi := indicator.RSI(closePrice, cfg.RSI)
			notOverbought, err := rule.UnderThreshold(rsi, s.Factory().NumOf(cfg.Overbought))
			if err != nil {
				return nil, err
			}
			entry = rule.And(entry, notOverbought)
			unstable = max(unstable, rsi.UnstableBars())
		}
		if cfg.StopLoss > 0 {
			stop, err := rule.StopLoss(closePrice, s.Factory().NumOf(cfg.StopLoss))
			if err != nil {
				return nil, err
			}
			exit = rule.Or(exit, stop)
		}

		return strategy.New(name, s, entry, exit, unstable), nil
	}, nil
}
