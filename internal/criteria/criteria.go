// Package criteria scores trading records and single positions.
package criteria

import (
	"errors"
	"fmt"
	"sort"
	"taengine/internal/series"
	"taengine/internal/trading"
	"taengine/num"
)

var ErrUnknownCriterion = errors.New("unknown criterion")

// Criterion is a stateless scoring function. Values are produced by the
// series factory.
type Criterion interface {
	Name() string
	Calculate(s *series.BarSeries, rec *trading.Record) num.Num
	CalculatePosition(s *series.BarSeries, p trading.Position) num.Num
	// BetterThan reports whether a is a better score than b.
	BetterThan(a, b num.Num) bool
}

var builtins = map[string]func() Criterion{
	"number_of_positions":     func() Criterion { return NewNumberOfPositions() },
	"number_of_bars":          func() Criterion { return NumberOfBars{} },
	"profit_loss":             func() Criterion { return ProfitLoss{} },
	"gross_return":            func() Criterion { return GrossReturn{} },
	"profit_loss_ratio":       func() Criterion { return ProfitLossRatio{} },
	"profit_loss_variance":    func() Criterion { return NewVariance(ProfitLoss{}) },
	"winning_positions_ratio": func() Criterion { return WinningPositionsRatio{} },
	"maximum_drawdown":        func() Criterion { return MaximumDrawdown{} },
	"max_consecutive_losses":  func() Criterion { return MaxConsecutiveLosses{} },
	"sharpe_ratio":            func() Criterion { return SharpeRatio{} },
}

// ByName returns a criterion with its default settings.
func ByName(name string) (Criterion, error) {
	mk, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownCriterion)
	}
	return mk(), nil
}

// Names lists the criteria known to ByName, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func greater(a, b num.Num) bool { return a.IsGreaterThan(b) }
func less(a, b num.Num) bool    { return a.IsLessThan(b) }
