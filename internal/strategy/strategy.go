// Package strategy pairs entry and exit rules into a tradable strategy and
// keeps a registry of named strategy builders.
package strategy

import (
	"errors"
	"fmt"
	"taengine/internal/rule"
	"taengine/internal/series"
	"taengine/internal/trading"
)

var ErrNoTradingRecord = errors.New("strategy needs a trading record")

// Strategy decides when to enter and exit. It owns its rule graph, so a
// Strategy must not be shared between runs.
type Strategy struct {
	name         string
	entry        rule.Rule
	exit         rule.Rule
	unstableBars int
	series       *series.BarSeries
}

// Factory builds a fresh strategy graph bound to a series. The executor calls
// it once per run so runs never share indicator state.
type Factory func(s *series.BarSeries) (*Strategy, error)

func New(name string, s *series.BarSeries, entry, exit rule.Rule, unstableBars int) *Strategy {
	return &Strategy{
		name:         name,
		entry:        entry,
		exit:         exit,
		unstableBars: unstableBars,
		series:       s,
	}
}

func (s *Strategy) Name() string              { return s.name }
func (s *Strategy) UnstableBars() int         { return s.unstableBars }
func (s *Strategy) Series() *series.BarSeries { return s.series }

// IsUnstableAt reports whether index falls in the warm-up period.
func (s *Strategy) IsUnstableAt(index int) bool {
	return index < s.unstableBars
}

// Refresh forwards the tick to both rule graphs.
func (s *Strategy) Refresh(tick series.Tick) {
	s.entry.Refresh(tick)
	s.exit.Refresh(tick)
}

// ShouldEnter reports whether a position should be opened at the cursor.
func (s *Strategy) ShouldEnter(record *trading.Record) (bool, error) {
	if record == nil {
		return false, fmt.Errorf("%s: %w", s.name, ErrNoTradingRecord)
	}
	if record.IsOpened() || !s.ready(s.entry) {
		return false, nil
	}
	return s.entry.IsSatisfied(record), nil
}

// ShouldExit reports whether the open position should be closed at the
// cursor.
func (s *Strategy) ShouldExit(record *trading.Record) (bool, error) {
	if record == nil {
		return false, fmt.Errorf("%s: %w", s.name, ErrNoTradingRecord)
	}
	if !record.IsOpened() || !s.ready(s.exit) {
		return false, nil
	}
	return s.exit.IsSatisfied(record), nil
}

// ShouldOperate is ShouldEnter or ShouldExit depending on the record.
func (s *Strategy) ShouldOperate(record *trading.Record) (bool, error) {
	if record != nil && record.IsOpened() {
		return s.ShouldExit(record)
	}
	return s.ShouldEnter(record)
}

func (s *Strategy) ready(r rule.Rule) bool {
	return !s.IsUnstableAt(s.series.CurrentIndex()) && r.IsStable()
}
