package rule

import (
	"fmt"
	"taengine/internal/indicator"
	"taengine/internal/series"
	"taengine/internal/trading"
	"taengine/num"
)

type satisfied struct {
	ind indicator.Boolean
}

func (s satisfied) IsSatisfied(*trading.Record) bool { return s.ind.Value() }
func (s satisfied) Refresh(tick series.Tick)         { s.ind.Refresh(tick) }
func (s satisfied) IsStable() bool                   { return s.ind.IsStable() }

// Satisfied follows a boolean indicator.
func Satisfied(ind indicator.Boolean) Rule {
	return satisfied{ind: ind}
}

// CrossedUp is satisfied on the tick where a crosses above b.
func CrossedUp(a, b indicator.Numeric) (Rule, error) {
	ind, err := indicator.CrossedUp(a, b)
	if err != nil {
		return nil, fmt.Errorf("crossed up rule: %w", err)
	}
	return Satisfied(ind), nil
}

// CrossedDown is satisfied on the tick where a crosses below b.
func CrossedDown(a, b indicator.Numeric) (Rule, error) {
	ind, err := indicator.CrossedDown(a, b)
	if err != nil {
		return nil, fmt.Errorf("crossed down rule: %w", err)
	}
	return Satisfied(ind), nil
}

func CrossedUpThreshold(a indicator.Numeric, v num.Num) (Rule, error) {
	ind, err := indicator.CrossedUpValue(a, v)
	if err != nil {
		return nil, fmt.Errorf("crossed up rule: %w", err)
	}
	return Satisfied(ind), nil
}

func CrossedDownThreshold(a indicator.Numeric, v num.Num) (Rule, error) {
	ind, err := indicator.CrossedDownValue(a, v)
	if err != nil {
		return nil, fmt.Errorf("crossed down rule: %w", err)
	}
	return Satisfied(ind), nil
}

type comparison struct {
	a, b  indicator.Numeric
	over  bool
	guard series.TickGuard
}

func (c *comparison) IsSatisfied(*trading.Record) bool {
	x, y := c.a.Value(), c.b.Value()
	if c.over {
		return x.IsGreaterThan(y)
	}
	return x.IsLessThan(y)
}

func (c *comparison) Refresh(tick series.Tick) {
	if !c.guard.Enter(tick) {
		return
	}
	c.a.Refresh(tick)
	c.b.Refresh(tick)
}

func (c *comparison) IsStable() bool {
	return c.a.IsStable() && c.b.IsStable()
}

func newComparison(a, b indicator.Numeric, over bool) (Rule, error) {
	if a.Series() != b.Series() {
		return nil, fmt.Errorf("comparison rule: %w", indicator.ErrSeriesMismatch)
	}
	return &comparison{a: a, b: b, over: over}, nil
}

// Over is satisfied while a is strictly above b. NaN never satisfies it.
func Over(a, b indicator.Numeric) (Rule, error) {
	return newComparison(a, b, true)
}

// Under is satisfied while a is strictly below b.
func Under(a, b indicator.Numeric) (Rule, error) {
	return newComparison(a, b, false)
}

func OverThreshold(a indicator.Numeric, v num.Num) (Rule, error) {
	c, err := indicator.Constant(a.Series(), v)
	if err != nil {
		return nil, fmt.Errorf("over rule: %w", err)
	}
	return Over(a, c)
}

func UnderThreshold(a indicator.Numeric, v num.Num) (Rule, error) {
	c, err := indicator.Constant(a.Series(), v)
	if err != nil {
		return nil, fmt.Errorf("under rule: %w", err)
	}
	return Under(a, c)
}
