// Package indicator implements the incremental indicator graph. Every node is
// a Cached value memoized for the last index it computed. Sequential access
// (index, index+1, ...) takes the node's fast path, anything else rebuilds the
// node state from the retained bars.
package indicator

import (
	"errors"
	"fmt"
	"taengine/internal/series"
	"taengine/num"
)

var (
	ErrSeriesMismatch  = errors.New("indicators are bound to different series")
	ErrFactoryMismatch = errors.New("indicators use different numeric factories")
)

// Indicator is a value per bar index.
type Indicator[T any] interface {
	// At returns the value at an absolute index. It panics with a
	// *series.IndexError when the index is not retained by the series.
	At(index int) T
	// Value returns the value at the series cursor.
	Value() T
	// Refresh computes the value for the tick, refreshing inputs first. A
	// node refreshes at most once per tick.
	Refresh(tick series.Tick)
	IsStable() bool
	UnstableBars() int
	Series() *series.BarSeries
}

type (
	Numeric = Indicator[num.Num]
	Boolean = Indicator[bool]
)

type refresher interface {
	Refresh(tick series.Tick)
}

// step computes one node value. prior is true when the step's own state
// still describes index-1, so an O(1) update is allowed.
type step[T any] interface {
	calculate(index int, prior bool) T
}

// depther is implemented by Cached. Inputs that do not implement it are
// treated as stateless.
type depther interface {
	depth() int
}

// chainDepth adds the deepest input lookback to the node's own lookback.
// Recursive nodes carry only their value at index-1, so their own lookback
// is 1 however long the recursion runs.
func chainDepth(lookback int, inputs []refresher) int {
	deepest := 0
	for _, in := range inputs {
		if d, ok := in.(depther); ok {
			deepest = max(deepest, d.depth())
		}
	}
	return lookback + deepest
}

// Cached memoizes a step for the last computed index.
type Cached[T any] struct {
	series *series.BarSeries
	step   step[T]
	// lookback is how many bars before index the memoized state depends
	// on, through the inputs.
	lookback int
	unstable int
	inputs   []refresher
	guard    series.TickGuard

	index int
	value T
	valid bool
	// floor is the oldest index the step state refers to.
	floor int
}

func newCached[T any](s *series.BarSeries, st step[T], lookback, unstable int, inputs ...refresher) *Cached[T] {
	return &Cached[T]{
		series:   s,
		step:     st,
		lookback: chainDepth(lookback, inputs),
		unstable: unstable,
		inputs:   inputs,
	}
}

func (c *Cached[T]) At(index int) T {
	if err := c.series.CheckIndex(index); err != nil {
		panic(err)
	}
	begin := c.series.BeginIndex()
	prior := false
	if c.valid && c.floor >= begin {
		if index == c.index {
			return c.value
		}
		prior = index == c.index+1
	}
	v := c.step.calculate(index, prior)
	c.index, c.value, c.valid = index, v, true
	c.floor = max(index-c.lookback, begin)
	return v
}

func (c *Cached[T]) Value() T {
	return c.At(c.series.CurrentIndex())
}

func (c *Cached[T]) Refresh(tick series.Tick) {
	if !c.guard.Enter(tick) {
		return
	}
	for _, in := range c.inputs {
		in.Refresh(tick)
	}
	if c.series.CheckIndex(tick.Index) == nil {
		c.At(tick.Index)
	}
}

func (c *Cached[T]) IsStable() bool {
	return c.series.CurrentIndex()+1 > c.unstable
}

func (c *Cached[T]) depth() int                { return c.lookback }
func (c *Cached[T]) UnstableBars() int         { return c.unstable }
func (c *Cached[T]) Series() *series.BarSeries { return c.series }

func mustWindow(w int) {
	if w <= 0 {
		panic(fmt.Sprintf("indicator: window must be positive, got %d", w))
	}
}

// compatible checks that every operand shares a series and numeric factory.
func compatible(ops ...Numeric) error {
	s := ops[0].Series()
	for _, op := range ops[1:] {
		if op.Series() != s {
			return ErrSeriesMismatch
		}
	}
	return nil
}

// sameFactory checks that a constant operand matches the series factory.
func sameFactory(s *series.BarSeries, v num.Num) error {
	if !num.SameFactory(s.Factory(), v) {
		return fmt.Errorf("%s value %s: %w", s.Factory().Name(), v, ErrFactoryMismatch)
	}
	return nil
}

func maxUnstable[T any](ins ...Indicator[T]) int {
	n := 0
	for _, in := range ins {
		n = max(n, in.UnstableBars())
	}
	return n
}

// windowStart is the first retained index of a window of w bars ending at i.
func windowStart(s *series.BarSeries, i, w int) int {
	return max(s.BeginIndex(), i-w+1)
}
