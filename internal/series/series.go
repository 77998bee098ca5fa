// Package series holds the bar series and its advance cursor. The cursor is
// the only notion of "current time" the indicator graph knows about.
package series

import (
	"errors"
	"fmt"
	"taengine/num"
	"taengine/types"
	"time"
)

var (
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	ErrBarOutOfOrder    = errors.New("bar must end after and begin no earlier than the end of the previous bar")
	ErrFactoryMismatch  = errors.New("bar built with a different numeric factory")
)

// IndexError reports an access outside the retained bars.
type IndexError struct {
	Index int
	Begin int
	End   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d outside [%d, %d]", e.Index, e.Begin, e.End)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfBounds }

// Tick identifies one advance of the cursor. Seq is unique per series and
// strictly increasing, even across Rewind.
type Tick struct {
	Seq   uint64
	Index int
	Time  time.Time
}

// TickGuard lets a node run its refresh once per tick no matter how many
// parents forward the same tick to it.
type TickGuard struct {
	seq uint64
}

// Enter returns false if the tick was already seen.
func (g *TickGuard) Enter(t Tick) bool {
	if t.Seq == g.seq {
		return false
	}
	g.seq = t.Seq
	return true
}

// BarSeries is an ordered, optionally bounded collection of bars with a
// single cursor. Indices are absolute: evicting the oldest bar moves
// BeginIndex forward instead of renumbering the remaining bars.
//
// A BarSeries is not safe for concurrent mutation. Concurrent reads are safe
// between two calls to AddBar or Advance.
type BarSeries struct {
	name        string
	factory     num.Factory
	bars        []types.Bar
	maxBarCount int
	removed     int
	cursor      int
	seq         uint64
}

type Option func(*BarSeries)

// WithMaxBarCount bounds the number of retained bars. Zero means unbounded.
func WithMaxBarCount(n int) Option {
	return func(s *BarSeries) {
		s.maxBarCount = n
	}
}

func New(name string, f num.Factory, opts ...Option) *BarSeries {
	s := &BarSeries{
		name:    name,
		factory: f,
		cursor:  -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BarSeries) Name() string         { return s.name }
func (s *BarSeries) Factory() num.Factory { return s.factory }
func (s *BarSeries) MaxBarCount() int     { return s.maxBarCount }
func (s *BarSeries) RemovedBars() int     { return s.removed }
func (s *BarSeries) BarCount() int        { return len(s.bars) }
func (s *BarSeries) IsEmpty() bool        { return len(s.bars) == 0 }
func (s *BarSeries) BeginIndex() int      { return s.removed }
func (s *BarSeries) EndIndex() int        { return s.removed + len(s.bars) - 1 }

// CurrentIndex returns the cursor, -1 before the first Advance.
func (s *BarSeries) CurrentIndex() int { return s.cursor }

// Tick describes the current cursor position.
func (s *BarSeries) Tick() Tick {
	return Tick{Seq: s.seq, Index: s.cursor, Time: s.cursorTime()}
}

// NewBarBuilder returns a builder using the series factory and the period
// of the last bar.
func (s *BarSeries) NewBarBuilder() *types.BarBuilder {
	b := types.NewBarBuilder(s.factory)
	if n := len(s.bars); n > 0 {
		b.TimePeriod(s.bars[n-1].TimePeriod)
	}
	return b
}

// AddBar appends a sealed bar, evicting the oldest one when the series is at
// capacity.
func (s *BarSeries) AddBar(bar types.Bar) error {
	if f := bar.Factory(); f != nil && f != s.factory {
		return fmt.Errorf("add bar ending %s: %w", bar.EndTime.Format(time.RFC3339), ErrFactoryMismatch)
	}
	if n := len(s.bars); n > 0 {
		prev := s.bars[n-1]
		if !bar.EndTime.After(prev.EndTime) {
			return fmt.Errorf("add bar ending %s after %s: %w",
				bar.EndTime.Format(time.RFC3339), prev.EndTime.Format(time.RFC3339), ErrBarOutOfOrder)
		}
		if bar.BeginTime.Before(prev.EndTime) {
			return fmt.Errorf("add bar beginning %s before the previous end %s: %w",
				bar.BeginTime.Format(time.RFC3339), prev.EndTime.Format(time.RFC3339), ErrBarOutOfOrder)
		}
	}
	s.bars = append(s.bars, bar)
	s.evict()
	return nil
}

func (s *BarSeries) evict() {
	if s.maxBarCount <= 0 || len(s.bars) <= s.maxBarCount {
		return
	}
	drop := len(s.bars) - s.maxBarCount
	// copy keeps the backing array from growing without bound
	s.bars = append(s.bars[:0], s.bars[drop:]...)
	s.removed += drop
}

// CheckIndex returns an *IndexError when i is not a retained index.
func (s *BarSeries) CheckIndex(i int) error {
	if i < s.BeginIndex() || i > s.EndIndex() {
		return &IndexError{Index: i, Begin: s.BeginIndex(), End: s.EndIndex()}
	}
	return nil
}

func (s *BarSeries) Bar(i int) (types.Bar, error) {
	if err := s.CheckIndex(i); err != nil {
		return types.Bar{}, err
	}
	return s.bars[i-s.removed], nil
}

// MustBar is Bar for callers that already validated i. It panics with an
// *IndexError otherwise.
func (s *BarSeries) MustBar(i int) types.Bar {
	bar, err := s.Bar(i)
	if err != nil {
		panic(err)
	}
	return bar
}

func (s *BarSeries) CurrentBar() (types.Bar, error) {
	return s.Bar(s.cursor)
}

func (s *BarSeries) FirstBar() (types.Bar, error) {
	return s.Bar(s.BeginIndex())
}

func (s *BarSeries) LastBar() (types.Bar, error) {
	return s.Bar(s.EndIndex())
}

// Advance moves the cursor to the next retained bar. It returns false, and
// leaves the cursor in place, when no bar follows.
func (s *BarSeries) Advance() bool {
	next := s.cursor + 1
	if next < s.BeginIndex() {
		next = s.BeginIndex()
	}
	if next > s.EndIndex() {
		return false
	}
	s.cursor = next
	s.seq++
	return true
}

// HasNext reports whether Advance would succeed.
func (s *BarSeries) HasNext() bool {
	next := s.cursor + 1
	if next < s.BeginIndex() {
		next = s.BeginIndex()
	}
	return next <= s.EndIndex()
}

// Rewind puts the cursor back before the first bar.
func (s *BarSeries) Rewind() {
	s.cursor = -1
}

func (s *BarSeries) cursorTime() time.Time {
	bar, err := s.Bar(s.cursor)
	if err != nil {
		return time.Time{}
	}
	return bar.EndTime
}
