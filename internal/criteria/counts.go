package criteria

import (
	"taengine/internal/series"
	"taengine/internal/trading"
	"taengine/num"
)

// NumberOfPositions counts closed positions.
type NumberOfPositions struct {
	LessIsBetter bool
}

func NewNumberOfPositions() NumberOfPositions {
	return NumberOfPositions{LessIsBetter: true}
}

func (NumberOfPositions) Name() string { return "number_of_positions" }

func (NumberOfPositions) Calculate(s *series.BarSeries, rec *trading.Record) num.Num {
	return s.Factory().NumOfInt(int64(rec.PositionCount()))
}

func (NumberOfPositions) CalculatePosition(s *series.BarSeries, _ trading.Position) num.Num {
	return s.Factory().One()
}

func (c NumberOfPositions) BetterThan(a, b num.Num) bool {
	if c.LessIsBetter {
		return less(a, b)
	}
	return greater(a, b)
}

// NumberOfBars sums the bars spent in closed positions, entry and exit bars
// included.
type NumberOfBars struct{}

func (NumberOfBars) Name() string { return "number_of_bars" }

func (c NumberOfBars) Calculate(s *series.BarSeries, rec *trading.Record) num.Num {
	total := s.Factory().Zero()
	for _, p := range rec.ClosedPositions() {
		total = total.Plus(c.CalculatePosition(s, p))
	}
	return total
}

func (NumberOfBars) CalculatePosition(s *series.BarSeries, p trading.Position) num.Num {
	if !p.IsClosed() {
		return s.Factory().Zero()
	}
	return s.Factory().NumOfInt(int64(p.Exit.Index - p.Entry.Index + 1))
}

func (NumberOfBars) BetterThan(a, b num.Num) bool { return less(a, b) }

// WinningPositionsRatio is the share of closed positions with a positive
// net profit.
type WinningPositionsRatio struct{}

func (WinningPositionsRatio) Name() string { return "winning_positions_ratio" }

func (WinningPositionsRatio) Calculate(s *series.BarSeries, rec *trading.Record) num.Num {
	f := s.Factory()
	closed := rec.ClosedPositions()
	if len(closed) == 0 {
		return f.Zero()
	}
	wins := 0
	for _, p := range closed {
		if p.IsProfitable() {
			wins++
		}
	}
	return f.NumOfInt(int64(wins)).DividedBy(f.NumOfInt(int64(len(closed))))
}

func (WinningPositionsRatio) CalculatePosition(s *series.BarSeries, p trading.Position) num.Num {
	if p.IsProfitable() {
		return s.Factory().One()
	}
	return s.Factory().Zero()
}

func (WinningPositionsRatio) BetterThan(a, b num.Num) bool { return greater(a, b) }

// MaxConsecutiveLosses is the longest run of closed positions with a
// negative net profit.
type MaxConsecutiveLosses struct{}

func (MaxConsecutiveLosses) Name() string { return "max_consecutive_losses" }

func (MaxConsecutiveLosses) Calculate(s *series.BarSeries, rec *trading.Record) num.Num {
	maxStreak, cur := 0, 0
	for _, p := range rec.ClosedPositions() {
		if p.IsLosing() {
			cur++
			if cur > maxStreak {
				maxStreak = cur
			}
		} else {
			cur = 0
		}
	}
	return s.Factory().NumOfInt(int64(maxStreak))
}

func (MaxConsecutiveLosses) CalculatePosition(s *series.BarSeries, p trading.Position) num.Num {
	if p.IsClosed() && p.IsLosing() {
		return s.Factory().One()
	}
	return s.Factory().Zero()
}

func (MaxConsecutiveLosses) BetterThan(a, b num.Num) bool { return less(a, b) }
