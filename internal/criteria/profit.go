package criteria

import (
	"taengine/internal/series"
	"taengine/internal/trading"
	"taengine/num"
)

// ProfitLoss is the net profit of closed positions.
type ProfitLoss struct{}

func (ProfitLoss) Name() string { return "profit_loss" }

func (ProfitLoss) Calculate(s *series.BarSeries, rec *trading.Record) num.Num {
	total := s.Factory().Zero()
	for _, p := range rec.ClosedPositions() {
		total = total.Plus(p.Profit())
	}
	return total
}

func (ProfitLoss) CalculatePosition(s *series.BarSeries, p trading.Position) num.Num {
	if !p.IsClosed() {
		return s.Factory().Zero()
	}
	return p.Profit()
}

func (ProfitLoss) BetterThan(a, b num.Num) bool { return greater(a, b) }

// GrossReturn compounds the gross return of every closed position. A record
// without positions returns one.
type GrossReturn struct{}

func (GrossReturn) Name() string { return "gross_return" }

func (GrossReturn) Calculate(s *series.BarSeries, rec *trading.Record) num.Num {
	total := s.Factory().One()
	for _, p := range rec.ClosedPositions() {
		total = total.MultipliedBy(p.GrossReturn())
	}
	return total
}

func (GrossReturn) CalculatePosition(s *series.BarSeries, p trading.Position) num.Num {
	if !p.IsClosed() {
		return s.Factory().One()
	}
	return p.GrossReturn()
}

func (GrossReturn) BetterThan(a, b num.Num) bool { return greater(a, b) }

// ProfitLossRatio is the average winning profit over the average losing
// loss, in absolute terms. Without winners it is zero, without losers one.
type ProfitLossRatio struct{}

func (ProfitLossRatio) Name() string { return "profit_loss_ratio" }

func (c ProfitLossRatio) Calculate(s *series.BarSeries, rec *trading.Record) num.Num {
	return c.ratio(s.Factory(), rec.ClosedPositions())
}

func (c ProfitLossRatio) CalculatePosition(s *series.BarSeries, p trading.Position) num.Num {
	if !p.IsClosed() {
		return s.Factory().Zero()
	}
	return c.ratio(s.Factory(), []trading.Position{p})
}

func (ProfitLossRatio) ratio(f num.Factory, positions []trading.Position) num.Num {
	gains, losses := f.Zero(), f.Zero()
	wins, losing := 0, 0
	for _, p := range positions {
		profit := p.Profit()
		switch {
		case profit.IsPositive():
			gains = gains.Plus(profit)
			wins++
		case profit.IsNegative():
			losses = losses.Plus(profit)
			losing++
		}
	}
	if wins == 0 {
		return f.Zero()
	}
	if losing == 0 {
		return f.One()
	}
	avgProfit := gains.DividedBy(f.NumOfInt(int64(wins)))
	avgLoss := losses.DividedBy(f.NumOfInt(int64(losing)))
	return avgProfit.DividedBy(avgLoss).Abs()
}

func (ProfitLossRatio) BetterThan(a, b num.Num) bool { return greater(a, b) }
