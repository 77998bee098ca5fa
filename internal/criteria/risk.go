package criteria

import (
	"math"
	"taengine/internal/series"
	"taengine/internal/trading"
	"taengine/num"
	"taengine/types"
)

// Variance is the population variance of an inner criterion evaluated on
// each closed position.
type Variance struct {
	Criterion    Criterion
	LessIsBetter bool
}

func NewVariance(inner Criterion) Variance {
	return Variance{Criterion: inner, LessIsBetter: true}
}

func (c Variance) Name() string { return c.Criterion.Name() + "_variance" }

func (c Variance) Calculate(s *series.BarSeries, rec *trading.Record) num.Num {
	f := s.Factory()
	closed := rec.ClosedPositions()
	if len(closed) == 0 {
		return f.Zero()
	}
	values := make([]num.Num, len(closed))
	mean := f.Zero()
	for i, p := range closed {
		values[i] = c.Criterion.CalculatePosition(s, p)
		mean = mean.Plus(values[i])
	}
	n := f.NumOfInt(int64(len(values)))
	mean = mean.DividedBy(n)
	sum := f.Zero()
	for _, v := range values {
		sum = sum.Plus(v.Minus(mean).Pow(2))
	}
	return sum.DividedBy(n)
}

// CalculatePosition is zero: a single sample has no spread.
func (Variance) CalculatePosition(s *series.BarSeries, _ trading.Position) num.Num {
	return s.Factory().Zero()
}

func (c Variance) BetterThan(a, b num.Num) bool {
	if c.LessIsBetter {
		return less(a, b)
	}
	return greater(a, b)
}

// MaximumDrawdown is the largest peak to trough decline of the cash flow
// curve, as a fraction of the peak.
type MaximumDrawdown struct{}

func (MaximumDrawdown) Name() string { return "maximum_drawdown" }

func (c MaximumDrawdown) Calculate(s *series.BarSeries, rec *trading.Record) num.Num {
	return drawdown(s.Factory(), CashFlow(s, rec.Positions()))
}

func (c MaximumDrawdown) CalculatePosition(s *series.BarSeries, p trading.Position) num.Num {
	if p.IsNew() {
		return s.Factory().Zero()
	}
	return drawdown(s.Factory(), CashFlow(s, []trading.Position{p}))
}

func (MaximumDrawdown) BetterThan(a, b num.Num) bool { return less(a, b) }

func drawdown(f num.Factory, flow []num.Num) num.Num {
	maxDD := f.Zero()
	if len(flow) == 0 {
		return maxDD
	}
	peak := flow[0]
	for _, v := range flow {
		if v.IsGreaterThan(peak) {
			peak = v
		}
		if dd := peak.Minus(v).DividedBy(peak); dd.IsGreaterThan(maxDD) {
			maxDD = dd
		}
	}
	return maxDD
}

// CashFlow values one unit of capital at every retained bar, starting at
// one on the first bar. Inside a position the value follows the close
// relative to the entry price, using the exit price on the exit bar; outside
// positions it stays flat. An open position is marked to the last bar.
func CashFlow(s *series.BarSeries, positions []trading.Position) []num.Num {
	f := s.Factory()
	if s.IsEmpty() {
		return nil
	}
	begin, end := s.BeginIndex(), s.EndIndex()
	flow := make([]num.Num, 0, end-begin+1)
	flow = append(flow, f.One())
	last := func() num.Num { return flow[len(flow)-1] }
	extend := func(to int) {
		for begin+len(flow)-1 < to {
			flow = append(flow, last())
		}
	}

	for _, p := range positions {
		if p.IsNew() || p.Entry.Index > end {
			continue
		}
		entry := max(p.Entry.Index, begin)
		extend(entry)
		exit := end
		if p.IsClosed() {
			exit = min(p.Exit.Index, end)
		}
		base := flow[entry-begin]
		for i := entry + 1; i <= exit; i++ {
			price := s.MustBar(i).Close
			if p.IsClosed() && i == p.Exit.Index {
				price = p.Exit.Price
			}
			ratio := price.DividedBy(p.Entry.Price)
			if p.Entry.Type == types.TradeTypeSell {
				ratio = f.Two().Minus(ratio)
			}
			value := base.MultipliedBy(ratio)
			if i-begin < len(flow) {
				flow[i-begin] = value
			} else {
				flow = append(flow, value)
			}
		}
	}
	extend(end)
	return flow
}

// SharpeRatio is the mean excess return per closed position over the sample
// standard deviation of those returns. It is zero with fewer than two
// positions or without dispersion.
type SharpeRatio struct {
	// RiskFree is the per position risk free return.
	RiskFree float64
}

func (SharpeRatio) Name() string { return "sharpe_ratio" }

func (c SharpeRatio) Calculate(s *series.BarSeries, rec *trading.Record) num.Num {
	closed := rec.ClosedPositions()
	if len(closed) < 2 {
		return s.Factory().Zero()
	}

	excess := make([]float64, 0, len(closed))
	for _, p := range closed {
		excess = append(excess, p.GrossReturn().Float64()-1-c.RiskFree)
	}

	var sum float64
	for _, x := range excess {
		sum += x
	}
	mean := sum / float64(len(excess))

	var varianceSum float64
	for _, x := range excess {
		diff := x - mean
		varianceSum += diff * diff
	}
	std := math.Sqrt(varianceSum / float64(len(excess)-1))
	if std == 0 || math.IsNaN(std) {
		return s.Factory().Zero()
	}
	return s.Factory().NumOf(mean / std)
}

func (SharpeRatio) CalculatePosition(s *series.BarSeries, _ trading.Position) num.Num {
	return s.Factory().Zero()
}

func (SharpeRatio) BetterThan(a, b num.Num) bool { return greater(a, b) }
