package engine

import (
	"fmt"
	"io"
	"math"
	"sync"
	"taengine/internal/criteria"
	"taengine/internal/series"
	"taengine/internal/trading"
	"taengine/num"
	"time"
)

type Report struct {
	// Meta / period info
	Strategy    string
	StartDate   time.Time
	TotalPeriod time.Duration
	TotalTrades int
	Positions   int

	// Absolute performance
	NetProfit            num.Num
	NetAvgProfitPerTrade num.Num
	GrossReturn          num.Num
	CAGR                 num.Num

	// Position-level distribution metrics
	AvgWin  num.Num
	AvgLoss num.Num
	WinRate num.Num

	// Drawdown & loss streak metrics
	MaxDrawdownPercent   num.Num
	MaxDrawdownDays      time.Duration
	MaxConsecutiveLosses int

	// Risk-adjusted metrics
	SharpeRatio  num.Num
	ProfitFactor num.Num

	// Costs
	TotalFees num.Num
}

func printReport(w io.Writer, report *Report) {
	fmt.Fprintf(w, "===== Trading Report: %s =====\n", report.Strategy)
	fmt.Fprintf(w, "Start Date:            %s\n", report.StartDate.Format("2006-01-02"))
	fmt.Fprintf(w, "Total Period:          %d days\n", report.TotalPeriod/(24*time.Hour))
	fmt.Fprintf(w, "Total Trades:          %d\n", report.TotalTrades)
	fmt.Fprintf(w, "Closed Positions:      %d\n", report.Positions)

	fmt.Fprintln(w, "\n-- Absolute Performance --")
	fmt.Fprintf(w, "Net Profit:            %s\n", report.NetProfit)
	fmt.Fprintf(w, "Avg Profit/Position:   %s\n", report.NetAvgProfitPerTrade)
	fmt.Fprintf(w, "Gross Return:          %s\n", report.GrossReturn)
	fmt.Fprintf(w, "CAGR:                  %s\n", report.CAGR)

	fmt.Fprintln(w, "\n-- Position-Level Metrics --")
	fmt.Fprintf(w, "Avg Win:               %s\n", report.AvgWin)
	fmt.Fprintf(w, "Avg Loss:              %s\n", report.AvgLoss)
	fmt.Fprintf(w, "Win Rate:              %s\n", report.WinRate)

	fmt.Fprintln(w, "\n-- Drawdown Metrics --")
	fmt.Fprintf(w, "Max Drawdown %%:        %s\n", report.MaxDrawdownPercent)
	fmt.Fprintf(w, "Max Drawdown Days:     %v\n", report.MaxDrawdownDays)
	fmt.Fprintf(w, "Max Consecutive Losses:%d\n", report.MaxConsecutiveLosses)

	fmt.Fprintln(w, "\n-- Risk-Adjusted Metrics --")
	fmt.Fprintf(w, "Sharpe Ratio:          %s\n", report.SharpeRatio)
	fmt.Fprintf(w, "Profit Factor:         %s\n", report.ProfitFactor)

	fmt.Fprintln(w, "\n-- Costs --")
	fmt.Fprintf(w, "Total Fees:            %s\n", report.TotalFees)

	fmt.Fprintln(w, "==========================")
}

func generateReport(st TradingStatement, riskFreeRate float64) *Report {
	s, rec := st.Series, st.Record
	report := &Report{
		Strategy:    st.Strategy,
		TotalTrades: rec.TradeCount(),
		Positions:   rec.PositionCount(),
	}
	if first, err := s.FirstBar(); err == nil {
		report.StartDate = first.BeginTime
		if last, err := s.LastBar(); err == nil {
			report.TotalPeriod = last.EndTime.Sub(first.BeginTime).Truncate(time.Hour * 24)
		}
	}

	var wg sync.WaitGroup
	wg.Add(8)
	go func() {
		report.NetProfit = calcNetProfit(s, rec, &wg)
	}()
	go func() {
		report.NetAvgProfitPerTrade = calcNetAvgProfitPerTrade(s, rec, &wg)
	}()
	go func() {
		report.AvgWin, report.AvgLoss, report.ProfitFactor = calcAvgWinLossPerTrade(s, rec, &wg)
	}()
	go func() {
		report.GrossReturn, report.WinRate = calcReturns(s, rec, &wg)
	}()
	go func() {
		report.CAGR = calcCAGR(s, rec, &wg)
	}()
	go func() {
		report.MaxDrawdownPercent, report.MaxDrawdownDays = calcDrawdownMetrics(s, rec, &wg)
	}()
	go func() {
		report.MaxConsecutiveLosses = calcMaxConsecutiveLosses(s, rec, &wg)
	}()
	go func() {
		report.SharpeRatio = calcSharpeRatio(s, rec, riskFreeRate, &wg)
	}()
	wg.Wait()

	report.TotalFees = calcTotalFees(s, rec)
	return report
}

func calcNetProfit(s *series.BarSeries, rec *trading.Record, wg *sync.WaitGroup) num.Num {
	defer wg.Done()
	return criteria.ProfitLoss{}.Calculate(s, rec)
}

func calcNetAvgProfitPerTrade(s *series.BarSeries, rec *trading.Record, wg *sync.WaitGroup) num.Num {
	defer wg.Done()
	f := s.Factory()
	if rec.PositionCount() == 0 {
		return f.Zero()
	}
	return criteria.ProfitLoss{}.Calculate(s, rec).DividedBy(f.NumOfInt(int64(rec.PositionCount())))
}

// calcAvgWinLossPerTrade returns the average win, the average absolute loss
// and the profit factor of closed positions.
func calcAvgWinLossPerTrade(s *series.BarSeries, rec *trading.Record, wg *sync.WaitGroup) (num.Num, num.Num, num.Num) {
	defer wg.Done()
	f := s.Factory()

	sumWins := f.Zero()
	sumLosses := f.Zero() // absolute loss amounts
	winCount := 0
	lossCount := 0

	for _, p := range rec.ClosedPositions() {
		net := p.Profit()
		switch {
		case net.IsPositive():
			sumWins = sumWins.Plus(net)
			winCount++
		case net.IsNegative():
			sumLosses = sumLosses.Plus(net.Abs())
			lossCount++
		}
	}

	avgWin, avgLoss, profitFactor := f.Zero(), f.Zero(), f.Zero()
	if winCount > 0 {
		avgWin = sumWins.DividedBy(f.NumOfInt(int64(winCount)))
	}
	if lossCount > 0 {
		avgLoss = sumLosses.DividedBy(f.NumOfInt(int64(lossCount)))
		profitFactor = sumWins.DividedBy(sumLosses)
	}
	return avgWin, avgLoss, profitFactor
}

func calcReturns(s *series.BarSeries, rec *trading.Record, wg *sync.WaitGroup) (num.Num, num.Num) {
	defer wg.Done()
	return criteria.GrossReturn{}.Calculate(s, rec), criteria.WinningPositionsRatio{}.Calculate(s, rec)
}

// calcCAGR annualizes the final cash flow value over the span of the series.
func calcCAGR(s *series.BarSeries, rec *trading.Record, wg *sync.WaitGroup) num.Num {
	defer wg.Done()
	f := s.Factory()
	flow := criteria.CashFlow(s, rec.Positions())
	if len(flow) < 2 {
		return f.Zero()
	}
	first, err := s.FirstBar()
	if err != nil {
		return f.Zero()
	}
	last, err := s.LastBar()
	if err != nil {
		return f.Zero()
	}

	// time difference in years (using 365.25 days to account for leap years)
	years := last.EndTime.Sub(first.BeginTime).Hours() / (24.0 * 365.25)
	if years <= 0 {
		return f.Zero()
	}
	ratio := flow[len(flow)-1].Float64()
	if ratio <= 0 {
		return f.Zero()
	}
	return f.NumOf(math.Pow(ratio, 1.0/years) - 1.0)
}

// calcDrawdownMetrics returns the deepest drawdown of the cash flow as a
// fraction of its peak and the time from that peak to the trough.
func calcDrawdownMetrics(s *series.BarSeries, rec *trading.Record, wg *sync.WaitGroup) (num.Num, time.Duration) {
	defer wg.Done()
	f := s.Factory()
	flow := criteria.CashFlow(s, rec.Positions())
	if len(flow) == 0 {
		return f.Zero(), 0
	}

	begin := s.BeginIndex()
	peak := flow[0]
	peakTime := s.MustBar(begin).EndTime
	maxDDPct := f.Zero()
	var maxDDDuration time.Duration

	for i, equity := range flow {
		at := s.MustBar(begin + i).EndTime
		if equity.IsGreaterThan(peak) {
			peak = equity
			peakTime = at
		}
		dd := peak.Minus(equity).DividedBy(peak)
		if dd.IsGreaterThan(maxDDPct) {
			maxDDPct = dd
			maxDDDuration = at.Sub(peakTime)
		}
	}
	return maxDDPct, maxDDDuration
}

func calcMaxConsecutiveLosses(s *series.BarSeries, rec *trading.Record, wg *sync.WaitGroup) int {
	defer wg.Done()
	return int(criteria.MaxConsecutiveLosses{}.Calculate(s, rec).Float64())
}

func calcSharpeRatio(s *series.BarSeries, rec *trading.Record, riskFreeRate float64, wg *sync.WaitGroup) num.Num {
	defer wg.Done()
	return criteria.SharpeRatio{RiskFree: riskFreeRate}.Calculate(s, rec)
}

// calcTotalFees includes the entry cost of an open position.
func calcTotalFees(s *series.BarSeries, rec *trading.Record) num.Num {
	total := s.Factory().Zero()
	for _, p := range rec.Positions() {
		total = total.Plus(p.Cost())
	}
	return total
}
