package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"taengine/internal/criteria"
	"taengine/internal/strategy"
	"testing"
	"time"
)

func mockStatement(t *testing.T) TradingStatement {
	t.Helper()
	s := mockSeries(t, 100, 110, 140, 119, 100, 110, 120, 130)
	statements, err := NewExecutor(s, mockConfig(1), []criteria.Criterion{criteria.ProfitLoss{}}).
		Execute(context.Background(), []strategy.Factory{smaStrategy(2)})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	return statements[0]
}

func TestGenerateReport(t *testing.T) {
	report := generateReport(mockStatement(t), 0)

	if report.TotalTrades != 3 || report.Positions != 1 {
		t.Errorf("trades, positions = %d, %d, want 3, 1", report.TotalTrades, report.Positions)
	}
	if !report.StartDate.Equal(t0) {
		t.Errorf("StartDate = %v, want %v", report.StartDate, t0)
	}
	if report.TotalPeriod != 8*24*time.Hour {
		t.Errorf("TotalPeriod = %v, want 8 days", report.TotalPeriod)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"NetProfit", report.NetProfit.String(), "-1050"},
		{"NetAvgProfitPerTrade", report.NetAvgProfitPerTrade.String(), "-1050"},
		{"GrossReturn", report.GrossReturn.String(), "0.85"},
		{"AvgWin", report.AvgWin.String(), "0"},
		{"AvgLoss", report.AvgLoss.String(), "1050"},
		{"WinRate", report.WinRate.String(), "0"},
		{"ProfitFactor", report.ProfitFactor.String(), "0"},
		{"MaxDrawdownPercent", report.MaxDrawdownPercent.String(), "0.15"},
		{"SharpeRatio", report.SharpeRatio.String(), "0"},
		{"TotalFees", report.TotalFees.String(), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !dec(tt.got).IsEqual(dec(tt.want)) {
				t.Errorf("%s = %s, want %s", tt.name, tt.got, tt.want)
			}
		})
	}

	if report.MaxDrawdownDays != 72*time.Hour {
		t.Errorf("MaxDrawdownDays = %v, want 72h", report.MaxDrawdownDays)
	}
	if report.MaxConsecutiveLosses != 1 {
		t.Errorf("MaxConsecutiveLosses = %d, want 1", report.MaxConsecutiveLosses)
	}
	// the open position ends the run slightly above the start
	if !report.CAGR.IsPositive() {
		t.Errorf("CAGR = %s, want positive", report.CAGR)
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, generateReport(mockStatement(t), 0))
	out := buf.String()
	for _, want := range []string{
		"===== Trading Report: sma2 =====",
		"Total Period:          8 days",
		"Total Trades:          3",
		"Net Profit:            -1050",
		"Max Consecutive Losses:1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report is missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTradesCSV(t *testing.T) {
	st := mockStatement(t)
	var buf bytes.Buffer
	if err := writeTradesCSV(&buf, st); err != nil {
		t.Fatalf("writeTradesCSV() error = %v", err)
	}
	want := strings.Join([]string{
		"position_id,leg,strategy,type,index,price,amount,cost,profit,bar_time",
		"0,entry,sma2,BUY,2,140,50,0,,2024-01-05T00:00:00Z",
		"0,exit,sma2,SELL,3,119,50,0,-1050,2024-01-06T00:00:00Z",
		"1,entry,sma2,BUY,5,110,50,0,,2024-01-08T00:00:00Z",
	}, "\n") + "\n"
	if got := buf.String(); got != want {
		t.Errorf("writeTradesCSV() =\n%s\nwant\n%s", got, want)
	}

	path := filepath.Join(t.TempDir(), "trades.csv")
	if err := writeTradesCSVFile(path, st); err != nil {
		t.Fatalf("writeTradesCSVFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != want {
		t.Errorf("file content =\n%s\nwant\n%s", data, want)
	}
}
