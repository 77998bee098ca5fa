package smacross

import (
	"context"
	"errors"
	"taengine/internal/engine"
	"taengine/internal/series"
	"taengine/internal/strategy"
	"taengine/internal/trading"
	"taengine/num"
	"taengine/types"
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

var closes = []float64{10, 10, 10, 9, 8, 10, 13, 12, 9, 8}

func mockSeries(t *testing.T, closes ...float64) *series.BarSeries {
	t.Helper()
	s := series.New(t.Name(), num.Decimal)
	for i, c := range closes {
		bar, err := s.NewBarBuilder().
			TimePeriod(24*time.Hour).
			BeginTime(t0.AddDate(0, 0, i)).
			OHLCV(c, c, c, c, 1).
			Build()
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if err := s.AddBar(bar); err != nil {
			t.Fatalf("AddBar(%d) error = %v", i, err)
		}
	}
	return s
}

func runOne(t *testing.T, s *series.BarSeries, f strategy.Factory) *trading.Record {
	t.Helper()
	cfg := engine.NewExecutionConfig(num.Decimal.One(), types.TradeTypeBuy, nil, 1, false)
	statements, err := engine.NewExecutor(s, cfg, nil).Execute(context.Background(), []strategy.Factory{f})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	return statements[0].Record
}

func TestCrossover(t *testing.T) {
	type trade struct {
		index int
		typ   types.TradeType
		price int64
	}
	tests := []struct {
		name   string
		params strategy.Params
		want   []trade
	}{
		{"golden then death cross", strategy.Params{"fast": 2, "slow": 3},
			[]trade{{6, types.TradeTypeBuy, 13}, {8, types.TradeTypeSell, 9}}},
		{"stop loss exits first", strategy.Params{"fast": 2, "slow": 3, "stop_loss": 5},
			[]trade{{6, types.TradeTypeBuy, 13}, {7, types.TradeTypeSell, 12}}},
		{"rsi filter blocks entries", strategy.Params{"fast": 2, "slow": 3, "rsi": 2, "overbought": 0},
			nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Build(tt.params)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			got := runOne(t, mockSeries(t, closes...), f).Trades()
			if len(got) != len(tt.want) {
				t.Fatalf("got %d trades %v, want %d", len(got), got, len(tt.want))
			}
			for i, w := range tt.want {
				if got[i].Index != w.index || got[i].Type != w.typ || !got[i].Price.IsEqual(num.Decimal.NumOfInt(w.price)) {
					t.Errorf("trade %d = %s, want %s@%d %d", i, got[i], w.typ, w.index, w.price)
				}
			}
		})
	}
}

func TestName(t *testing.T) {
	f, err := New(Config{Fast: 5, Slow: 20})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	strat, err := f(mockSeries(t, closes...))
	if err != nil {
		t.Fatalf("factory error = %v", err)
	}
	if strat.Name() != "smacross_5_20" || strat.UnstableBars() != 20 {
		t.Errorf("strategy = %s unstable %d", strat.Name(), strat.UnstableBars())
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero fast", Config{Fast: 0, Slow: 3}},
		{"fast equals slow", Config{Fast: 3, Slow: 3}},
		{"fast above slow", Config{Fast: 5, Slow: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); !errors.Is(err, ErrInvalidPeriods) {
				t.Errorf("New() error = %v, want %v", err, ErrInvalidPeriods)
			}
		})
	}
	if _, err := New(Config{Fast: 2, Slow: 3, StopLoss: -1}); err == nil {
		t.Errorf("New() with a negative stop loss error = nil")
	}
}
