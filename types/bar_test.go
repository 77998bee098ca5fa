package types

import (
	"errors"
	"taengine/num"
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func TestBarInPeriod(t *testing.T) {
	bar, err := NewBarBuilder(num.Decimal).TimePeriod(time.Minute).BeginTime(t0).OHLCV(1, 2, 0.5, 1.5, 10).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"begin is inside", t0, true},
		{"middle is inside", t0.Add(30 * time.Second), true},
		{"end is outside", t0.Add(time.Minute), false},
		{"before begin", t0.Add(-time.Nanosecond), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bar.InPeriod(tt.t); got != tt.want {
				t.Errorf("InPeriod(%s) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
	if !bar.IsBullish() || bar.IsBearish() {
		t.Errorf("bar 1 -> 1.5 should be bullish")
	}
}

func TestBarBuilderTimes(t *testing.T) {
	tests := []struct {
		name      string
		builder   *BarBuilder
		wantBegin time.Time
		wantErr   error
	}{
		{"end only", NewBarBuilder(num.Double).TimePeriod(time.Hour).EndTime(t0), t0.Add(-time.Hour), nil},
		{"begin only", NewBarBuilder(num.Double).TimePeriod(time.Hour).BeginTime(t0), t0, nil},
		{"no period", NewBarBuilder(num.Double).EndTime(t0), time.Time{}, ErrMissingPeriod},
		{"no time", NewBarBuilder(num.Double).TimePeriod(time.Hour), time.Time{}, ErrMissingTime},
		{"inconsistent", NewBarBuilder(num.Double).TimePeriod(time.Hour).BeginTime(t0).EndTime(t0), time.Time{}, ErrTimeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar, err := tt.builder.Build()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && !bar.BeginTime.Equal(tt.wantBegin) {
				t.Errorf("BeginTime = %s, want %s", bar.BeginTime, tt.wantBegin)
			}
		})
	}
}

func TestBarBuilderAddTrade(t *testing.T) {
	f := num.Decimal
	b := NewBarBuilder(f).TimePeriod(5 * time.Minute).BeginTime(t0)
	trades := []struct{ volume, price float64 }{
		{1, 100}, {2, 103}, {1, 98}, {4, 101},
	}
	for _, tr := range trades {
		b.AddTrade(f.NumOf(tr.volume), f.NumOf(tr.price))
	}
	bar, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	checks := []struct {
		name string
		got  num.Num
		want float64
	}{
		{"open", bar.Open, 100},
		{"high", bar.High, 103},
		{"low", bar.Low, 98},
		{"close", bar.Close, 101},
		{"volume", bar.Volume, 8},
		{"amount", bar.Amount, 100 + 206 + 98 + 404},
	}
	for _, c := range checks {
		if !c.got.IsEqual(f.NumOf(c.want)) {
			t.Errorf("%s = %s, want %v", c.name, c.got, c.want)
		}
	}
	if bar.Trades != 4 {
		t.Errorf("Trades = %d, want 4", bar.Trades)
	}

	b.Reset()
	if b.HasTrades() {
		t.Errorf("HasTrades() after Reset = true")
	}
	empty, err := b.BeginTime(t0).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !empty.Close.IsNaN() || !empty.Volume.IsZero() {
		t.Errorf("empty bar close = %s volume = %s, want NaN and 0", empty.Close, empty.Volume)
	}
}

func TestParseTradeType(t *testing.T) {
	tests := []struct {
		in      string
		want    TradeType
		wantErr bool
	}{
		{"buy", TradeTypeBuy, false},
		{" SELL ", TradeTypeSell, false},
		{"hold", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTradeType(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseTradeType(%q) = %q, %v", tt.in, got, err)
		}
	}
	if TradeTypeBuy.Complement() != TradeTypeSell || TradeTypeSell.Complement() != TradeTypeBuy {
		t.Errorf("Complement() is not symmetric")
	}
}

func TestParseInterval(t *testing.T) {
	if in, err := ParseInterval("D"); err != nil || in != Day {
		t.Errorf("ParseInterval(D) = %q, %v", in, err)
	}
	if in, err := ParseInterval("5m"); err != nil || in != FiveMinutes {
		t.Errorf("ParseInterval(5m) = %q, %v", in, err)
	}
	if _, err := ParseInterval("7m"); err == nil {
		t.Errorf("ParseInterval(7m) error = nil")
	}
}
