package loader

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"taengine/num"
	"taengine/types"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func assertClose(t *testing.T, name string, got num.Num, want float64) {
	t.Helper()
	if math.Abs(got.Float64()-want) > 1e-9 {
		t.Errorf("%s = %s, want %v", name, got, want)
	}
}

func TestLoadTradesCSV(t *testing.T) {
	// newest first, with an empty five minute gap
	data := `timestamp,price,amount
1385901000,105,1
1385900400,103,3
1385900160,99,1
1385900100,101,2
1385900000,100,1
`
	s, err := LoadTradesCSV(strings.NewReader(data), "trades", num.Decimal, 5*time.Minute, 0)
	if err != nil {
		t.Fatalf("LoadTradesCSV() error = %v", err)
	}
	if s.BarCount() != 3 {
		t.Fatalf("BarCount() = %d, want 3", s.BarCount())
	}

	begin := time.Unix(1385900000, 0).UTC()
	tests := []struct {
		index                       int
		begin                       time.Time
		open, high, low, close, vol float64
		trades                      int64
	}{
		{0, begin, 100, 101, 99, 99, 4, 3},
		{1, begin.Add(5 * time.Minute), 103, 103, 103, 103, 3, 1},
		{2, begin.Add(15 * time.Minute), 105, 105, 105, 105, 1, 1},
	}
	for _, tt := range tests {
		bar := s.MustBar(tt.index)
		if !bar.BeginTime.Equal(tt.begin) {
			t.Errorf("bar %d begins %v, want %v", tt.index, bar.BeginTime, tt.begin)
		}
		assertClose(t, "open", bar.Open, tt.open)
		assertClose(t, "high", bar.High, tt.high)
		assertClose(t, "low", bar.Low, tt.low)
		assertClose(t, "close", bar.Close, tt.close)
		assertClose(t, "volume", bar.Volume, tt.vol)
		if bar.Trades != tt.trades {
			t.Errorf("bar %d trades = %d, want %d", tt.index, bar.Trades, tt.trades)
		}
	}
}

func TestLoadBarsCSV(t *testing.T) {
	data := `date,open,high,low,close,volume
2024-01-02,10,12,9,11,1000
2024-01-03,11,13,10,12.5,1500
2024-01-04T00:00:00Z,12.5,14,12,13,900
`
	s, err := LoadBarsCSV(strings.NewReader(data), "daily", num.Decimal, 24*time.Hour, 2)
	if err != nil {
		t.Fatalf("LoadBarsCSV() error = %v", err)
	}
	if s.BarCount() != 2 || s.BeginIndex() != 1 {
		t.Fatalf("BarCount, BeginIndex = %d, %d, want 2, 1", s.BarCount(), s.BeginIndex())
	}
	last := s.MustBar(2)
	if !last.Close.IsEqual(num.FromDecimal(num.Decimal, decimal.RequireFromString("13"))) {
		t.Errorf("last close = %s, want 13", last.Close)
	}
	if want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC); !last.EndTime.Equal(want) {
		t.Errorf("last end = %v, want %v", last.EndTime, want)
	}
}

func TestLoadCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		trades  bool
		period  time.Duration
		wantErr error
	}{
		{"empty", "", false, time.Hour, ErrNoRows},
		{"header only", "date,open,high,low,close,volume\n", false, time.Hour, ErrNoRows},
		{"short row", "date,open\n2024-01-02,1\n", false, time.Hour, ErrMalformedRow},
		{"bad price", "date,open,high,low,close,volume\n2024-01-02,x,1,1,1,1\n", false, time.Hour, ErrMalformedRow},
		{"bad date", "date,open,high,low,close,volume\n02/01/2024,1,1,1,1,1\n", false, time.Hour, ErrMalformedRow},
		{"no period", "date,open,high,low,close,volume\n2024-01-02,1,1,1,1,1\n", false, 0, ErrNoPeriod},
		{"bad timestamp", "timestamp,price,amount\nnow,1,1\n", true, time.Minute, ErrMalformedRow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.trades {
				_, err = LoadTradesCSV(strings.NewReader(tt.data), tt.name, num.Decimal, tt.period, 0)
			} else {
				_, err = LoadBarsCSV(strings.NewReader(tt.data), tt.name, num.Decimal, tt.period, 0)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSeriesFromCandles(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	candles := make([]types.Candle, 4)
	for i := range candles {
		p := decimal.NewFromInt(int64(10 + i))
		candles[i] = types.Candle{
			Ticker:    "AAPL",
			Open:      p,
			High:      p,
			Low:       p,
			Close:     p,
			Volume:    decimal.NewFromInt(5),
			Interval:  types.FiveMinutes,
			Timestamp: start.Add(time.Duration(i) * 5 * time.Minute),
		}
	}

	s, err := SeriesFromCandles("AAPL", num.Double, candles, 0)
	if err != nil {
		t.Fatalf("SeriesFromCandles() error = %v", err)
	}
	if s.BarCount() != 4 {
		t.Fatalf("BarCount() = %d, want 4", s.BarCount())
	}
	assertClose(t, "close", s.MustBar(3).Close, 13)
	if s.MustBar(0).TimePeriod != 5*time.Minute {
		t.Errorf("period = %v, want 5m", s.MustBar(0).TimePeriod)
	}

	candles[2].Timestamp = start
	if _, err := SeriesFromCandles("AAPL", num.Double, candles, 0); err == nil {
		t.Errorf("SeriesFromCandles() with out of order candles error = nil")
	}
}

func TestParquetRoundTrip(t *testing.T) {
	data := `date,open,high,low,close,volume
2024-01-02,10,12,9,11,1000
2024-01-03,11,13,10,12.5,1500
2024-01-04,12.5,14,12,13,900
`
	src, err := LoadBarsCSV(strings.NewReader(data), "daily", num.Double, 24*time.Hour, 0)
	if err != nil {
		t.Fatalf("LoadBarsCSV() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "bars", "daily.parquet")
	if err := WriteBarsParquet(path, "TEST", src); err != nil {
		t.Fatalf("WriteBarsParquet() error = %v", err)
	}

	s, err := LoadBarsParquet(path, "daily", num.Double, 24*time.Hour, 0)
	if err != nil {
		t.Fatalf("LoadBarsParquet() error = %v", err)
	}
	if s.BarCount() != src.BarCount() {
		t.Fatalf("BarCount() = %d, want %d", s.BarCount(), src.BarCount())
	}
	for i := s.BeginIndex(); i <= s.EndIndex(); i++ {
		got, want := s.MustBar(i), src.MustBar(i)
		if !got.BeginTime.Equal(want.BeginTime) {
			t.Errorf("bar %d begins %v, want %v", i, got.BeginTime, want.BeginTime)
		}
		assertClose(t, "close", got.Close, want.Close.Float64())
		assertClose(t, "volume", got.Volume, want.Volume.Float64())
	}

	if _, err := LoadBarsParquet(filepath.Join(t.TempDir(), "missing.parquet"), "x", num.Double, time.Hour, 0); err == nil {
		t.Errorf("LoadBarsParquet() of a missing file error = nil")
	}
}
