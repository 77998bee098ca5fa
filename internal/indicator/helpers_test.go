package indicator

import (
	"math"
	"taengine/internal/series"
	"taengine/num"
	"taengine/types"
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

type ohlc struct {
	open, high, low, close float64
}

func newBar(t *testing.T, f num.Factory, i int, p ohlc) types.Bar {
	t.Helper()
	bar, err := types.NewBarBuilder(f).
		TimePeriod(24*time.Hour).
		EndTime(t0.Add(time.Duration(i+1)*24*time.Hour)).
		OHLCV(p.open, p.high, p.low, p.close, 1).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return bar
}

func seriesOfBars(t *testing.T, f num.Factory, bars []ohlc, opts ...series.Option) *series.BarSeries {
	t.Helper()
	s := series.New(t.Name(), f, opts...)
	for i, p := range bars {
		if err := s.AddBar(newBar(t, f, i, p)); err != nil {
			t.Fatalf("AddBar(%d) error = %v", i, err)
		}
	}
	return s
}

func seriesOf(t *testing.T, f num.Factory, closes ...float64) *series.BarSeries {
	t.Helper()
	bars := make([]ohlc, len(closes))
	for i, c := range closes {
		bars[i] = ohlc{c, c, c, c}
	}
	return seriesOfBars(t, f, bars)
}

func assertClose(t *testing.T, label string, got num.Num, want float64) {
	t.Helper()
	if math.IsNaN(want) {
		if !got.IsNaN() {
			t.Errorf("%s = %s, want NaN", label, got)
		}
		return
	}
	if got.IsNaN() || math.Abs(got.Float64()-want) > 1e-4 {
		t.Errorf("%s = %s, want %v", label, got, want)
	}
}

// advanceAll walks the series from the start, refreshing ind on every tick,
// and returns the values it saw.
func advanceAll[T any](s *series.BarSeries, ind Indicator[T]) []T {
	s.Rewind()
	var out []T
	for s.Advance() {
		ind.Refresh(s.Tick())
		out = append(out, ind.Value())
	}
	return out
}
