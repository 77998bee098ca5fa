package indicator

import (
	"fmt"
	"math"
	"taengine/num"
	"testing"
)

func TestLowestValueAdvancing(t *testing.T) {
	s := seriesOf(t, num.Decimal, 1, 2, 3, 4, 3, 4, 5, 6, 4, 3, 2, 4, 3, 1)
	lowest := Lowest(ClosePrice(s), 5)
	want := []float64{1, 1, 1, 1, 1, 2, 3, 3, 3, 3, 2, 2, 2}
	for i, w := range want {
		if !s.Advance() {
			t.Fatalf("Advance() to %d = false", i)
		}
		lowest.Refresh(s.Tick())
		if got := lowest.Value(); !got.IsEqual(num.Decimal.NumOf(w)) {
			t.Errorf("Lowest at %d = %s, want %v", i, got, w)
		}
	}
}

func TestStdErr(t *testing.T) {
	for _, f := range []num.Factory{num.Decimal, num.Double} {
		t.Run(f.Name(), func(t *testing.T) {
			s := seriesOf(t, f, 10, 20, 30, 40, 50, 40, 40, 50, 40, 30, 20, 10)
			values := advanceAll(s, StdErr(ClosePrice(s), 5))
			want := []float64{7.0710, 5.0990, 3.1623, 2.4495, 2.4495, 3.1623, 5.0990, 7.0710}
			for k, w := range want {
				i := k + 4
				got := values[i]
				if got.IsNaN() || math.Abs(got.Float64()-w) > 1e-3 {
					t.Errorf("StdErr at %d = %s, want %v", i, got, w)
				}
			}
		})
	}
}

func TestRollingWindows(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 3, 4, 5, 4, 3, 3, 4, 3, 2}
	nan := math.NaN()
	tests := []struct {
		name string
		ind  func(c Numeric) Numeric
		want []float64
	}{
		{
			name: "sma",
			ind:  func(c Numeric) Numeric { return SMA(c, 3) },
			want: []float64{1, 1.5, 2, 3, 3.3333, 3.6667, 4, 4.3333, 4, 3.3333, 3.3333, 3.3333, 3},
		},
		{
			name: "sum",
			ind:  func(c Numeric) Numeric { return Sum(c, 2) },
			want: []float64{1, 3, 5, 7, 7, 7, 9, 9, 7, 6, 7, 7, 5},
		},
		{
			name: "highest",
			ind:  func(c Numeric) Numeric { return Highest(c, 3) },
			want: []float64{1, 2, 3, 4, 4, 4, 5, 5, 5, 4, 4, 4, 4},
		},
		{
			name: "variance",
			ind:  func(c Numeric) Numeric { return Variance(c, 4) },
			want: []float64{nan, 0.5, 1, 1.6667, 0.6667, 0.3333, 0.6667, 0.6667, 0.6667, 0.9167, 0.3333, 0.25, 0.6667},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seriesOf(t, num.Decimal, closes...)
			got := advanceAll(s, tt.ind(ClosePrice(s)))
			for i, w := range tt.want {
				assertClose(t, fmt.Sprintf("%s at %d", tt.name, i), got[i], w)
			}
		})
	}
}

func TestRecursiveAverages(t *testing.T) {
	s := seriesOf(t, num.Decimal, 2, 4, 6, 8)
	c := ClosePrice(s)
	tests := []struct {
		name string
		ind  Numeric
		want []float64
	}{
		{"ema 3", EMA(c, 3), []float64{2, 3, 4.5, 6.25}},
		{"mma 4", MMA(c, 4), []float64{2, 2.5, 3.375, 4.53125}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := advanceAll(s, tt.ind)
			for i, w := range tt.want {
				if !got[i].IsEqual(num.Decimal.NumOf(w)) {
					t.Errorf("%s at %d = %s, want %v", tt.name, i, got[i], w)
				}
			}
		})
	}
}

func TestKAMAFlatSeries(t *testing.T) {
	s := seriesOf(t, num.Decimal, 5, 5, 5, 5, 5, 5)
	for i, v := range advanceAll(s, KAMA(ClosePrice(s), 3, 2, 30)) {
		if !v.IsEqual(num.Decimal.NumOf(5)) {
			t.Errorf("KAMA at %d = %s, want 5", i, v)
		}
	}
}

func TestKAMATrend(t *testing.T) {
	// a straight line has efficiency ratio 1, so every step uses the fast
	// constant (2/3)^2
	s := seriesOf(t, num.Double, 10, 11, 12, 13)
	got := advanceAll(s, KAMA(ClosePrice(s), 2, 2, 30))
	sc := 4.0 / 9
	want := []float64{10}
	for i := 1; i < 4; i++ {
		prev := want[i-1]
		want = append(want, prev+sc*(10+float64(i)-prev))
	}
	for i, w := range want {
		assertClose(t, fmt.Sprintf("kama at %d", i), got[i], w)
	}
}
