package rule

import (
	"errors"
	"taengine/internal/indicator"
	"taengine/internal/series"
	"taengine/internal/trading"
	"taengine/num"
	"taengine/types"
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func seriesOf(t *testing.T, closes ...float64) *series.BarSeries {
	t.Helper()
	s := series.New(t.Name(), num.Decimal)
	for i, c := range closes {
		bar, err := s.NewBarBuilder().
			TimePeriod(time.Hour).
			EndTime(t0.Add(time.Duration(i+1)*time.Hour)).
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

type stubRule struct {
	value    bool
	stable   bool
	refreshs int
}

func (p *stubRule) IsSatisfied(*trading.Record) bool { return p.value }
func (p *stubRule) Refresh(series.Tick)              { p.refreshs++ }
func (p *stubRule) IsStable() bool                   { return p.stable }

func TestLogic(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		want bool
	}{
		{"true", True, true},
		{"false", False, false},
		{"and", And(True, True, False), false},
		{"and all true", And(True, True), true},
		{"or", Or(False, True), true},
		{"or all false", Or(False, False), false},
		{"xor same", Xor(True, True), false},
		{"xor different", Xor(True, False), true},
		{"not", Not(False), true},
		{"nested", And(Not(False), Or(False, Xor(False, True))), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.IsSatisfied(nil); got != tt.want {
				t.Errorf("IsSatisfied() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompositeRefreshAndStability(t *testing.T) {
	s := seriesOf(t, 1, 2, 3)
	child := &stubRule{value: true, stable: false}
	r := And(child, Not(True))
	for s.Advance() {
		r.Refresh(s.Tick())
		r.Refresh(s.Tick())
	}
	if child.refreshs != 3 {
		t.Errorf("child refreshed %d times, want 3", child.refreshs)
	}
	if r.IsStable() {
		t.Errorf("IsStable() with an unstable child = true")
	}
	child.stable = true
	if !r.IsStable() {
		t.Errorf("IsStable() with stable children = false")
	}
}

func TestCrossedUpFiresOnce(t *testing.T) {
	s := seriesOf(t, 5, 4, 3, 6, 7, 8, 2, 9)
	c := indicator.ClosePrice(s)
	up, err := CrossedUp(c, indicator.SMA(c, 3))
	if err != nil {
		t.Fatalf("CrossedUp() error = %v", err)
	}
	var fired []int
	for s.Advance() {
		up.Refresh(s.Tick())
		if up.IsSatisfied(nil) {
			fired = append(fired, s.CurrentIndex())
		}
	}
	// close crosses its 3 bar average at 3 (6 > 4.33) and at 7 (9 > 6.33)
	want := []int{3, 7}
	if len(fired) != len(want) || fired[0] != want[0] || fired[1] != want[1] {
		t.Errorf("fired at %v, want %v", fired, want)
	}
}

func TestOverUnder(t *testing.T) {
	s := seriesOf(t, 1, 3, 5)
	c := indicator.ClosePrice(s)
	over, err := OverThreshold(c, num.Decimal.NumOf(2))
	if err != nil {
		t.Fatalf("OverThreshold() error = %v", err)
	}
	under, err := UnderThreshold(c, num.Decimal.NumOf(4))
	if err != nil {
		t.Fatalf("UnderThreshold() error = %v", err)
	}
	wantOver := []bool{false, true, true}
	wantUnder := []bool{true, true, false}
	for i := 0; s.Advance(); i++ {
		over.Refresh(s.Tick())
		under.Refresh(s.Tick())
		if got := over.IsSatisfied(nil); got != wantOver[i] {
			t.Errorf("Over at %d = %v, want %v", i, got, wantOver[i])
		}
		if got := under.IsSatisfied(nil); got != wantUnder[i] {
			t.Errorf("Under at %d = %v, want %v", i, got, wantUnder[i])
		}
	}

	other := seriesOf(t, 1)
	if _, err := Over(c, indicator.ClosePrice(other)); !errors.Is(err, indicator.ErrSeriesMismatch) {
		t.Errorf("Over() across series error = %v, want %v", err, indicator.ErrSeriesMismatch)
	}
	if _, err := OverThreshold(c, num.Double.One()); !errors.Is(err, indicator.ErrFactoryMismatch) {
		t.Errorf("OverThreshold() with a double error = %v, want %v", err, indicator.ErrFactoryMismatch)
	}
}

func TestWaitFor(t *testing.T) {
	s := seriesOf(t, 1, 1, 1, 1, 1)
	rec := trading.NewRecord(num.Decimal, types.TradeTypeBuy)
	r := WaitFor(s, types.TradeTypeBuy, 2)

	s.Advance()
	if r.IsSatisfied(rec) {
		t.Errorf("WaitFor without a trade is satisfied")
	}
	if r.IsSatisfied(nil) {
		t.Errorf("WaitFor without a record is satisfied")
	}
	if _, err := rec.Enter(0, num.Decimal.One(), num.Decimal.One()); err != nil {
		t.Fatalf("Enter() error = %v", err)
	}
	want := []bool{false, true, true, true}
	for i := 0; s.Advance(); i++ {
		if got := r.IsSatisfied(rec); got != want[i] {
			t.Errorf("WaitFor at %d = %v, want %v", s.CurrentIndex(), got, want[i])
		}
	}
}

func TestStops(t *testing.T) {
	tests := []struct {
		name      string
		startType types.TradeType
		closes    []float64
		loss      []bool
		gain      []bool
	}{
		{
			name:      "long",
			startType: types.TradeTypeBuy,
			closes:    []float64{100, 96, 95, 104, 105},
			loss:      []bool{false, false, true, false, false},
			gain:      []bool{false, false, false, false, true},
		},
		{
			name:      "short",
			startType: types.TradeTypeSell,
			closes:    []float64{100, 96, 95, 104, 105},
			loss:      []bool{false, false, false, false, true},
			gain:      []bool{false, false, true, false, false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seriesOf(t, tt.closes...)
			c := indicator.ClosePrice(s)
			pct := num.Decimal.NumOf(5)
			stopLoss, err := StopLoss(c, pct)
			if err != nil {
				t.Fatalf("StopLoss() error = %v", err)
			}
			stopGain, err := StopGain(c, pct)
			if err != nil {
				t.Fatalf("StopGain() error = %v", err)
			}
			rec := trading.NewRecord(num.Decimal, tt.startType)
			for i := 0; s.Advance(); i++ {
				if i == 0 {
					if stopLoss.IsSatisfied(rec) {
						t.Errorf("StopLoss without a position is satisfied")
					}
					if _, err := rec.Enter(0, num.Decimal.Hundred(), num.Decimal.One()); err != nil {
						t.Fatalf("Enter() error = %v", err)
					}
				}
				stopLoss.Refresh(s.Tick())
				stopGain.Refresh(s.Tick())
				if got := stopLoss.IsSatisfied(rec); got != tt.loss[i] {
					t.Errorf("StopLoss at %d = %v, want %v", i, got, tt.loss[i])
				}
				if got := stopGain.IsSatisfied(rec); got != tt.gain[i] {
					t.Errorf("StopGain at %d = %v, want %v", i, got, tt.gain[i])
				}
			}
		})
	}
}
