package types

import (
	"taengine/num"
	"time"

	"github.com/shopspring/decimal"
)

// Candle is a stored aggregate as returned by the database. Timestamp is the
// bucket start.
type Candle struct {
	AssetId   int             `json:"id"`
	Ticker    string          `json:"ticker"`
	Open      decimal.Decimal `json:"open"`
	Close     decimal.Decimal `json:"close"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Volume    decimal.Decimal `json:"volume"`
	Trades    int64           `json:"trades"`
	Interval  Interval        `json:"interval"`
	Timestamp time.Time       `json:"timestamp"`
}

// Bar converts the candle into a sealed bar using factory f.
func (c Candle) Bar(f num.Factory) (Bar, error) {
	return NewBarBuilder(f).
		TimePeriod(c.Interval.Duration()).
		BeginTime(c.Timestamp).
		Open(num.FromDecimal(f, c.Open)).
		High(num.FromDecimal(f, c.High)).
		Low(num.FromDecimal(f, c.Low)).
		Close(num.FromDecimal(f, c.Close)).
		Volume(num.FromDecimal(f, c.Volume)).
		Trades(c.Trades).
		Build()
}
