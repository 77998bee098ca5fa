package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"taengine/internal/series"
	"taengine/num"
	"time"

	"github.com/parquet-go/parquet-go"
)

// BarRecord is the Parquet schema for bars. Timestamp is the bar start.
type BarRecord struct {
	Symbol     string  `parquet:"symbol"`
	Timestamp  int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open       float64 `parquet:"open"`
	High       float64 `parquet:"high"`
	Low        float64 `parquet:"low"`
	Close      float64 `parquet:"close"`
	Volume     float64 `parquet:"volume"`
	TradeCount int64   `parquet:"trade_count"`
}

// LoadBarsParquet reads a Parquet bar file into a series. Records are sorted
// by timestamp first, so files need not be ordered.
func LoadBarsParquet(path, name string, f num.Factory, period time.Duration, maxBars int) (*series.BarSeries, error) {
	if period <= 0 {
		return nil, ErrNoPeriod
	}
	records, err := parquet.ReadFile[BarRecord](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: %w", path, ErrNoRows)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp < records[j].Timestamp
	})

	s := series.New(name, f, series.WithMaxBarCount(maxBars))
	for _, r := range records {
		bar, err := s.NewBarBuilder().
			TimePeriod(period).
			BeginTime(time.UnixMilli(r.Timestamp).UTC()).
			OHLCV(r.Open, r.High, r.Low, r.Close, r.Volume).
			Trades(r.TradeCount).
			Build()
		if err != nil {
			return nil, fmt.Errorf("bar at %d: %w", r.Timestamp, err)
		}
		if err := s.AddBar(bar); err != nil {
			return nil, fmt.Errorf("bar at %d: %w", r.Timestamp, err)
		}
	}
	return s, nil
}

// WriteBarsParquet writes the retained bars of s to path, creating parent
// directories as needed.
func WriteBarsParquet(path, symbol string, s *series.BarSeries) error {
	records := make([]BarRecord, 0, s.BarCount())
	for i := s.BeginIndex(); i <= s.EndIndex(); i++ {
		b := s.MustBar(i)
		records = append(records, BarRecord{
			Symbol:     symbol,
			Timestamp:  b.BeginTime.UnixMilli(),
			Open:       b.Open.Float64(),
			High:       b.High.Float64(),
			Low:        b.Low.Float64(),
			Close:      b.Close.Float64(),
			Volume:     b.Volume.Float64(),
			TradeCount: b.Trades,
		})
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}
