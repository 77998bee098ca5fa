// Package loader builds bar series from stored candles, CSV files and
// Parquet files.
package loader

import (
	"errors"
	"fmt"
	"taengine/internal/series"
	"taengine/num"
	"taengine/types"
)

var (
	ErrNoRows       = errors.New("no rows to load")
	ErrMalformedRow = errors.New("malformed row")
	ErrNoPeriod     = errors.New("bar period must be positive")
)

// SeriesFromCandles converts candles, oldest first, into a series bounded to
// maxBars (zero keeps everything).
func SeriesFromCandles(name string, f num.Factory, candles []types.Candle, maxBars int) (*series.BarSeries, error) {
	s := series.New(name, f, series.WithMaxBarCount(maxBars))
	for i, c := range candles {
		bar, err := c.Bar(f)
		if err != nil {
			return nil, fmt.Errorf("candle %d of %s: %w", i, name, err)
		}
		if err := s.AddBar(bar); err != nil {
			return nil, fmt.Errorf("candle %d of %s: %w", i, name, err)
		}
	}
	return s, nil
}
