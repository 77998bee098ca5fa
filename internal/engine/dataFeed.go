package engine

import (
	"context"
	"fmt"
	"taengine/internal/loader"
	"taengine/internal/series"
	"taengine/num"
	"taengine/types"
	"time"
)

// DataFeed selects the candles of one ticker to replay.
type DataFeed struct {
	Ticker   string
	Interval types.Interval
	Start    time.Time
	End      time.Time
	// MaxBars caps the series, zero keeps every bar.
	MaxBars int
}

// Load fetches the candles of the feed and turns them into a bar series
// using factory f.
func (df *DataFeed) Load(ctx context.Context, db dataStore, f num.Factory) (*series.BarSeries, error) {
	asset, err := db.GetAssetByTicker(df.Ticker, ctx)
	if err != nil {
		return nil, err
	}
	candles, err := db.GetAggregates(asset.Id, asset.Ticker, df.Interval, df.Start, df.End, ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s %s: %w", df.Ticker, df.Interval, err)
	}
	name := fmt.Sprintf("%s_%s", df.Ticker, df.Interval)
	return loader.SeriesFromCandles(name, f, candles, df.MaxBars)
}
