package repository

import (
	"context"
	"errors"
	"fmt"
	"taengine/types"
	"time"

	"github.com/jackc/pgx/v5"
)

var bucketToInterval = map[types.Interval]string{
	types.OneMinute:      "1 minute",
	types.ThreeMinutes:   "3 minutes",
	types.FiveMinutes:    "5 minutes",
	types.FifteenMinutes: "15 minutes",
	types.ThirtyMinutes:  "30 minutes",
	types.Hour:           "1 hour",
	types.TwoHours:       "2 hours",
	types.FourHours:      "4 hours",
	types.Day:            "1 day",
	types.Week:           "1 week",
}

// GetAggregates returns the candles of an asset in [start, end) bucketed to
// interval, oldest first.
func (db *Database) GetAggregates(assetId int, ticker string, interval types.Interval, start, end time.Time, ctx context.Context) ([]types.Candle, error) {
	bucket, ok := bucketToInterval[interval]
	if !ok {
		return nil, fmt.Errorf("interval %s: %w", interval, ErrIntervalNotSupported)
	}
	args := aggregatesParams{
		TimeBucket: bucket,
		AssetID:    int32(assetId),
		Starttime:  &start,
		Endtime:    &end,
	}
	candles, err := db.candles.GetAggregates(ctx, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoCandles
		}
		return nil, err
	}
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}
	return convertCandles(candles, interval, ticker), nil
}

func convertCandles(candleDAOs []aggregateRow, interval types.Interval, ticker string) []types.Candle {
	candles := make([]types.Candle, 0, len(candleDAOs))
	for _, dao := range candleDAOs {
		if dao.Bucket == nil {
			continue
		}
		candles = append(candles, types.Candle{
			AssetId:   int(dao.AssetID),
			Ticker:    ticker,
			Open:      dao.Open,
			Close:     dao.Close,
			High:      dao.High,
			Low:       dao.Low,
			Volume:    dao.Volume,
			Trades:    dao.Trades,
			Interval:  interval,
			Timestamp: *dao.Bucket,
		})
	}
	return candles
}
