package engine

import (
	"context"
	"taengine/types"
	"time"
)

type dataStore interface {
	GetAssetByTicker(ticker string, ctx context.Context) (*types.Asset, error)
	GetAggregates(assetId int, ticker string, interval types.Interval, start, end time.Time, ctx context.Context) ([]types.Candle, error)
}

type statementSink interface {
	Save(ctx context.Context, stmt TradingStatement) error
}
