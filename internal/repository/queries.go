package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// dbtx is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type queries struct {
	db dbtx
}

func newQueries(db dbtx) *queries {
	return &queries{db: db}
}

type assetRow struct {
	ID         int32
	Ticker     string
	Name       string
	Type       string
	CreatedAt  *time.Time
	ModifiedAt *time.Time
}

const getAssetByTicker = `
SELECT id, ticker, name, type, created_at, modified_at
FROM assets
WHERE ticker = $1
`

func (q *queries) GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error) {
	row := q.db.QueryRow(ctx, getAssetByTicker, ticker)
	var a assetRow
	err := row.Scan(&a.ID, &a.Ticker, &a.Name, &a.Type, &a.CreatedAt, &a.ModifiedAt)
	return a, err
}

type aggregatesParams struct {
	TimeBucket string
	AssetID    int32
	Starttime  *time.Time
	Endtime    *time.Time
}

type aggregateRow struct {
	Bucket  *time.Time
	AssetID int32
	Open    decimal.Decimal
	High    decimal.Decimal
	Low     decimal.Decimal
	Close   decimal.Decimal
	Volume  decimal.Decimal
	Trades  int64
}

// getAggregates rolls one minute candles up into buckets with TimescaleDB's
// time_bucket, first and last.
const getAggregates = `
SELECT time_bucket($1::interval, c.timestamp) AS bucket,
       c.asset_id,
       first(c.open, c.timestamp) AS open,
       max(c.high) AS high,
       min(c.low) AS low,
       last(c.close, c.timestamp) AS close,
       sum(c.volume) AS volume,
       count(*) AS trades
FROM candles c
WHERE c.asset_id = $2
  AND c.timestamp >= $3
  AND c.timestamp < $4
GROUP BY bucket, c.asset_id
ORDER BY bucket
`

func (q *queries) GetAggregates(ctx context.Context, arg aggregatesParams) ([]aggregateRow, error) {
	rows, err := q.db.Query(ctx, getAggregates, arg.TimeBucket, arg.AssetID, arg.Starttime, arg.Endtime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []aggregateRow
	for rows.Next() {
		var r aggregateRow
		if err := rows.Scan(&r.Bucket, &r.AssetID, &r.Open, &r.High, &r.Low, &r.Close, &r.Volume, &r.Trades); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
