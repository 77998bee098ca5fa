package repository

import (
	"context"
	"errors"
	"taengine/types"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var testInterval = types.OneMinute
var startTime = time.UnixMilli(0)
var endTime = startTime.Add(time.Minute * 5)

type mockCandlesRepository struct {
	sqlError error
	empty    bool
	lastArg  *aggregatesParams
}

func TestDatabase_GetAggregates(t *testing.T) {
	type args struct {
		assetId  int
		interval types.Interval
		start    time.Time
		end      time.Time
	}
	tests := []struct {
		name    string
		args    args
		want    []types.Candle
		empty   bool
		sqlErr  error
		wantErr error
	}{
		{"should throw ErrNoCandles when empty", args{999, testInterval, startTime, endTime}, nil, true, nil, ErrNoCandles},
		{"should throw ErrNoCandles on no rows", args{999, testInterval, startTime, endTime}, nil, false, pgx.ErrNoRows, ErrNoCandles},
		{"should throw ErrIntervalNotSupported", args{999, types.Interval("M"), startTime, endTime}, nil, false, nil, ErrIntervalNotSupported},
		{"should return candles", args{999, testInterval, startTime, endTime}, mockCandles(999, startTime, endTime), false, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockCandlesRepository{sqlError: tt.sqlErr, empty: tt.empty}
			db := &Database{candles: repo}
			got, err := db.GetAggregates(tt.args.assetId, "AAPL", tt.args.interval, tt.args.start, tt.args.end, context.Background())

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetAggregates() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetAggregates() error = %v", err)
			}
			if repo.lastArg.TimeBucket != "1 minute" {
				t.Errorf("GetAggregates() bucket = %q, want 1 minute", repo.lastArg.TimeBucket)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("GetAggregates() returned %d candles, want %d", len(got), len(tt.want))
			}
			for i := 0; i < len(tt.want); i++ {
				if got[i].AssetId != tt.args.assetId {
					t.Errorf("GetAggregates() %s assetId got = %v, want %v", got[i].Timestamp, got[i].AssetId, tt.want[i].AssetId)
					break
				}
				if got[i].Interval != tt.args.interval || got[i].Ticker != "AAPL" {
					t.Errorf("GetAggregates() %s interval, ticker got = %v, %v", got[i].Timestamp, got[i].Interval, got[i].Ticker)
					break
				}
				if !got[i].Timestamp.Equal(tt.want[i].Timestamp) {
					t.Errorf("GetAggregates() timestamp got = %v, want %v", got[i].Timestamp, tt.want[i].Timestamp)
					break
				}
				if !got[i].High.Equal(tt.want[i].High) {
					t.Errorf("GetAggregates() %s high got = %v, want %v", got[i].Timestamp, got[i].High, tt.want[i].High)
					break
				}
			}
		})
	}
}

func (m *mockCandlesRepository) GetAggregates(_ context.Context, arg aggregatesParams) ([]aggregateRow, error) {
	m.lastArg = &arg
	if m.sqlError != nil {
		return nil, m.sqlError
	}
	if m.empty {
		return nil, nil
	}
	var candles []aggregateRow
	for i := *arg.Starttime; i.Before(*arg.Endtime); i = i.Add(testInterval.Duration()) {
		bucket := i
		candles = append(candles, aggregateRow{
			Bucket:  &bucket,
			AssetID: arg.AssetID,
			Open:    decimal.NewFromInt(i.UnixMilli()),
			High:    decimal.NewFromInt(i.UnixMilli()),
			Low:     decimal.NewFromInt(i.UnixMilli()),
			Close:   decimal.NewFromInt(i.UnixMilli()),
			Volume:  decimal.NewFromInt(i.UnixMilli()),
		})
	}
	return candles, nil
}

func mockCandles(assetId int, start, end time.Time) []types.Candle {
	var candles []types.Candle
	for i := start; i.Before(end); i = i.Add(testInterval.Duration()) {
		candles = append(candles, types.Candle{
			Timestamp: i,
			Interval:  testInterval,
			AssetId:   assetId,
			Open:      decimal.NewFromInt(i.UnixMilli()),
			High:      decimal.NewFromInt(i.UnixMilli()),
			Low:       decimal.NewFromInt(i.UnixMilli()),
			Close:     decimal.NewFromInt(i.UnixMilli()),
			Volume:    decimal.NewFromInt(i.UnixMilli()),
		})
	}
	return candles
}
