package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"taengine/internal/series"
	"taengine/num"
	"taengine/types"
	"time"
)

type tradeRow struct {
	at     time.Time
	price  num.Num
	volume num.Num
}

// LoadTradesCSV aggregates raw trades into bars of the given period. Rows
// are "timestamp,price,amount" with the timestamp in Unix seconds, after a
// header line. Files listing the newest trade first are reversed. Periods
// without trades produce no bar.
func LoadTradesCSV(r io.Reader, name string, f num.Factory, period time.Duration, maxBars int) (*series.BarSeries, error) {
	if period <= 0 {
		return nil, ErrNoPeriod
	}
	records, err := readRecords(r, 3)
	if err != nil {
		return nil, fmt.Errorf("load trades %s: %w", name, err)
	}

	trades := make([]tradeRow, 0, len(records))
	for i, rec := range records {
		secs, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("trade row %d: %w: %v", i+1, ErrMalformedRow, err)
		}
		price, err := f.Parse(rec[1])
		if err != nil {
			return nil, fmt.Errorf("trade row %d: %w: %v", i+1, ErrMalformedRow, err)
		}
		volume, err := f.Parse(rec[2])
		if err != nil {
			return nil, fmt.Errorf("trade row %d: %w: %v", i+1, ErrMalformedRow, err)
		}
		trades = append(trades, tradeRow{at: time.Unix(secs, 0).UTC(), price: price, volume: volume})
	}
	if trades[0].at.After(trades[len(trades)-1].at) {
		slices.Reverse(trades)
	}

	s := series.New(name, f, series.WithMaxBarCount(maxBars))
	b := s.NewBarBuilder().TimePeriod(period)
	begin := trades[0].at
	for _, tr := range trades {
		for !tr.at.Before(begin.Add(period)) {
			if err := flush(s, b, begin); err != nil {
				return nil, err
			}
			begin = begin.Add(period)
		}
		b.AddTrade(tr.volume, tr.price)
	}
	if err := flush(s, b, begin); err != nil {
		return nil, err
	}
	return s, nil
}

// flush seals the bar starting at begin, if it saw any trade, and resets b.
func flush(s *series.BarSeries, b *types.BarBuilder, begin time.Time) error {
	defer b.Reset()
	if !b.HasTrades() {
		return nil
	}
	bar, err := b.BeginTime(begin).Build()
	if err != nil {
		return fmt.Errorf("bar at %s: %w", begin.Format(time.RFC3339), err)
	}
	return s.AddBar(bar)
}

// LoadBarsCSV reads "date,open,high,low,close,volume" rows after a header
// line. Dates are either 2006-01-02 or RFC 3339 and mark the bar start.
func LoadBarsCSV(r io.Reader, name string, f num.Factory, period time.Duration, maxBars int) (*series.BarSeries, error) {
	if period <= 0 {
		return nil, ErrNoPeriod
	}
	records, err := readRecords(r, 6)
	if err != nil {
		return nil, fmt.Errorf("load bars %s: %w", name, err)
	}

	s := series.New(name, f, series.WithMaxBarCount(maxBars))
	for i, rec := range records {
		begin, err := parseTime(rec[0])
		if err != nil {
			return nil, fmt.Errorf("bar row %d: %w: %v", i+1, ErrMalformedRow, err)
		}
		values := make([]num.Num, 5)
		for j := range values {
			if values[j], err = f.Parse(rec[j+1]); err != nil {
				return nil, fmt.Errorf("bar row %d: %w: %v", i+1, ErrMalformedRow, err)
			}
		}
		bar, err := s.NewBarBuilder().
			TimePeriod(period).
			BeginTime(begin).
			Open(values[0]).
			High(values[1]).
			Low(values[2]).
			Close(values[3]).
			Volume(values[4]).
			Build()
		if err != nil {
			return nil, fmt.Errorf("bar row %d: %w", i+1, err)
		}
		if err := s.AddBar(bar); err != nil {
			return nil, fmt.Errorf("bar row %d: %w", i+1, err)
		}
	}
	return s, nil
}

// readRecords returns every row after the header, each with at least cols
// fields.
func readRecords(r io.Reader, cols int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRows
		}
		return nil, err
	}
	var out [][]string
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < cols {
			return nil, fmt.Errorf("line %d has %d fields, want %d: %w", line, len(rec), cols, ErrMalformedRow)
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
