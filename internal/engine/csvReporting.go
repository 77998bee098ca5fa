package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"taengine/internal/series"
	"taengine/internal/trading"
	"time"
)

// writeTradesCSVFile writes the trades of a statement to a CSV file at the
// given path.
func writeTradesCSVFile(path string, st TradingStatement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trades file: %w", err)
	}
	defer f.Close()

	return writeTradesCSV(f, st)
}

// writeTradesCSV writes one row per trade to any io.Writer, entries and
// exits paired by position_id.
func writeTradesCSV(w io.Writer, st TradingStatement) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"position_id",
		"leg", // "entry" or "exit"
		"strategy",
		"type",
		"index",
		"price",
		"amount",
		"cost",
		"profit",
		"bar_time", // RFC3339, empty once evicted
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, p := range st.Record.Positions() {
		positionID := strconv.Itoa(i)
		if err := writeTradeRow(cw, st, positionID, "entry", *p.Entry, ""); err != nil {
			return err
		}
		if p.Exit != nil {
			if err := writeTradeRow(cw, st, positionID, "exit", *p.Exit, p.Profit().String()); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func writeTradeRow(cw *csv.Writer, st TradingStatement, positionID, leg string, t trading.Trade, profit string) error {
	record := []string{
		positionID,
		leg,
		st.Strategy,
		string(t.Type),
		strconv.Itoa(t.Index),
		t.Price.String(),
		t.Amount.String(),
		t.Cost.String(),
		profit,
		barTime(st.Series, t.Index),
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

func barTime(s *series.BarSeries, index int) string {
	if s == nil {
		return ""
	}
	bar, err := s.Bar(index)
	if err != nil {
		return ""
	}
	return bar.EndTime.Format(time.RFC3339)
}
