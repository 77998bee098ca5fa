package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"taengine/internal/criteria"
	"taengine/internal/series"
	"taengine/internal/strategy"
)

// Engine loads a series, runs strategies over it and reports the results.
type Engine struct {
	db              dataStore
	executionConfig *ExecutionConfig
	reportingConfig *ReportingConfig
	criteria        []criteria.Criterion
	out             io.Writer
	opts            []Option
	options
}

func NewEngine(db dataStore, execCfg *ExecutionConfig, reportCfg *ReportingConfig, crit []criteria.Criterion, opts ...Option) *Engine {
	return &Engine{
		db:              db,
		executionConfig: execCfg,
		reportingConfig: reportCfg,
		criteria:        crit,
		out:             os.Stdout,
		opts:            opts,
		options:         newOptions(opts),
	}
}

// SetOutput redirects the printed reports.
func (e *Engine) SetOutput(w io.Writer) {
	e.out = w
}

// Run loads the feed from the data store and runs the strategies over it.
// Bars use the numeric factory of the configured trade amount.
func (e *Engine) Run(ctx context.Context, feed *DataFeed, factories []strategy.Factory) ([]TradingStatement, error) {
	if e.db == nil {
		return nil, fmt.Errorf("run %s: no data store", feed.Ticker)
	}
	amount := e.executionConfig.amount
	if amount == nil || amount.Factory() == nil {
		return nil, ErrNoAmount
	}
	f := amount.Factory()
	s, err := feed.Load(ctx, e.db, f)
	if err != nil {
		return nil, err
	}
	return e.RunSeries(ctx, s, factories)
}

// RunSeries runs the strategies over an already loaded series.
func (e *Engine) RunSeries(ctx context.Context, s *series.BarSeries, factories []strategy.Factory) ([]TradingStatement, error) {
	statements, err := NewExecutor(s, e.executionConfig, e.criteria, e.opts...).Execute(ctx, factories)
	if err != nil {
		return nil, err
	}

	for _, st := range statements {
		report := generateReport(st, e.reportingConfig.riskFreeRate)
		printReport(e.out, report)

		if e.reportingConfig.printTrades {
			path := filepath.Join(e.reportingConfig.filePath,
				fmt.Sprintf("%s_%s.csv", e.reportingConfig.reportName, st.Strategy))
			if err := writeTradesCSVFile(path, st); err != nil {
				return nil, err
			}
		}
		if e.sink != nil {
			if err := e.sink.Save(ctx, st); err != nil {
				return nil, fmt.Errorf("save %s: %w", st.Strategy, err)
			}
		}
	}

	if len(e.criteria) > 0 {
		if best, ok := Best(statements, e.criteria[0]); ok {
			e.logger.Info("best strategy",
				"criterion", e.criteria[0].Name(),
				"strategy", best.Strategy,
				"score", best.Criteria[e.criteria[0].Name()].String())
		}
	}
	return statements, nil
}
