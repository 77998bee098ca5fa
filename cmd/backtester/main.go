package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"taengine/internal/config"
	"taengine/internal/criteria"
	"taengine/internal/engine"
	"taengine/internal/loader"
	"taengine/internal/logger"
	"taengine/internal/repository"
	"taengine/internal/series"
	"taengine/internal/store"
	"taengine/internal/strategy"
	"taengine/internal/trading"
	"taengine/num"
	"taengine/strategies"
	"taengine/types"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "backtest.yaml", "path to the YAML configuration")
	list := flag.Bool("list", false, "print the registered strategies and criteria, then exit")
	flag.Parse()

	registry := strategies.NewRegistry()
	if *list {
		fmt.Println("strategies:", registry.List())
		fmt.Println("criteria:  ", criteria.Names())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	l := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, registry, l); err != nil {
		l.Error("backtest failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, registry *strategy.Registry, l *slog.Logger) error {
	var f num.Factory = num.Decimal
	if cfg.Data.Numbers == "double" {
		f = num.Double
	}

	execCfg, err := executionConfig(cfg.Execution, f)
	if err != nil {
		return err
	}
	crit, err := criteriaFor(cfg.Criteria, cfg.Reporting.RiskFreeRate)
	if err != nil {
		return err
	}
	factories := make([]strategy.Factory, 0, len(cfg.Strategies))
	for _, sc := range cfg.Strategies {
		factory, err := registry.Build(sc.Name, strategy.Params(sc.Params))
		if err != nil {
			return err
		}
		factories = append(factories, factory)
	}

	reg := prometheus.NewRegistry()
	opts := []engine.Option{engine.WithLogger(l), engine.WithMetrics(engine.NewMetrics(reg))}
	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, reg, l)
		defer srv.Shutdown(context.Background())
	}
	if cfg.Storage.SQLitePath != "" {
		st, err := store.NewSQLiteStore(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return err
		}
		defer st.Close()
		opts = append(opts, engine.WithStore(st))
	}

	interval, err := types.ParseInterval(cfg.Data.Interval)
	if err != nil {
		return err
	}
	s, err := loadSeries(ctx, cfg.Data, interval, f)
	if err != nil {
		return err
	}
	l.Info("series loaded", "name", s.Name(), "bars", s.BarCount())
	if cfg.Data.ExportParquet != "" {
		if err := loader.WriteBarsParquet(cfg.Data.ExportParquet, cfg.Data.Ticker, s); err != nil {
			return err
		}
	}

	reportCfg := engine.NewReportingConfig(cfg.Reporting.RiskFreeRate, cfg.Reporting.PrintTrades,
		cfg.Reporting.ReportName, cfg.Reporting.OutputDir)
	eng := engine.NewEngine(nil, execCfg, reportCfg, crit, opts...)
	_, err = eng.RunSeries(ctx, s, factories)
	return err
}

func executionConfig(c config.Execution, f num.Factory) (*engine.ExecutionConfig, error) {
	amount, err := f.Parse(c.Amount)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	tradeType, err := types.ParseTradeType(c.TradeType)
	if err != nil {
		return nil, err
	}

	var cost trading.CostModel
	switch c.CostModel {
	case config.CostLinear:
		rate, err := f.Parse(c.CostRate)
		if err != nil {
			return nil, fmt.Errorf("cost rate: %w", err)
		}
		cost = trading.LinearCost{Rate: rate}
	case config.CostIBKRStock:
		cost = trading.IBKRStockFixed(f)
	case config.CostIBKRForex:
		cost = trading.IBKRForexTier1(f)
	}
	return engine.NewExecutionConfig(amount, tradeType, cost, c.Workers, c.Progress), nil
}

func criteriaFor(names []string, riskFreeRate float64) ([]criteria.Criterion, error) {
	out := make([]criteria.Criterion, 0, len(names))
	for _, name := range names {
		c, err := criteria.ByName(name)
		if err != nil {
			return nil, err
		}
		if _, ok := c.(criteria.SharpeRatio); ok {
			c = criteria.SharpeRatio{RiskFree: riskFreeRate}
		}
		out = append(out, c)
	}
	return out, nil
}

func loadSeries(ctx context.Context, d config.Data, interval types.Interval, f num.Factory) (*series.BarSeries, error) {
	name := fmt.Sprintf("%s_%s", d.Ticker, interval)
	switch d.Source {
	case config.SourcePostgres:
		db, err := repository.NewDatabase(ctx, d.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		feed := &engine.DataFeed{Ticker: d.Ticker, Interval: interval, Start: d.Start, End: d.End, MaxBars: d.MaxBars}
		return feed.Load(ctx, db, f)
	case config.SourceParquet:
		return loader.LoadBarsParquet(d.Path, name, f, interval.Duration(), d.MaxBars)
	}

	file, err := os.Open(d.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if d.Source == config.SourceCSVTrades {
		return loader.LoadTradesCSV(file, name, f, interval.Duration(), d.MaxBars)
	}
	return loader.LoadBarsCSV(file, name, f, interval.Duration(), d.MaxBars)
}

func serveMetrics(addr string, reg *prometheus.Registry, l *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		l.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("metrics server", "error", err)
		}
	}()
	return srv
}
