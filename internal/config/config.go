// Package config loads the backtester YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

// Data sources.
const (
	SourcePostgres  = "postgres"
	SourceCSVBars   = "csv_bars"
	SourceCSVTrades = "csv_trades"
	SourceParquet   = "parquet"
)

// Config is the top-level configuration of a backtest run.
type Config struct {
	Data       Data             `yaml:"data"`
	Execution  Execution        `yaml:"execution"`
	Reporting  Reporting        `yaml:"reporting"`
	Criteria   []string         `yaml:"criteria"`
	Strategies []StrategyConfig `yaml:"strategies"`
	Storage    Storage          `yaml:"storage"`
	Metrics    Metrics          `yaml:"metrics"`
	Logging    Logging          `yaml:"logging"`
}

// Data selects where bars come from.
type Data struct {
	Source      string    `yaml:"source"`
	Path        string    `yaml:"path"`
	DatabaseURL string    `yaml:"database_url"`
	Ticker      string    `yaml:"ticker"`
	Interval    string    `yaml:"interval"`
	Start       time.Time `yaml:"start"`
	End         time.Time `yaml:"end"`
	MaxBars     int       `yaml:"max_bars"`
	// Numbers is "decimal" or "double".
	Numbers string `yaml:"numbers"`
	// ExportParquet, when set, writes the loaded bars to this parquet file.
	ExportParquet string `yaml:"export_parquet"`
}

// Cost models.
const (
	CostNone      = "none"
	CostLinear    = "linear"
	CostIBKRStock = "ibkr_stock"
	CostIBKRForex = "ibkr_forex"
)

type Execution struct {
	Amount    string `yaml:"amount"`
	TradeType string `yaml:"trade_type"`
	// CostModel is one of the Cost constants. CostRate is the rate of the
	// linear model.
	CostModel string `yaml:"cost_model"`
	CostRate  string `yaml:"cost_rate"`
	Workers   int    `yaml:"workers"`
	Progress  bool   `yaml:"progress"`
}

type Reporting struct {
	RiskFreeRate float64 `yaml:"risk_free_rate"`
	PrintTrades  bool    `yaml:"print_trades"`
	ReportName   string  `yaml:"report_name"`
	OutputDir    string  `yaml:"output_dir"`
}

// StrategyConfig names a registered strategy and its parameters.
type StrategyConfig struct {
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params"`
}

type Storage struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// Metrics serves Prometheus metrics on Addr when set.
type Metrics struct {
	Addr string `yaml:"addr"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, applies environment variable overrides and defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Data.DatabaseURL = v
	}
	if v := os.Getenv("DATA_PATH"); v != "" {
		cfg.Data.Path = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("BACKTEST_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Execution.Workers = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Data.Numbers == "" {
		cfg.Data.Numbers = "decimal"
	}
	if cfg.Execution.Amount == "" {
		cfg.Execution.Amount = "1"
	}
	if cfg.Execution.TradeType == "" {
		cfg.Execution.TradeType = "BUY"
	}
	if cfg.Execution.CostModel == "" {
		cfg.Execution.CostModel = CostNone
		if cfg.Execution.CostRate != "" {
			cfg.Execution.CostModel = CostLinear
		}
	}
	if cfg.Execution.Workers == 0 {
		cfg.Execution.Workers = 1
	}
	if cfg.Reporting.ReportName == "" {
		cfg.Reporting.ReportName = "backtest"
	}
	if len(cfg.Criteria) == 0 {
		cfg.Criteria = []string{"profit_loss", "number_of_positions", "maximum_drawdown"}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// Validate checks the fields every run needs.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case SourcePostgres:
		if c.Data.DatabaseURL == "" || c.Data.Ticker == "" {
			return fmt.Errorf("%w: postgres source needs database_url and ticker", ErrInvalid)
		}
	case SourceCSVBars, SourceCSVTrades, SourceParquet:
		if c.Data.Path == "" {
			return fmt.Errorf("%w: %s source needs a path", ErrInvalid, c.Data.Source)
		}
	default:
		return fmt.Errorf("%w: unknown data source %q", ErrInvalid, c.Data.Source)
	}
	if c.Data.Interval == "" {
		return fmt.Errorf("%w: data interval is required", ErrInvalid)
	}
	if c.Data.Numbers != "decimal" && c.Data.Numbers != "double" {
		return fmt.Errorf("%w: numbers must be decimal or double, got %q", ErrInvalid, c.Data.Numbers)
	}
	switch c.Execution.CostModel {
	case CostNone, CostIBKRStock, CostIBKRForex:
	case CostLinear:
		if c.Execution.CostRate == "" {
			return fmt.Errorf("%w: linear cost model needs cost_rate", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown cost model %q", ErrInvalid, c.Execution.CostModel)
	}
	if len(c.Strategies) == 0 {
		return fmt.Errorf("%w: no strategies", ErrInvalid)
	}
	for i, s := range c.Strategies {
		if s.Name == "" {
			return fmt.Errorf("%w: strategy %d has no name", ErrInvalid, i)
		}
	}
	return nil
}
