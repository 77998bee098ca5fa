package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"taengine/internal/criteria"
	"taengine/internal/series"
	"taengine/internal/strategy"
	"taengine/internal/trading"
	"taengine/num"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoStrategies = errors.New("no strategies to run")
	ErrEmptySeries  = errors.New("series has no bars")
	ErrNoAmount     = errors.New("trade amount must be positive")
)

// TradingStatement is the outcome of one strategy over one run.
type TradingStatement struct {
	RunID    uuid.UUID
	Strategy string
	Series   *series.BarSeries
	Record   *trading.Record
	Criteria map[string]num.Num
}

// Executor runs several strategies over one bar series. The series is
// advanced by Execute alone; strategies are evaluated after each advance,
// in parallel when the config allows more than one worker.
type Executor struct {
	series   *series.BarSeries
	config   *ExecutionConfig
	criteria []criteria.Criterion
	options
}

// run is the private state of one strategy: its own indicator graph and
// its own record.
type run struct {
	strategy *strategy.Strategy
	record   *trading.Record
}

func NewExecutor(s *series.BarSeries, cfg *ExecutionConfig, crit []criteria.Criterion, opts ...Option) *Executor {
	return &Executor{
		series:   s,
		config:   cfg,
		criteria: crit,
		options:  newOptions(opts),
	}
}

// Execute builds one strategy per factory, replays the series from its first
// retained bar and returns a statement per strategy in factory order.
func (e *Executor) Execute(ctx context.Context, factories []strategy.Factory) ([]TradingStatement, error) {
	if len(factories) == 0 {
		return nil, ErrNoStrategies
	}
	if e.series.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", e.series.Name(), ErrEmptySeries)
	}
	f := e.series.Factory()
	if e.config.amount == nil || !e.config.amount.IsPositive() {
		return nil, ErrNoAmount
	}
	if !num.SameFactory(f, e.config.amount) {
		return nil, fmt.Errorf("amount %s: %w", e.config.amount, trading.ErrFactoryMismatch)
	}

	runs := make([]*run, 0, len(factories))
	for i, factory := range factories {
		strat, err := factory(e.series)
		if err != nil {
			return nil, fmt.Errorf("build strategy %d: %w", i, err)
		}
		runs = append(runs, &run{
			strategy: strat,
			record: trading.NewRecord(f, e.config.tradeType,
				trading.WithCostModel(e.config.costModel),
				trading.WithName(strat.Name())),
		})
	}

	start := time.Now()
	e.logger.Info("backtest started",
		"series", e.series.Name(),
		"bars", e.series.BarCount(),
		"strategies", len(runs),
		"workers", e.config.workers)
	e.metrics.StrategiesLive.Set(float64(len(runs)))
	defer e.metrics.StrategiesLive.Set(0)

	if err := e.replay(ctx, runs); err != nil {
		return nil, err
	}

	statements := e.statements(runs)
	e.metrics.RunDur.Observe(time.Since(start).Seconds())
	e.logger.Info("backtest finished",
		"series", e.series.Name(),
		"strategies", len(runs),
		"elapsed", time.Since(start))
	return statements, nil
}

func (e *Executor) replay(ctx context.Context, runs []*run) error {
	e.series.Rewind()
	defer e.series.Rewind()

	var bar *progressbar.ProgressBar
	if e.config.showProgress {
		bar = initProgressBar(e.series.BarCount())
	}

	for e.series.Advance() {
		if err := ctx.Err(); err != nil {
			return err
		}
		tick := e.series.Tick()
		price := e.series.MustBar(tick.Index).Close
		if err := e.step(ctx, runs, tick, price); err != nil {
			return fmt.Errorf("bar %d: %w", tick.Index, err)
		}
		e.metrics.TicksTotal.Inc()
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return nil
}

// step evaluates every strategy for one tick. The errgroup Wait is the
// barrier before the next advance.
func (e *Executor) step(ctx context.Context, runs []*run, tick series.Tick, price num.Num) error {
	if e.config.workers <= 1 {
		for _, r := range runs {
			if err := e.evaluate(r, tick, price); err != nil {
				return err
			}
		}
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.config.workers)
	for _, r := range runs {
		g.Go(func() error {
			return e.evaluate(r, tick, price)
		})
	}
	return g.Wait()
}

func (e *Executor) evaluate(r *run, tick series.Tick, price num.Num) (err error) {
	defer func() {
		if p := recover(); p != nil {
			var idx *series.IndexError
			if pe, ok := p.(error); ok && errors.As(pe, &idx) {
				err = fmt.Errorf("strategy %s: %w", r.strategy.Name(), idx)
				return
			}
			panic(p)
		}
	}()

	start := time.Now()
	r.strategy.Refresh(tick)
	ok, err := r.strategy.ShouldOperate(r.record)
	e.metrics.EvaluateDur.WithLabelValues(r.strategy.Name()).Observe(time.Since(start).Seconds())
	if err != nil || !ok {
		return err
	}

	trade, err := r.record.Operate(tick.Index, price, e.config.amount)
	if err != nil {
		return fmt.Errorf("strategy %s: %w", r.strategy.Name(), err)
	}
	e.metrics.TradesTotal.WithLabelValues(r.strategy.Name(), string(trade.Type)).Inc()
	e.logger.Debug("trade",
		"strategy", r.strategy.Name(),
		"type", trade.Type,
		"index", trade.Index,
		"price", trade.Price.String(),
		"amount", trade.Amount.String())
	return nil
}

func (e *Executor) statements(runs []*run) []TradingStatement {
	out := make([]TradingStatement, len(runs))
	var wg sync.WaitGroup
	wg.Add(len(runs))
	for i, r := range runs {
		go func() {
			defer wg.Done()
			values := make(map[string]num.Num, len(e.criteria))
			for _, c := range e.criteria {
				values[c.Name()] = c.Calculate(e.series, r.record)
			}
			out[i] = TradingStatement{
				RunID:    uuid.New(),
				Strategy: r.strategy.Name(),
				Series:   e.series,
				Record:   r.record,
				Criteria: values,
			}
		}()
	}
	wg.Wait()
	return out
}

// Best returns the statement that scores best on c. Scores missing from a
// statement are computed from its record.
func Best(statements []TradingStatement, c criteria.Criterion) (TradingStatement, bool) {
	var (
		best      TradingStatement
		bestScore num.Num
		found     bool
	)
	for _, st := range statements {
		score, ok := st.Criteria[c.Name()]
		if !ok {
			score = c.Calculate(st.Series, st.Record)
		}
		if score.IsNaN() {
			continue
		}
		if !found || c.BetterThan(score, bestScore) {
			best, bestScore, found = st, score, true
		}
	}
	return best, found
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Backtesting in progress..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// options are shared by Executor and Engine.
type options struct {
	logger  *slog.Logger
	metrics *Metrics
	sink    statementSink
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithStore persists every statement produced by Engine runs.
func WithStore(s statementSink) Option {
	return func(o *options) {
		o.sink = s
	}
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.metrics == nil {
		o.metrics = NewMetrics(nil)
	}
	return o
}
