package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics of the executor.
type Metrics struct {
	TicksTotal     prometheus.Counter
	TradesTotal    *prometheus.CounterVec // labels: strategy, type
	EvaluateDur    *prometheus.HistogramVec
	RunDur         prometheus.Histogram
	StrategiesLive prometheus.Gauge
}

// NewMetrics creates the executor metrics and registers them on reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taengine_ticks_total",
			Help: "Bars advanced by the executor",
		}),
		TradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taengine_trades_total",
			Help: "Trades recorded per strategy and trade type",
		}, []string{"strategy", "type"}),
		EvaluateDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taengine_strategy_evaluate_duration_seconds",
			Help:    "Time to refresh and evaluate one strategy for one bar",
			Buckets: []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001},
		}, []string{"strategy"}),
		RunDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taengine_run_duration_seconds",
			Help:    "Wall time of a full executor run",
			Buckets: prometheus.DefBuckets,
		}),
		StrategiesLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "taengine_strategies_running",
			Help: "Strategies in the current run",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.TicksTotal,
			m.TradesTotal,
			m.EvaluateDur,
			m.RunDur,
			m.StrategiesLive,
		)
	}
	return m
}
