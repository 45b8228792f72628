package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Latency: длительность полного прогона Monte-Carlo (fan-out + агрегация)
	SimulationDuration prometheus.Histogram

	// Traffic: сколько сценариев прогнано
	ScenariosTotal prometheus.Counter

	// Результаты выбора: optimal / closed
	PredictionsTotal *prometheus.CounterVec

	// Кэш агрегатов: hit / miss / error
	CacheLookups *prometheus.CounterVec

	// Saturation: состояние Circuit Breaker кэша (0 - closed, 1 - half-open, 2 - open)
	CacheBreakerState prometheus.Gauge

	// Сколько раз строка часов работы не разобралась и взято окно по умолчанию
	WorkingHoursFallbacks prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - если реестр не передан, пишем в локальный, никуда не подключенный
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		SimulationDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "queue_simulation_duration_seconds",
			Help:    "Duration of a full Monte-Carlo run including aggregation.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),

		ScenariosTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "queue_simulation_scenarios_total",
			Help: "Total number of simulated scenarios.",
		}),

		PredictionsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "queue_predictions_total",
			Help: "Arrival-time recommendations by outcome.",
		}, []string{"outcome"}),

		CacheLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "queue_aggregate_cache_lookups_total",
			Help: "Aggregate cache lookups by result.",
		}, []string{"result"}),

		CacheBreakerState: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "queue_aggregate_cache_breaker_state",
			Help: "State of the aggregate cache circuit breaker (0=closed, 1=half-open, 2=open).",
		}),

		WorkingHoursFallbacks: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "queue_working_hours_fallbacks_total",
			Help: "Working-hours strings that failed to parse and fell back to the default window.",
		}),
	}
}
