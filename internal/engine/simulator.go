package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	ErrInvalidSimulationCount = errors.New("number of simulations must be positive")
	ErrSimulationFailed       = errors.New("monte-carlo simulation failed")
)

// Simulator запускает Monte-Carlo прогон: n независимых сценариев через Executor
// и агрегирует результаты по часам.
type Simulator struct {
	exec    Executor
	bands   []ArrivalBand
	metrics *Metrics
	logger  *zap.Logger
}

// NewSimulator собирает симулятор. Пустые bands заменяются профилем по умолчанию,
// nil metrics пишутся в никуда не подключенный реестр.
func NewSimulator(exec Executor, bands []ArrivalBand, metrics *Metrics, logger *zap.Logger) *Simulator {
	if len(bands) == 0 {
		bands = DefaultBands()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Simulator{
		exec:    exec,
		bands:   bands,
		metrics: metrics,
		logger:  logger.Named("simulator"),
	}
}

// Fingerprint описывает модель симулятора; одинаковые входы при одинаковой модели
// дают одинаковые агрегаты.
func (s *Simulator) Fingerprint() string {
	return fingerprint(s.bands)
}

// Run прогоняет сценарии 0..n-1 и ждет их все. Ошибка любого сценария проваливает весь прогон.
func (s *Simulator) Run(ctx context.Context, rate ServiceRate, window WorkingWindow, n int) (Aggregates, error) {
	if n <= 0 {
		return nil, ErrInvalidSimulationCount
	}
	if !window.Valid() {
		s.logger.Warn("invalid working window, using default",
			zap.Int("start_hour", window.StartHour),
			zap.Int("end_hour", window.EndHour))
		window = DefaultWindow
	}

	start := time.Now()
	s.logger.Debug("starting monte-carlo run",
		zap.Int("simulations", n),
		zap.Float64("arrival_rate", rate.ArrivalRatePerHour),
		zap.Float64("service_rate", rate.ServiceRatePerHour),
		zap.Int("current_queue", rate.CurrentQueue))

	// Каждый сценарий пишет только в свою ячейку, блокировки не нужны
	results := make([]ScenarioResult, n)
	err := s.exec.Execute(ctx, n, func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		results[i] = simulateScenario(i, rate, window, s.bands)
		return nil
	})
	if err != nil {
		s.logger.Error("monte-carlo run aborted", zap.Int("simulations", n), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSimulationFailed, err)
	}

	aggs := aggregate(results, window)

	elapsed := time.Since(start)
	s.metrics.SimulationDuration.Observe(elapsed.Seconds())
	s.metrics.ScenariosTotal.Add(float64(n))
	s.logger.Info("monte-carlo run finished",
		zap.Int("simulations", n),
		zap.Int("hours", len(aggs)),
		zap.Duration("elapsed", elapsed))

	return aggs, nil
}
