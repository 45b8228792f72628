package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// AggregateCache хранит агрегаты прогонов. Сценарии детерминированы по id,
// поэтому одинаковые входы при одной модели дают одинаковые агрегаты.
type AggregateCache interface {
	Get(ctx context.Context, key string) (Aggregates, bool)
	Set(ctx context.Context, key string, aggs Aggregates)
}

// Predictor — единственная внешняя точка входа ядра.
type Predictor struct {
	sim     *Simulator
	cache   AggregateCache
	now     func() time.Time
	offset  OffsetFunc
	metrics *Metrics
	logger  *zap.Logger
}

type PredictorOption func(*Predictor)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) PredictorOption {
	return func(p *Predictor) { p.now = now }
}

// WithOffset подменяет смещение прихода.
func WithOffset(offset OffsetFunc) PredictorOption {
	return func(p *Predictor) { p.offset = offset }
}

// WithCache включает кэш агрегатов.
func WithCache(c AggregateCache) PredictorOption {
	return func(p *Predictor) { p.cache = c }
}

// WithMetrics подключает метрики прогнозов.
func WithMetrics(m *Metrics) PredictorOption {
	return func(p *Predictor) { p.metrics = m }
}

func NewPredictor(sim *Simulator, logger *zap.Logger, opts ...PredictorOption) *Predictor {
	p := &Predictor{
		sim:    sim,
		now:    time.Now,
		offset: RandomOffset,
		logger: logger.Named("predictor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = sim.metrics
	}
	return p
}

// ResolveWindow разбирает часы работы. При любой ошибке берется окно 08:00-15:00 с предупреждением в лог.
func (p *Predictor) ResolveWindow(workingHours string) WorkingWindow {
	w, err := ParseWorkingHours(workingHours)
	if err != nil {
		p.metrics.WorkingHoursFallbacks.Inc()
		p.logger.Warn("working hours not parsed, falling back to default window",
			zap.String("working_hours", workingHours),
			zap.String("default", FormatWindow(DefaultWindow)),
			zap.Error(err))
		return DefaultWindow
	}
	return w
}

// PredictBestArrivalTime: разбор часов -> Monte-Carlo прогон -> выбор лучшего часа.
func (p *Predictor) PredictBestArrivalTime(ctx context.Context, rate ServiceRate, workingHours string, numSimulations int) (Recommendation, error) {
	window := p.ResolveWindow(workingHours)

	aggs, err := p.aggregates(ctx, rate, window, numSimulations)
	if err != nil {
		return Recommendation{}, err
	}

	now := p.now()
	rec, err := FindOptimalArrivalTime(aggs, now.Hour(), now, p.offset)
	if err != nil {
		return Recommendation{}, err
	}

	outcome := "optimal"
	if rec.ClosedToday {
		outcome = "closed"
	}
	p.metrics.PredictionsTotal.WithLabelValues(outcome).Inc()

	p.logger.Info("arrival time recommended",
		zap.String("outcome", outcome),
		zap.Int("hour", rec.RecommendedHour),
		zap.Time("time", rec.RecommendedTime),
		zap.Int("wait_avg", rec.EstimatedWaitAvg),
		zap.Int("simulations", numSimulations))

	return rec, nil
}

func (p *Predictor) aggregates(ctx context.Context, rate ServiceRate, window WorkingWindow, n int) (Aggregates, error) {
	if p.cache == nil {
		return p.sim.Run(ctx, rate, window, n)
	}

	key := AggregateKey(rate, window, n, p.sim.Fingerprint())
	if aggs, ok := p.cache.Get(ctx, key); ok {
		p.logger.Debug("aggregates served from cache", zap.String("key", key))
		return aggs, nil
	}

	aggs, err := p.sim.Run(ctx, rate, window, n)
	if err != nil {
		return nil, err
	}
	p.cache.Set(ctx, key, aggs)
	return aggs, nil
}

// AggregateKey строит ключ кэша из всех входов, от которых зависят агрегаты.
func AggregateKey(rate ServiceRate, window WorkingWindow, n int, modelFingerprint string) string {
	return fmt.Sprintf("%g:%g:%d:%02d-%02d:%d:%s",
		rate.ArrivalRatePerHour, rate.ServiceRatePerHour, rate.CurrentQueue,
		window.StartHour, window.EndHour, n, modelFingerprint)
}

// Warm считает агрегаты для окна и кладет их в кэш. Без кэша ничего не делает.
func (p *Predictor) Warm(ctx context.Context, rate ServiceRate, window WorkingWindow, numSimulations int) error {
	if p.cache == nil {
		return nil
	}
	key := AggregateKey(rate, window, numSimulations, p.sim.Fingerprint())
	if _, ok := p.cache.Get(ctx, key); ok {
		return nil
	}
	_, err := p.aggregates(ctx, rate, window, numSimulations)
	return err
}
