package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/xela07ax/citizen-queue-portal/internal/engine"
	"github.com/xela07ax/citizen-queue-portal/internal/infra"
)

// Store — минимальный набор команд Redis, который нужен кэшу
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// AggregateCache кэширует агрегаты Monte-Carlo в Redis. Redis за Circuit Breaker:
// при сбоях кэш молча пропускает, и агрегаты считаются заново.
type AggregateCache struct {
	store   Store
	ttl     time.Duration
	cb      *gobreaker.CircuitBreaker
	metrics *engine.Metrics
	logger  *zap.Logger
}

func NewAggregateCache(store Store, ttl time.Duration, cfg infra.RedisConfig, metrics *engine.Metrics, logger *zap.Logger) *AggregateCache {
	if metrics == nil {
		metrics = engine.NewMetrics(nil)
	}
	c := &AggregateCache{
		store:   store,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger.Named("aggregate-cache"),
	}

	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-aggregates",
		MaxRequests: cfg.CBMaxRequests,
		Interval:    cfg.CBInterval,
		Timeout:     cfg.CBTimeout, // Время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		// Промах кэша это нормальный ответ Redis, а не отказ
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.metrics.CacheBreakerState.Set(float64(to))
			c.logger.Warn("cache circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return c
}

func (c *AggregateCache) Get(ctx context.Context, key string) (engine.Aggregates, bool) {
	res, err := c.cb.Execute(func() (interface{}, error) {
		return c.store.Get(ctx, infra.AggregatesKey(key)).Bytes()
	})
	switch {
	case errors.Is(err, redis.Nil):
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	case err != nil:
		c.metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Debug("cache lookup failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var aggs engine.Aggregates
	if err := json.Unmarshal(res.([]byte), &aggs); err != nil {
		c.metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("corrupted cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	c.metrics.CacheLookups.WithLabelValues("hit").Inc()
	return aggs, true
}

func (c *AggregateCache) Set(ctx context.Context, key string, aggs engine.Aggregates) {
	data, err := json.Marshal(aggs)
	if err != nil {
		c.logger.Error("failed to encode aggregates", zap.Error(err))
		return
	}

	_, err = c.cb.Execute(func() (interface{}, error) {
		return nil, c.store.Set(ctx, infra.AggregatesKey(key), data, c.ttl).Err()
	})
	if err != nil {
		c.logger.Debug("cache store failed", zap.String("key", key), zap.Error(fmt.Errorf("set: %w", err)))
	}
}

// State возвращает текущее состояние предохранителя (для health и тестов)
func (c *AggregateCache) State() gobreaker.State {
	return c.cb.State()
}
