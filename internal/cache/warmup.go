package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/citizen-queue-portal/internal/engine"
	"github.com/xela07ax/citizen-queue-portal/internal/infra"
)

const warmupLockTTL = 30 * time.Second

// Locker — распределенная блокировка на SETNX
type Locker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// Warmer считает и кэширует агрегаты окна
type Warmer interface {
	Warm(ctx context.Context, rate engine.ServiceRate, window engine.WorkingWindow, numSimulations int) error
}

// Warmup прогревает кэш агрегатов для профиля по умолчанию по каждому окну работы отделений.
// Возвращает количество прогретых окон.
func Warmup(
	ctx context.Context,
	locker Locker,
	w Warmer,
	logger *zap.Logger,
	rate engine.ServiceRate,
	windows []engine.WorkingWindow,
	numSimulations int,
) (int, error) {
	// 1. Распределенная блокировка (SetNX), чтобы только один инстанс грел Redis
	ok, err := locker.SetNX(ctx, infra.RedisKeyWarmupLock, "processing", warmupLockTTL).Result()
	if err != nil || !ok {
		logger.Debug("warm-up skipped", zap.Bool("locked_by_other", err == nil), zap.Error(err))
		return 0, nil // Либо ошибка сети, либо другой уже греет кэш
	}

	// 2. Окна без повторов
	seen := make(map[engine.WorkingWindow]struct{}, len(windows))
	warmed := 0
	for _, window := range windows {
		if _, dup := seen[window]; dup {
			continue
		}
		seen[window] = struct{}{}

		if err := w.Warm(ctx, rate, window, numSimulations); err != nil {
			if ctx.Err() != nil {
				return warmed, ctx.Err()
			}
			logger.Warn("warm-up of window failed",
				zap.String("window", engine.FormatWindow(window)), zap.Error(err))
			continue
		}
		warmed++
	}

	logger.Info("aggregate cache warmed up",
		zap.Int("windows", warmed),
		zap.Int("simulations", numSimulations))
	return warmed, nil
}
