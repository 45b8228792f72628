package infra

import "fmt"

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "cqp"
)

const (
	// Агрегаты Monte-Carlo прогонов
	RedisKeyAggregatesPrefix = RedisNamespace + ":aggregates:"

	// Блокировка прогрева, чтобы кэш грел только один инстанс
	RedisKeyWarmupLock = RedisNamespace + ":warmup:lock"
)

// AggregatesKey строит ключ Redis для ключа кэша агрегатов
func AggregatesKey(cacheKey string) string {
	return fmt.Sprintf("%s%s", RedisKeyAggregatesPrefix, cacheKey)
}
