// Package cache реализует ports/cache поверх Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"calbuddy/internal/calendar/config"
	"calbuddy/internal/calendar/ports/cache"
	"calbuddy/pkg/logger"
)

const (
	LogMethodGet    = "get"
	LogMethodSet    = "set"
	LogMethodDelete = "delete"
	LogMethodTake   = "take"
	LogMethodSetNX  = "set_if_absent"
	LogMethodSwap   = "swap"

	ErrorFailedToConnect = "failed to connect to redis"
	ErrorFailedToGet     = "failed to get value from redis"
	ErrorFailedToSet     = "failed to set value in redis"
	ErrorFailedToDelete  = "failed to delete value from redis"
	ErrorFailedToTake    = "failed to take value from redis"
	ErrorFailedToSetNX   = "failed to set absent value in redis"
	ErrorFailedToSwap    = "failed to swap value in redis"
	ErrorFailedToClose   = "failed to close redis connection"
)

// swapScript: KEYS[1] - ключ, ARGV - ожидаемое значение, новое значение, TTL в миллисекундах.
var swapScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
	return 1
end
return 0
`)

// RedisCache реализует cache.Cache.
type RedisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
}

var _ cache.Cache = (*RedisCache)(nil)

// NewRedisCache подключается к Redis и проверяет соединение.
func NewRedisCache(ctx context.Context, cfg *config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetAddress(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.ConnectTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdle,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", ErrorFailedToConnect, err)
	}

	logger.Log(ctx).Info(ctx, "connected to redis", zap.String("address", cfg.GetAddress()))

	return &RedisCache{
		client:     client,
		defaultTTL: cfg.DefaultTTL,
	}, nil
}

// Get возвращает значение или пустую строку, если ключа нет.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodGet), zap.String("key", key))

	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	return value, nil
}

// Set записывает значение. Нулевой ttl заменяется значением по умолчанию.
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSet), zap.String("key", key))

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return nil
}

// Delete удаляет ключ.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodDelete), zap.String("key", key))

	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Error(ctx, ErrorFailedToDelete, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToDelete, err)
	}

	return nil
}

// SetIfAbsent выполняет SET NX.
func (c *RedisCache) SetIfAbsent(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSetNX), zap.String("key", key))

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	ok, err := c.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		log.Error(ctx, ErrorFailedToSetNX, zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToSetNX, err)
	}

	return ok, nil
}

// Swap атомарно сравнивает и заменяет значение скриптом Lua.
func (c *RedisCache) Swap(ctx context.Context, key string, old, value string, ttl time.Duration) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSwap), zap.String("key", key))

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	swapped, err := swapScript.Run(ctx, c.client, []string{key}, old, value, ttl.Milliseconds()).Int()
	if err != nil {
		log.Error(ctx, ErrorFailedToSwap, zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToSwap, err)
	}

	return swapped == 1, nil
}

// Take читает и удаляет ключ одной командой GETDEL.
func (c *RedisCache) Take(ctx context.Context, key string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodTake), zap.String("key", key))

	value, err := c.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		log.Error(ctx, ErrorFailedToTake, zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToTake, err)
	}

	return value, nil
}

// Close закрывает соединение с Redis.
func (c *RedisCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}
