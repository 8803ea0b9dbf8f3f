// Package cache определяет интерфейс кэша и хранилища короткоживущих ключей.
package cache

import (
	"context"
	"time"
)

// Cache - строковое хранилище с TTL. Отсутствующий ключ дает пустую строку без ошибки.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	// SetIfAbsent записывает значение, только если ключа нет.
	SetIfAbsent(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)

	// Swap заменяет значение, только если текущее равно old.
	Swap(ctx context.Context, key string, old, value string, ttl time.Duration) (bool, error)

	// Take атомарно читает и удаляет ключ.
	Take(ctx context.Context, key string) (string, error)

	Close() error
}
