package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"calbuddy/internal/calendar/domain/entities"
	"calbuddy/internal/calendar/ports/cache"
	"calbuddy/internal/calendar/ports/repositories"
	"calbuddy/pkg/logger"
)

const (
	colorsKeyPrefix   = "colors:"
	colorsLeasePrefix = "lease:"
	colorsLeaseTTL    = 5 * time.Second
)

const (
	LogColorsCacheRead  = "failed to read colors from cache"
	LogColorsCacheWrite = "failed to write colors to cache"
	LogColorsCacheDrop  = "failed to invalidate colors cache"
	LogColorsLeaseLost  = "colors changed during read, cache not populated"
)

// PreferenceUseCase управляет цветами месяцев пользователя.
type PreferenceUseCase struct {
	users repositories.UserRepository
	cache cache.Cache
	ttl   time.Duration
	gate  Gate
}

// NewPreferenceUseCase создает сервис цветов. cache может быть nil.
func NewPreferenceUseCase(users repositories.UserRepository, c cache.Cache, ttl time.Duration) *PreferenceUseCase {
	return &PreferenceUseCase{
		users: users,
		cache: c,
		ttl:   ttl,
	}
}

func colorsKey(userID string) string {
	return colorsKeyPrefix + userID
}

// GetColors возвращает все цвета месяцев, пустую карту если их нет.
func (uc *PreferenceUseCase) GetColors(ctx context.Context) (map[string]string, error) {
	userID, err := uc.gate.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	colors, lease, ok := uc.cached(ctx, userID)
	if ok {
		return colors, nil
	}

	// Аренда ставится до чтения из БД: Delete в SetColor снимает ее,
	// и устаревшая карта не попадает в кэш.
	colors, err = uc.users.GetCalendarColors(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get colors: %w", err)
	}
	if colors == nil {
		colors = map[string]string{}
	}

	if lease != "" {
		uc.store(ctx, userID, lease, colors)
	}
	return colors, nil
}

// SetColor записывает цвет одного месяца, остальные не меняются.
func (uc *PreferenceUseCase) SetColor(ctx context.Context, monthKey, color string) error {
	userID, err := uc.gate.Resolve(ctx)
	if err != nil {
		return err
	}

	if monthKey == "" {
		return fmt.Errorf("%w: %w", ErrInvalidParams, entities.ErrEmptyMonthKey)
	}
	if color == "" {
		return fmt.Errorf("%w: %w", ErrInvalidParams, entities.ErrEmptyCalendarColor)
	}

	if err := uc.users.SetCalendarColor(ctx, userID, monthKey, color); err != nil {
		return fmt.Errorf("failed to set color: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, colorsKey(userID)); err != nil {
			logger.Log(ctx).Warn(ctx, LogColorsCacheDrop, zap.Error(err))
		}
	}
	return nil
}

// cached возвращает карту из кэша или, при промахе, аренду на запись.
func (uc *PreferenceUseCase) cached(ctx context.Context, userID string) (map[string]string, string, bool) {
	if uc.cache == nil {
		return nil, "", false
	}

	key := colorsKey(userID)
	raw, err := uc.cache.Get(ctx, key)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogColorsCacheRead, zap.Error(err))
		return nil, "", false
	}

	switch {
	case raw == "":
		lease := colorsLeasePrefix + uuid.NewString()
		acquired, err := uc.cache.SetIfAbsent(ctx, key, lease, colorsLeaseTTL)
		if err != nil {
			logger.Log(ctx).Warn(ctx, LogColorsCacheWrite, zap.Error(err))
			return nil, "", false
		}
		if !acquired {
			lease = ""
		}
		return nil, lease, false
	case strings.HasPrefix(raw, colorsLeasePrefix):
		return nil, "", false
	}

	colors := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &colors); err != nil {
		logger.Log(ctx).Warn(ctx, LogColorsCacheRead, zap.Error(err))
		return nil, "", false
	}
	return colors, "", true
}

func (uc *PreferenceUseCase) store(ctx context.Context, userID, lease string, colors map[string]string) {
	raw, err := json.Marshal(colors)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogColorsCacheWrite, zap.Error(err))
		return
	}

	swapped, err := uc.cache.Swap(ctx, colorsKey(userID), lease, string(raw), uc.ttl)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogColorsCacheWrite, zap.Error(err))
		return
	}
	if !swapped {
		logger.Log(ctx).Debug(ctx, LogColorsLeaseLost, zap.String("user_id", userID))
	}
}
