package repositories

import (
	"context"

	"calbuddy/internal/calendar/domain/entities"
)

// UserRepository хранит пользователей и их цвета месяцев.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entities.User, error)

	// FindOrCreateByGoogleID возвращает существующего пользователя без изменений
	// или создает нового из профиля.
	FindOrCreateByGoogleID(ctx context.Context, profile *entities.Profile) (*entities.User, error)

	GetCalendarColors(ctx context.Context, userID string) (map[string]string, error)

	// SetCalendarColor записывает один ключ, не трогая остальные.
	SetCalendarColor(ctx context.Context, userID, monthKey, color string) error
}
