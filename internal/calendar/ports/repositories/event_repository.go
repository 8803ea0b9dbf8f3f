// Package repositories описывает хранилища данных календаря.
package repositories

import (
	"context"

	"calbuddy/internal/calendar/domain/entities"
)

// EventRepository хранит записи дней. Поля Note и Content стикеров приходят уже зашифрованными.
type EventRepository interface {
	// ListByUser возвращает записи пользователя в порядке создания.
	ListByUser(ctx context.Context, userID string) ([]*entities.DayEvent, error)

	// Upsert атомарно создает или целиком заменяет запись (UserID, Date).
	Upsert(ctx context.Context, event *entities.DayEvent) (*entities.DayEvent, error)
}
