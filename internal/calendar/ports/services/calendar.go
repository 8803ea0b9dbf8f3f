package services

import (
	"context"

	"calbuddy/internal/calendar/domain/entities"
	domain "calbuddy/internal/calendar/domain/services"
)

// EventService - операции над записями дней пользователя из контекста.
type EventService interface {
	ListEvents(ctx context.Context) ([]*entities.DayEvent, error)
	SaveEvent(ctx context.Context, date, note string, stickies []entities.StickyNote) (*entities.DayEvent, error)
}

// PreferenceService - цвета месяцев пользователя из контекста.
type PreferenceService interface {
	GetColors(ctx context.Context) (map[string]string, error)
	SetColor(ctx context.Context, monthKey, color string) error
}

// AuthService - вход через провайдера и проверка сессий.
type AuthService interface {
	BeginLogin(ctx context.Context) (string, error)
	CompleteLogin(ctx context.Context, state, code string) (*domain.Session, error)
	Authenticate(ctx context.Context, token string) (string, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context) (*entities.User, error)
}
