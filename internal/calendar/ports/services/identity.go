package services

import (
	"context"

	"calbuddy/internal/calendar/domain/entities"
)

// IdentityProvider - внешний провайдер OAuth, подтверждающий личность пользователя.
type IdentityProvider interface {
	// AuthCodeURL возвращает адрес страницы согласия для state.
	AuthCodeURL(state string) string

	// Exchange обменивает код авторизации на профиль пользователя.
	Exchange(ctx context.Context, code string) (*entities.Profile, error)
}
