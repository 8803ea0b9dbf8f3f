package services

import (
	"context"
	"time"

	domain "calbuddy/internal/calendar/domain/services"
)

// SessionService выпускает и проверяет сессионные токены.
type SessionService interface {
	Issue(ctx context.Context, userID, displayName string) (string, time.Time, error)

	Validate(ctx context.Context, token string) (*domain.SessionClaims, error)
}
