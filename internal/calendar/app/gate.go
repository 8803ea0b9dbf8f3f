package app

import (
	"context"

	"calbuddy/pkg/logger"
)

type principalKey struct{}

// WithPrincipal кладет в контекст id аутентифицированного пользователя.
func WithPrincipal(ctx context.Context, userID string) context.Context {
	ctx = logger.NewUserIDContext(ctx, userID)
	return context.WithValue(ctx, principalKey{}, userID)
}

// PrincipalFrom возвращает id пользователя из контекста.
func PrincipalFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(principalKey{}).(string)
	return id, ok && id != ""
}

// Gate проверяет, что операция выполняется от имени владельца данных.
type Gate struct{}

// Resolve возвращает id пользователя или ErrUnauthenticated.
func (Gate) Resolve(ctx context.Context) (string, error) {
	id, ok := PrincipalFrom(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}
	return id, nil
}

// Authorize сравнивает владельца записи с пользователем из контекста.
func (g Gate) Authorize(ctx context.Context, ownerID string) error {
	id, err := g.Resolve(ctx)
	if err != nil {
		return err
	}
	if ownerID != id {
		return ErrForbidden
	}
	return nil
}
