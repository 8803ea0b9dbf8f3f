package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"calbuddy/internal/calendar/domain/entities"
	domain "calbuddy/internal/calendar/domain/services"
	"calbuddy/internal/calendar/ports/cache"
	"calbuddy/internal/calendar/ports/repositories"
	"calbuddy/internal/calendar/ports/services"
	"calbuddy/pkg/logger"
)

const (
	stateKeyPrefix   = "oauth_state:"
	revokedKeyPrefix = "revoked:"
	stateMarker      = "pending"
	revokedMarker    = "1"
)

const (
	LogLoginCompleted = "user logged in"
	LogLogout         = "session revoked"
)

// AuthUseCase отвечает за вход через провайдера и сессии.
type AuthUseCase struct {
	users    repositories.UserRepository
	provider services.IdentityProvider
	sessions services.SessionService
	store    cache.Cache
	stateTTL time.Duration
	gate     Gate
	now      func() time.Time
}

// NewAuthUseCase создает новый экземпляр AuthUseCase.
func NewAuthUseCase(
	users repositories.UserRepository,
	provider services.IdentityProvider,
	sessions services.SessionService,
	store cache.Cache,
	stateTTL time.Duration,
) *AuthUseCase {
	return &AuthUseCase{
		users:    users,
		provider: provider,
		sessions: sessions,
		store:    store,
		stateTTL: stateTTL,
		now:      time.Now,
	}
}

func stateKey(state string) string {
	return stateKeyPrefix + state
}

func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedKeyPrefix + hex.EncodeToString(sum[:])
}

// BeginLogin сохраняет одноразовый state и возвращает адрес страницы согласия.
func (uc *AuthUseCase) BeginLogin(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := uc.store.Set(ctx, stateKey(state), stateMarker, uc.stateTTL); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}
	return uc.provider.AuthCodeURL(state), nil
}

// CompleteLogin проверяет state, получает профиль и выпускает сессию.
func (uc *AuthUseCase) CompleteLogin(ctx context.Context, state, code string) (*domain.Session, error) {
	if state == "" {
		return nil, ErrInvalidState
	}

	marker, err := uc.store.Take(ctx, stateKey(state))
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth state: %w", err)
	}
	if marker == "" {
		return nil, ErrInvalidState
	}

	profile, err := uc.provider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	user, err := uc.users.FindOrCreateByGoogleID(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	token, expiresAt, err := uc.sessions.Issue(ctx, user.ID, user.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	logger.Log(ctx).Info(ctx, LogLoginCompleted, zap.String("user_id", user.ID))

	return &domain.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// Authenticate проверяет токен сессии и возвращает id пользователя.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}

	claims, err := uc.sessions.Validate(ctx, token)
	if err != nil {
		return "", err
	}

	revoked, err := uc.store.Get(ctx, revokedKey(token))
	if err != nil {
		return "", fmt.Errorf("failed to check session revocation: %w", err)
	}
	if revoked != "" {
		return "", domain.ErrRevokedSession
	}

	return claims.UserID, nil
}

// Logout отзывает токен до окончания его срока. Недействительный токен не ошибка.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := uc.sessions.Validate(ctx, token)
	if err != nil {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(uc.now())
	if ttl <= 0 {
		return nil
	}

	if err := uc.store.Set(ctx, revokedKey(token), revokedMarker, ttl); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	logger.Log(ctx).Info(ctx, LogLogout, zap.String("user_id", claims.UserID))
	return nil
}

// CurrentUser возвращает профиль пользователя из контекста.
func (uc *AuthUseCase) CurrentUser(ctx context.Context) (*entities.User, error) {
	userID, err := uc.gate.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
