// Package services содержит реализации сервисов сессий.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	domain "calbuddy/internal/calendar/domain/services"
	svc "calbuddy/internal/calendar/ports/services"
	"calbuddy/pkg/logger"
)

const (
	methodIssue    = "SessionJWT.Issue"
	methodValidate = "SessionJWT.Validate"

	msgIssuingSession   = "issuing session token"
	msgSessionIssued    = "session token issued"
	msgSessionValidated = "session token validated"
	msgSessionExpired   = "session token has expired"
	msgSessionRejected  = "session token rejected"
	msgEmptySecret      = "empty session secret"

	errCtxIssuing    = "issuing session"
	errCtxValidating = "validating session"
)

// ErrInvalidAlgorithm - токен подписан не HMAC.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// Claims - представление SessionClaims для библиотеки JWT.
type Claims struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	jwt.RegisteredClaims
}

// SessionJWT выпускает сессионные токены HS256.
type SessionJWT struct {
	config domain.SessionConfig
	now    func() time.Time
}

// NewSessionJWT создает сервис сессий.
func NewSessionJWT(cfg domain.SessionConfig) svc.SessionService {
	return &SessionJWT{config: cfg, now: time.Now}
}

// NewSessionJWTWithClock создает сервис с подменяемыми часами.
func NewSessionJWTWithClock(cfg domain.SessionConfig, now func() time.Time) svc.SessionService {
	return &SessionJWT{config: cfg, now: now}
}

// Issue подписывает токен для пользователя.
func (s *SessionJWT) Issue(ctx context.Context, userID, displayName string) (string, time.Time, error) {
	log := logger.Log(ctx).With(zap.String("method", methodIssue), zap.String("userID", userID))
	log.Debug(ctx, msgIssuingSession)

	if len(s.config.SecretKey) == 0 {
		log.Error(ctx, msgEmptySecret)
		return "", time.Time{}, fmt.Errorf("%s: %w: empty secret key", errCtxIssuing, domain.ErrGeneratingSession)
	}
	if userID == "" {
		return "", time.Time{}, fmt.Errorf("%s: %w: empty user id", errCtxIssuing, domain.ErrGeneratingSession)
	}

	now := s.now()
	expiresAt := now.Add(s.config.TTL)

	claims := Claims{
		UserID:      userID,
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.SecretKey)
	if err != nil {
		log.Error(ctx, "error signing session token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxIssuing, domain.ErrGeneratingSession, err)
	}

	log.Debug(ctx, msgSessionIssued, zap.Time("expiresAt", expiresAt))
	return signed, expiresAt, nil
}

// Validate проверяет подпись, срок действия и издателя токена.
func (s *SessionJWT) Validate(ctx context.Context, token string) (*domain.SessionClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", methodValidate))

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, t.Header["alg"])
		}
		return s.config.SecretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgSessionExpired)
			return nil, fmt.Errorf("%s: %w", errCtxValidating, domain.ErrExpiredSession)
		}
		log.Debug(ctx, msgSessionRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxValidating, domain.ErrInvalidSession, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		log.Debug(ctx, msgSessionRejected)
		return nil, fmt.Errorf("%s: %w", errCtxValidating, domain.ErrInvalidSession)
	}

	out := &domain.SessionClaims{
		UserID:      claims.UserID,
		DisplayName: claims.DisplayName,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	log.Debug(ctx, msgSessionValidated, zap.String("userID", out.UserID))
	return out, nil
}
