// Package services содержит доменные типы сессий и провайдера идентификации.
package services

import (
	"errors"
	"time"
)

var (
	ErrInvalidSession    = errors.New("invalid session token")
	ErrExpiredSession    = errors.New("session token has expired")
	ErrGeneratingSession = errors.New("failed to generate session token")
	ErrRevokedSession    = errors.New("session token has been revoked")
)

// SessionConfig - параметры подписи сессионных токенов.
type SessionConfig struct {
	SecretKey []byte
	TTL       time.Duration
	Issuer    string
}

// SessionClaims - содержимое сессионного токена.
type SessionClaims struct {
	UserID      string
	DisplayName string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Session - выданный пользователю токен и его срок действия.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}
