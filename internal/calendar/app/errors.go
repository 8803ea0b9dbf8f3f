// Package app содержит бизнес-логику календаря: записи дней, цвета месяцев и вход.
package app

import "errors"

// Ошибки уровня бизнес-логики.
var (
	ErrInvalidParams   = errors.New("invalid parameters")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access to another user's data is forbidden")
	ErrInvalidState    = errors.New("invalid or expired oauth state")
)
