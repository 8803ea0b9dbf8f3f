package entities

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmptyProviderID    = errors.New("provider id cannot be empty")
	ErrEmptyDisplayName   = errors.New("display name cannot be empty")
	ErrEmptyMonthKey      = errors.New("month key is required")
	ErrEmptyCalendarColor = errors.New("color is required")
)

// User - владелец календаря, заводится при первом входе через Google.
type User struct {
	ID             string
	GoogleID       string
	DisplayName    string
	FirstName      string
	LastName       string
	Image          string
	Email          string
	CalendarColors map[string]string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Profile - данные пользователя, полученные от провайдера идентификации.
type Profile struct {
	ProviderID  string
	DisplayName string
	FirstName   string
	LastName    string
	Image       string
	Email       string
}

// Validate проверяет обязательные поля профиля.
func (p *Profile) Validate() error {
	if p.ProviderID == "" {
		return ErrEmptyProviderID
	}
	if p.DisplayName == "" {
		return ErrEmptyDisplayName
	}
	return nil
}
