package app

import "calbuddy/internal/calendar/ports/services"

var (
	_ services.EventService      = (*EventUseCase)(nil)
	_ services.PreferenceService = (*PreferenceUseCase)(nil)
	_ services.AuthService       = (*AuthUseCase)(nil)
)
