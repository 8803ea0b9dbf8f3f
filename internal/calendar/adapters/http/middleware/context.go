// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

const (
	// LocalsUserContext - ключ Locals с контекстом запроса.
	LocalsUserContext = "userContext"
	// LocalsSessionToken - ключ Locals с токеном сессии, прошедшим проверку.
	LocalsSessionToken = "sessionToken"

	HeaderRequestID = "X-Request-ID"
)

// RequestContext возвращает контекст запроса с request id и пользователем.
func RequestContext(c fiber.Ctx) context.Context {
	if ctx, ok := c.Locals(LocalsUserContext).(context.Context); ok && ctx != nil {
		return ctx
	}
	return c.Context()
}

// SessionToken возвращает токен, сохраненный auth middleware.
func SessionToken(c fiber.Ctx) string {
	token, _ := c.Locals(LocalsSessionToken).(string)
	return token
}
