package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"calbuddy/internal/calendar/adapters/http/response"
	"calbuddy/internal/calendar/app"
	"calbuddy/internal/calendar/ports/services"
	"calbuddy/pkg/logger"
)

const (
	LogAuthMiddleware = "auth middleware"
	LogAuthRejected   = "session rejected"

	bearerPrefix = "Bearer "
)

// NewAuthMiddleware проверяет сессию из cookie или заголовка Authorization
// и кладет id пользователя в контекст запроса.
func NewAuthMiddleware(auth services.AuthService, cookieName string) fiber.Handler {
	return func(c fiber.Ctx) error {
		requestCtx := RequestContext(c)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		token := extractToken(c, cookieName)
		if token == "" {
			return response.Error(requestCtx, c, app.ErrUnauthenticated)
		}

		userID, err := auth.Authenticate(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, LogAuthRejected, zap.Error(err))
			return response.Error(requestCtx, c, err)
		}

		c.Locals(LocalsUserContext, app.WithPrincipal(requestCtx, userID))
		c.Locals(LocalsSessionToken, token)

		return c.Next()
	}
}

func extractToken(c fiber.Ctx, cookieName string) string {
	if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	return c.Cookies(cookieName)
}
