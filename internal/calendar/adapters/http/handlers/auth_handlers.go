package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"calbuddy/internal/calendar/adapters/http/dto"
	"calbuddy/internal/calendar/adapters/http/middleware"
	"calbuddy/internal/calendar/adapters/http/response"
	"calbuddy/internal/calendar/ports/services"
	"calbuddy/pkg/logger"
)

const (
	LogHandlerBeginLogin    = "auth handler: begin login"
	LogHandlerCompleteLogin = "auth handler: complete login"
	LogHandlerLogout        = "auth handler: logout"

	MessageLoggedOut = "Logged out"
)

// CookieConfig - атрибуты сессионной cookie.
type CookieConfig struct {
	Name     string
	Secure   bool
	SameSite string
}

// AuthHandler обслуживает вход через Google и сессию.
type AuthHandler struct {
	auth      services.AuthService
	cookie    CookieConfig
	clientURL string
}

// NewAuthHandler создает новый экземпляр обработчика авторизации.
func NewAuthHandler(auth services.AuthService, cookie CookieConfig, clientURL string) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		cookie:    cookie,
		clientURL: clientURL,
	}
}

// BeginLogin обрабатывает GET /auth/google.
func (h *AuthHandler) BeginLogin(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerBeginLogin)

	url, err := h.auth.BeginLogin(requestCtx)
	if err != nil {
		return response.Error(requestCtx, c, err)
	}

	return c.Redirect().Status(fiber.StatusFound).To(url)
}

// Callback обрабатывает GET /auth/google/callback.
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerCompleteLogin)

	session, err := h.auth.CompleteLogin(requestCtx, c.Query("state"), c.Query("code"))
	if err != nil {
		return response.Error(requestCtx, c, err)
	}

	c.Cookie(h.sessionCookie(session.Token, session.ExpiresAt))
	return c.Redirect().Status(fiber.StatusFound).To(h.clientURL)
}

// Me обрабатывает GET /auth/me.
func (h *AuthHandler) Me(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)

	user, err := h.auth.CurrentUser(requestCtx)
	if err != nil {
		return response.Error(requestCtx, c, err)
	}

	return response.JSON(requestCtx, c, fiber.StatusOK, dto.FromUser(user))
}

// Logout обрабатывает GET /auth/logout.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerLogout)

	if err := h.auth.Logout(requestCtx, middleware.SessionToken(c)); err != nil {
		return response.Error(requestCtx, c, err)
	}

	c.Cookie(h.sessionCookie("", time.Unix(0, 0)))
	return response.JSON(requestCtx, c, fiber.StatusOK, dto.MessageResponse{Message: MessageLoggedOut})
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.SameSite,
	}
}
