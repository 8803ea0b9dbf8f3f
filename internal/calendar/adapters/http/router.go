// Package http собирает HTTP сервер календаря.
package http

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"

	"calbuddy/internal/calendar/adapters/http/handlers"
	"calbuddy/internal/calendar/adapters/http/middleware"
	"calbuddy/internal/calendar/adapters/http/response"
	"calbuddy/internal/calendar/config"
	"calbuddy/internal/calendar/ports/services"
)

// Services - бизнес-логика, доступная обработчикам.
type Services struct {
	Events      services.EventService
	Preferences services.PreferenceService
	Auth        services.AuthService
}

// NewApp создает fiber приложение с таймаутами и JSON ошибками.
func NewApp(cfg *config.HTTPConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "calendar-buddy",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler,
	})
}

func errorHandler(c fiber.Ctx, err error) error {
	requestCtx := middleware.RequestContext(c)

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return response.JSON(requestCtx, c, fiberErr.Code, fiber.Map{"error": fiberErr.Message})
	}
	return response.Error(requestCtx, c, err)
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, svc Services, cfg *config.Config) {
	eventHandler := handlers.NewEventHandler(svc.Events)
	colorHandler := handlers.NewColorHandler(svc.Preferences)
	authHandler := handlers.NewAuthHandler(svc.Auth, handlers.CookieConfig{
		Name:     cfg.Session.CookieName,
		Secure:   cfg.Session.Secure,
		SameSite: cfg.Session.SameSite,
	}, cfg.HTTP.ClientURL)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.HTTP.ClientURL},
		AllowMethods:     []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions},
		AllowHeaders:     []string{fiber.HeaderContentType, fiber.HeaderAuthorization},
		AllowCredentials: true,
	}))
	app.Use(middleware.NewRateLimitMiddleware(cfg.RateLimit, cfg.HTTP.TrustProxy))

	requireAuth := middleware.NewAuthMiddleware(svc.Auth, cfg.Session.CookieName)

	app.Get("/", handlers.Health)

	// Вход через Google (публичные).
	authRoutes := app.Group("/auth")
	authRoutes.Get("/google", authHandler.BeginLogin)
	authRoutes.Get("/google/callback", authHandler.Callback)
	authRoutes.Get("/me", requireAuth, authHandler.Me)
	authRoutes.Get("/logout", requireAuth, authHandler.Logout)

	// Защищенные маршруты.
	eventRoutes := app.Group("/events", requireAuth)
	eventRoutes.Get("/", eventHandler.List)
	eventRoutes.Post("/save", eventHandler.Save)

	userRoutes := app.Group("/user", requireAuth)
	userRoutes.Get("/colors", colorHandler.Get)
	userRoutes.Post("/colors", colorHandler.Set)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": response.MessageRouteNotFound,
		})
	})
}
