// Package response переводит ошибки бизнес-логики в HTTP ответы.
package response

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"calbuddy/internal/calendar/app"
	"calbuddy/internal/calendar/domain/entities"
	domain "calbuddy/internal/calendar/domain/services"
	"calbuddy/pkg/logger"
)

const (
	MessageUnauthorized     = "Unauthorized"
	MessageForbidden        = "Forbidden"
	MessageInvalidState     = "Invalid or expired login attempt"
	MessageProviderFailure  = "Identity provider failure"
	MessageInternalError    = "Internal server error"
	MessageRouteNotFound    = "Route not found"
	MessageInvalidRequest   = "Invalid request body"
	LogRequestFailed        = "request failed"
	LogRequestRejected      = "request rejected"
	LogFailedToSendResponse = "failed to send response"
)

// Status возвращает HTTP статус и сообщение для ошибки.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, app.ErrInvalidParams):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, app.ErrInvalidState):
		return fiber.StatusUnauthorized, MessageInvalidState
	case errors.Is(err, app.ErrUnauthenticated),
		errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, domain.ErrInvalidSession),
		errors.Is(err, domain.ErrExpiredSession),
		errors.Is(err, domain.ErrRevokedSession):
		return fiber.StatusUnauthorized, MessageUnauthorized
	case errors.Is(err, app.ErrForbidden):
		return fiber.StatusForbidden, MessageForbidden
	case errors.Is(err, domain.ErrProviderRejected),
		errors.Is(err, domain.ErrProviderUnavailable):
		return fiber.StatusBadGateway, MessageProviderFailure
	default:
		return fiber.StatusInternalServerError, MessageInternalError
	}
}

// Error пишет ответ {"error": ...} со статусом, соответствующим err.
func Error(ctx context.Context, c fiber.Ctx, err error) error {
	status, message := Status(err)

	log := logger.Log(ctx).With(zap.Int("status", status))
	if status >= fiber.StatusInternalServerError {
		log.Error(ctx, LogRequestFailed, zap.Error(err))
	} else {
		log.Debug(ctx, LogRequestRejected, zap.Error(err))
	}

	return JSON(ctx, c, status, fiber.Map{"error": message})
}

// JSON отправляет тело и логирует ошибку отправки.
func JSON(ctx context.Context, c fiber.Ctx, status int, body any) error {
	if err := c.Status(status).JSON(body); err != nil {
		logger.Log(ctx).Error(ctx, LogFailedToSendResponse, zap.Error(err))
		return err
	}
	return nil
}
