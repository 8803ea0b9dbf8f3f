// Package handlers содержит HTTP обработчики календаря.
package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"calbuddy/internal/calendar/adapters/http/dto"
	"calbuddy/internal/calendar/adapters/http/middleware"
	"calbuddy/internal/calendar/adapters/http/response"
	"calbuddy/internal/calendar/ports/services"
	"calbuddy/pkg/logger"
)

const (
	LogHandlerListEvents = "event handler: list"
	LogHandlerSaveEvent  = "event handler: save"
)

// EventHandler обслуживает записи дней.
type EventHandler struct {
	events services.EventService
}

// NewEventHandler создает новый экземпляр обработчика записей.
func NewEventHandler(events services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// List обрабатывает GET /events.
func (h *EventHandler) List(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerListEvents)

	events, err := h.events.ListEvents(requestCtx)
	if err != nil {
		return response.Error(requestCtx, c, err)
	}

	return response.JSON(requestCtx, c, fiber.StatusOK, dto.FromEvents(events))
}

// Save обрабатывает POST /events/save.
func (h *EventHandler) Save(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, LogHandlerSaveEvent)

	var req dto.SaveEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, response.MessageInvalidRequest, zap.Error(err))
		return response.JSON(requestCtx, c, fiber.StatusBadRequest, fiber.Map{"error": response.MessageInvalidRequest})
	}

	event, err := h.events.SaveEvent(requestCtx, req.Date, req.Note, dto.ToEntities(req.Stickies))
	if err != nil {
		return response.Error(requestCtx, c, err)
	}

	return response.JSON(requestCtx, c, fiber.StatusOK, dto.FromEvent(event))
}
