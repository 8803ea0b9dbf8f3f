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

const MessageColorSaved = "Color saved"

// ColorHandler обслуживает цвета месяцев.
type ColorHandler struct {
	preferences services.PreferenceService
}

// NewColorHandler создает новый экземпляр обработчика цветов.
func NewColorHandler(preferences services.PreferenceService) *ColorHandler {
	return &ColorHandler{preferences: preferences}
}

// Get обрабатывает GET /user/colors.
func (h *ColorHandler) Get(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)

	colors, err := h.preferences.GetColors(requestCtx)
	if err != nil {
		return response.Error(requestCtx, c, err)
	}
	if colors == nil {
		colors = map[string]string{}
	}

	return response.JSON(requestCtx, c, fiber.StatusOK, colors)
}

// Set обрабатывает POST /user/colors.
func (h *ColorHandler) Set(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)

	var req dto.SetColorRequest
	if err := c.Bind().JSON(&req); err != nil {
		logger.Log(requestCtx).Debug(requestCtx, response.MessageInvalidRequest, zap.Error(err))
		return response.JSON(requestCtx, c, fiber.StatusBadRequest, fiber.Map{"error": response.MessageInvalidRequest})
	}

	if err := h.preferences.SetColor(requestCtx, req.MonthKey, req.Color); err != nil {
		return response.Error(requestCtx, c, err)
	}

	return response.JSON(requestCtx, c, fiber.StatusOK, dto.MessageResponse{Message: MessageColorSaved})
}
