package handlers

import "github.com/gofiber/fiber/v3"

const HealthMessage = "Calendar Buddy API is running"

// Health обрабатывает GET /.
func Health(c fiber.Ctx) error {
	return c.SendString(HealthMessage)
}
