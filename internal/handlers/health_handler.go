package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/snowballopensource/snowball-api/internal/database"
	"github.com/snowballopensource/snowball-api/internal/dto"
)

func Health(c *fiber.Ctx) error {
	dbStatus := "ok"
	status := fiber.StatusOK
	if err := database.Ping(); err != nil {
		dbStatus = "unreachable"
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}
