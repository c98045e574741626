package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/miat-mn/action-log/internal/database"
	"github.com/miat-mn/action-log/internal/dto"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports 503 when the database is unreachable so load balancers
// take the instance out of rotation.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := fiber.StatusOK
	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "ok",
	}
	if err := database.Ping(h.db); err != nil {
		status = fiber.StatusServiceUnavailable
		resp.Status = "degraded"
		resp.DB = "unhealthy"
	}
	return c.Status(status).JSON(dto.OK(resp))
}
