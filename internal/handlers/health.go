package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/narra/internal/models"
)

// HealthHandler exposes liveness and database probes. The session ID changes
// on every process start so clients can detect a server restart.
type HealthHandler struct {
	db        *gorm.DB
	sessionID string
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{
		db:        db,
		sessionID: fmt.Sprintf("%d", time.Now().UnixMilli()),
	}
}

// Health reports process liveness.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "OK",
		"message":   "Server is running",
		"sessionId": h.sessionID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Test probes the database connection.
func (h *HealthHandler) Test(c *fiber.Ctx) error {
	var count int64
	if err := h.db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "database error: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"status":        "Database connected",
		"productsCount": count,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}
