package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/narra/internal/models"
	"github.com/example/narra/internal/services"
)

// mapServiceError converts service-layer errors into fiber errors with the
// right status code. Unknown errors pass through and surface as 500s.
func mapServiceError(err error) error {
	var (
		validationErr *services.ValidationError
		conflictErr   *services.ConflictError
	)

	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.As(err, &validationErr):
		return fiber.NewError(fiber.StatusBadRequest, validationErr.Reason)
	case errors.As(err, &conflictErr):
		return fiber.NewError(fiber.StatusConflict, conflictErr.Reason)
	}

	return err
}

// callerIsAdmin checks the caller's role on the users table.
func callerIsAdmin(db *gorm.DB, userID uuid.UUID) bool {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return false
	}
	return user.IsAdmin()
}
