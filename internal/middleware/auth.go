package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/narra/internal/config"
	"github.com/example/narra/internal/models"
	"github.com/example/narra/internal/utils"
)

const (
	userContextKey  = "currentUserID"
	adminContextKey = "currentUserIsAdmin"
)

// AuthMiddleware validates JWT bearer tokens and loads the authenticated
// user ID into context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		userID, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(userContextKey, userID)
		return c.Next()
	}
}

// RequireAdmin allows only callers whose user record holds the admin role.
// The role lives on the user row, not in the token, so a demoted admin is
// locked out as soon as the row changes.
func RequireAdmin(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := GetCurrentUserID(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "user not authenticated")
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusForbidden, "access denied, admin only")
			}
			return err
		}

		if !user.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "access denied, admin only")
		}

		c.Locals(adminContextKey, true)
		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}

// IsAdminRequest reports whether RequireAdmin vetted the current caller.
func IsAdminRequest(c *fiber.Ctx) bool {
	value, ok := c.Locals(adminContextKey).(bool)
	return ok && value
}
