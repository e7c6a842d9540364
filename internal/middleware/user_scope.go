package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mansoorceksport/liftlog/internal/telemetry"
)

const (
	// UserIDHeader is set by the gateway after it authenticated the caller
	UserIDHeader = "X-User-ID"
	UserIDKey    = "userID"
)

// UserScope stores the caller's user id in Locals and rejects anonymous requests
func UserScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get(UserIDHeader))
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing user identity",
			})
		}
		c.Locals(UserIDKey, userID)
		telemetry.SetSpanAttribute(c, "user.id", userID)
		return c.Next()
	}
}

// UserID returns the id stored by UserScope, "" outside of it
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
