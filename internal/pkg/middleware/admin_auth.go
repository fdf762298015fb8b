package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/ManuelReschke/PayFox/internal/pkg/env"
	"github.com/gofiber/fiber/v2"
)

// AdminAuthMiddleware guards admin endpoints with the shared admin password.
// This is deliberately a single shared secret check, nothing more.
func AdminAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		password := env.GetEnv("ADMIN_PASSWORD", "")
		if password == "" {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"ok": false, "error": "admin access is not configured"})
		}

		provided := extractAdminPassword(c)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(password)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false, "error": "unauthorized"})
		}

		return c.Next()
	}
}

func extractAdminPassword(c *fiber.Ctx) string {
	if pw := strings.TrimSpace(c.Get("X-Admin-Password")); pw != "" {
		return pw
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
