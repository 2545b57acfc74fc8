package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const adminKeyHeader = "X-Admin-Key"

// AdminAuth gates the admin surface behind a shared key header.
func AdminAuth(adminKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		provided := c.Get(adminKeyHeader)
		if provided == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "access denied",
			})
		}

		return c.Next()
	}
}
