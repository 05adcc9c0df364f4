package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"ormawa.id/internal/auth"
)

// BearerAuth validates the Authorization header and stores the token claims in
// request locals. A missing token and an invalid or expired one get the same
// 401 reply.
func BearerAuth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		}

		// Role is carried for downstream handlers but deliberately not
		// enforced on roster operations; any authenticated caller may mutate.
		c.Locals("user_id", claims.UserID)
		c.Locals("role", claims.Role)
		c.Locals("nim", claims.NIM)

		return c.Next()
	}
}
