package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"ormawa.id/internal/domain"
)

// SendError maps a service error to its HTTP reply. Unknown errors collapse
// into a generic 500; the original error goes to the log, never to the client.
func SendError(c *fiber.Ctx, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= 500 {
			log.Printf("%s %s: %v", c.Method(), c.Path(), appErr)
		}
		return c.Status(appErr.Code).JSON(fiber.Map{"message": appErr.Message})
	}

	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Terjadi kesalahan"})
}
