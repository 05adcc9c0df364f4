package api

import (
	"github.com/gofiber/fiber/v2"

	"ormawa.id/internal/domain"
)

// UserHandler exposes the roster. Every route behind it requires a valid
// bearer token; role is not checked beyond that.
type UserHandler struct {
	svc domain.UserService
}

func NewUserHandler(svc domain.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// List returns every member's public view.
// GET /api/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.svc.List(c.Context())
	if err != nil {
		return SendError(c, err)
	}
	return c.JSON(users)
}

// Update overwrites nama, nim, angkatan and prodi for the given id.
// PUT /api/users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in domain.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Body tidak valid"})
	}

	if err := h.svc.Update(c.Context(), c.Params("id"), in); err != nil {
		return SendError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Updated"})
}

// Delete removes a member. Deleting an id that does not exist still succeeds.
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return SendError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Deleted"})
}
