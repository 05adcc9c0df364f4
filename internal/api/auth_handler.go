package api

import (
	"github.com/gofiber/fiber/v2"

	"ormawa.id/internal/domain"
	"ormawa.id/internal/model"
)

type AuthHandler struct {
	svc domain.UserService
}

func NewAuthHandler(svc domain.UserService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type LoginRequest struct {
	NIM      string `json:"nim"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// Register handles the multipart registration form.
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	in := domain.RegisterInput{
		Nama:     c.FormValue("nama"),
		NIM:      c.FormValue("nim"),
		Angkatan: c.FormValue("angkatan"),
		Prodi:    c.FormValue("prodi"),
		Password: c.FormValue("password"),
	}
	if ktm, err := c.FormFile("ktmFile"); err == nil {
		in.KTM = ktm
	}

	if err := h.svc.Register(c.Context(), in); err != nil {
		return SendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Registrasi berhasil"})
}

// Login authenticates by NIM and password and returns a session token.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "NIM dan password wajib diisi"})
	}

	token, user, err := h.svc.Login(c.Context(), req.NIM, req.Password)
	if err != nil {
		return SendError(c, err)
	}

	return c.JSON(LoginResponse{Token: token, User: *user})
}

// Me returns the caller's own record.
// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(uint)

	user, err := h.svc.GetByID(c.Context(), userID)
	if err != nil {
		return SendError(c, err)
	}

	return c.JSON(user)
}

// Logout exists for the client's benefit only. Tokens are stateless and cannot
// be revoked before expiry; discarding the token client-side is the logout.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Logout berhasil"})
}
