package api

import (
	"github.com/gofiber/fiber/v2"

	"ormawa.id/internal/api/middleware"
	"ormawa.id/internal/config"
	"ormawa.id/internal/domain"
)

// Router registers all routes on the app.
type Router struct {
	app *fiber.App
	cfg *config.Config
	svc domain.UserService
}

func NewRouter(app *fiber.App, cfg *config.Config, svc domain.UserService) *Router {
	return &Router{app: app, cfg: cfg, svc: svc}
}

func (r *Router) RegisterRoutes() {
	authHandler := NewAuthHandler(r.svc)
	userHandler := NewUserHandler(r.svc)

	bearer := middleware.BearerAuth([]byte(r.cfg.JWT.Secret))

	api := r.app.Group("/api")

	// Public
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Protected
	api.Post("/auth/logout", bearer, authHandler.Logout)
	api.Get("/auth/me", bearer, authHandler.Me)

	users := api.Group("/users", bearer)
	users.Get("/", userHandler.List)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}
