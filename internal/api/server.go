package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"ormawa.id/internal/config"
)

// NewServer builds the fiber app with request logging, CORS and the public
// read-only mount for uploaded KTM scans.
func NewServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: cfg.Server.AppName,
	})

	app.Use(logger.New())
	app.Use(cors.New())

	app.Static("/uploads", cfg.Upload.Dir)

	return app
}
