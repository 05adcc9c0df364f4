package main

import (
	"log"
	"time"

	"ormawa.id/internal/api"
	"ormawa.id/internal/config"
	"ormawa.id/internal/infra"
	"ormawa.id/internal/service"
	"ormawa.id/internal/storage"
)

func main() {
	cfg := config.LoadConfig()

	pg, err := infra.NewPostgresClient(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	uploads, err := storage.NewUploadStore(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		log.Fatalf("Failed to prepare upload dir: %v", err)
	}

	rdb := infra.NewRedisClient(cfg.Redis)
	cache := service.NewRosterCache(rdb)

	svc := service.NewUserService(
		pg.DB,
		uploads,
		cache,
		[]byte(cfg.JWT.Secret),
		time.Duration(cfg.JWT.TTLHours)*time.Hour,
	)

	app := api.NewServer(cfg)
	api.NewRouter(app, cfg, svc).RegisterRoutes()

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := app.Listen(cfg.Server.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
