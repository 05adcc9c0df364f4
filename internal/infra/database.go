package infra

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ormawa.id/internal/auth"
	"ormawa.id/internal/config"
	"ormawa.id/internal/model"
)

type PostgresClient struct {
	DB *gorm.DB
}

func NewPostgresClient(cfg config.DatabaseConfig) (*PostgresClient, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Bounded pool: a burst of requests queues on the pool instead of opening
	// unbounded connections.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	maxConns := cfg.MaxOpenConns
	if maxConns <= 0 {
		maxConns = 10
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(maxConns)

	log.Println("Database connected successfully")

	if err := Bootstrap(db); err != nil {
		return nil, err
	}

	return &PostgresClient{DB: db}, nil
}

// Bootstrap migrates the users table and seeds the admin record. Idempotent:
// safe to run against an already-initialized store.
func Bootstrap(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return SeedAdmin(db)
}

// SeedAdmin creates the built-in admin account if it does not exist yet.
func SeedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Where("nim = ?", "ADM001").Count(&count).Error; err != nil {
		return fmt.Errorf("admin lookup failed: %w", err)
	}
	if count > 0 {
		return nil
	}

	log.Println("No admin user found, seeding default admin (ADM001)")
	hash, err := auth.HashPassword("password")
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := model.User{
		Nama:         "Admin",
		NIM:          "ADM001",
		Angkatan:     "2020",
		Prodi:        "Sistem Informasi",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}
