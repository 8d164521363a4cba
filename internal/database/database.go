package database

import (
	"log"

	"github.com/munna7487/club-sphere-server/internal/config"
	"github.com/munna7487/club-sphere-server/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		// Duplicate-key errors must surface as gorm.ErrDuplicatedKey so the
		// idempotent confirmation paths can recognize them.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(
		&models.User{},
		&models.Club{},
		&models.Event{},
		&models.Registration{},
		&models.Payment{},
		&models.APIKey{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}

// Close releases the underlying sqlite handle. Called on shutdown.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get database handle: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
}
