package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/semak-karangan-api/internal/models"
)

// Connect opens the result store. URLs starting with "sqlite:" or "file:" use
// the embedded SQLite driver; anything else is treated as a PostgreSQL DSN.
func Connect(url string) (*gorm.DB, error) {
	if url == "" {
		return nil, fmt.Errorf("database url must not be empty")
	}

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(url, "sqlite:"):
		dialector = sqlite.Open(strings.TrimPrefix(url, "sqlite:"))
	case strings.HasPrefix(url, "file:"):
		dialector = sqlite.Open(url)
	default:
		dialector = postgres.Open(url)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the tables used by the service.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.KaranganResult{}, &models.CreditAccount{}, &models.CreditTransaction{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}
