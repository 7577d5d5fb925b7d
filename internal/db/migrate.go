package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/models"
)

// Migrate creates or updates the schema for all loyalty tables.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if err := conn.AutoMigrate(
		&models.Store{},
		&models.User{},
		&models.Customer{},
		&models.Reward{},
		&models.Redemption{},
		&models.PointTransaction{},
		&models.Lead{},
	); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}
