package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Store represents a tenant. Customers, rewards and redemptions belong to
// exactly one store and are removed with it.
type Store struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name    string `gorm:"type:text;not null"`             // Display name.
	Slug    string `gorm:"type:text;not null;uniqueIndex"` // URL-safe unique identifier.
	CNPJ    string `gorm:"type:text;not null;uniqueIndex"` // Company registration number.
	Segment string `gorm:"type:text;not null"`             // Business segment.

	PointsConversionRate decimal.Decimal `gorm:"type:decimal(10,2);not null;default:1.00"` // Currency-to-points rate.

	OwnerEmail string `gorm:"type:text;not null"` // Store owner contact email.
	CustomURL  string `gorm:"type:text"`          // Public customer-facing URL.

	Settings datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"` // Free-form store settings.

	IsActive bool `gorm:"not null;default:true"` // Whether the store is open for business.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
