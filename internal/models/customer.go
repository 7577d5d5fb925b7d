package models

import "time"

// Customer represents an end customer enrolled in a store's loyalty program.
// TotalPoints is a denormalized cache of the point transaction ledger and is
// only mutated together with a ledger append.
type Customer struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	StoreID uint64 `gorm:"not null;index"`                                 // Owning store ID.
	Store   *Store `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"` // Owning store record.

	Name  string `gorm:"type:text;not null"` // Display name.
	Email string `gorm:"type:text;index"`    // Contact email, optional.
	Phone string `gorm:"type:text;index"`    // Contact phone, optional.

	TotalPoints int64 `gorm:"not null;default:0"` // Current balance, never negative.

	IsActive bool `gorm:"not null;default:true"` // Whether the customer may redeem.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
