package models

import "time"

// User roles.
const (
	// RoleSuperAdmin grants platform-wide administration.
	RoleSuperAdmin = "super_admin"
	// RoleStoreOwner grants administration of a single store.
	RoleStoreOwner = "store_owner"
)

// User represents a platform operator account (super admin or store owner).
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Email    string `gorm:"type:text;not null;uniqueIndex"` // Unique login email.
	Password string `gorm:"type:text;not null"`             // Hashed password.
	Name     string `gorm:"type:text;not null"`             // Display name.

	Role string `gorm:"type:text;not null"` // super_admin or store_owner.

	StoreID *uint64 `gorm:"index"`                                        // Owning store for store owners.
	Store   *Store  `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"` // Owning store record.

	IsActive bool `gorm:"not null;default:true"` // Whether the account can sign in.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
