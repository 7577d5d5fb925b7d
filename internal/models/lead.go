package models

import "time"

// Lead statuses.
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadConverted = "converted"
	LeadLost      = "lost"
)

// Lead captures a sales contact submitted through the public site.
type Lead struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name    string `gorm:"type:text;not null"` // Contact name.
	Email   string `gorm:"type:text;not null"` // Contact email.
	Phone   string `gorm:"type:text"`          // Contact phone, optional.
	Company string `gorm:"type:text"`          // Company name, optional.
	Message string `gorm:"type:text"`          // Free-form message, optional.

	Status string `gorm:"type:text;not null;default:new"`     // new, contacted, converted or lost.
	Source string `gorm:"type:text;not null;default:website"` // Acquisition channel.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
