package models

import "time"

// Point transaction types.
const (
	// TransactionEarned credits points for a purchase or promotion.
	TransactionEarned = "earned"
	// TransactionRedeemed debits points against a reward redemption.
	TransactionRedeemed = "redeemed"
	// TransactionExpired debits points that aged out.
	TransactionExpired = "expired"
	// TransactionAdjusted corrects a balance manually.
	TransactionAdjusted = "adjusted"
)

// PointTransaction is one immutable ledger entry. Rows are append-only and
// are never updated or deleted; the sum of Points per customer equals the
// customer's TotalPoints.
type PointTransaction struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	CustomerID uint64    `gorm:"not null;index"`                                    // Owning customer ID.
	Customer   *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"` // Owning customer record.

	StoreID uint64 `gorm:"not null;index"`                                 // Store scope for reporting.
	Store   *Store `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"` // Store record.

	Type   string `gorm:"type:text;not null"` // earned, redeemed, expired or adjusted.
	Points int64  `gorm:"not null"`           // Signed delta; positive credits, negative debits.

	Description string `gorm:"type:text"` // Human-readable reason.

	RedemptionID *uint64     `gorm:"index"`                     // Redemption that caused the debit, if any.
	Redemption   *Redemption `gorm:"foreignKey:RedemptionID"`   // Redemption record.
	CreatedBy    *uint64     `gorm:"index"`                     // Operator user who recorded the entry.
	Creator      *User       `gorm:"foreignKey:CreatedBy"`      // Operator user record.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
