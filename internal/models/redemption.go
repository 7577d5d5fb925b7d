package models

import "time"

// Redemption statuses. Pending is the initial state; completed and
// cancelled are terminal.
const (
	RedemptionPending   = "pending"
	RedemptionCompleted = "completed"
	RedemptionCancelled = "cancelled"
)

// Redemption records a single reward claim by a customer. PointsUsed is a
// snapshot of the reward cost at claim time and is immune to later price
// changes. Code is presented by the customer in store and is single-use.
type Redemption struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	CustomerID uint64    `gorm:"not null;index"`                                    // Claiming customer ID.
	Customer   *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"` // Claiming customer record.

	StoreID uint64 `gorm:"not null;uniqueIndex:idx_redemptions_store_code"`  // Store scope.
	Store   *Store `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`   // Store record.

	RewardID uint64  `gorm:"not null;index"`          // Claimed reward ID.
	Reward   *Reward `gorm:"foreignKey:RewardID"`     // Claimed reward record.

	PointsUsed int64 `gorm:"not null"` // Reward cost frozen at claim time.

	Status string `gorm:"type:text;not null;default:pending"` // pending, completed or cancelled.

	Code string `gorm:"type:text;not null;uniqueIndex:idx_redemptions_store_code"` // Single-use pickup code, unique per store.

	RedeemedAt  time.Time  `gorm:"not null;autoCreateTime"` // Claim timestamp.
	CompletedAt *time.Time // Validation timestamp, set on completion.
}
