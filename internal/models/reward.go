package models

import "time"

// Reward categories.
const (
	CategoryDiscount = "discount"
	CategoryProduct  = "product"
	CategoryService  = "service"
	CategoryCashback = "cashback"
	CategoryOther    = "other"
)

// Reward types.
const (
	RewardTypePercentage = "percentage"
	RewardTypeFixedValue = "fixed_value"
	RewardTypeFreeItem   = "free_item"
	RewardTypeVoucher    = "voucher"
)

// ValidCategory reports whether category is a known reward category.
func ValidCategory(category string) bool {
	switch category {
	case CategoryDiscount, CategoryProduct, CategoryService, CategoryCashback, CategoryOther:
		return true
	}
	return false
}

// ValidRewardType reports whether rewardType is a known reward type.
func ValidRewardType(rewardType string) bool {
	switch rewardType {
	case RewardTypePercentage, RewardTypeFixedValue, RewardTypeFreeItem, RewardTypeVoucher:
		return true
	}
	return false
}

// Reward defines a redeemable item in a store's catalog.
// CurrentRedemptions never exceeds MaxRedemptions when the latter is set.
type Reward struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	StoreID uint64 `gorm:"not null;index"`                                 // Owning store ID.
	Store   *Store `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"` // Owning store record.

	Name        string `gorm:"type:text;not null"` // Display name.
	Description string `gorm:"type:text"`          // Longer description.

	PointsRequired int64 `gorm:"not null"` // Cost in points, always positive.

	Category    string `gorm:"type:text;not null;default:other"`   // discount, product, service, cashback or other.
	RewardType  string `gorm:"type:text;not null;default:voucher"` // percentage, fixed_value, free_item or voucher.
	RewardValue string `gorm:"type:text"`                          // Display value, e.g. "10%" or "R$ 25,00".

	MaxRedemptions     *int64 `gorm:"type:bigint"`        // Redemption cap; nil means unlimited.
	CurrentRedemptions int64  `gorm:"not null;default:0"` // Completed and pending redemption count.

	ValidFrom    time.Time  `gorm:"not null;autoCreateTime"` // Start of validity window.
	ValidUntil   *time.Time // End of validity window; nil with NeverExpires means no expiry.
	NeverExpires bool       `gorm:"not null;default:false"` // Ignore ValidUntil when true.

	MinimumPurchase    *int64 `gorm:"type:bigint"` // Minimum purchase in cents, optional.
	TermsAndConditions string `gorm:"type:text"`   // Redemption terms, optional.

	IsActive bool `gorm:"not null;default:true"` // Whether the reward is offered.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
