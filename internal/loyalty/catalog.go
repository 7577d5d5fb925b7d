package loyalty

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/models"
)

// Catalog serves a store's reward listings. Public listings are the hot read
// path and may be served from the optional rewards cache.
type Catalog struct {
	db    *gorm.DB
	cache *RewardsCache
}

// NewCatalog constructs a Catalog. cache may be nil.
func NewCatalog(db *gorm.DB, cache *RewardsCache) *Catalog {
	return &Catalog{db: db, cache: cache}
}

// ListRedeemable returns a store's active rewards ordered by cost ascending,
// cheapest first for public listings.
func (c *Catalog) ListRedeemable(ctx context.Context, storeID uint64) ([]models.Reward, error) {
	if rewards, ok := c.cache.Get(ctx, storeID); ok {
		return rewards, nil
	}

	var rewards []models.Reward
	if errFind := c.db.WithContext(ctx).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Order("points_required ASC").
		Find(&rewards).Error; errFind != nil {
		return nil, fmt.Errorf("catalog: list rewards: %w", errFind)
	}

	c.cache.Set(ctx, storeID, rewards)
	return rewards, nil
}

// Invalidate drops the cached listing for a store after a reward mutation.
func (c *Catalog) Invalidate(ctx context.Context, storeID uint64) {
	c.cache.Invalidate(ctx, storeID)
}

// Available reports whether a reward can be redeemed at the given instant:
// it must be active, not past its validity window, and under its cap.
func Available(r *models.Reward, now time.Time) bool {
	if r == nil || !r.IsActive {
		return false
	}
	if !r.NeverExpires && r.ValidUntil != nil && r.ValidUntil.Before(now) {
		return false
	}
	if r.MaxRedemptions != nil && r.CurrentRedemptions >= *r.MaxRedemptions {
		return false
	}
	return true
}
