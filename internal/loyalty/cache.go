package loyalty

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/fidelizaa/loyalty/internal/models"
)

// RewardsCache caches public redeemable-reward listings in redis with a
// short TTL. A nil *RewardsCache is valid and disables caching; cache
// failures are logged and degrade to database reads.
type RewardsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRewardsCache constructs a RewardsCache around an existing client.
func NewRewardsCache(client *redis.Client, ttl time.Duration) *RewardsCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RewardsCache{client: client, ttl: ttl}
}

func cacheKey(storeID uint64) string {
	return fmt.Sprintf("rewards:redeemable:%d", storeID)
}

// Get returns the cached listing for a store, if present.
func (c *RewardsCache) Get(ctx context.Context, storeID uint64) ([]models.Reward, bool) {
	if c == nil {
		return nil, false
	}
	payload, errGet := c.client.Get(ctx, cacheKey(storeID)).Bytes()
	if errGet != nil {
		if errGet != redis.Nil {
			log.Warnf("rewards cache get failed (store=%d): %v", storeID, errGet)
		}
		return nil, false
	}
	var rewards []models.Reward
	if errUnmarshal := json.Unmarshal(payload, &rewards); errUnmarshal != nil {
		log.Warnf("rewards cache decode failed (store=%d): %v", storeID, errUnmarshal)
		return nil, false
	}
	return rewards, true
}

// Set stores a listing for a store.
func (c *RewardsCache) Set(ctx context.Context, storeID uint64, rewards []models.Reward) {
	if c == nil {
		return
	}
	payload, errMarshal := json.Marshal(rewards)
	if errMarshal != nil {
		return
	}
	if errSet := c.client.Set(ctx, cacheKey(storeID), payload, c.ttl).Err(); errSet != nil {
		log.Warnf("rewards cache set failed (store=%d): %v", storeID, errSet)
	}
}

// Invalidate drops a store's cached listing.
func (c *RewardsCache) Invalidate(ctx context.Context, storeID uint64) {
	if c == nil {
		return
	}
	if errDel := c.client.Del(ctx, cacheKey(storeID)).Err(); errDel != nil {
		log.Warnf("rewards cache invalidate failed (store=%d): %v", storeID, errDel)
	}
}
