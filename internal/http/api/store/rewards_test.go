package store

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/fidelizaa/loyalty/internal/loyalty"
	"github.com/fidelizaa/loyalty/internal/models"
)

func TestCreateRewardRejectsUnknownCategory(t *testing.T) {
	fx := setupStoreFixture(t)
	handler := NewRewardHandler(fx.db, loyalty.NewCatalog(fx.db, nil))

	c, w := ownerContext(t, fx.store.ID, `{"name": "Gift", "points_required": 10, "category": "gift card 1"}`, nil)
	handler.Create(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	if errCount := fx.db.Model(&models.Reward{}).
		Where("store_id = ? AND name = ?", fx.store.ID, "Gift").
		Count(&count).Error; errCount != nil {
		t.Fatalf("count rewards: %v", errCount)
	}
	if count != 0 {
		t.Fatalf("reward created despite invalid category")
	}
}

func TestCreateRewardRejectsUnknownType(t *testing.T) {
	fx := setupStoreFixture(t)
	handler := NewRewardHandler(fx.db, loyalty.NewCatalog(fx.db, nil))

	c, w := ownerContext(t, fx.store.ID, `{"name": "Gift", "points_required": 10, "reward_type": "raffle"}`, nil)
	handler.Create(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateRewardDefaultsCategoryAndType(t *testing.T) {
	fx := setupStoreFixture(t)
	handler := NewRewardHandler(fx.db, loyalty.NewCatalog(fx.db, nil))

	c, w := ownerContext(t, fx.store.ID, `{"name": "Gift", "points_required": 10, "category": " Discount "}`, nil)
	handler.Create(c)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var reward models.Reward
	if errFind := fx.db.Where("store_id = ? AND name = ?", fx.store.ID, "Gift").
		First(&reward).Error; errFind != nil {
		t.Fatalf("load reward: %v", errFind)
	}
	if reward.Category != models.CategoryDiscount {
		t.Fatalf("expected normalized category %q, got %q", models.CategoryDiscount, reward.Category)
	}
	if reward.RewardType != models.RewardTypeVoucher {
		t.Fatalf("expected default type %q, got %q", models.RewardTypeVoucher, reward.RewardType)
	}
}

func TestUpdateRewardRejectsUnknownCategory(t *testing.T) {
	fx := setupStoreFixture(t)
	handler := NewRewardHandler(fx.db, loyalty.NewCatalog(fx.db, nil))

	c, w := ownerContext(t, fx.store.ID, `{"category": "gift card 1"}`, gin.Params{
		{Key: "rewardID", Value: fmt.Sprint(fx.reward.ID)},
	})
	handler.Update(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var reward models.Reward
	if errFind := fx.db.First(&reward, fx.reward.ID).Error; errFind != nil {
		t.Fatalf("reload reward: %v", errFind)
	}
	if reward.Category != models.CategoryProduct {
		t.Fatalf("category changed despite rejection: %q", reward.Category)
	}
}

func TestUpdateRewardChangesCategory(t *testing.T) {
	fx := setupStoreFixture(t)
	handler := NewRewardHandler(fx.db, loyalty.NewCatalog(fx.db, nil))

	c, w := ownerContext(t, fx.store.ID, `{"category": "service", "reward_type": "percentage"}`, gin.Params{
		{Key: "rewardID", Value: fmt.Sprint(fx.reward.ID)},
	})
	handler.Update(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var reward models.Reward
	if errFind := fx.db.First(&reward, fx.reward.ID).Error; errFind != nil {
		t.Fatalf("reload reward: %v", errFind)
	}
	if reward.Category != models.CategoryService || reward.RewardType != models.RewardTypePercentage {
		t.Fatalf("unexpected reward after update: category=%q type=%q", reward.Category, reward.RewardType)
	}
}
