package store

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/loyalty"
	"github.com/fidelizaa/loyalty/internal/models"
)

// RewardHandler manages a store's reward catalog.
type RewardHandler struct {
	db      *gorm.DB
	catalog *loyalty.Catalog
}

// NewRewardHandler constructs a RewardHandler.
func NewRewardHandler(conn *gorm.DB, catalog *loyalty.Catalog) *RewardHandler {
	return &RewardHandler{db: conn, catalog: catalog}
}

// List returns every reward of the store, newest first, including inactive
// and exhausted ones so the operator sees the full catalog.
func (h *RewardHandler) List(c *gin.Context) {
	storeID, _, ok := storeScope(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var rewards []models.Reward
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&rewards).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query rewards failed"})
		return
	}

	now := time.Now().UTC()
	resp := make([]gin.H, 0, len(rewards))
	for i := range rewards {
		r := rewards[i]
		resp = append(resp, gin.H{
			"id":                  r.ID,
			"name":                r.Name,
			"description":         r.Description,
			"points_required":     r.PointsRequired,
			"category":            r.Category,
			"reward_type":         r.RewardType,
			"reward_value":        r.RewardValue,
			"max_redemptions":     r.MaxRedemptions,
			"current_redemptions": r.CurrentRedemptions,
			"valid_until":         r.ValidUntil,
			"never_expires":       r.NeverExpires,
			"is_active":           r.IsActive,
			"available":           loyalty.Available(&r, now),
		})
	}
	c.JSON(http.StatusOK, gin.H{"rewards": resp})
}

// createRewardRequest defines the request body for reward creation.
type createRewardRequest struct {
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	PointsRequired     int64   `json:"points_required"`
	Category           string  `json:"category"`
	RewardType         string  `json:"reward_type"`
	RewardValue        string  `json:"reward_value"`
	MaxRedemptions     *int64  `json:"max_redemptions"`
	ValidUntil         *string `json:"valid_until"`
	NeverExpires       bool    `json:"never_expires"`
	MinimumPurchase    *int64  `json:"minimum_purchase"`
	TermsAndConditions string  `json:"terms_and_conditions"`
}

// Create adds a reward to the store's catalog.
func (h *RewardHandler) Create(c *gin.Context) {
	storeID, _, ok := storeScope(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var body createRewardRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" || body.PointsRequired <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and positive points_required are required"})
		return
	}
	if body.MaxRedemptions != nil && *body.MaxRedemptions <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_redemptions must be positive"})
		return
	}

	category := strings.ToLower(strings.TrimSpace(body.Category))
	if category == "" {
		category = models.CategoryOther
	}
	if !models.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}
	rewardType := strings.ToLower(strings.TrimSpace(body.RewardType))
	if rewardType == "" {
		rewardType = models.RewardTypeVoucher
	}
	if !models.ValidRewardType(rewardType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward_type"})
		return
	}

	var validUntil *time.Time
	if !body.NeverExpires && body.ValidUntil != nil && *body.ValidUntil != "" {
		parsed, errParse := time.Parse(time.RFC3339, *body.ValidUntil)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_until, expected RFC 3339"})
			return
		}
		if !parsed.After(time.Now()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "valid_until must be in the future"})
			return
		}
		validUntil = &parsed
	}

	reward := models.Reward{
		StoreID:            storeID,
		Name:               name,
		Description:        strings.TrimSpace(body.Description),
		PointsRequired:     body.PointsRequired,
		Category:           category,
		RewardType:         rewardType,
		RewardValue:        strings.TrimSpace(body.RewardValue),
		MaxRedemptions:     body.MaxRedemptions,
		ValidFrom:          time.Now().UTC(),
		ValidUntil:         validUntil,
		NeverExpires:       body.NeverExpires,
		MinimumPurchase:    body.MinimumPurchase,
		TermsAndConditions: strings.TrimSpace(body.TermsAndConditions),
		IsActive:           true,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&reward).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create reward failed"})
		return
	}

	h.catalog.Invalidate(c.Request.Context(), storeID)
	c.JSON(http.StatusCreated, gin.H{"id": reward.ID})
}

// updateRewardRequest defines the request body for reward updates. Changing
// points_required never affects redemptions already claimed; their cost was
// frozen at claim time.
type updateRewardRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	PointsRequired *int64  `json:"points_required"`
	Category       *string `json:"category"`
	RewardType     *string `json:"reward_type"`
	RewardValue    *string `json:"reward_value"`
	MaxRedemptions *int64  `json:"max_redemptions"`
	IsActive       *bool   `json:"is_active"`
}

// Update modifies a reward in the store's catalog.
func (h *RewardHandler) Update(c *gin.Context) {
	storeID, _, ok := storeScope(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	rewardID, errParse := strconv.ParseUint(c.Param("rewardID"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward id"})
		return
	}

	var body updateRewardRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{}
	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		updates["name"] = strings.TrimSpace(*body.Name)
	}
	if body.Description != nil {
		updates["description"] = strings.TrimSpace(*body.Description)
	}
	if body.PointsRequired != nil {
		if *body.PointsRequired <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "points_required must be positive"})
			return
		}
		updates["points_required"] = *body.PointsRequired
	}
	if body.Category != nil {
		category := strings.ToLower(strings.TrimSpace(*body.Category))
		if !models.ValidCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		updates["category"] = category
	}
	if body.RewardType != nil {
		rewardType := strings.ToLower(strings.TrimSpace(*body.RewardType))
		if !models.ValidRewardType(rewardType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward_type"})
			return
		}
		updates["reward_type"] = rewardType
	}
	if body.RewardValue != nil {
		updates["reward_value"] = strings.TrimSpace(*body.RewardValue)
	}
	if body.MaxRedemptions != nil {
		if *body.MaxRedemptions <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_redemptions must be positive"})
			return
		}
		updates["max_redemptions"] = *body.MaxRedemptions
	}
	if body.IsActive != nil {
		updates["is_active"] = *body.IsActive
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Reward{}).
		Where("id = ? AND store_id = ?", rewardID, storeID).
		Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update reward failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "reward not found"})
		return
	}

	h.catalog.Invalidate(c.Request.Context(), storeID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
