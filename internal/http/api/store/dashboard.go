package store

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/db"
	"github.com/fidelizaa/loyalty/internal/models"
)

// DashboardHandler serves per-store statistics.
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(conn *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: conn}
}

// Overview returns the store profile with customer, reward and redemption
// statistics.
func (h *DashboardHandler) Overview(c *gin.Context) {
	storeID, _, ok := storeScope(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	ctx := c.Request.Context()

	var storeRow models.Store
	if errFind := h.db.WithContext(ctx).First(&storeRow, storeID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query store failed"})
		return
	}

	var totalCustomers, activeRewards, monthlyRedemptions, pointsInCirculation int64
	if err := h.db.WithContext(ctx).Model(&models.Customer{}).
		Where("store_id = ?", storeID).
		Count(&totalCustomers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query stats failed"})
		return
	}
	if err := h.db.WithContext(ctx).Model(&models.Reward{}).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Count(&activeRewards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query stats failed"})
		return
	}
	if err := h.db.WithContext(ctx).Model(&models.Redemption{}).
		Where("store_id = ?", storeID).
		Where(db.CurrentMonthExpr(h.db, "redeemed_at")).
		Count(&monthlyRedemptions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query stats failed"})
		return
	}
	if err := h.db.WithContext(ctx).Model(&models.Customer{}).
		Where("store_id = ?", storeID).
		Select("COALESCE(SUM(total_points), 0)").
		Scan(&pointsInCirculation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query stats failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store": gin.H{
			"id":         storeRow.ID,
			"name":       storeRow.Name,
			"slug":       storeRow.Slug,
			"custom_url": storeRow.CustomURL,
			"is_active":  storeRow.IsActive,
		},
		"stats": gin.H{
			"total_customers":       totalCustomers,
			"active_rewards":        activeRewards,
			"monthly_redemptions":   monthlyRedemptions,
			"points_in_circulation": pointsInCirculation,
		},
	})
}
