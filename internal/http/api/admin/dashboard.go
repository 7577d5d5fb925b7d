package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/db"
	"github.com/fidelizaa/loyalty/internal/models"
)

// DashboardHandler serves platform-wide statistics.
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(conn *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: conn}
}

// Overview returns platform totals: stores, customers, monthly redemptions
// and points in circulation.
func (h *DashboardHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()

	var totalStores, activeStores, totalCustomers, monthlyRedemptions int64
	var pointsInCirculation int64

	if err := h.db.WithContext(ctx).Model(&models.Store{}).Count(&totalStores).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query stats failed"})
		return
	}
	if err := h.db.WithContext(ctx).Model(&models.Store{}).Where("is_active = ?", true).Count(&activeStores).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query stats failed"})
		return
	}
	if err := h.db.WithContext(ctx).Model(&models.Customer{}).Count(&totalCustomers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query stats failed"})
		return
	}
	if err := h.db.WithContext(ctx).Model(&models.Redemption{}).
		Where(db.CurrentMonthExpr(h.db, "redeemed_at")).
		Count(&monthlyRedemptions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query stats failed"})
		return
	}
	if err := h.db.WithContext(ctx).Model(&models.Customer{}).
		Select("COALESCE(SUM(total_points), 0)").
		Scan(&pointsInCirculation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query stats failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"total_stores":          totalStores,
			"active_stores":         activeStores,
			"total_customers":       totalCustomers,
			"monthly_redemptions":   monthlyRedemptions,
			"points_in_circulation": pointsInCirculation,
		},
	})
}
