package public

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/loyalty"
	"github.com/fidelizaa/loyalty/internal/models"
)

// StorefrontHandler serves store profiles and public reward listings.
type StorefrontHandler struct {
	db      *gorm.DB
	catalog *loyalty.Catalog
}

// NewStorefrontHandler constructs a StorefrontHandler.
func NewStorefrontHandler(conn *gorm.DB, catalog *loyalty.Catalog) *StorefrontHandler {
	return &StorefrontHandler{db: conn, catalog: catalog}
}

func (h *StorefrontHandler) findStore(c *gin.Context) (*models.Store, bool) {
	slug := strings.TrimSpace(strings.ToLower(c.Param("slug")))
	if slug == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
		return nil, false
	}

	var storeRow models.Store
	errFind := h.db.WithContext(c.Request.Context()).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&storeRow).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query store failed"})
		}
		return nil, false
	}
	return &storeRow, true
}

// Show returns a store's public profile.
func (h *StorefrontHandler) Show(c *gin.Context) {
	storeRow, ok := h.findStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"store": gin.H{
			"id":                     storeRow.ID,
			"name":                   storeRow.Name,
			"slug":                   storeRow.Slug,
			"segment":                storeRow.Segment,
			"points_conversion_rate": storeRow.PointsConversionRate,
		},
	})
}

// Rewards returns the store's active rewards, cheapest first, with an
// availability flag so the storefront can grey out exhausted or expired ones.
func (h *StorefrontHandler) Rewards(c *gin.Context) {
	storeRow, ok := h.findStore(c)
	if !ok {
		return
	}

	rewards, errList := h.catalog.ListRedeemable(c.Request.Context(), storeRow.ID)
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query rewards failed"})
		return
	}

	now := time.Now().UTC()
	resp := make([]gin.H, 0, len(rewards))
	for i := range rewards {
		r := rewards[i]
		resp = append(resp, gin.H{
			"id":              r.ID,
			"name":            r.Name,
			"description":     r.Description,
			"points_required": r.PointsRequired,
			"category":        r.Category,
			"reward_type":     r.RewardType,
			"reward_value":    r.RewardValue,
			"valid_until":     r.ValidUntil,
			"never_expires":   r.NeverExpires,
			"available":       loyalty.Available(&r, now),
		})
	}
	c.JSON(http.StatusOK, gin.H{"rewards": resp})
}
