package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/models"
)

// LeadHandler lists captured sales leads.
type LeadHandler struct {
	db *gorm.DB
}

// NewLeadHandler constructs a LeadHandler.
func NewLeadHandler(conn *gorm.DB) *LeadHandler {
	return &LeadHandler{db: conn}
}

// List returns all leads, newest first.
func (h *LeadHandler) List(c *gin.Context) {
	var leads []models.Lead
	if errFind := h.db.WithContext(c.Request.Context()).
		Order("created_at DESC").
		Find(&leads).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query leads failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads})
}
