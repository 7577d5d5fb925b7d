package store

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/loyalty"
	"github.com/fidelizaa/loyalty/internal/models"
)

// RedemptionHandler validates pickup codes and manages redemption state.
type RedemptionHandler struct {
	db       *gorm.DB
	workflow *loyalty.Workflow
}

// NewRedemptionHandler constructs a RedemptionHandler.
func NewRedemptionHandler(conn *gorm.DB, workflow *loyalty.Workflow) *RedemptionHandler {
	return &RedemptionHandler{db: conn, workflow: workflow}
}

// validateCodeRequest defines the request body for code validation.
type validateCodeRequest struct {
	Code string `json:"code"`
}

// ValidateCode accepts a code presented at the counter and completes the
// matching redemption. A used code reports when it was used; a cancelled
// code reports the cancellation.
func (h *RedemptionHandler) ValidateCode(c *gin.Context) {
	storeID, _, ok := storeScope(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var body validateCodeRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.Code) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	result, errValidate := h.workflow.ValidateCode(c.Request.Context(), storeID, body.Code)
	if errValidate != nil {
		var alreadyUsed *loyalty.AlreadyUsedError
		switch {
		case errors.Is(errValidate, loyalty.ErrCodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "redemption code not found"})
		case errors.As(errValidate, &alreadyUsed):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "code already used",
				"used_at": alreadyUsed.CompletedAt,
			})
		case errors.Is(errValidate, loyalty.ErrRedemptionCancelled):
			c.JSON(http.StatusConflict, gin.H{"error": "code was cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "validate failed"})
		}
		return
	}

	log.Infof("redemption completed: store=%d code=%s", storeID, result.Redemption.Code)
	c.JSON(http.StatusOK, gin.H{
		"redemption": gin.H{
			"id":           result.Redemption.ID,
			"code":         result.Redemption.Code,
			"customer":     result.CustomerName,
			"reward":       result.RewardName,
			"description":  result.RewardDescription,
			"points_used":  result.Redemption.PointsUsed,
			"redeemed_at":  result.Redemption.RedeemedAt,
			"completed_at": result.Redemption.CompletedAt,
		},
	})
}

// List returns the store's redemptions, newest first, optionally filtered
// by ?status=.
func (h *RedemptionHandler) List(c *gin.Context) {
	storeID, _, ok := storeScope(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	query := h.db.WithContext(c.Request.Context()).
		Where("store_id = ?", storeID).
		Order("redeemed_at DESC").
		Limit(100)
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}

	var redemptions []models.Redemption
	if errFind := query.Find(&redemptions).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query redemptions failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": redemptions})
}

// Cancel voids a pending redemption and refunds the customer's points.
func (h *RedemptionHandler) Cancel(c *gin.Context) {
	storeID, principal, ok := storeScope(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	redemptionID, errParse := strconv.ParseUint(c.Param("redemptionID"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid redemption id"})
		return
	}

	actorID := principal.UserID
	if errCancel := h.workflow.Cancel(c.Request.Context(), storeID, redemptionID, &actorID); errCancel != nil {
		switch {
		case errors.Is(errCancel, loyalty.ErrCodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "redemption not found"})
		case errors.Is(errCancel, loyalty.ErrRedemptionNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": "redemption is not pending"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cancel failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
