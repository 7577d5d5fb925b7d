package public

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/loyalty"
	"github.com/fidelizaa/loyalty/internal/models"
)

// CustomerHandler serves the customer self-service flow: login by contact,
// redeeming rewards and browsing own history.
type CustomerHandler struct {
	db       *gorm.DB
	workflow *loyalty.Workflow
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(conn *gorm.DB, workflow *loyalty.Workflow) *CustomerHandler {
	return &CustomerHandler{db: conn, workflow: workflow}
}

// loginRequest defines the request body for customer login.
type loginRequest struct {
	StoreSlug string `json:"store_slug"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Name      string `json:"name"`
}

// Login finds a customer of the store by email or phone, registering them on
// first contact. There is no password; the storefront is a kiosk-style flow.
func (h *CustomerHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	slug := strings.TrimSpace(strings.ToLower(body.StoreSlug))
	email := strings.TrimSpace(strings.ToLower(body.Email))
	phone := strings.TrimSpace(body.Phone)
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store_slug is required"})
		return
	}
	if email == "" && phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email or phone is required"})
		return
	}

	ctx := c.Request.Context()
	var storeRow models.Store
	if errFind := h.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&storeRow).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query store failed"})
		return
	}

	query := h.db.WithContext(ctx).Where("store_id = ?", storeRow.ID)
	if email != "" {
		query = query.Where("email = ?", email)
	} else {
		query = query.Where("phone = ?", phone)
	}

	var customer models.Customer
	errFind := query.First(&customer).Error
	switch {
	case errFind == nil:
		// Known customer.
	case errors.Is(errFind, gorm.ErrRecordNotFound):
		name := strings.TrimSpace(body.Name)
		if name == "" {
			name = "Customer"
		}
		customer = models.Customer{
			StoreID:  storeRow.ID,
			Name:     name,
			Email:    email,
			Phone:    phone,
			IsActive: true,
		}
		if errCreate := h.db.WithContext(ctx).Create(&customer).Error; errCreate != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "register customer failed"})
			return
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query customer failed"})
		return
	}

	if !customer.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "customer is disabled"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"customer": gin.H{
			"id":           customer.ID,
			"name":         customer.Name,
			"email":        customer.Email,
			"phone":        customer.Phone,
			"total_points": customer.TotalPoints,
			"store_id":     customer.StoreID,
		},
	})
}

// Redeem claims a reward for the customer and returns the pickup code.
func (h *CustomerHandler) Redeem(c *gin.Context) {
	customerID, errParse := strconv.ParseUint(c.Param("customerID"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}
	rewardID, errParse := strconv.ParseUint(c.Param("rewardID"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward id"})
		return
	}

	result, errRedeem := h.workflow.Redeem(c.Request.Context(), customerID, rewardID)
	if errRedeem != nil {
		var insufficient *loyalty.InsufficientPointsError
		switch {
		case errors.Is(errRedeem, loyalty.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		case errors.Is(errRedeem, loyalty.ErrRewardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reward not found"})
		case errors.As(errRedeem, &insufficient):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "insufficient points",
				"required":  insufficient.Required,
				"available": insufficient.Available,
			})
		case errors.Is(errRedeem, loyalty.ErrRedemptionLimitReached):
			c.JSON(http.StatusConflict, gin.H{"error": "reward redemption limit reached"})
		case errors.Is(errRedeem, loyalty.ErrDuplicatePendingRedemption):
			c.JSON(http.StatusConflict, gin.H{"error": "a pending redemption for this reward already exists"})
		case errors.Is(errRedeem, loyalty.ErrRewardExpired):
			c.JSON(http.StatusConflict, gin.H{"error": "reward has expired"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "redeem failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"redemption": gin.H{
			"id":          result.Redemption.ID,
			"code":        result.Redemption.Code,
			"reward":      result.RewardName,
			"points_used": result.Redemption.PointsUsed,
			"status":      result.Redemption.Status,
			"redeemed_at": result.Redemption.RedeemedAt,
		},
		"new_balance": result.NewBalance,
	})
}

// Redemptions returns the customer's recent redemptions, newest first.
func (h *CustomerHandler) Redemptions(c *gin.Context) {
	customerID, errParse := strconv.ParseUint(c.Param("customerID"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	var redemptions []models.Redemption
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("customer_id = ?", customerID).
		Order("redeemed_at DESC").
		Limit(50).
		Find(&redemptions).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query redemptions failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": redemptions})
}

// Transactions returns the customer's recent ledger entries, newest first.
func (h *CustomerHandler) Transactions(c *gin.Context) {
	customerID, errParse := strconv.ParseUint(c.Param("customerID"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	var transactions []models.PointTransaction
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(50).
		Find(&transactions).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query transactions failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
