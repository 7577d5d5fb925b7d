package store

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/db"
	"github.com/fidelizaa/loyalty/internal/loyalty"
	"github.com/fidelizaa/loyalty/internal/models"
)

// CustomerHandler manages a store's customers and their point balances.
type CustomerHandler struct {
	db     *gorm.DB
	ledger *loyalty.Ledger
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(conn *gorm.DB, ledger *loyalty.Ledger) *CustomerHandler {
	return &CustomerHandler{db: conn, ledger: ledger}
}

// customerDTO defines the customer response payload.
type customerDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	TotalPoints int64  `json:"total_points"`
	IsActive    bool   `json:"is_active"`
}

func toCustomerDTO(customer models.Customer) customerDTO {
	return customerDTO{
		ID:          customer.ID,
		Name:        customer.Name,
		Email:       customer.Email,
		Phone:       customer.Phone,
		TotalPoints: customer.TotalPoints,
		IsActive:    customer.IsActive,
	}
}

// List returns the store's customers, newest first. An optional ?q= filter
// matches name or email case-insensitively.
func (h *CustomerHandler) List(c *gin.Context) {
	storeID, _, ok := storeScope(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	query := h.db.WithContext(c.Request.Context()).
		Where("store_id = ?", storeID).
		Order("created_at DESC")
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		pattern := db.NormalizeLikePattern(h.db, "%"+q+"%")
		query = query.Where(
			h.db.Where(db.CaseInsensitiveLikeExpr(h.db, "name"), pattern).
				Or(db.CaseInsensitiveLikeExpr(h.db, "email"), pattern),
		)
	}

	var customers []models.Customer
	if errFind := query.Find(&customers).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query customers failed"})
		return
	}

	resp := make([]customerDTO, 0, len(customers))
	for _, customer := range customers {
		resp = append(resp, toCustomerDTO(customer))
	}
	c.JSON(http.StatusOK, gin.H{"customers": resp})
}

// createCustomerRequest defines the request body for customer registration.
type createCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Create registers a customer in the store. At least one of email or phone
// is required so the customer can log in later.
func (h *CustomerHandler) Create(c *gin.Context) {
	storeID, _, ok := storeScope(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var body createCustomerRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	email := strings.TrimSpace(strings.ToLower(body.Email))
	phone := strings.TrimSpace(body.Phone)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if email == "" && phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email or phone is required"})
		return
	}

	if email != "" {
		var count int64
		if errCount := h.db.WithContext(c.Request.Context()).
			Model(&models.Customer{}).
			Where("store_id = ? AND email = ?", storeID, email).
			Count(&count).Error; errCount != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query customers failed"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "customer with this email already exists"})
			return
		}
	}

	customer := models.Customer{
		StoreID:  storeID,
		Name:     name,
		Email:    email,
		Phone:    phone,
		IsActive: true,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&customer).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create customer failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer": toCustomerDTO(customer)})
}

// adjustPointsRequest defines the request body for point adjustments.
type adjustPointsRequest struct {
	Points      int64  `json:"points"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// AdjustPoints credits or debits a customer's balance. Points are always
// sent positive; type redeemed or expired debits. A debit beyond the balance
// clamps the total at zero.
func (h *CustomerHandler) AdjustPoints(c *gin.Context) {
	storeID, principal, ok := storeScope(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	customerID, errParse := strconv.ParseUint(c.Param("customerID"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	var body adjustPointsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Points <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "points must be positive"})
		return
	}
	txType := strings.TrimSpace(body.Type)
	if txType == "" {
		txType = models.TransactionEarned
	}

	actorID := principal.UserID
	newBalance, errAdjust := h.ledger.Adjust(
		c.Request.Context(), storeID, customerID,
		body.Points, txType, strings.TrimSpace(body.Description), &actorID,
	)
	if errAdjust != nil {
		if errors.Is(errAdjust, loyalty.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errAdjust.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"new_balance": newBalance})
}

// Transactions returns a customer's recent ledger entries, newest first.
func (h *CustomerHandler) Transactions(c *gin.Context) {
	storeID, _, ok := storeScope(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	customerID, errParse := strconv.ParseUint(c.Param("customerID"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	var transactions []models.PointTransaction
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("store_id = ? AND customer_id = ?", storeID, customerID).
		Order("created_at DESC").
		Limit(50).
		Find(&transactions).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query transactions failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// Reconcile recomputes the customer's cached balance from the ledger.
func (h *CustomerHandler) Reconcile(c *gin.Context) {
	storeID, _, ok := storeScope(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	customerID, errParse := strconv.ParseUint(c.Param("customerID"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	balance, repaired, errReconcile := h.ledger.Reconcile(c.Request.Context(), storeID, customerID)
	if errReconcile != nil {
		if errors.Is(errReconcile, loyalty.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reconcile failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance, "repaired": repaired})
}
