package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/mail"
	"github.com/fidelizaa/loyalty/internal/models"
	"github.com/fidelizaa/loyalty/internal/security"
	"github.com/fidelizaa/loyalty/internal/util"
)

// StoreHandler manages tenant provisioning.
type StoreHandler struct {
	db      *gorm.DB
	mailer  *mail.Mailer
	baseURL string
}

// NewStoreHandler constructs a StoreHandler.
func NewStoreHandler(db *gorm.DB, mailer *mail.Mailer, baseURL string) *StoreHandler {
	if baseURL == "" {
		baseURL = "https://fidelizaa.com.br"
	}
	return &StoreHandler{db: db, mailer: mailer, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// storeDTO defines the store response payload.
type storeDTO struct {
	ID                   uint64 `json:"id"`
	Name                 string `json:"name"`
	Slug                 string `json:"slug"`
	CNPJ                 string `json:"cnpj"`
	Segment              string `json:"segment"`
	PointsConversionRate string `json:"points_conversion_rate"`
	OwnerEmail           string `json:"owner_email"`
	CustomURL            string `json:"custom_url"`
	IsActive             bool   `json:"is_active"`
}

func toStoreDTO(s models.Store) storeDTO {
	return storeDTO{
		ID:                   s.ID,
		Name:                 s.Name,
		Slug:                 s.Slug,
		CNPJ:                 s.CNPJ,
		Segment:              s.Segment,
		PointsConversionRate: s.PointsConversionRate.StringFixed(2),
		OwnerEmail:           s.OwnerEmail,
		CustomURL:            s.CustomURL,
		IsActive:             s.IsActive,
	}
}

// List returns all stores, newest first.
func (h *StoreHandler) List(c *gin.Context) {
	var stores []models.Store
	if errFind := h.db.WithContext(c.Request.Context()).
		Order("created_at DESC").
		Find(&stores).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query stores failed"})
		return
	}

	resp := make([]storeDTO, 0, len(stores))
	for _, s := range stores {
		resp = append(resp, toStoreDTO(s))
	}
	c.JSON(http.StatusOK, gin.H{"stores": resp})
}

// createStoreRequest defines the request body for store provisioning.
type createStoreRequest struct {
	Name                 string `json:"name"`
	CNPJ                 string `json:"cnpj"`
	Segment              string `json:"segment"`
	OwnerEmail           string `json:"owner_email"`
	PointsConversionRate string `json:"points_conversion_rate"`
}

// Create provisions a new store together with its owner account. The owner
// receives a generated password by email; the response echoes the store but
// never the password.
func (h *StoreHandler) Create(c *gin.Context) {
	var body createStoreRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	segment := strings.TrimSpace(body.Segment)
	ownerEmail := strings.TrimSpace(strings.ToLower(body.OwnerEmail))
	if name == "" || segment == "" || ownerEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, segment and owner_email are required"})
		return
	}
	cnpj := util.NormalizeCNPJ(body.CNPJ)
	if !util.ValidateCNPJ(cnpj) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cnpj"})
		return
	}

	rate := decimal.NewFromInt(1)
	if body.PointsConversionRate != "" {
		parsed, errParse := decimal.NewFromString(body.PointsConversionRate)
		if errParse != nil || parsed.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid points_conversion_rate"})
			return
		}
		rate = parsed
	}

	password, errPassword := security.GeneratePassword(12)
	if errPassword != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password generation failed"})
		return
	}
	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}

	var store models.Store
	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if errCount := tx.Model(&models.Store{}).Where("cnpj = ?", cnpj).Count(&count).Error; errCount != nil {
			return errCount
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "cnpj already registered"})
			return errors.New("cnpj exists")
		}

		slug := util.Slugify(name)
		if errCount := tx.Model(&models.Store{}).Where("slug = ?", slug).Count(&count).Error; errCount != nil {
			return errCount
		}
		if count > 0 {
			suffix, errSuffix := security.GeneratePassword(6)
			if errSuffix != nil {
				return errSuffix
			}
			slug = slug + "-" + strings.ToLower(suffix)
		}

		store = models.Store{
			Name:                 name,
			Slug:                 slug,
			CNPJ:                 cnpj,
			Segment:              segment,
			PointsConversionRate: rate,
			OwnerEmail:           ownerEmail,
			CustomURL:            fmt.Sprintf("%s/loja/%s", h.baseURL, slug),
			IsActive:             true,
		}
		if errCreate := tx.Create(&store).Error; errCreate != nil {
			return errCreate
		}

		owner := models.User{
			Email:    ownerEmail,
			Password: hash,
			Name:     name,
			Role:     models.RoleStoreOwner,
			StoreID:  &store.ID,
			IsActive: true,
		}
		return tx.Create(&owner).Error
	})
	if errTx != nil {
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create store failed"})
		}
		return
	}

	go h.mailer.SendStoreWelcome(ownerEmail, store.Name, store.CustomURL, password)
	log.Infof("store provisioned: %s (slug=%s owner=%s)", store.Name, store.Slug, ownerEmail)

	c.JSON(http.StatusCreated, gin.H{"store": toStoreDTO(store)})
}

// updateStoreRequest defines the request body for store updates. Pointer
// fields distinguish absent keys from zero values.
type updateStoreRequest struct {
	Name                 *string `json:"name"`
	CNPJ                 *string `json:"cnpj"`
	Segment              *string `json:"segment"`
	OwnerEmail           *string `json:"owner_email"`
	PointsConversionRate *string `json:"points_conversion_rate"`
	IsActive             *bool   `json:"is_active"`
}

// Update modifies an existing store.
func (h *StoreHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store id"})
		return
	}

	var body updateStoreRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{}
	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		updates["name"] = strings.TrimSpace(*body.Name)
	}
	if body.CNPJ != nil {
		cnpj := util.NormalizeCNPJ(*body.CNPJ)
		if !util.ValidateCNPJ(cnpj) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cnpj"})
			return
		}
		updates["cnpj"] = cnpj
	}
	if body.Segment != nil && strings.TrimSpace(*body.Segment) != "" {
		updates["segment"] = strings.TrimSpace(*body.Segment)
	}
	if body.OwnerEmail != nil && strings.TrimSpace(*body.OwnerEmail) != "" {
		updates["owner_email"] = strings.TrimSpace(strings.ToLower(*body.OwnerEmail))
	}
	if body.PointsConversionRate != nil {
		rate, errRate := decimal.NewFromString(*body.PointsConversionRate)
		if errRate != nil || rate.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid points_conversion_rate"})
			return
		}
		updates["points_conversion_rate"] = rate
	}
	if body.IsActive != nil {
		updates["is_active"] = *body.IsActive
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Store{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update store failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes a store; customers, rewards, redemptions and ledger rows
// cascade with it.
func (h *StoreHandler) Delete(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store id"})
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Store{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete store failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
		return
	}

	log.Infof("store deleted: id=%d", id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
