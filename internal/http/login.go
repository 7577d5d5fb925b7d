package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/config"
	"github.com/fidelizaa/loyalty/internal/mail"
	"github.com/fidelizaa/loyalty/internal/models"
	"github.com/fidelizaa/loyalty/internal/security"
)

// loginRequest defines the request body for operator login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler authenticates a super admin or store owner and issues a JWT.
func LoginHandler(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body loginRequest
		if errBind := c.ShouldBindJSON(&body); errBind != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		email := strings.TrimSpace(strings.ToLower(body.Email))
		password := strings.TrimSpace(body.Password)
		if email == "" || password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing email or password"})
			return
		}

		var user models.User
		if errFind := db.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "user disabled"})
			return
		}
		if !security.CheckPassword(user.Password, password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, errToken := security.GenerateToken(jwtCfg.Secret, user.ID, user.Email, user.Role, user.StoreID, jwtCfg.Expiry)
		if errToken != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user": gin.H{
				"id":       user.ID,
				"email":    user.Email,
				"name":     user.Name,
				"role":     user.Role,
				"store_id": user.StoreID,
			},
		})
	}
}

// leadRequest defines the request body for public lead capture.
type leadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `json:"message"`
}

// LeadCaptureHandler records a sales lead from the public site and notifies
// the sales inbox.
func LeadCaptureHandler(db *gorm.DB, mailer *mail.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body leadRequest
		if errBind := c.ShouldBindJSON(&body); errBind != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		name := strings.TrimSpace(body.Name)
		email := strings.TrimSpace(body.Email)
		if name == "" || email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and email are required"})
			return
		}

		lead := models.Lead{
			Name:    name,
			Email:   email,
			Phone:   strings.TrimSpace(body.Phone),
			Company: strings.TrimSpace(body.Company),
			Message: strings.TrimSpace(body.Message),
			Status:  models.LeadNew,
			Source:  "website",
		}
		if errCreate := db.WithContext(c.Request.Context()).Create(&lead).Error; errCreate != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create lead failed"})
			return
		}

		go mailer.SendLeadNotification(lead.Name, lead.Email, lead.Phone, lead.Company, lead.Message)
		log.Infof("lead captured: %s <%s>", lead.Name, lead.Email)

		c.JSON(http.StatusCreated, gin.H{"id": lead.ID})
	}
}
