// Package admin exposes the super-admin API surface: store provisioning,
// the platform dashboard and lead management.
package admin

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/mail"
)

// Deps bundles admin handler dependencies.
type Deps struct {
	DB      *gorm.DB
	Mailer  *mail.Mailer
	BaseURL string
}

// RegisterRoutes registers all admin routes on an authenticated group.
func RegisterRoutes(r *gin.RouterGroup, deps Deps) {
	storeHandler := NewStoreHandler(deps.DB, deps.Mailer, deps.BaseURL)
	r.GET("/stores", storeHandler.List)
	r.POST("/stores", storeHandler.Create)
	r.PUT("/stores/:id", storeHandler.Update)
	r.DELETE("/stores/:id", storeHandler.Delete)

	dashboardHandler := NewDashboardHandler(deps.DB)
	r.GET("/dashboard", dashboardHandler.Overview)

	leadHandler := NewLeadHandler(deps.DB)
	r.GET("/leads", leadHandler.List)
}
