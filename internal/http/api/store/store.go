// Package store exposes the store-owner API surface: customer management,
// point adjustments, the reward catalog and redemption-code validation.
// Every handler resolves the principal's store scope first; resources from
// other stores are invisible.
package store

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/loyalty"
)

// Deps bundles store handler dependencies.
type Deps struct {
	DB       *gorm.DB
	Ledger   *loyalty.Ledger
	Catalog  *loyalty.Catalog
	Workflow *loyalty.Workflow
}

// RegisterRoutes registers all store-owner routes on an authenticated group.
func RegisterRoutes(r *gin.RouterGroup, deps Deps) {
	customerHandler := NewCustomerHandler(deps.DB, deps.Ledger)
	r.GET("/customers", customerHandler.List)
	r.POST("/customers", customerHandler.Create)
	r.POST("/customers/:customerID/points", customerHandler.AdjustPoints)
	r.GET("/customers/:customerID/transactions", customerHandler.Transactions)
	r.POST("/customers/:customerID/reconcile", customerHandler.Reconcile)

	rewardHandler := NewRewardHandler(deps.DB, deps.Catalog)
	r.GET("/rewards", rewardHandler.List)
	r.POST("/rewards", rewardHandler.Create)
	r.PUT("/rewards/:rewardID", rewardHandler.Update)

	redemptionHandler := NewRedemptionHandler(deps.DB, deps.Workflow)
	r.POST("/validate-redemption", redemptionHandler.ValidateCode)
	r.GET("/redemptions", redemptionHandler.List)
	r.POST("/redemptions/:redemptionID/cancel", redemptionHandler.Cancel)

	dashboardHandler := NewDashboardHandler(deps.DB)
	r.GET("/dashboard", dashboardHandler.Overview)
}

// storeScope returns the authenticated principal's store ID. The
// RequireStoreOwner middleware guarantees it is present.
func storeScope(c *gin.Context) (uint64, loyalty.Principal, bool) {
	value, ok := c.Get("principal")
	if !ok {
		return 0, loyalty.Principal{}, false
	}
	principal, ok := value.(loyalty.Principal)
	if !ok {
		return 0, loyalty.Principal{}, false
	}
	storeID, err := principal.StoreScope()
	if err != nil {
		return 0, principal, false
	}
	return storeID, principal, true
}
