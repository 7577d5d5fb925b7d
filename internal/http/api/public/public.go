// Package public exposes the unauthenticated customer-facing API: the
// storefront, the reward catalog, customer lookup by contact and the redeem
// flow. Customers identify themselves by store slug plus email or phone.
package public

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/loyalty"
)

// Deps bundles public handler dependencies.
type Deps struct {
	DB       *gorm.DB
	Catalog  *loyalty.Catalog
	Workflow *loyalty.Workflow
}

// RegisterRoutes registers the public customer routes.
func RegisterRoutes(r *gin.RouterGroup, deps Deps) {
	storefrontHandler := NewStorefrontHandler(deps.DB, deps.Catalog)
	r.GET("/store/:slug", storefrontHandler.Show)
	r.GET("/store/:slug/rewards", storefrontHandler.Rewards)

	customerHandler := NewCustomerHandler(deps.DB, deps.Workflow)
	r.POST("/customer-login", customerHandler.Login)
	r.POST("/customers/:customerID/redeem/:rewardID", customerHandler.Redeem)
	r.GET("/customers/:customerID/redemptions", customerHandler.Redemptions)
	r.GET("/customers/:customerID/transactions", customerHandler.Transactions)
}
