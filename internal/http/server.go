package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/config"
	adminapi "github.com/fidelizaa/loyalty/internal/http/api/admin"
	publicapi "github.com/fidelizaa/loyalty/internal/http/api/public"
	storeapi "github.com/fidelizaa/loyalty/internal/http/api/store"
	"github.com/fidelizaa/loyalty/internal/loyalty"
	"github.com/fidelizaa/loyalty/internal/mail"
)

// Deps bundles the constructed collaborators handed to the HTTP layer.
type Deps struct {
	DB       *gorm.DB
	Ledger   *loyalty.Ledger
	Catalog  *loyalty.Catalog
	Workflow *loyalty.Workflow
	Mailer   *mail.Mailer
	Config   *config.Config
}

// NewEngine builds the gin engine with CORS, health and all API routes.
func NewEngine(deps Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(deps.Config.Server.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = deps.Config.Server.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsCfg.MaxAge = 12 * time.Hour
	engine.Use(cors.New(corsCfg))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	api.POST("/login", LoginHandler(deps.DB, deps.Config.JWT))
	api.POST("/leads", LeadCaptureHandler(deps.DB, deps.Mailer))

	authed := api.Group("")
	authed.Use(AuthMiddleware(deps.DB, deps.Config.JWT))

	adminapi.RegisterRoutes(authed.Group("/admin", RequireSuperAdmin()), adminapi.Deps{
		DB:      deps.DB,
		Mailer:  deps.Mailer,
		BaseURL: deps.Config.BaseURL,
	})
	storeapi.RegisterRoutes(authed.Group("/store", RequireStoreOwner()), storeapi.Deps{
		DB:       deps.DB,
		Ledger:   deps.Ledger,
		Catalog:  deps.Catalog,
		Workflow: deps.Workflow,
	})
	publicapi.RegisterRoutes(api.Group("/public"), publicapi.Deps{
		DB:       deps.DB,
		Catalog:  deps.Catalog,
		Workflow: deps.Workflow,
	})

	return engine
}
