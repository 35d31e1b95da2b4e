package routes

import (
	"net/http"

	_ "checkout_service/docs"
	"checkout_service/internal/adapter/http/handlers"
	"checkout_service/internal/adapter/http/middleware"
	"checkout_service/internal/config"
	"checkout_service/internal/usecase"
	"checkout_service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Deps struct {
	Orchestrator usecase.IPurchaseOrchestrator
	Auth         config.AuthConfig
	Logger       *logger.Logger
	// Gatherer backs /metrics; nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
}

// NewRouter builds the engine with every public, webhook and admin route.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	router := gin.New()
	router.Use(middleware.Recovery(d.Logger), middleware.RequestContext(d.Logger))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	purchaseHandler := handlers.NewPurchaseHandler(d.Orchestrator, d.Logger)
	webhookHandler := handlers.NewWebhookHandler(d.Orchestrator, d.Logger)
	adminHandler := handlers.NewAdminHandler(d.Orchestrator, d.Logger)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addCheckoutRoutes(v1, purchaseHandler, webhookHandler)
	addAdminRoutes(v1.Group(PathAdmin, middleware.AdminAuth(d.Auth, d.Logger)), adminHandler)
	return router
}

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}
