package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"ridenow/internal/domain"
	"ridenow/internal/handler"
	"ridenow/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler   *handler.AuthHandler
	RideHandler   *handler.RideHandler
	DriverHandler *handler.DriverHandler
	WalletHandler *handler.WalletHandler
	RedisClient   *redis.Client
	NewRelicApp   *newrelic.Application
	JWTSecret     string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Auth routes.
		auth := v1.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/token", deps.AuthHandler.Token)
		}

		// Public driver directory.
		v1.GET("/drivers/active", deps.DriverHandler.ActiveDrivers)

		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(deps.JWTSecret))
		{
			// Wallet routes.
			wallet := authed.Group("/wallet")
			{
				wallet.GET("", deps.WalletHandler.GetWallet)
				wallet.POST("/add-money", deps.WalletHandler.AddMoney)
				wallet.GET("/transactions", deps.WalletHandler.Transactions)
				wallet.GET("/reconcile", deps.WalletHandler.Reconcile)
			}

			// Ride routes.
			rides := authed.Group("/rides")
			{
				rides.POST("", deps.RideHandler.CreateRide)
				rides.GET("/history", deps.RideHandler.History)
				rides.GET("/:id", deps.RideHandler.GetRide)
				rides.PATCH("/:id/status", deps.RideHandler.UpdateStatus)
				rides.POST("/:id/dispatch", deps.RideHandler.Dispatch)
			}

			// Driver routes.
			drivers := authed.Group("/drivers")
			{
				drivers.POST("/register", middleware.RequireRole(domain.RoleDriver), deps.DriverHandler.Register)
				drivers.GET("/profile", middleware.RequireRole(domain.RoleDriver), deps.DriverHandler.Profile)
				drivers.PATCH("/toggle-active", middleware.RequireRole(domain.RoleDriver), deps.DriverHandler.ToggleActive)
			}
		}
	}

	return router
}
