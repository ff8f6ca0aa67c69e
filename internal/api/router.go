package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/api/handlers"
	"github.com/shopledger/ledgerapi/internal/api/middleware"
	"github.com/shopledger/ledgerapi/internal/config"
	"github.com/shopledger/ledgerapi/internal/repository"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Shop Ledger API",
			"endpoints": []string{
				"GET /health",
				"POST /v1/shopify/products/sync",
				"POST /v1/shopify/shops",
				"GET /v1/products",
				"POST /v1/purchases/upload",
				"GET /v1/purchases",
				"PATCH /v1/purchases/:id",
				"GET /v1/purchases/batches",
				"DELETE /v1/purchases/batches/:id",
				"POST /v1/returns",
				"GET /v1/returns",
				"DELETE /v1/returns/:id",
				"POST /v1/orders/upload",
				"GET /v1/orders",
				"GET /v1/orders/summary",
				"GET /v1/credentials",
				"PUT /v1/credentials",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes (all require authentication)
	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(repos, logger))
	{
		v1.POST("/shopify/products/sync", handlers.HandleSyncProducts(repos, logger))
		v1.POST("/shopify/shops", handlers.HandleListShops(repos, logger))

		v1.GET("/products", handlers.HandleListProducts(repos, logger))

		v1.POST("/purchases/upload", handlers.HandleUploadPurchases(repos, logger))
		v1.GET("/purchases", handlers.HandleListPurchases(repos, logger))
		v1.PATCH("/purchases/:id", handlers.HandleUpdatePurchase(repos, logger))
		v1.GET("/purchases/batches", handlers.HandleListPurchaseBatches(repos, logger))
		v1.DELETE("/purchases/batches/:id", handlers.HandleDeletePurchaseBatch(repos, logger))

		v1.POST("/returns", handlers.HandleCreateReturn(repos, logger))
		v1.GET("/returns", handlers.HandleListReturns(repos, logger))
		v1.DELETE("/returns/:id", handlers.HandleDeleteReturn(repos, logger))

		v1.POST("/orders/upload", handlers.HandleUploadOrders(repos, logger))
		v1.GET("/orders", handlers.HandleListOrders(repos, logger))
		v1.GET("/orders/summary", handlers.HandleOrderSummary(repos, logger))

		v1.GET("/credentials", handlers.HandleGetCredentials(repos, logger))
		v1.PUT("/credentials", handlers.HandleSaveCredentials(repos, logger))
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
