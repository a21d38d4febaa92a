// internal/app/router.go
package app

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authHandler "prorata-service/internal/handlers/auth"
	billingHandler "prorata-service/internal/handlers/billing"
	productHandler "prorata-service/internal/handlers/product"
	"prorata-service/internal/middleware"
	authUsecase "prorata-service/internal/service/auth"
)

type Handlers struct {
	AuthHandler    *authHandler.AuthHandler
	BillingHandler *billingHandler.BillingHandler
	ProductHandler *productHandler.ProductHandler
	AuthMiddleware *middleware.AuthMiddleware
	AuthService    *authUsecase.AuthService
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, uploadDir string, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Uploaded Images ====================
	r.Static("/uploads", uploadDir)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/register", h.AuthHandler.Register)
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.POST("/logout-all", h.AuthHandler.LogoutAll)
		authProtected.GET("/me", h.AuthHandler.GetMe)
	}

	// ==================== Billing ====================
	billing := api.Group("/billing")
	billing.Use(h.AuthMiddleware.Auth(), middleware.LastVisitMiddleware(h.AuthService, logger))
	{
		billing.GET("/customers/:id/charge", h.BillingHandler.CustomerCharge)
		billing.POST("/preview", h.BillingHandler.PreviewCharge)
	}

	// ==================== Customers: members & subscription ====================
	customers := api.Group("/customers")
	customers.Use(h.AuthMiddleware.Auth())
	{
		customers.POST("/:id/members", h.BillingHandler.AddMember)
		customers.GET("/:id/members", h.BillingHandler.ListMembers)
		customers.PUT("/:id/members/:member_id/deactivate", h.BillingHandler.DeactivateMember)

		customers.PUT("/:id/subscription", h.BillingHandler.SetSubscription)
		customers.GET("/:id/subscription", h.BillingHandler.GetSubscription)
		customers.DELETE("/:id/subscription", h.BillingHandler.RemoveSubscription)
	}

	// ==================== Products ====================
	products := api.Group("/products")
	products.Use(h.AuthMiddleware.Auth(), middleware.LastVisitMiddleware(h.AuthService, logger))
	{
		products.GET("", h.ProductHandler.ListProducts)
		products.GET("/:id", h.ProductHandler.GetProduct)
		products.POST("", h.ProductHandler.CreateProduct)
		products.PUT("/:id", h.ProductHandler.UpdateProduct)
		products.PUT("/:id/image", h.ProductHandler.UploadImage)
		products.DELETE("/:id", h.ProductHandler.DeleteProduct)
	}
}
