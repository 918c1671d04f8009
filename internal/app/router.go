// internal/app/router.go
package app

import (
	adminHandler "stockpilot-service/internal/handlers/admin"
	authHandler "stockpilot-service/internal/handlers/auth"
	billingHandler "stockpilot-service/internal/handlers/billing"
	navigationHandler "stockpilot-service/internal/handlers/navigation"
	permissionsHandler "stockpilot-service/internal/handlers/permissions"
	vendorHandler "stockpilot-service/internal/handlers/vendor"
	wsHandler "stockpilot-service/internal/handlers/ws"
	"stockpilot-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler        *authHandler.AuthHandler
	NavigationHandler  *navigationHandler.NavigationHandler
	BillingHandler     *billingHandler.BillingHandler
	PermissionsHandler *permissionsHandler.PermissionsHandler
	VendorHandler      *vendorHandler.VendorHandler
	AdminHandler       *adminHandler.AdminHandler
	WSHandler          *wsHandler.WebSocketHandler
	AuthMiddleware     *middleware.AuthMiddleware
	SubscriptionGate   gin.HandlerFunc
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health & Metrics ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/login", h.AuthHandler.Login)
		authPublic.POST("/employee-login", h.AuthHandler.EmployeeLogin)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.POST("/logout-all", h.AuthHandler.LogoutAll)
		authProtected.GET("/me", h.AuthHandler.Me)
		authProtected.POST("/renew", h.AuthHandler.Renew)
	}

	// ==================== Session Keep-Alive ====================
	sessionGroup := api.Group("/session")
	sessionGroup.Use(h.AuthMiddleware.Auth())
	{
		sessionGroup.POST("/activity", h.AuthHandler.Activity)
	}

	// ==================== Navigation ====================
	// Resolution itself is never subscription-gated: a locked tenant
	// still resolves pages, the decision payload carries the lock.
	navigation := api.Group("/navigation")
	navigation.Use(h.AuthMiddleware.Auth())
	{
		navigation.GET("/menu", h.NavigationHandler.Menu)
		navigation.GET("/resolve/:page", h.NavigationHandler.Resolve)
	}

	// ==================== Billing ====================
	// Billing stays reachable while locked so the tenant can pay out.
	billing := api.Group("/billing")
	billing.Use(h.AuthMiddleware.Auth())
	{
		billing.GET("/status", h.BillingHandler.Status)
		billing.GET("/plans", h.BillingHandler.Plans)
		billing.GET("/verify/:reference", h.BillingHandler.Verify)
	}

	// ==================== Permission Checks ====================
	permissions := api.Group("/permissions")
	permissions.Use(h.AuthMiddleware.Auth())
	{
		permissions.POST("/check", h.PermissionsHandler.Check)
		permissions.POST("/check-multiple", h.PermissionsHandler.CheckMultiple)
	}

	// ==================== Vendor Marketplace ====================
	vendors := api.Group("/vendors")
	vendors.Use(h.AuthMiddleware.Auth(), h.SubscriptionGate)
	{
		vendors.POST("/register", h.VendorHandler.Register)
	}

	// ==================== ADMIN ROUTES ====================
	admin := api.Group("/admin")
	{
		// Owner Only Routes (role check, no elevation needed)
		mdOnly := admin.Group("")
		mdOnly.Use(h.AuthMiddleware.MDOnly()...)
		{
			mdOnly.POST("/unlock", h.AuthHandler.Unlock)
			mdOnly.POST("/lock", h.AuthHandler.Lock)

			mdOnly.GET("/permissions", h.PermissionsHandler.Catalogue)
			mdOnly.GET("/employees", h.AuthHandler.Employees)
			mdOnly.GET("/employees/:employee_id/permissions", h.PermissionsHandler.EmployeeGrants)
			mdOnly.POST("/employees/:employee_id/permissions", h.PermissionsHandler.Grant)
			mdOnly.DELETE("/employees/:employee_id/permissions", h.PermissionsHandler.Revoke)
		}

		// Elevated Routes (owner role + live unlock marker)
		elevated := admin.Group("")
		elevated.Use(h.AuthMiddleware.Elevated()...)
		{
			elevated.GET("/vendors/pending", h.AdminHandler.PendingVendors)
			elevated.PUT("/vendors/:id/approve", h.AdminHandler.ApproveVendor)
			elevated.PUT("/vendors/:id/reject", h.AdminHandler.RejectVendor)

			elevated.GET("/products/pending", h.AdminHandler.PendingProducts)
			elevated.PUT("/products/:id/approve", h.AdminHandler.ApproveProduct)
			elevated.PUT("/products/:id/reject", h.AdminHandler.RejectProduct)

			elevated.GET("/login-logs", h.AdminHandler.LoginLogs)
			elevated.GET("/ws/stats", h.WSHandler.GetStats)
		}
	}
}
