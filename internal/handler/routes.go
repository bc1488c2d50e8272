package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/vlietberg/teambudget-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, identityHandler *IdentityHandler, profileHandler *ProfileHandler, settingHandler *TeamSettingHandler, categoryHandler *CategoryHandler, budgetHandler *BudgetHandler, transactionHandler *TransactionHandler, dashboardHandler *DashboardHandler, reportHandler *ReportHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Auth routes (protected)
	session := api.Group("/auth")
	session.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	session.GET("/me", authHandler.Me)
	session.POST("/logout", authHandler.Logout)
	session.POST("/change-password", authHandler.ChangePassword)

	// Identity administration routes (protected, manager-only)
	identities := api.Group("/identities")
	identities.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter), middleware.RequireManager())
	identities.PUT("/:id/role", identityHandler.ChangeRole)

	// Profile routes (protected)
	profile := api.Group("/profile")
	profile.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	profile.GET("", profileHandler.GetProfile)
	profile.PUT("", profileHandler.UpdateProfile)
	profile.DELETE("", profileHandler.DeleteAccount)
	profile.POST("/avatar", profileHandler.UploadAvatar)
	profile.GET("/avatar", profileHandler.GetAvatar)
	profile.DELETE("/avatar", profileHandler.DeleteAvatar)

	// Team setting routes (protected)
	settings := api.Group("/settings")
	settings.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	settings.GET("", settingHandler.GetSetting)
	settings.PUT("", settingHandler.UpdateSetting)

	// Expense category routes (protected)
	categories := api.Group("/categories")
	categories.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory, middleware.RequireManager())

	// Budget routes (protected)
	budgets := api.Group("/budgets")
	budgets.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/recent", budgetHandler.GetRecentBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	// Delete is reserved for managers; the regular grant covers
	// create, view and update only.
	budgets.DELETE("/:id", budgetHandler.DeleteBudget, middleware.RequireManager())

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction, middleware.RequireManager())

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard")
	dashboard.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	dashboard.GET("/summary", dashboardHandler.GetSummary)

	// Report routes (protected)
	reports := api.Group("/reports")
	reports.Use(authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))
	reports.GET("", reportHandler.GenerateReport)
}
