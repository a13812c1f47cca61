package routes

import (
	"database/sql"

	"github.com/finvault/banking-api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
}

// SetupUserRoutes sets up protected user profile and 2FA routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
}

// SetupAccountRoutes sets up protected bank account routes.
func SetupAccountRoutes(rg *gin.RouterGroup, db *sql.DB) {
	accountHandler := &handlers.AccountHandler{DB: db}

	rg.GET("/accounts", accountHandler.GetAccounts)
	rg.POST("/accounts", accountHandler.CreateAccount)
}

// SetupTransactionRoutes sets up protected transaction routes, including
// the categorization endpoints backed by the rule engine.
func SetupTransactionRoutes(rg *gin.RouterGroup, db *sql.DB) {
	txnHandler := handlers.NewTransactionHandler(db)

	rg.GET("/transactions", txnHandler.GetTransactions)
	rg.POST("/transactions", txnHandler.CreateTransaction)
	rg.PUT("/transactions/:id/category", txnHandler.UpdateCategory)
	rg.POST("/transactions/categorize", txnHandler.Categorize)
	rg.POST("/transactions/categorize-all", txnHandler.CategorizeAll)
}

// SetupCategoryRoutes sets up predefined category and category rule routes.
func SetupCategoryRoutes(rg *gin.RouterGroup, db *sql.DB) {
	categoryHandler := handlers.NewCategoryHandler(db)

	rg.GET("/categories", categoryHandler.GetPredefinedCategories)
	rg.GET("/categories/rules", categoryHandler.GetRules)
	rg.POST("/categories/rules", categoryHandler.CreateRule)
	rg.PUT("/categories/rules/:id", categoryHandler.UpdateRule)
	rg.DELETE("/categories/rules/:id", categoryHandler.DeleteRule)
}

// SetupBudgetRoutes sets up protected budget routes.
func SetupBudgetRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	budgetHandler := handlers.NewBudgetHandler(db, ws)

	rg.GET("/budgets", budgetHandler.GetBudgets)
	rg.POST("/budgets", budgetHandler.CreateBudget)
	rg.POST("/budgets/recalculate", budgetHandler.RecalculateBudgets)
	rg.PUT("/budgets/:id", budgetHandler.UpdateBudget)
	rg.DELETE("/budgets/:id", budgetHandler.DeleteBudget)
	rg.POST("/budgets/:id/check-alert", budgetHandler.CheckBudgetAlert)
}

// SetupAlertRoutes sets up protected alert routes.
func SetupAlertRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	alertHandler := handlers.NewAlertHandler(db, ws)

	rg.GET("/alerts", alertHandler.GetAlerts)
	rg.GET("/alerts/unread-count", alertHandler.GetUnreadCount)
	rg.POST("/alerts", alertHandler.CreateAlert)
	rg.POST("/alerts/check-budgets", alertHandler.CheckBudgets)
	rg.PUT("/alerts/:id/read", alertHandler.MarkAsRead)
	rg.PUT("/alerts/read-all", alertHandler.MarkAllAsRead)
	rg.DELETE("/alerts/:id", alertHandler.DeleteAlert)
}

// SetupBillRoutes sets up protected bill routes.
func SetupBillRoutes(rg *gin.RouterGroup, db *sql.DB) {
	billHandler := &handlers.BillHandler{DB: db}

	rg.GET("/bills", billHandler.GetBills)
	rg.POST("/bills", billHandler.CreateBill)
	rg.PUT("/bills/:id/pay", billHandler.MarkBillPaid)
	rg.DELETE("/bills/:id", billHandler.DeleteBill)
}

// SetupRewardRoutes sets up protected reward routes.
func SetupRewardRoutes(rg *gin.RouterGroup, db *sql.DB) {
	rewardHandler := &handlers.RewardHandler{DB: db}

	rg.GET("/rewards", rewardHandler.GetRewards)
	rg.POST("/rewards", rewardHandler.CreateReward)
	rg.GET("/rewards/points", rewardHandler.GetPointsBalance)
}

// SetupInsightsRoutes sets up protected spending insight routes.
func SetupInsightsRoutes(rg *gin.RouterGroup, db *sql.DB) {
	insightsHandler := handlers.NewInsightsHandler(db)

	rg.GET("/insights/summary", insightsHandler.GetSummary)
	rg.GET("/insights/spending", insightsHandler.GetSpendingByCategory)
}
