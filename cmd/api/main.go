package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"mizan/internal/config"
	"mizan/internal/database"
	"mizan/internal/handlers"
	"mizan/internal/logger"
	"mizan/internal/middleware"
	"mizan/internal/services"
	"mizan/internal/validator"

	_ "mizan/internal/docs" // Import swagger docs
)

// @title           Mizan API
// @version         1.0
// @description     Mizan is a personal finance API for tracking accounts, transactions, budgets, and savings goals across currencies.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	currencyService := services.NewCurrencyService(db)
	accountService := services.NewAccountService(db)
	transactionService := services.NewTransactionService(db, accountService)
	transferService := services.NewTransferService(db, accountService)
	categoryService := services.NewCategoryService(db)
	budgetService := services.NewBudgetService(db)
	goalService := services.NewGoalService(db)
	reportService := services.NewReportService(db, currencyService)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	currencyHandler := handlers.NewCurrencyHandler(currencyService, auditService)
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	transferHandler := handlers.NewTransferHandler(transferService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.NoRoute(handlers.NotFound)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Currency routes
	currencies := protected.Group("/currencies")
	currencies.POST("", currencyHandler.CreateCurrency)
	currencies.GET("", currencyHandler.GetCurrencies)
	currencies.GET("/:id", currencyHandler.GetCurrencyByID)
	currencies.PUT("/:id/rate", currencyHandler.UpdateExchangeRate)
	currencies.PUT("/:id/primary", currencyHandler.SetPrimary)
	currencies.DELETE("/:id", currencyHandler.DeactivateCurrency)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeactivateAccount)
	accounts.GET("/:id/transactions", transactionHandler.GetAccountTransactions)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.RecordTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)

	// Transfer routes
	transfers := protected.Group("/transfers")
	transfers.POST("", transferHandler.CreateTransfer)
	transfers.GET("", transferHandler.GetUserTransfers)
	transfers.GET("/:id", transferHandler.GetTransferByID)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)
	categories.GET("/:id/spending", categoryHandler.GetMonthlySpending)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetUserBudgets)
	budgets.GET("/:id", budgetHandler.GetBudgetByID)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.POST("/:id/categories", budgetHandler.AddBudgetCategory)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetUserGoals)
	goals.GET("/:id", goalHandler.GetGoalByID)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/contributions", goalHandler.AddContribution)
	goals.GET("/:id/contributions", goalHandler.GetGoalContributions)
	goals.GET("/:id/progress", goalHandler.GetGoalProgress)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/summary", reportHandler.GetPeriodSummary)
	reports.GET("/by-category", reportHandler.GetCategoryBreakdown)
	reports.GET("/net-worth", reportHandler.GetNetWorth)

	log.Infof("Starting Mizan backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
