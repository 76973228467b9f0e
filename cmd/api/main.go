package main

import (
	"fmt"
	"net/http"
	"os"

	"valuefolio/internal/config"
	"valuefolio/internal/database"
	"valuefolio/internal/handlers"
	"valuefolio/internal/jobs"
	"valuefolio/internal/logger"
	"valuefolio/internal/marketdata"
	"valuefolio/internal/middleware"
	"valuefolio/internal/services"
	"valuefolio/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Valuefolio API
// @version         1.0
// @description     Valuefolio tracks equity holdings, scores their fundamentals against Buffett-style criteria, and simulates dollar-cost-averaging outcomes.
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
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Market data provider
	provider := marketdata.NewClient(appConfig.MarketDataURL, appConfig.QuoteCacheTTL)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	holdingService := services.NewHoldingService(db)
	portfolioService := services.NewPortfolioService(holdingService, provider)
	profileService := services.NewWeightProfileService(db)
	analysisService := services.NewAnalysisService(db, holdingService, profileService, provider)
	simulationService := services.NewSimulationService(provider)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	holdingHandler := handlers.NewHoldingHandler(holdingService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	profileHandler := handlers.NewWeightProfileHandler(profileService)
	simulationHandler := handlers.NewSimulationHandler(simulationService)

	// Background price refresh
	priceRefresher := jobs.NewPriceRefresher(db, provider, appConfig.PriceRefreshCron)
	if err := priceRefresher.Start(); err != nil {
		return fmt.Errorf("failed to start price refresh job: %w", err)
	}
	defer priceRefresher.Stop()

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
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	// Holding routes
	holdings := protected.Group("/holdings")
	holdings.POST("", holdingHandler.CreateHolding)
	holdings.GET("", holdingHandler.GetUserHoldings)
	holdings.GET("/:id", holdingHandler.GetHoldingByID)
	holdings.PUT("/:id", holdingHandler.UpdateHolding)
	holdings.DELETE("/:id", holdingHandler.DeleteHolding)

	// Portfolio routes
	portfolio := protected.Group("/portfolio")
	portfolio.GET("", portfolioHandler.GetPortfolio)
	portfolio.POST("/refresh-prices", portfolioHandler.RefreshPrices)

	// Analysis routes
	analysis := protected.Group("/analysis")
	analysis.GET("", analysisHandler.GetLatestAnalyses)
	analysis.POST("/run", analysisHandler.RunAll)
	analysis.POST("/run/:symbol", analysisHandler.RunForSymbol)
	analysis.GET("/:symbol/history", analysisHandler.GetHistory)

	// Weight profile routes
	profiles := protected.Group("/weight-profiles")
	profiles.POST("", profileHandler.CreateProfile)
	profiles.GET("", profileHandler.GetUserProfiles)
	profiles.GET("/presets", profileHandler.GetPresets)
	profiles.GET("/:id", profileHandler.GetProfileByID)
	profiles.PUT("/:id", profileHandler.UpdateProfile)
	profiles.DELETE("/:id", profileHandler.DeleteProfile)
	profiles.PUT("/:id/default", profileHandler.SetDefaultProfile)

	// Simulation routes
	simulations := protected.Group("/simulations")
	simulations.POST("/dca", simulationHandler.SimulateDCA)

	// Start server
	addr := ":" + appConfig.Port
	log.Infof("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
