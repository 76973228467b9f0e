package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"valuefolio/internal/handlers"
	"valuefolio/internal/logger"
	"valuefolio/internal/marketdata"
	"valuefolio/internal/middleware"
	"valuefolio/internal/models"
	"valuefolio/internal/services"
	"valuefolio/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Holding{},
		&models.WeightProfile{},
		&models.AnalysisSnapshot{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite and the given market-data provider.
func setupApp(t *testing.T, provider marketdata.Provider) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	holdingService := services.NewHoldingService(db)
	portfolioService := services.NewPortfolioService(holdingService, provider)
	profileService := services.NewWeightProfileService(db)
	analysisService := services.NewAnalysisService(db, holdingService, profileService, provider)
	simulationService := services.NewSimulationService(provider)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	holdingHandler := handlers.NewHoldingHandler(holdingService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	profileHandler := handlers.NewWeightProfileHandler(profileService)
	simulationHandler := handlers.NewSimulationHandler(simulationService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	holdings := protected.Group("/holdings")
	holdings.POST("", holdingHandler.CreateHolding)
	holdings.GET("", holdingHandler.GetUserHoldings)
	holdings.GET("/:id", holdingHandler.GetHoldingByID)
	holdings.PUT("/:id", holdingHandler.UpdateHolding)
	holdings.DELETE("/:id", holdingHandler.DeleteHolding)

	portfolio := protected.Group("/portfolio")
	portfolio.GET("", portfolioHandler.GetPortfolio)
	portfolio.POST("/refresh-prices", portfolioHandler.RefreshPrices)

	analysis := protected.Group("/analysis")
	analysis.GET("", analysisHandler.GetLatestAnalyses)
	analysis.POST("/run", analysisHandler.RunAll)
	analysis.POST("/run/:symbol", analysisHandler.RunForSymbol)
	analysis.GET("/:symbol/history", analysisHandler.GetHistory)

	profiles := protected.Group("/weight-profiles")
	profiles.POST("", profileHandler.CreateProfile)
	profiles.GET("", profileHandler.GetUserProfiles)
	profiles.GET("/presets", profileHandler.GetPresets)
	profiles.GET("/:id", profileHandler.GetProfileByID)
	profiles.PUT("/:id", profileHandler.UpdateProfile)
	profiles.DELETE("/:id", profileHandler.DeleteProfile)
	profiles.PUT("/:id/default", profileHandler.SetDefaultProfile)

	simulations := protected.Group("/simulations")
	simulations.POST("/dca", simulationHandler.SimulateDCA)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}
