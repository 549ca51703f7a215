package handler

import (
	"net/http"
	"time"

	"github.com/budgetbot/ml-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes. authMiddleware may be nil, in which
// case the API is open (the service normally sits on an internal network
// behind the main app).
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, categorizeHandler *CategorizeHandler, forecastHandler *ForecastHandler, trainHandler *TrainHandler, recommendHandler *RecommendHandler) {
	// Liveness endpoints stay open and unthrottled
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "BudgetBot ML API is running"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := e.Group("")
	api.Use(rateLimiter.Middleware())
	if authMiddleware != nil {
		api.Use(authMiddleware.Authenticate())
	}

	api.POST("/categorize", categorizeHandler.Categorize)
	api.POST("/forecast", forecastHandler.Forecast)
	api.POST("/train", trainHandler.Train)
	api.POST("/recommend", recommendHandler.Recommend)

	// History-backed variants; they 503 when no database is configured
	api.GET("/users/:id/forecast", forecastHandler.ForecastFromHistory)
	api.POST("/users/:id/train", trainHandler.TrainFromHistory)
}
