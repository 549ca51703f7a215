package handler

import (
	"net/http"
	"time"

	"github.com/budgetbot/ml-backend/internal/domain"
	"github.com/budgetbot/ml-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// RecommendHandler handles budget recommendation requests
type RecommendHandler struct {
	recommender *service.RecommendationService
}

// NewRecommendHandler creates a new RecommendHandler
func NewRecommendHandler(recommender *service.RecommendationService) *RecommendHandler {
	return &RecommendHandler{recommender: recommender}
}

// RecommendRequest represents the recommendation request body
type RecommendRequest struct {
	UserID int64 `json:"user_id"`
}

// RecommendResponse represents the recommendation response body
type RecommendResponse struct {
	UserID          int64                   `json:"user_id"`
	Recommendations []domain.Recommendation `json:"recommendations"`
	GeneratedAt     string                  `json:"generated_at"`
}

// Recommend returns budget recommendations for a user.
func (h *RecommendHandler) Recommend(c echo.Context) error {
	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	now := time.Now()
	return c.JSON(http.StatusOK, RecommendResponse{
		UserID:          req.UserID,
		Recommendations: h.recommender.Generate(req.UserID, now),
		GeneratedAt:     now.Format(time.RFC3339),
	})
}
