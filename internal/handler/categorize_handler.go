package handler

import (
	"net/http"

	"github.com/budgetbot/ml-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// CategorizeHandler handles transaction categorization requests
type CategorizeHandler struct {
	classifier *service.ClassifierService
}

// NewCategorizeHandler creates a new CategorizeHandler
func NewCategorizeHandler(classifier *service.ClassifierService) *CategorizeHandler {
	return &CategorizeHandler{classifier: classifier}
}

// Categorize classifies a single transaction. It always yields a result;
// the worst case is the type-dependent default category.
func (h *CategorizeHandler) Categorize(c echo.Context) error {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	tx, err := req.toDomain()
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	result := h.classifier.Classify(c.Request().Context(), tx)
	return c.JSON(http.StatusOK, result)
}
