package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/budgetbot/ml-backend/internal/domain"
	"github.com/budgetbot/ml-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// TrainHandler handles model training requests
type TrainHandler struct {
	trainer      *service.TrainerService
	transactions domain.TransactionStore
}

// NewTrainHandler creates a new TrainHandler. transactions may be nil when
// no database is configured.
func NewTrainHandler(trainer *service.TrainerService, transactions domain.TransactionStore) *TrainHandler {
	return &TrainHandler{
		trainer:      trainer,
		transactions: transactions,
	}
}

// Train fits and persists a categorization model from the supplied labeled
// batch.
func (h *TrainHandler) Train(c echo.Context) error {
	var req []TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	transactions, err := toDomainBatch(req)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	return h.respond(c, transactions)
}

// TrainFromHistory trains from the labeled history stored by the main app.
func (h *TrainHandler) TrainFromHistory(c echo.Context) error {
	if h.transactions == nil {
		return NewUnavailableError(c, "No transaction database configured")
	}

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return NewValidationError(c, "Invalid user id", nil)
	}

	transactions, err := h.transactions.GetLabeledByUser(userID)
	if err != nil {
		return NewInternalError(c, err)
	}
	// Stored rows may predate user_id stamping; the batch is keyed by the
	// path parameter either way.
	for _, tx := range transactions {
		if tx.UserID == nil {
			id := userID
			tx.UserID = &id
		}
	}

	return h.respond(c, transactions)
}

func (h *TrainHandler) respond(c echo.Context, transactions []*domain.Transaction) error {
	result, err := h.trainer.Train(c.Request().Context(), transactions)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, err.Error(), nil)
		}
		return NewInternalError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
