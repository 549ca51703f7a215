package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/budgetbot/ml-backend/internal/domain"
	"github.com/budgetbot/ml-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// historyFetchLimit caps how much stored history a DB-backed forecast reads.
const historyFetchLimit = 500

// ForecastHandler handles expense forecasting requests
type ForecastHandler struct {
	forecaster   *service.ForecastService
	transactions domain.TransactionStore
}

// NewForecastHandler creates a new ForecastHandler. transactions may be nil
// when no database is configured; the history-backed route then reports the
// store as unavailable.
func NewForecastHandler(forecaster *service.ForecastService, transactions domain.TransactionStore) *ForecastHandler {
	return &ForecastHandler{
		forecaster:   forecaster,
		transactions: transactions,
	}
}

// ForecastRequest represents the forecast request body
type ForecastRequest struct {
	UserID       int64                `json:"user_id"`
	Transactions []TransactionRequest `json:"transactions"`
}

// Forecast predicts the next 30 days of expenses from the supplied batch.
func (h *ForecastHandler) Forecast(c echo.Context) error {
	var req ForecastRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	transactions, err := toDomainBatch(req.Transactions)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	return h.respond(c, transactions)
}

// ForecastFromHistory predicts from history stored by the main app.
func (h *ForecastHandler) ForecastFromHistory(c echo.Context) error {
	if h.transactions == nil {
		return NewUnavailableError(c, "No transaction database configured")
	}

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return NewValidationError(c, "Invalid user id", nil)
	}

	transactions, err := h.transactions.GetByUser(userID, historyFetchLimit)
	if err != nil {
		return NewInternalError(c, err)
	}

	return h.respond(c, transactions)
}

func (h *ForecastHandler) respond(c echo.Context, transactions []*domain.Transaction) error {
	forecast, insufficient := h.forecaster.Forecast(transactions, time.Now())
	if insufficient != nil {
		// A reportable outcome, not a fault.
		return c.JSON(http.StatusOK, insufficient)
	}
	return c.JSON(http.StatusOK, forecast)
}
