package handler

import (
	"encoding/json"
	"fmt"

	"github.com/budgetbot/ml-backend/internal/domain"
	"github.com/budgetbot/ml-backend/internal/util"
	"github.com/shopspring/decimal"
)

// TransactionRequest is the wire shape of one transaction, shared by the
// categorize, forecast, and train endpoints.
type TransactionRequest struct {
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type"`
	TransactionDate string          `json:"transaction_date,omitempty"`
	CategoryID      *categoryLabel  `json:"category_id,omitempty"`
	UserID          *int64          `json:"user_id,omitempty"`
}

// categoryLabel accepts either a JSON string or a bare number: the main app
// sends its numeric category ids, but the label is opaque here.
type categoryLabel string

// UnmarshalJSON implements json.Unmarshaler
func (l *categoryLabel) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = categoryLabel(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*l = categoryLabel(n.String())
	return nil
}

// toDomain validates the request and converts it to a domain transaction.
func (r *TransactionRequest) toDomain() (*domain.Transaction, error) {
	if r.Amount.IsNegative() {
		return nil, fmt.Errorf("amount must be non-negative, got %s", r.Amount.String())
	}
	txType := domain.TransactionType(r.Type)
	if txType != domain.TransactionTypeExpense && txType != domain.TransactionTypeIncome {
		return nil, fmt.Errorf("type must be %q or %q, got %q", domain.TransactionTypeExpense, domain.TransactionTypeIncome, r.Type)
	}

	tx := &domain.Transaction{
		Description: r.Description,
		Amount:      r.Amount,
		Type:        txType,
		UserID:      r.UserID,
	}
	if r.TransactionDate != "" {
		date, err := util.ParseDate(r.TransactionDate)
		if err != nil {
			return nil, fmt.Errorf("invalid transaction_date %q: expected YYYY-MM-DD", r.TransactionDate)
		}
		tx.TransactionDate = date
	}
	if r.CategoryID != nil {
		category := string(*r.CategoryID)
		tx.CategoryID = &category
	}
	return tx, nil
}

// toDomainBatch converts a batch, failing on the first invalid record. No
// partial result survives a malformed batch. Batches feed forecasting and
// training, so every record needs a date.
func toDomainBatch(requests []TransactionRequest) ([]*domain.Transaction, error) {
	transactions := make([]*domain.Transaction, 0, len(requests))
	for i := range requests {
		tx, err := requests[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		if tx.TransactionDate.IsZero() {
			return nil, fmt.Errorf("transaction %d: transaction_date is required", i)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}
