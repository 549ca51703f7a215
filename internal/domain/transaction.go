package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction is one financial event supplied by the caller. Amount is a
// magnitude; the sign semantics live in Type. Records are immutable inputs:
// components derive new structures and never write back into them.
type Transaction struct {
	Description     string
	Amount          decimal.Decimal
	Type            TransactionType
	TransactionDate time.Time
	CategoryID      *string
	UserID          *int64
}

// DailyAggregate is one (day, summed amount) pair derived from a batch.
// It only lives for the duration of a forecast computation.
type DailyAggregate struct {
	Date  time.Time
	Total float64
}

// TransactionStore reads transaction history collected by the main app.
// The ML service never writes transactions.
type TransactionStore interface {
	GetByUser(userID int64, limit int32) ([]*Transaction, error)
	GetLabeledByUser(userID int64) ([]*Transaction, error)
	GetCategoryMonthlyTotals(userID int64, year int, month time.Month) (map[string]decimal.Decimal, error)
}
