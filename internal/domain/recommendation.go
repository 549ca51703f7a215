package domain

import "github.com/shopspring/decimal"

// Recommendation priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
	PriorityInfo   = "info"
)

// Recommendation is one budget suggestion for a user. Not every rule fills
// every field, so the numeric fields are pointers and omitted when unset.
type Recommendation struct {
	Type              string   `json:"type"`
	Category          string   `json:"category,omitempty"`
	Message           string   `json:"message"`
	Action            string   `json:"action,omitempty"`
	PotentialSavings  *float64 `json:"potential_savings,omitempty"`
	RecommendedAmount *float64 `json:"recommended_amount,omitempty"`
	Priority          string   `json:"priority"`
}

// SpendingSignals are the aggregated inputs a recommendation rule may look
// at. Zero-valued when no transaction store is configured.
type SpendingSignals struct {
	UserID              int64
	CurrentMonthTotals  map[string]decimal.Decimal
	PreviousMonthTotals map[string]decimal.Decimal
}

// RecommendationRule turns spending signals into zero or more
// recommendations. Today's only implementation ignores its input; computed
// rules slot in here without reshaping callers.
type RecommendationRule interface {
	Evaluate(signals SpendingSignals) []Recommendation
}
