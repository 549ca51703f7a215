package service

import (
	"time"

	"github.com/budgetbot/ml-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// RecommendationService runs the registered recommendation rules over a
// user's aggregated spending signals. Rules are pluggable; the only rule
// registered today is the static template set.
type RecommendationService struct {
	rules []domain.RecommendationRule
	store domain.TransactionStore
}

// NewRecommendationService creates a new RecommendationService. store may be
// nil; rules then evaluate zero-valued signals.
func NewRecommendationService(store domain.TransactionStore, rules ...domain.RecommendationRule) *RecommendationService {
	if len(rules) == 0 {
		rules = []domain.RecommendationRule{NewStaticTemplateRule()}
	}
	return &RecommendationService{
		rules: rules,
		store: store,
	}
}

// Generate evaluates every rule for the user as of now.
func (s *RecommendationService) Generate(userID int64, now time.Time) []domain.Recommendation {
	signals := s.buildSignals(userID, now)

	recommendations := make([]domain.Recommendation, 0)
	for _, rule := range s.rules {
		recommendations = append(recommendations, rule.Evaluate(signals)...)
	}
	return recommendations
}

// buildSignals fills spending aggregates from the transaction store when one
// is configured. Signal failures degrade to zero-valued signals rather than
// failing the request.
func (s *RecommendationService) buildSignals(userID int64, now time.Time) domain.SpendingSignals {
	signals := domain.SpendingSignals{UserID: userID}
	if s.store == nil {
		return signals
	}

	current, err := s.store.GetCategoryMonthlyTotals(userID, now.Year(), now.Month())
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to load current month totals")
		return signals
	}
	prevYear, prevMonth := previousMonth(now.Year(), now.Month())
	previous, err := s.store.GetCategoryMonthlyTotals(userID, prevYear, prevMonth)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to load previous month totals")
		return signals
	}

	signals.CurrentMonthTotals = current
	signals.PreviousMonthTotals = previous
	return signals
}

// previousMonth returns the year and month for the previous month
func previousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// StaticTemplateRule returns the fixed recommendation set regardless of
// signals. It exists so computed rules can replace it without reshaping any
// caller.
type StaticTemplateRule struct{}

// NewStaticTemplateRule creates a new StaticTemplateRule
func NewStaticTemplateRule() *StaticTemplateRule {
	return &StaticTemplateRule{}
}

// Evaluate implements domain.RecommendationRule.
func (r *StaticTemplateRule) Evaluate(signals domain.SpendingSignals) []domain.Recommendation {
	return []domain.Recommendation{
		{
			Type:             "savings_opportunity",
			Category:         "Dining",
			Message:          "You spent 25% more on dining this month. Consider meal prepping to save $120/month.",
			PotentialSavings: floatPtr(120),
			Priority:         domain.PriorityHigh,
		},
		{
			Type:     "budget_alert",
			Category: "Entertainment",
			Message:  "You'll exceed your entertainment budget in 2 weeks at current pace.",
			Action:   "Reduce by $40 to stay on track",
			Priority: domain.PriorityMedium,
		},
		{
			Type:              "optimization",
			Category:          "Savings",
			Message:           "Based on your income pattern, you can safely move $200 to savings this month.",
			RecommendedAmount: floatPtr(200),
			Priority:          domain.PriorityLow,
		},
		{
			Type:     "unusual_activity",
			Category: "Groceries",
			Message:  "Your grocery spending is 15% higher than usual this week.",
			Priority: domain.PriorityInfo,
		},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
