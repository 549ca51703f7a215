package service

import (
	"context"
	"errors"
	"strings"

	"github.com/budgetbot/ml-backend/internal/domain"
	"github.com/budgetbot/ml-backend/internal/repository/storage"
	"github.com/rs/zerolog/log"
)

// Classification confidences for the rule-based paths.
const (
	keywordConfidence = 0.85
	defaultConfidence = 0.50
)

// ClassifierService maps a transaction to a spending category. The keyword
// table is the primary path; a per-user trained model is consulted first when
// one exists for the transaction's user.
type ClassifierService struct {
	rules  []domain.CategoryRule
	models storage.ModelRepository
}

// NewClassifierService creates a new ClassifierService. models may be nil,
// in which case only the keyword path runs.
func NewClassifierService(rules []domain.CategoryRule, models storage.ModelRepository) *ClassifierService {
	return &ClassifierService{
		rules:  rules,
		models: models,
	}
}

// Classify returns the category for one transaction. It never fails: the
// worst case is the type-dependent default category.
func (s *ClassifierService) Classify(ctx context.Context, tx *domain.Transaction) domain.Classification {
	if result, ok := s.classifyWithModel(ctx, tx); ok {
		return result
	}

	description := strings.ToLower(tx.Description)
	for _, rule := range s.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(description, keyword) {
				return domain.Classification{
					Category:   rule.Category,
					Confidence: keywordConfidence,
					Method:     domain.MethodKeywordMatching,
				}
			}
		}
	}

	category := domain.DefaultIncomeCategory
	if tx.Type == domain.TransactionTypeExpense {
		category = domain.DefaultExpenseCategory
	}
	return domain.Classification{
		Category:   category,
		Confidence: defaultConfidence,
		Method:     domain.MethodDefault,
	}
}

// classifyWithModel consults the user's trained artifact when one exists.
// Any failure falls through to the keyword path; a missing model is not an
// error worth reporting to the caller.
func (s *ClassifierService) classifyWithModel(ctx context.Context, tx *domain.Transaction) (domain.Classification, bool) {
	if s.models == nil || tx.UserID == nil || tx.TransactionDate.IsZero() {
		return domain.Classification{}, false
	}

	forest, err := s.models.Get(ctx, *tx.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrModelNotFound) {
			log.Warn().Err(err).Int64("user_id", *tx.UserID).Msg("Model lookup failed, using keyword matching")
		}
		return domain.Classification{}, false
	}

	label, confidence, err := forest.Predict(transactionFeatures(tx))
	if err != nil {
		log.Warn().Err(err).Int64("user_id", *tx.UserID).Msg("Model prediction failed, using keyword matching")
		return domain.Classification{}, false
	}

	return domain.Classification{
		Category:   label,
		Confidence: confidence,
		Method:     domain.MethodModel,
	}, true
}
