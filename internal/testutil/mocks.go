package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/budgetbot/ml-backend/internal/domain"
	"github.com/budgetbot/ml-backend/internal/ml"
	"github.com/shopspring/decimal"
)

// MockModelRepository is an in-memory implementation of
// storage.ModelRepository. The map is guarded so concurrent readers always
// see a whole artifact, matching the store's atomic-replace contract.
type MockModelRepository struct {
	mu      sync.RWMutex
	Models  map[int64]*ml.Forest
	SaveErr error
	GetErr  error
}

// NewMockModelRepository creates a new MockModelRepository
func NewMockModelRepository() *MockModelRepository {
	return &MockModelRepository{
		Models: make(map[int64]*ml.Forest),
	}
}

// Save stores the artifact under the user key, replacing any prior one
func (m *MockModelRepository) Save(ctx context.Context, userID int64, forest *ml.Forest) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Models[userID] = forest
	return nil
}

// Get retrieves the artifact for a user
func (m *MockModelRepository) Get(ctx context.Context, userID int64) (*ml.Forest, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if forest, ok := m.Models[userID]; ok {
		return forest, nil
	}
	return nil, domain.ErrModelNotFound
}

// Exists reports whether an artifact is stored for a user
func (m *MockModelRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.Models[userID]
	return ok, nil
}

// MockTransactionStore is an in-memory implementation of
// domain.TransactionStore.
type MockTransactionStore struct {
	Transactions []*domain.Transaction
	Err          error
}

// NewMockTransactionStore creates a new MockTransactionStore
func NewMockTransactionStore() *MockTransactionStore {
	return &MockTransactionStore{}
}

// AddTransaction appends a transaction to the store
func (m *MockTransactionStore) AddTransaction(tx *domain.Transaction) {
	m.Transactions = append(m.Transactions, tx)
}

// GetByUser returns up to limit transactions for the user
func (m *MockTransactionStore) GetByUser(userID int64, limit int32) ([]*domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []*domain.Transaction
	for _, tx := range m.Transactions {
		if tx.UserID != nil && *tx.UserID == userID {
			result = append(result, tx)
		}
		if int32(len(result)) == limit {
			break
		}
	}
	return result, nil
}

// GetLabeledByUser returns the user's transactions carrying a category label
func (m *MockTransactionStore) GetLabeledByUser(userID int64) ([]*domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []*domain.Transaction
	for _, tx := range m.Transactions {
		if tx.UserID != nil && *tx.UserID == userID && tx.CategoryID != nil {
			result = append(result, tx)
		}
	}
	return result, nil
}

// GetCategoryMonthlyTotals sums expense amounts per category for one month
func (m *MockTransactionStore) GetCategoryMonthlyTotals(userID int64, year int, month time.Month) (map[string]decimal.Decimal, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	totals := make(map[string]decimal.Decimal)
	for _, tx := range m.Transactions {
		if tx.UserID == nil || *tx.UserID != userID || tx.CategoryID == nil {
			continue
		}
		if tx.Type != domain.TransactionTypeExpense {
			continue
		}
		if tx.TransactionDate.Year() != year || tx.TransactionDate.Month() != month {
			continue
		}
		totals[*tx.CategoryID] = totals[*tx.CategoryID].Add(tx.Amount)
	}
	return totals, nil
}

// Int64Ptr returns a pointer to the given int64
func Int64Ptr(v int64) *int64 {
	return &v
}

// StringPtr returns a pointer to the given string
func StringPtr(v string) *string {
	return &v
}
