package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/budgetbot/ml-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransactionRepository implements domain.TransactionStore against the main
// app's transactions table. The schema is owned by the main app; this service
// only reads from it, so queries are written inline rather than generated.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// category_id is cast to text: the label round-trips through training and
// prediction as an opaque string.
const transactionColumns = `description, amount, type, transaction_date, category_id::text, user_id`

// GetByUser returns a user's most recent transactions, newest first.
func (r *TransactionRepository) GetByUser(userID int64, limit int32) ([]*domain.Transaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC
		LIMIT $2`, transactionColumns), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// GetLabeledByUser returns every transaction of the user that carries a
// category label, for training.
func (r *TransactionRepository) GetLabeledByUser(userID int64) ([]*domain.Transaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE user_id = $1 AND category_id IS NOT NULL
		ORDER BY transaction_date`, transactionColumns), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query labeled transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// GetCategoryMonthlyTotals sums expense amounts per category for one month.
func (r *TransactionRepository) GetCategoryMonthlyTotals(userID int64, year int, month time.Month) (map[string]decimal.Decimal, error) {
	ctx := context.Background()
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := r.pool.Query(ctx, `
		SELECT category_id::text, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
		  AND type = 'expense'
		  AND category_id IS NOT NULL
		  AND transaction_date >= $2
		  AND transaction_date < $3
		GROUP BY category_id`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var category string
		var amount pgtype.Numeric
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		total, err := pgNumericToDecimal(amount)
		if err != nil {
			return nil, err
		}
		totals[category] = total
	}
	return totals, rows.Err()
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for rows.Next() {
		var (
			description     string
			amount          pgtype.Numeric
			txType          string
			transactionDate pgtype.Date
			categoryID      pgtype.Text
			userID          pgtype.Int8
		)
		if err := rows.Scan(&description, &amount, &txType, &transactionDate, &categoryID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		amountDec, err := pgNumericToDecimal(amount)
		if err != nil {
			return nil, err
		}

		tx := &domain.Transaction{
			Description:     description,
			Amount:          amountDec,
			Type:            domain.TransactionType(txType),
			TransactionDate: transactionDate.Time,
		}
		if categoryID.Valid {
			category := categoryID.String
			tx.CategoryID = &category
		}
		if userID.Valid {
			id := userID.Int64
			tx.UserID = &id
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// pgNumericToDecimal converts a pgtype.Numeric to a decimal.Decimal
func pgNumericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}
	if n.NaN {
		return decimal.Zero, fmt.Errorf("numeric is NaN")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}
