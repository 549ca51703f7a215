package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/budgetbot/ml-backend/internal/domain"
	"github.com/budgetbot/ml-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

// labeledBatch builds n labeled expense transactions for one user, split
// between two categories with well-separated amounts.
func labeledBatch(userID int64, n int) []*domain.Transaction {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var batch []*domain.Transaction
	for i := 0; i < n; i++ {
		category := "12"
		amount := decimal.NewFromFloat(8.50)
		description := "Corner Cafe"
		if i%2 == 1 {
			category = "15"
			amount = decimal.NewFromFloat(1200)
			description = "Monthly Rent"
		}
		batch = append(batch, &domain.Transaction{
			Description:     description,
			Amount:          amount,
			Type:            domain.TransactionTypeExpense,
			TransactionDate: start.AddDate(0, 0, i),
			CategoryID:      testutil.StringPtr(category),
			UserID:          testutil.Int64Ptr(userID),
		})
	}
	return batch
}

func TestTrain_InsufficientData(t *testing.T) {
	models := testutil.NewMockModelRepository()
	trainer := NewTrainerService(models)

	result, err := trainer.Train(context.Background(), labeledBatch(1, 49))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Message != "Need at least 50 labeled transactions to train" {
		t.Errorf("Unexpected message %s", result.Message)
	}
	if result.SamplesUsed != 0 {
		t.Errorf("Expected no samples reported, got %d", result.SamplesUsed)
	}
	if len(models.Models) != 0 {
		t.Error("Expected nothing persisted for an insufficient batch")
	}
}

func TestTrain_PersistsArtifactAtFifty(t *testing.T) {
	models := testutil.NewMockModelRepository()
	trainer := NewTrainerService(models)

	result, err := trainer.Train(context.Background(), labeledBatch(3, 50))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Message != "Model trained successfully" {
		t.Errorf("Unexpected message %s", result.Message)
	}
	if result.Accuracy != "~85%" {
		t.Errorf("Expected placeholder accuracy, got %s", result.Accuracy)
	}
	if result.SamplesUsed != 50 {
		t.Errorf("Expected 50 samples used, got %d", result.SamplesUsed)
	}

	forest, err := models.Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("Expected artifact under user key, got %v", err)
	}
	if forest.Features != domain.ModelFeatureCount {
		t.Errorf("Expected %d features, got %d", domain.ModelFeatureCount, forest.Features)
	}
}

func TestTrain_ReplacesPriorArtifact(t *testing.T) {
	models := testutil.NewMockModelRepository()
	trainer := NewTrainerService(models)
	ctx := context.Background()

	if _, err := trainer.Train(ctx, labeledBatch(5, 50)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	first, _ := models.Get(ctx, 5)

	if _, err := trainer.Train(ctx, labeledBatch(5, 60)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, _ := models.Get(ctx, 5)

	if first == second {
		t.Error("Expected retraining to replace the artifact")
	}
	if len(models.Models) != 1 {
		t.Errorf("Expected a single artifact per user, got %d", len(models.Models))
	}
}

func TestTrain_RequiresUserID(t *testing.T) {
	models := testutil.NewMockModelRepository()
	trainer := NewTrainerService(models)

	batch := labeledBatch(1, 50)
	batch[0].UserID = nil

	_, err := trainer.Train(context.Background(), batch)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestTrain_RequiresLabels(t *testing.T) {
	models := testutil.NewMockModelRepository()
	trainer := NewTrainerService(models)

	batch := labeledBatch(1, 50)
	batch[10].CategoryID = nil

	_, err := trainer.Train(context.Background(), batch)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if len(models.Models) != 0 {
		t.Error("Expected nothing persisted for an invalid batch")
	}
}

func TestDayOfWeek_MondayIsZero(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if got := dayOfWeek(monday); got != 0 {
		t.Errorf("Expected Monday to encode as 0, got %d", got)
	}
	sunday := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	if got := dayOfWeek(sunday); got != 6 {
		t.Errorf("Expected Sunday to encode as 6, got %d", got)
	}
}
