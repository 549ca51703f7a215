package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/budgetbot/ml-backend/internal/domain"
	"github.com/budgetbot/ml-backend/internal/ml"
)

func trainedForest(t *testing.T) *ml.Forest {
	t.Helper()
	xs := [][]float64{
		{1.0, 0}, {1.1, 1}, {1.2, 2}, {1.3, 3},
		{5.0, 4}, {5.1, 5}, {5.2, 6}, {5.3, 0},
	}
	labels := []string{"a", "a", "a", "a", "b", "b", "b", "b"}
	forest, err := ml.Train(xs, labels, ml.Options{Trees: 5, Seed: 1})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return forest
}

func TestFilesystemSaveAndGet(t *testing.T) {
	repo, err := NewFilesystemModelRepository(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	ctx := context.Background()
	userID := int64(42)

	exists, err := repo.Exists(ctx, userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if exists {
		t.Error("Expected no artifact before save")
	}

	forest := trainedForest(t)
	if err := repo.Save(ctx, userID, forest); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	exists, err = repo.Exists(ctx, userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !exists {
		t.Error("Expected artifact after save")
	}

	loaded, err := repo.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(loaded.Trees) != len(forest.Trees) {
		t.Errorf("Expected %d trees, got %d", len(forest.Trees), len(loaded.Trees))
	}
}

func TestFilesystemGetMissingModel(t *testing.T) {
	repo, err := NewFilesystemModelRepository(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = repo.Get(context.Background(), 99)
	if !errors.Is(err, domain.ErrModelNotFound) {
		t.Errorf("Expected ErrModelNotFound, got %v", err)
	}
}

func TestFilesystemSaveReplacesWholesale(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFilesystemModelRepository(dir)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	ctx := context.Background()

	forest := trainedForest(t)
	if err := repo.Save(ctx, 7, forest); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := repo.Save(ctx, 7, forest); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// No temp files left behind, exactly one artifact under the final key.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 file, got %d", len(entries))
	}
	if entries[0].Name() != "categorizer_7.gob" {
		t.Errorf("Unexpected file name %s", entries[0].Name())
	}
	if strings.HasSuffix(entries[0].Name(), ".tmp") {
		t.Error("Temp file visible under final key")
	}
	if filepath.Ext(entries[0].Name()) != ".gob" {
		t.Errorf("Expected gob artifact, got %s", entries[0].Name())
	}
}

func TestFilesystemCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "models")
	if _, err := NewFilesystemModelRepository(dir); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Expected models dir to exist, got %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected a directory")
	}
}
