package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/budgetbot/ml-backend/internal/domain"
	"github.com/budgetbot/ml-backend/internal/ml"
	"github.com/google/uuid"
)

// ModelRepository defines the interface for trained-model persistence. Save
// replaces any prior artifact for the user wholesale; Get must always observe
// a complete artifact, never a torn write.
type ModelRepository interface {
	Save(ctx context.Context, userID int64, forest *ml.Forest) error
	Get(ctx context.Context, userID int64) (*ml.Forest, error)
	Exists(ctx context.Context, userID int64) (bool, error)
}

// FilesystemModelRepository implements ModelRepository on a local directory,
// one gob file per user.
type FilesystemModelRepository struct {
	dir string
}

// NewFilesystemModelRepository creates the models directory if absent and
// returns a repository over it.
func NewFilesystemModelRepository(dir string) (*FilesystemModelRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create models dir: %w", err)
	}
	return &FilesystemModelRepository{dir: dir}, nil
}

func (r *FilesystemModelRepository) path(userID int64) string {
	return filepath.Join(r.dir, fmt.Sprintf("categorizer_%d.gob", userID))
}

// Save writes the artifact to a temp file and renames it into place, so
// concurrent readers see either the old or the new model, never a partial
// one.
func (r *FilesystemModelRepository) Save(ctx context.Context, userID int64, forest *ml.Forest) error {
	tmpPath := filepath.Join(r.dir, fmt.Sprintf(".categorizer_%d.%s.tmp", userID, uuid.New().String()))
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp model file: %w", err)
	}
	if err := forest.Encode(f); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp model file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path(userID)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace model file: %w", err)
	}
	return nil
}

// Get loads the artifact for a user.
func (r *FilesystemModelRepository) Get(ctx context.Context, userID int64) (*ml.Forest, error) {
	f, err := os.Open(r.path(userID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()
	return ml.Decode(f)
}

// Exists reports whether an artifact is stored for the user.
func (r *FilesystemModelRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	_, err := os.Stat(r.path(userID))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
