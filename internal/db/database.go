package db

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/chris/histdb/pkg/models"
)

// ErrStorage marks every error that originates from the underlying executor.
// Test with errors.Is(err, ErrStorage).
var ErrStorage = errors.New("storage operation failed")

// Database is the history store consumed by the CLI.
// DB is the SQLite implementation.
type Database interface {
	Save(ctx context.Context, h *models.History) error
	SaveBulk(ctx context.Context, hs []*models.History) error

	Load(ctx context.Context, id string) (*models.History, error)
	List(ctx context.Context, filters []models.FilterMode, shell models.Context, limit int, unique, includeDeleted bool) ([]*models.History, error)
	Range(ctx context.Context, from, to time.Time) ([]*models.History, error)

	Update(ctx context.Context, h *models.History) error
	HistoryCount(ctx context.Context, includeDeleted bool) (int64, error)

	Last(ctx context.Context) (*models.History, error)
	Before(ctx context.Context, timestamp time.Time, count int64) ([]*models.History, error)

	Delete(ctx context.Context, h *models.History) error
	DeleteRows(ctx context.Context, ids []string) error
	Deleted(ctx context.Context) ([]*models.History, error)

	Search(ctx context.Context, mode models.SearchMode, filter models.FilterMode, shell models.Context, query string, opts models.OptFilters) ([]*models.History, error)
	QueryHistory(ctx context.Context, query string) ([]*models.History, error)
	AllWithCount(ctx context.Context) ([]*models.HistoryCount, error)
	Stats(ctx context.Context, h *models.History) (*models.HistoryStats, error)

	Close() error
}

var _ Database = (*DB)(nil)

// storageErr wraps an executor error and marks it as ErrStorage
func storageErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrap(err, msg), ErrStorage)
}
