package ports

import (
	"context"

	"tokentrace/internal/domain"
)

// SearchHistory persists finished search requests
type SearchHistory interface {
	Record(ctx context.Context, run domain.SearchRun) error
	Recent(ctx context.Context, limit int) ([]domain.SearchRun, error)
	Close() error
}
