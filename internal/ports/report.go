package ports

import (
	"context"

	"tokentrace/internal/domain"
)

// ReportRenderer builds the visual artifact for a finished search.
// Errors are reported as warnings and never change the search results.
type ReportRenderer interface {
	Render(ctx context.Context, results []domain.SearchResult) error
}
