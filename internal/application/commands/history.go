package commands

import (
	"context"

	"tokentrace/internal/domain"
	"tokentrace/internal/ports"
)

// DefaultHistoryLimit is how many runs ListHistoryCommand returns by default
const DefaultHistoryLimit = 20

// ListHistoryCommand lists recent search runs, newest first
type ListHistoryCommand struct {
	history ports.SearchHistory
	Limit   int
}

// NewListHistoryCommand creates a new ListHistoryCommand
func NewListHistoryCommand(history ports.SearchHistory, limit int) *ListHistoryCommand {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &ListHistoryCommand{history: history, Limit: limit}
}

// Execute runs the list history command
func (c *ListHistoryCommand) Execute(ctx context.Context) ([]domain.SearchRun, error) {
	return c.history.Recent(ctx, c.Limit)
}
