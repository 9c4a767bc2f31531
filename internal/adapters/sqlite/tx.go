package sqlite

import (
	"context"
	"database/sql"

	"tokentrace/internal/domain"
)

// recordTx writes one run inside a transaction
type recordTx struct {
	tx *sql.Tx
}

func (h *History) begin(ctx context.Context) (*recordTx, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &recordTx{tx: tx}, nil
}

// insertRun inserts the run row
func (t *recordTx) insertRun(run domain.SearchRun) error {
	_, err := t.tx.Exec(`
		INSERT INTO runs (id, started_at, duration_ms, page_id, instances_only, cancelled)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.UnixMilli(), run.Duration.Milliseconds(), run.PageID, run.InstancesOnly, run.Cancelled)
	return err
}

// insertVariable inserts one variable outcome at its request position
func (t *recordTx) insertVariable(runID string, position int, v domain.RunVariable) error {
	_, err := t.tx.Exec(`
		INSERT INTO run_variables (run_id, position, variable_id, variable_name, matches)
		VALUES (?, ?, ?, ?, ?)
	`, runID, position, v.VariableID, v.VariableName, v.Matches)
	return err
}

// Commit commits the transaction
func (t *recordTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *recordTx) Rollback() error {
	return t.tx.Rollback()
}
