package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/casemap-backend-go/internal/models"
)

// LoadRepository records pipeline runs
type LoadRepository struct {
	db *sql.DB
}

// NewLoadRepository creates a new load repository
func NewLoadRepository(db *sql.DB) *LoadRepository {
	return &LoadRepository{db: db}
}

// Start inserts a running load run
func (r *LoadRepository) Start(ctx context.Context, trigger string) (*models.LoadRun, error) {
	run := &models.LoadRun{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		Status:    models.LoadStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO load_runs (id, trigger_by, status, started_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Trigger, run.Status, run.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create load run: %w", err)
	}

	return run, nil
}

// Finish stores the final state of a load run
func (r *LoadRepository) Finish(ctx context.Context, run *models.LoadRun) error {
	if run.FinishedAt == nil {
		now := time.Now().UTC()
		run.FinishedAt = &now
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE load_runs
		SET status = ?, record_count = ?, date_count = ?, coerced_cells = ?,
			error_message = ?, finished_at = ?
		WHERE id = ?
	`, run.Status, run.RecordCount, run.DateCount, run.CoercedCells,
		run.ErrorMessage, *run.FinishedAt, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update load run: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("load run %s not found", run.ID)
	}
	return nil
}

// Latest returns the most recently started run, or nil when there is none
func (r *LoadRepository) Latest(ctx context.Context) (*models.LoadRun, error) {
	runs, err := r.List(ctx, 1)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

// List returns up to limit runs, newest first
func (r *LoadRepository) List(ctx context.Context, limit int) ([]models.LoadRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, trigger_by, status, record_count, date_count, coerced_cells,
			error_message, started_at, finished_at
		FROM load_runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query load runs: %w", err)
	}
	defer rows.Close()

	var runs []models.LoadRun
	for rows.Next() {
		var run models.LoadRun
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.Trigger, &run.Status, &run.RecordCount, &run.DateCount,
			&run.CoercedCells, &run.ErrorMessage, &run.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan load run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return runs, nil
}
