package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"apex-titan/models"
	"apex-titan/observability"

	"github.com/jackc/pgx/v5"
)

// SaveScanRun persists a completed screener run with its results as JSONB,
// plus a snapshot row per successful symbol, in one transaction. Scheduled
// scans bypass the interactive analyze path, so this is where their
// snapshots reach the history table.
func (r *Repository) SaveScanRun(ctx context.Context, run *models.ScanRun) error {
	if err := r.checkDB(); err != nil {
		return err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("insert", "scan_runs")

	resultsJSON, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal scan results: %w", err)
	}

	tx, txRepo, err := r.BeginTx(ctx)
	if err != nil {
		metrics.RecordDBError("insert", "scan_runs")
		return err
	}
	defer tx.Rollback(ctx)

	_, err = txRepo.db.Exec(ctx, `
		INSERT INTO scan_runs (id, run_at, symbols, results, duration_ms, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, run.ID, run.RunAt, run.Symbols, resultsJSON, run.DurationMs, run.Status)

	if err != nil {
		metrics.RecordDBError("insert", "scan_runs")
		return fmt.Errorf("failed to save scan run: %w", err)
	}

	for _, result := range run.Results {
		if result.Snapshot == nil {
			continue
		}
		if err := txRepo.SaveSnapshot(ctx, models.NewSnapshotRecord(result.Snapshot)); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		metrics.RecordDBError("insert", "scan_runs")
		return fmt.Errorf("failed to commit scan run: %w", err)
	}
	return nil
}

// GetLatestScanRun returns the most recent screener run, or nil when none exist
func (r *Repository) GetLatestScanRun(ctx context.Context) (*models.ScanRun, error) {
	if err := r.checkDB(); err != nil {
		return nil, err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("select", "scan_runs")

	var run models.ScanRun
	var resultsJSON []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, run_at, symbols, results, duration_ms, status
		FROM scan_runs
		ORDER BY run_at DESC
		LIMIT 1
	`).Scan(&run.ID, &run.RunAt, &run.Symbols, &resultsJSON, &run.DurationMs, &run.Status)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		metrics.RecordDBError("select", "scan_runs")
		return nil, fmt.Errorf("failed to query scan run: %w", err)
	}

	if err := json.Unmarshal(resultsJSON, &run.Results); err != nil {
		return nil, fmt.Errorf("failed to decode scan results: %w", err)
	}
	return &run, nil
}
