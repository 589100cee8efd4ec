package repository

import (
	"context"
	"fmt"

	"apex-titan/models"
	"apex-titan/observability"
)

// SaveSnapshot persists one snapshot record
func (r *Repository) SaveSnapshot(ctx context.Context, record *models.SnapshotRecord) error {
	if err := r.checkDB(); err != nil {
		return err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("insert", "snapshots")

	_, err := r.db.Exec(ctx, `
		INSERT INTO snapshots (id, symbol, name, price, rsi, trend, score, decision, fetched_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, record.ID, record.Symbol, record.Name, record.Price, record.RSI, record.Trend,
		record.Score, record.Decision, record.FetchedAt, record.CreatedAt)

	if err != nil {
		metrics.RecordDBError("insert", "snapshots")
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetSnapshots returns the most recent records, optionally filtered by symbol
func (r *Repository) GetSnapshots(ctx context.Context, symbol string, limit int) ([]models.SnapshotRecord, error) {
	if err := r.checkDB(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("select", "snapshots")

	query := `
		SELECT id, symbol, name, price, rsi, trend, score, decision, fetched_at, created_at
		FROM snapshots
		ORDER BY created_at DESC
		LIMIT $1
	`
	args := []any{limit}
	if symbol != "" {
		query = `
			SELECT id, symbol, name, price, rsi, trend, score, decision, fetched_at, created_at
			FROM snapshots
			WHERE symbol = $1
			ORDER BY created_at DESC
			LIMIT $2
		`
		args = []any{symbol, limit}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		metrics.RecordDBError("select", "snapshots")
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var records []models.SnapshotRecord
	for rows.Next() {
		var rec models.SnapshotRecord
		err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Name, &rec.Price, &rec.RSI, &rec.Trend,
			&rec.Score, &rec.Decision, &rec.FetchedAt, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
