package repository

import (
	"context"

	"apex-titan/models"
)

// Store defines the persistence operations the rest of the system uses
type Store interface {
	Close()
	Health(ctx context.Context) error

	SaveSnapshot(ctx context.Context, record *models.SnapshotRecord) error
	GetSnapshots(ctx context.Context, symbol string, limit int) ([]models.SnapshotRecord, error)

	SaveScanRun(ctx context.Context, run *models.ScanRun) error
	GetLatestScanRun(ctx context.Context) (*models.ScanRun, error)
}

// Compile-time interface verification
var _ Store = (*Repository)(nil)
