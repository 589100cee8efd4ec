package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoDatabase means the repository was constructed without a connection
var ErrNoDatabase = errors.New("database not configured")

// DBTX is satisfied by both pgxpool.Pool and pgx.Tx, so repository methods
// work against either a pool or a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists snapshots and scan runs in PostgreSQL
type Repository struct {
	pool *pgxpool.Pool
	db   DBTX
}

// NewRepository creates a Repository with a PostgreSQL connection pool and
// makes sure the schema exists.
func NewRepository(ctx context.Context, connString string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	r := &Repository{pool: pool, db: pool}
	if err := r.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) checkDB() error {
	if r == nil || r.db == nil {
		return ErrNoDatabase
	}
	return nil
}

func (r *Repository) ensureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			id UUID PRIMARY KEY,
			symbol TEXT NOT NULL,
			name TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			rsi DOUBLE PRECISION,
			trend TEXT,
			score INT NOT NULL,
			decision TEXT NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_symbol_created
			ON snapshots (symbol, created_at DESC);

		CREATE TABLE IF NOT EXISTS scan_runs (
			id UUID PRIMARY KEY,
			run_at TIMESTAMPTZ NOT NULL,
			symbols TEXT[] NOT NULL,
			results JSONB NOT NULL,
			duration_ms BIGINT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// WithTx returns a Repository bound to the given transaction
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{pool: r.pool, db: tx}
}

// BeginTx starts a transaction and returns a Repository that uses it.
// The caller commits or rolls back.
func (r *Repository) BeginTx(ctx context.Context) (pgx.Tx, *Repository, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, r.WithTx(tx), nil
}

// Close closes the connection pool
func (r *Repository) Close() {
	if r != nil && r.pool != nil {
		r.pool.Close()
	}
}

// Health checks the database connection
func (r *Repository) Health(ctx context.Context) error {
	if err := r.checkDB(); err != nil {
		return err
	}
	return r.pool.Ping(ctx)
}
