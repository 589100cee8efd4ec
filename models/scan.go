package models

import (
	"time"

	"github.com/google/uuid"
)

// ScanRunStatus represents the status of a watchlist scan
type ScanRunStatus string

const (
	ScanRunStatusRunning   ScanRunStatus = "running"
	ScanRunStatusCompleted ScanRunStatus = "completed"
	ScanRunStatusFailed    ScanRunStatus = "failed"
)

// ScanRun represents a single execution of the watchlist screener
type ScanRun struct {
	ID         uuid.UUID     `json:"id"`
	RunAt      time.Time     `json:"run_at"`
	Symbols    []string      `json:"symbols"`
	Results    []ScanResult  `json:"results"`
	DurationMs int64         `json:"duration_ms"`
	Status     ScanRunStatus `json:"status"`
}

// ScanResult holds the outcome of one symbol within a scan. Exactly one of
// Snapshot or Error is set.
type ScanResult struct {
	Symbol   string         `json:"symbol"`
	Snapshot *AssetSnapshot `json:"snapshot,omitempty"`
	Error    string         `json:"error,omitempty"`
}
