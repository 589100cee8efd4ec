package engine

import (
	"context"
	"sync"
	"time"

	"apex-titan/models"
	"apex-titan/observability"

	"github.com/google/uuid"
)

// Screener runs the snapshot pipeline over a watchlist in parallel
type Screener struct {
	cache         *SnapshotCache
	symbols       []string
	maxConcurrent int
}

// NewScreener creates a Screener over the given watchlist
func NewScreener(cache *SnapshotCache, symbols []string, maxConcurrent int) *Screener {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Screener{
		cache:         cache,
		symbols:       symbols,
		maxConcurrent: maxConcurrent,
	}
}

// Symbols returns the configured watchlist
func (s *Screener) Symbols() []string {
	return s.symbols
}

// Run scans every watchlist symbol with bounded concurrency. Per-symbol
// failures are recorded in the results, not propagated; the run fails only
// when every symbol fails. History is stripped from the results to keep scan
// payloads small.
func (s *Screener) Run(ctx context.Context) *models.ScanRun {
	start := time.Now()
	run := &models.ScanRun{
		ID:      uuid.New(),
		RunAt:   start.UTC(),
		Symbols: s.symbols,
		Results: make([]models.ScanResult, len(s.symbols)),
		Status:  models.ScanRunStatusRunning,
	}

	var wg sync.WaitGroup
	slots := make(chan struct{}, s.maxConcurrent)

	for i, symbol := range s.symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			slots <- struct{}{}
			defer func() { <-slots }()

			snapshot, err := s.cache.Get(ctx, symbol)
			if err != nil {
				observability.Warn("screener symbol failed", "symbol", symbol, "error", err)
				run.Results[i] = models.ScanResult{Symbol: symbol, Error: err.Error()}
				return
			}

			trimmed := *snapshot
			trimmed.History = nil
			run.Results[i] = models.ScanResult{Symbol: symbol, Snapshot: &trimmed}
		}(i, symbol)
	}
	wg.Wait()

	run.DurationMs = time.Since(start).Milliseconds()
	run.Status = models.ScanRunStatusCompleted
	if len(run.Symbols) > 0 {
		failed := 0
		for _, result := range run.Results {
			if result.Error != "" {
				failed++
			}
		}
		if failed == len(run.Symbols) {
			run.Status = models.ScanRunStatusFailed
		}
	}

	observability.Info("screener run finished",
		"run_id", run.ID.String(),
		"symbols", len(run.Symbols),
		"duration_ms", run.DurationMs,
		"status", string(run.Status))
	return run
}
