package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"apex-titan/engine"
	"apex-titan/models"
	"apex-titan/observability"
	"apex-titan/repository"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the watchlist screener on a cron schedule and keeps the
// latest run in memory. When a repository is configured, runs are also
// persisted.
type Scheduler struct {
	cron     *cron.Cron
	screener *engine.Screener
	repo     repository.Store
	timeout  time.Duration

	mu        sync.RWMutex
	latestRun *models.ScanRun
}

// NewScheduler creates a Scheduler over the screener. repo may be nil.
func NewScheduler(screener *engine.Screener, repo repository.Store, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		screener: screener,
		repo:     repo,
		timeout:  timeout,
	}
}

// Register adds the periodic scan at the given cron spec (with seconds)
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		s.RunNow(context.Background())
	}); err != nil {
		return fmt.Errorf("register screener scan: %w", err)
	}
	return nil
}

// RunNow executes a scan immediately and records it as the latest run
func (s *Scheduler) RunNow(ctx context.Context) *models.ScanRun {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	run := s.screener.Run(ctx)

	s.mu.Lock()
	s.latestRun = run
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.SaveScanRun(ctx, run); err != nil {
			observability.Warn("failed to persist scan run",
				"run_id", run.ID.String(), "error", err)
		}
	}
	return run
}

// LatestRun returns the most recent scan, falling back to the repository
// when the process has not produced one yet. Returns nil when no run exists.
func (s *Scheduler) LatestRun(ctx context.Context) (*models.ScanRun, error) {
	s.mu.RLock()
	run := s.latestRun
	s.mu.RUnlock()
	if run != nil {
		return run, nil
	}

	if s.repo != nil {
		return s.repo.GetLatestScanRun(ctx)
	}
	return nil, nil
}

// Start starts the cron loop
func (s *Scheduler) Start() {
	s.cron.Start()
	observability.Info("screener scheduler started")
}

// Stop stops the cron loop, waiting for a running job to finish
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	observability.Info("screener scheduler stopped")
}
