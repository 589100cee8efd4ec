package app

import (
	"context"
	"errors"
	"fmt"

	"apex-titan/config"
	"apex-titan/engine"
	"apex-titan/models"
	"apex-titan/observability"
	"apex-titan/repository"
	"apex-titan/scheduler"

	"github.com/shopspring/decimal"
)

// ErrBusy means the analysis queue is full
var ErrBusy = errors.New("analysis queue full, too many concurrent requests")

// App wires the engine components behind one facade used by the API layer
type App struct {
	cfg       *config.Config
	snapshots *engine.SnapshotCache
	advisor   *engine.AdvisorClient
	news      *engine.NewsAggregator
	repo      repository.Store
	sched     *scheduler.Scheduler

	analysisSem chan struct{}
}

// New creates the App facade. repo and sched may be nil.
func New(cfg *config.Config, snapshots *engine.SnapshotCache, advisor *engine.AdvisorClient,
	news *engine.NewsAggregator, repo repository.Store, sched *scheduler.Scheduler) *App {
	return &App{
		cfg:         cfg,
		snapshots:   snapshots,
		advisor:     advisor,
		news:        news,
		repo:        repo,
		sched:       sched,
		analysisSem: make(chan struct{}, cfg.Engine.ConcurrencyLimit),
	}
}

// Shutdown releases held resources
func (a *App) Shutdown(ctx context.Context) {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.repo != nil {
		a.repo.Close()
	}
}

// Repo returns the persistence store, nil when no database is configured
func (a *App) Repo() repository.Store {
	return a.repo
}

// Analyze builds (or returns a cached) snapshot for the symbol. Concurrent
// analyses are bounded; beyond the limit callers get ErrBusy instead of
// queueing. Successful builds are persisted best-effort.
func (a *App) Analyze(ctx context.Context, symbol string) (*models.AssetSnapshot, error) {
	select {
	case a.analysisSem <- struct{}{}:
		defer func() { <-a.analysisSem }()
	default:
		return nil, ErrBusy
	}

	snapshot, err := a.snapshots.Get(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if a.repo != nil {
		if err := a.repo.SaveSnapshot(ctx, models.NewSnapshotRecord(snapshot)); err != nil {
			observability.Warn("failed to persist snapshot", "symbol", symbol, "error", err)
		}
	}
	return snapshot, nil
}

// StreamAdvisor analyzes the symbol and streams commentary for it. The
// returned channel always terminates; advisor failures arrive in-band.
func (a *App) StreamAdvisor(ctx context.Context, symbol string) (<-chan string, error) {
	snapshot, err := a.Analyze(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return a.advisor.StreamAnalysis(ctx, snapshot), nil
}

// SearchNews returns headlines for a free-text or ticker query
func (a *App) SearchNews(ctx context.Context, query string) []models.NewsItem {
	return a.news.Search(ctx, query)
}

// PlanRisk sizes a position from the risk inputs
func (a *App) PlanRisk(balance, riskPercent, entry, stop decimal.Decimal) (*models.RiskPlan, error) {
	return engine.PlanRisk(balance, riskPercent, entry, stop)
}

// Library returns the static asset catalog
func (a *App) Library() []models.LibraryCategory {
	return models.AssetLibrary
}

// RunScreener triggers a watchlist scan immediately
func (a *App) RunScreener(ctx context.Context) (*models.ScanRun, error) {
	if a.sched == nil {
		return nil, fmt.Errorf("screener not configured")
	}
	return a.sched.RunNow(ctx), nil
}

// LatestScreenerRun returns the most recent scan, nil when none exists
func (a *App) LatestScreenerRun(ctx context.Context) (*models.ScanRun, error) {
	if a.sched == nil {
		return nil, fmt.Errorf("screener not configured")
	}
	return a.sched.LatestRun(ctx)
}

// Snapshots returns persisted snapshot history
func (a *App) Snapshots(ctx context.Context, symbol string, limit int) ([]models.SnapshotRecord, error) {
	if a.repo == nil {
		return nil, repository.ErrNoDatabase
	}
	return a.repo.GetSnapshots(ctx, symbol, limit)
}

// AnalysisSemCapacity returns the capacity of the analysis semaphore (for testing)
func (a *App) AnalysisSemCapacity() int {
	return cap(a.analysisSem)
}
