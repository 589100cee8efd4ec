package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"apex-titan/config"
	"apex-titan/models"
	"apex-titan/observability"
	"apex-titan/services"
)

// ErrNoData means the provider returned no history for the symbol. It is the
// only hard failure in the snapshot pipeline; callers should treat it as
// "symbol not found or no data".
var ErrNoData = errors.New("no price data available")

// SnapshotBuilder turns a symbol into an AssetSnapshot
type SnapshotBuilder struct {
	provider       services.MarketDataService
	lookbackMonths int
	rsiPeriod      int
	trendWindow    int
}

// NewSnapshotBuilder creates a SnapshotBuilder using the configured windows
func NewSnapshotBuilder(provider services.MarketDataService, cfg *config.Config) *SnapshotBuilder {
	return &SnapshotBuilder{
		provider:       provider,
		lookbackMonths: cfg.Engine.LookbackMonths,
		rsiPeriod:      cfg.Engine.RSIPeriod,
		trendWindow:    cfg.Engine.TrendWindow,
	}
}

// Build fetches history and derives indicators, score and decision. A failed
// display-name lookup degrades to the raw symbol. Indicators that cannot be
// computed from the available history are carried as nil fields in an
// otherwise valid snapshot.
func (b *SnapshotBuilder) Build(ctx context.Context, symbol string) (*models.AssetSnapshot, error) {
	metrics := observability.GetMetrics()
	metrics.RecordSnapshotRequest(symbol)
	timer := metrics.NewTimer()
	status := "error"
	defer func() { timer.ObserveSnapshot(symbol, status) }()

	history, err := b.provider.FetchHistory(ctx, symbol, b.lookbackMonths)
	if err != nil {
		metrics.RecordSnapshotError(symbol, "fetch")
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if len(history) == 0 {
		metrics.RecordSnapshotError(symbol, "no_data")
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	name, err := b.provider.FetchName(ctx, symbol)
	if err != nil || name == "" {
		observability.Warn("display name lookup failed, using symbol",
			"symbol", symbol, "error", err)
		name = symbol
	}

	snapshot := b.buildFromHistory(symbol, name, history)
	metrics.RecordSnapshotResult(string(snapshot.Decision), snapshot.Score)
	status = "success"
	return snapshot, nil
}

// buildFromHistory is the pure part of Build: identical history always
// produces identical snapshot fields apart from FetchedAt.
func (b *SnapshotBuilder) buildFromHistory(symbol, name string, history models.PriceHistory) *models.AssetSnapshot {
	closes := history.Closes()
	last := closes[len(closes)-1]

	snapshot := &models.AssetSnapshot{
		Symbol:    symbol,
		Name:      name,
		Price:     round2(last),
		History:   history,
		FetchedAt: time.Now().UTC(),
	}

	if rsi, ok := RSI(closes, b.rsiPeriod); ok {
		rounded := round2(rsi)
		snapshot.RSI = &rounded
	}

	var sma *float64
	if v, ok := SMA(closes, b.trendWindow); ok {
		sma = &v
		trend := models.TrendDown
		if last > v {
			trend = models.TrendUp
		}
		snapshot.Trend = &trend
	}

	snapshot.Score = Score(snapshot.RSI, last, sma)
	snapshot.Decision = Decide(snapshot.Score)
	return snapshot
}
