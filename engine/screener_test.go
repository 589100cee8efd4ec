package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"apex-titan/config"
	"apex-titan/models"
)

// routingMarketData serves different outcomes per symbol
type routingMarketData struct {
	histories map[string]models.PriceHistory
}

func (m *routingMarketData) FetchHistory(ctx context.Context, symbol string, lookbackMonths int) (models.PriceHistory, error) {
	history, ok := m.histories[symbol]
	if !ok {
		return nil, errors.New("provider outage")
	}
	return history, nil
}

func (m *routingMarketData) FetchName(ctx context.Context, symbol string) (string, error) {
	return symbol, nil
}

func newScreenerForTest(provider *routingMarketData, symbols []string) *Screener {
	builder := NewSnapshotBuilder(provider, config.NewTestConfig())
	return NewScreener(NewSnapshotCache(builder, time.Hour), symbols, 2)
}

func TestScreenerRun_AllSucceed(t *testing.T) {
	provider := &routingMarketData{histories: map[string]models.PriceHistory{
		"AAPL":    risingThenEasing(),
		"BTC-USD": risingThenEasing(),
	}}
	screener := newScreenerForTest(provider, []string{"AAPL", "BTC-USD"})

	run := screener.Run(context.Background())

	if run.Status != models.ScanRunStatusCompleted {
		t.Errorf("expected completed, got %s", run.Status)
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}
	for i, result := range run.Results {
		if result.Symbol != run.Symbols[i] {
			t.Errorf("result %d out of order: %s", i, result.Symbol)
		}
		if result.Snapshot == nil || result.Error != "" {
			t.Errorf("expected snapshot for %s, got error %q", result.Symbol, result.Error)
		}
		if result.Snapshot.History != nil {
			t.Errorf("expected history stripped from scan result for %s", result.Symbol)
		}
	}
}

func TestScreenerRun_PartialFailure(t *testing.T) {
	provider := &routingMarketData{histories: map[string]models.PriceHistory{
		"AAPL": risingThenEasing(),
	}}
	screener := newScreenerForTest(provider, []string{"AAPL", "DOWN"})

	run := screener.Run(context.Background())

	if run.Status != models.ScanRunStatusCompleted {
		t.Errorf("partial failure should still complete, got %s", run.Status)
	}
	if run.Results[0].Snapshot == nil {
		t.Error("expected snapshot for AAPL")
	}
	if run.Results[1].Error == "" {
		t.Error("expected error recorded for DOWN")
	}
	if run.Results[1].Snapshot != nil {
		t.Error("failed symbol must not carry a snapshot")
	}
}

func TestScreenerRun_AllFail(t *testing.T) {
	provider := &routingMarketData{histories: map[string]models.PriceHistory{}}
	screener := newScreenerForTest(provider, []string{"A", "B"})

	run := screener.Run(context.Background())
	if run.Status != models.ScanRunStatusFailed {
		t.Errorf("expected failed when every symbol fails, got %s", run.Status)
	}
}

func TestScreenerRun_EmptyWatchlist(t *testing.T) {
	provider := &routingMarketData{}
	screener := newScreenerForTest(provider, nil)

	run := screener.Run(context.Background())
	if run.Status != models.ScanRunStatusCompleted {
		t.Errorf("expected completed for empty watchlist, got %s", run.Status)
	}
	if len(run.Results) != 0 {
		t.Errorf("expected no results, got %d", len(run.Results))
	}
	if run.DurationMs < 0 {
		t.Error("expected non-negative duration")
	}
}
