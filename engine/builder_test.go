package engine

import (
	"context"
	"errors"
	"testing"

	"apex-titan/config"
	"apex-titan/models"
)

func newTestBuilder(provider *mockMarketDataService) *SnapshotBuilder {
	return NewSnapshotBuilder(provider, config.NewTestConfig())
}

func TestBuild_EmptyHistory(t *testing.T) {
	builder := newTestBuilder(&mockMarketDataService{history: models.PriceHistory{}})

	_, err := builder.Build(context.Background(), "NOPE")
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got: %v", err)
	}
}

func TestBuild_FetchError(t *testing.T) {
	boom := errors.New("provider down")
	builder := newTestBuilder(&mockMarketDataService{historyErr: boom})

	_, err := builder.Build(context.Background(), "AAPL")
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped provider error, got: %v", err)
	}
	if errors.Is(err, ErrNoData) {
		t.Error("provider failure must not look like missing data")
	}
}

func TestBuild_NameFallback(t *testing.T) {
	provider := &mockMarketDataService{
		history: risingThenEasing(),
		nameErr: errors.New("no metadata"),
	}
	builder := newTestBuilder(provider)

	snapshot, err := builder.Build(context.Background(), "BTC-USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Name != "BTC-USD" {
		t.Errorf("expected symbol fallback, got %q", snapshot.Name)
	}
}

func TestBuild_EndToEnd(t *testing.T) {
	provider := &mockMarketDataService{
		history: risingThenEasing(),
		name:    "Test Asset",
	}
	builder := newTestBuilder(provider)

	snapshot, err := builder.Build(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snapshot.Symbol != "TEST" || snapshot.Name != "Test Asset" {
		t.Errorf("unexpected identity fields: %+v", snapshot)
	}
	if snapshot.Price != 80 {
		t.Errorf("expected price 80 (last close), got %f", snapshot.Price)
	}
	if snapshot.RSI == nil {
		t.Fatal("expected defined RSI")
	}
	if *snapshot.RSI >= 30 {
		t.Errorf("expected oversold RSI below 30, got %f", *snapshot.RSI)
	}
	if snapshot.Trend == nil || *snapshot.Trend != models.TrendUp {
		t.Errorf("expected UPTREND, got %v", snapshot.Trend)
	}
	if snapshot.Score != 85 {
		t.Errorf("expected score 85 (50+20+15), got %d", snapshot.Score)
	}
	if snapshot.Decision != models.DecisionBuyZone {
		t.Errorf("expected BUY ZONE, got %s", snapshot.Decision)
	}
	if len(snapshot.History) != 60 {
		t.Errorf("expected history retained, got %d bars", len(snapshot.History))
	}
}

func TestBuild_ShortHistoryUndefinedIndicators(t *testing.T) {
	// 10 bars: too short for RSI(14) and SMA(50), but the build succeeds
	provider := &mockMarketDataService{
		history: syntheticHistory(1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
		name:    "Short",
	}
	builder := newTestBuilder(provider)

	snapshot, err := builder.Build(context.Background(), "SHORT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.RSI != nil {
		t.Error("expected undefined RSI, not a fabricated value")
	}
	if snapshot.Trend != nil {
		t.Error("expected undefined trend")
	}
	if snapshot.Score != 50 {
		t.Errorf("expected base score 50 with no rules firing, got %d", snapshot.Score)
	}
	if snapshot.Decision != models.DecisionNeutral {
		t.Errorf("expected NEUTRAL, got %s", snapshot.Decision)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	provider := &mockMarketDataService{
		history: risingThenEasing(),
		name:    "Same",
	}
	builder := newTestBuilder(provider)

	first, err := builder.Build(context.Background(), "SAME")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := builder.Build(context.Background(), "SAME")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Price != second.Price || *first.RSI != *second.RSI ||
		*first.Trend != *second.Trend || first.Score != second.Score ||
		first.Decision != second.Decision {
		t.Errorf("identical history produced different snapshots:\n%+v\n%+v", first, second)
	}
}
