package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"apex-titan/config"
	"apex-titan/engine"
	"apex-titan/models"
)

type blockingMarketData struct {
	release chan struct{}
	history models.PriceHistory
}

func (m *blockingMarketData) FetchHistory(ctx context.Context, symbol string, lookbackMonths int) (models.PriceHistory, error) {
	if m.release != nil {
		<-m.release
	}
	return m.history, nil
}

func (m *blockingMarketData) FetchName(ctx context.Context, symbol string) (string, error) {
	return symbol, nil
}

type idleAdvisor struct{}

func (idleAdvisor) Name() string                   { return "idle" }
func (idleAdvisor) Ping(ctx context.Context) error { return errors.New("down") }
func (idleAdvisor) StreamChat(ctx context.Context, prompt string, emit func(string) error) error {
	return nil
}

type emptyFeed struct{}

func (emptyFeed) SearchFeed(ctx context.Context, query string) ([]models.NewsItem, error) {
	return nil, nil
}

func sixtyBars() models.PriceHistory {
	history := make(models.PriceHistory, 60)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range history {
		price := 50 + float64(i%5)
		history[i] = models.PriceBar{Timestamp: base.AddDate(0, 0, i), Open: price, High: price, Low: price, Close: price, Volume: 1}
	}
	return history
}

func newTestApp(provider *blockingMarketData, concurrency int) *App {
	cfg := config.NewTestConfig()
	cfg.Engine.ConcurrencyLimit = concurrency

	builder := engine.NewSnapshotBuilder(provider, cfg)
	cache := engine.NewSnapshotCache(builder, 0)
	advisor := engine.NewAdvisorClient(idleAdvisor{}, engine.NewAvailabilityCache(idleAdvisor{}, time.Hour))
	news := engine.NewNewsAggregator(emptyFeed{}, cfg.News.MaxItems)

	return New(cfg, cache, advisor, news, nil, nil)
}

func TestAnalyze(t *testing.T) {
	app := newTestApp(&blockingMarketData{history: sixtyBars()}, 3)

	snapshot, err := app.Analyze(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Symbol != "AAPL" {
		t.Errorf("unexpected snapshot: %+v", snapshot)
	}
}

func TestAnalyze_QueueFull(t *testing.T) {
	release := make(chan struct{})
	app := newTestApp(&blockingMarketData{history: sixtyBars(), release: release}, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Analyze(context.Background(), "SLOW")
	}()

	// wait for the first analysis to hold the only slot
	time.Sleep(50 * time.Millisecond)

	_, err := app.Analyze(context.Background(), "FAST")
	if !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got: %v", err)
	}

	close(release)
	wg.Wait()

	// slot released, next call goes through
	if _, err := app.Analyze(context.Background(), "AFTER"); err != nil {
		t.Errorf("unexpected error after release: %v", err)
	}
}

func TestStreamAdvisor_AnalysisFailureReturnsError(t *testing.T) {
	app := newTestApp(&blockingMarketData{history: models.PriceHistory{}}, 3)

	_, err := app.StreamAdvisor(context.Background(), "NOPE")
	if !errors.Is(err, engine.ErrNoData) {
		t.Errorf("expected ErrNoData, got: %v", err)
	}
}

func TestStreamAdvisor_DeliversStream(t *testing.T) {
	app := newTestApp(&blockingMarketData{history: sixtyBars()}, 3)

	stream, err := app.StreamAdvisor(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// advisor is down: expect exactly one in-band chunk, then close
	var chunks []string
	for chunk := range stream {
		chunks = append(chunks, chunk)
	}
	if len(chunks) != 1 {
		t.Errorf("expected single unavailable chunk, got %v", chunks)
	}
}

func TestLibrary(t *testing.T) {
	app := newTestApp(&blockingMarketData{history: sixtyBars()}, 1)

	library := app.Library()
	if len(library) == 0 {
		t.Fatal("expected non-empty asset catalog")
	}
	for _, category := range library {
		if category.Name == "" || len(category.Assets) == 0 {
			t.Errorf("malformed category: %+v", category)
		}
	}
}

func TestScreenerNotConfigured(t *testing.T) {
	app := newTestApp(&blockingMarketData{history: sixtyBars()}, 1)

	if _, err := app.RunScreener(context.Background()); err == nil {
		t.Error("expected error without screener")
	}
	if _, err := app.LatestScreenerRun(context.Background()); err == nil {
		t.Error("expected error without screener")
	}
}

func TestAnalysisSemCapacity(t *testing.T) {
	app := newTestApp(&blockingMarketData{history: sixtyBars()}, 7)
	if app.AnalysisSemCapacity() != 7 {
		t.Errorf("expected capacity 7, got %d", app.AnalysisSemCapacity())
	}
}
