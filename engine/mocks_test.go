package engine

import (
	"context"
	"sync/atomic"
	"time"

	"apex-titan/models"
)

// syntheticHistory builds n daily bars whose closes follow the given series.
// When closes is shorter than n the last value repeats.
func syntheticHistory(closes ...float64) models.PriceHistory {
	history := make(models.PriceHistory, len(closes))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		history[i] = models.PriceBar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
		}
	}
	return history
}

// risingThenEasing returns 60 bars: a steady climb from 10 to 100 over the
// first 40 bars, then a gentle drift down to 80. The last close sits above
// the 50-bar SMA while recent losses dominate, so RSI is low and defined.
func risingThenEasing() models.PriceHistory {
	closes := make([]float64, 0, 60)
	for i := 0; i < 40; i++ {
		closes = append(closes, 10+float64(i)*90/39)
	}
	for i := 1; i <= 20; i++ {
		closes = append(closes, 100-float64(i))
	}
	return syntheticHistory(closes...)
}

type mockMarketDataService struct {
	history    models.PriceHistory
	historyErr error
	name       string
	nameErr    error
	fetchCount int64
}

func (m *mockMarketDataService) FetchHistory(ctx context.Context, symbol string, lookbackMonths int) (models.PriceHistory, error) {
	atomic.AddInt64(&m.fetchCount, 1)
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.history, nil
}

func (m *mockMarketDataService) FetchName(ctx context.Context, symbol string) (string, error) {
	if m.nameErr != nil {
		return "", m.nameErr
	}
	return m.name, nil
}

type mockAdvisorService struct {
	pingErr   error
	chunks    []string
	streamErr error
}

func (m *mockAdvisorService) Name() string {
	return "mock-advisor"
}

func (m *mockAdvisorService) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *mockAdvisorService) StreamChat(ctx context.Context, prompt string, emit func(chunk string) error) error {
	for _, chunk := range m.chunks {
		if err := emit(chunk); err != nil {
			return err
		}
	}
	return m.streamErr
}

type mockNewsFeedService struct {
	items []models.NewsItem
	err   error
	query string
}

func (m *mockNewsFeedService) SearchFeed(ctx context.Context, query string) ([]models.NewsItem, error) {
	m.query = query
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}
