package services

import (
	"context"

	"apex-titan/models"
)

// MarketDataService defines the interface for price history and metadata lookups
type MarketDataService interface {
	// FetchHistory returns daily bars covering the trailing lookback window,
	// in chronological order. An empty history is not an error; the caller
	// decides how to treat it.
	FetchHistory(ctx context.Context, symbol string, lookbackMonths int) (models.PriceHistory, error)
	// FetchName returns a display name for the symbol. A failure here is
	// expected to be non-fatal for callers.
	FetchName(ctx context.Context, symbol string) (string, error)
}

// AdvisorService defines the interface for the external language-model advisor
type AdvisorService interface {
	// Name identifies the backend for logs and error chunks
	Name() string
	// Ping performs a no-op call against the backend; any error means unavailable
	Ping(ctx context.Context) error
	// StreamChat sends a prompt and forwards each response fragment to emit in
	// arrival order. Returning a non-nil error from emit aborts the stream.
	StreamChat(ctx context.Context, prompt string, emit func(chunk string) error) error
}

// NewsFeedService defines the interface for the news feed search endpoint
type NewsFeedService interface {
	// SearchFeed returns all feed entries for an already-normalized query
	// term; callers apply any display limit.
	SearchFeed(ctx context.Context, query string) ([]models.NewsItem, error)
}

// Compile-time interface verification
var _ MarketDataService = (*YahooService)(nil)
var _ MarketDataService = (*AlpacaService)(nil)
var _ AdvisorService = (*OllamaService)(nil)
var _ AdvisorService = (*OpenAIService)(nil)
var _ AdvisorService = (*BedrockService)(nil)
var _ NewsFeedService = (*GoogleNewsService)(nil)
