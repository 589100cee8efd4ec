package engine

import (
	"context"
	"strings"

	"apex-titan/models"
	"apex-titan/observability"
	"apex-titan/services"
)

// NewsAggregator turns a free-text or ticker query into headline items
type NewsAggregator struct {
	feed     services.NewsFeedService
	maxItems int
}

// NewNewsAggregator creates a NewsAggregator over the given feed source
func NewNewsAggregator(feed services.NewsFeedService, maxItems int) *NewsAggregator {
	return &NewsAggregator{
		feed:     feed,
		maxItems: maxItems,
	}
}

// NormalizeQuery rewrites ticker suffix conventions into search phrases so a
// raw symbol doubles as a sensible query. ".NS" becomes " India", "-USD"
// becomes " Crypto"; anything else passes through unchanged.
func NormalizeQuery(query string) string {
	term := strings.ReplaceAll(query, ".NS", " India")
	term = strings.ReplaceAll(term, "-USD", " Crypto")
	return term
}

// Search returns up to the configured number of headlines for the query.
// A fetch or parse failure degrades to a single synthetic item with an empty
// link; zero matches yield an empty slice. Neither case is an error.
func (a *NewsAggregator) Search(ctx context.Context, query string) []models.NewsItem {
	metrics := observability.GetMetrics()
	term := NormalizeQuery(query) + " finance"

	items, err := a.feed.SearchFeed(ctx, term)
	if err != nil {
		observability.Warn("news feed search failed", "query", term, "error", err)
		metrics.RecordNewsSearch("error", 1)
		return []models.NewsItem{{
			Title: "Could not load news: connection error",
			Link:  "",
		}}
	}

	if len(items) > a.maxItems {
		items = items[:a.maxItems]
	}
	metrics.RecordNewsSearch("success", len(items))
	return items
}
