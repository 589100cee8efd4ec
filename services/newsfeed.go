package services

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"apex-titan/models"
	"apex-titan/observability"
)

// GoogleNewsService searches the Google News RSS feed for headlines
type GoogleNewsService struct {
	baseURL    string
	httpClient *http.Client
}

// NewGoogleNewsService creates a new GoogleNewsService instance
func NewGoogleNewsService(baseURL string) *GoogleNewsService {
	return &GoogleNewsService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type rssFeed struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

// SearchFeed returns every decoded headline for the query; display limits are
// the aggregator's concern. A feed with no matches yields an empty slice and
// a nil error.
func (s *GoogleNewsService) SearchFeed(ctx context.Context, query string) ([]models.NewsItem, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerNewsFeed, "search")
	timer := metrics.NewTimer()

	items, err := WithCircuitBreaker(ctx, BreakerNewsFeed, func() ([]models.NewsItem, error) {
		return s.searchFeed(ctx, query)
	})

	timer.ObserveExternalAPI(BreakerNewsFeed, "search")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerNewsFeed, "search", categorizeAPIError(err))
		return nil, err
	}
	return items, nil
}

func (s *GoogleNewsService) searchFeed(ctx context.Context, query string) ([]models.NewsItem, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en-US")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news feed returned status %d", resp.StatusCode)
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]models.NewsItem, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		if item.Title == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Title: item.Title,
			Link:  item.Link,
		})
	}
	return items, nil
}
