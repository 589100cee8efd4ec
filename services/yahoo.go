package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"apex-titan/models"
	"apex-titan/observability"
)

// YahooService fetches price history and metadata from the Yahoo Finance
// chart API. It is the default MarketDataService.
type YahooService struct {
	baseURL    string
	httpClient *http.Client
}

// NewYahooService creates a new YahooService instance
func NewYahooService(baseURL string) *YahooService {
	return &YahooService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// yahooChart is the response structure from the Yahoo Finance chart API
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				ShortName string `json:"shortName"`
				LongName  string `json:"longName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func toInt64(v interface{}) int64 {
	return int64(toFloat(v))
}

// valueAt indexes a quote array, treating missing tail entries as null
func valueAt(vals []interface{}, i int) interface{} {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}

// lookbackRange maps a month count onto a chart API range token
func lookbackRange(months int) string {
	switch {
	case months <= 1:
		return "1mo"
	case months <= 3:
		return "3mo"
	case months <= 6:
		return "6mo"
	case months <= 12:
		return "1y"
	default:
		return "2y"
	}
}

func (s *YahooService) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooChart, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerYahoo, "chart")
	timer := metrics.NewTimer()

	chart, err := WithCircuitBreaker(ctx, BreakerYahoo, func() (*yahooChart, error) {
		var chart *yahooChart
		retryErr := WithRetry(ctx, DefaultRetryConfig, func() error {
			u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
				s.baseURL, url.PathEscape(symbol), interval, rng)

			req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}
			req.Header.Set("User-Agent", "Mozilla/5.0")

			resp, err := s.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("failed to fetch chart: %w", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read chart response: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("yahoo returned status %d", resp.StatusCode)
			}

			var decoded yahooChart
			if err := json.Unmarshal(body, &decoded); err != nil {
				return fmt.Errorf("failed to decode chart: %w", err)
			}
			if decoded.Chart.Error != nil {
				return fmt.Errorf("yahoo api error: %s", decoded.Chart.Error.Description)
			}
			chart = &decoded
			return nil
		})
		return chart, retryErr
	})

	timer.ObserveExternalAPI(BreakerYahoo, "chart")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerYahoo, "chart", categorizeAPIError(err))
		return nil, err
	}
	return chart, nil
}

// FetchHistory returns daily bars for the trailing lookback window.
// Null bars (holidays, halted sessions) are skipped. An empty result with a
// nil error means the symbol has no data.
func (s *YahooService) FetchHistory(ctx context.Context, symbol string, lookbackMonths int) (models.PriceHistory, error) {
	chart, err := s.fetchChart(ctx, symbol, "1d", lookbackRange(lookbackMonths))
	if err != nil {
		return nil, err
	}

	if len(chart.Chart.Result) == 0 {
		return models.PriceHistory{}, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return models.PriceHistory{}, nil
	}

	quote := result.Indicators.Quote[0]
	bars := make(models.PriceHistory, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		// the chart API occasionally returns ragged quote arrays; out-of-range
		// entries decode as null rather than faulting
		o := toFloat(valueAt(quote.Open, i))
		h := toFloat(valueAt(quote.High, i))
		l := toFloat(valueAt(quote.Low, i))
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue
		}
		bars = append(bars, models.PriceBar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			Volume:    toInt64(valueAt(quote.Volume, i)),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	return bars, nil
}

// FetchName returns the display name from the chart metadata. Missing
// metadata is an error; callers fall back to the raw symbol.
func (s *YahooService) FetchName(ctx context.Context, symbol string) (string, error) {
	chart, err := s.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return "", err
	}

	if len(chart.Chart.Result) == 0 {
		return "", fmt.Errorf("no metadata for symbol %s", symbol)
	}

	meta := chart.Chart.Result[0].Meta
	if meta.ShortName != "" {
		return meta.ShortName, nil
	}
	if meta.LongName != "" {
		return meta.LongName, nil
	}
	return "", fmt.Errorf("no display name for symbol %s", symbol)
}
