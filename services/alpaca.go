package services

import (
	"context"
	"fmt"
	"time"

	"apex-titan/models"
	"apex-titan/observability"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// AlpacaService is an alternate MarketDataService backed by the Alpaca
// market data API. It only covers US equities, so watchlists with crypto
// or international suffixes should stay on Yahoo.
type AlpacaService struct {
	dataClient *marketdata.Client
}

// NewAlpacaService creates a new AlpacaService instance
func NewAlpacaService(apiKey, apiSecret string) *AlpacaService {
	dataClient := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	})

	return &AlpacaService{dataClient: dataClient}
}

// FetchHistory returns daily bars for the trailing lookback window
func (s *AlpacaService) FetchHistory(ctx context.Context, symbol string, lookbackMonths int) (models.PriceHistory, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerAlpaca, "bars")
	timer := metrics.NewTimer()

	end := time.Now()
	start := end.AddDate(0, -lookbackMonths, 0)

	bars, err := WithCircuitBreaker(ctx, BreakerAlpaca, func() ([]marketdata.Bar, error) {
		return s.dataClient.GetBars(symbol, marketdata.GetBarsRequest{
			TimeFrame: marketdata.OneDay,
			Start:     start,
			End:       end,
		})
	})

	timer.ObserveExternalAPI(BreakerAlpaca, "bars")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerAlpaca, "bars", categorizeAPIError(err))
		return nil, fmt.Errorf("failed to get bars for %s: %w", symbol, err)
	}

	history := make(models.PriceHistory, 0, len(bars))
	for _, bar := range bars {
		history = append(history, models.PriceBar{
			Timestamp: bar.Timestamp,
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    int64(bar.Volume),
		})
	}

	return history, nil
}

// FetchName always fails; the market data API carries no asset metadata.
// Callers fall back to the raw symbol.
func (s *AlpacaService) FetchName(ctx context.Context, symbol string) (string, error) {
	return "", fmt.Errorf("alpaca provides no display name for %s", symbol)
}
