package engine

import (
	"context"
	"fmt"

	"apex-titan/models"
	"apex-titan/observability"
	"apex-titan/services"
)

// AdvisorClient turns a snapshot into streamed natural-language commentary.
// Every failure mode is delivered in-band as a chunk; no error ever escapes
// the stream.
type AdvisorClient struct {
	service      services.AdvisorService
	availability *AvailabilityCache
}

// NewAdvisorClient creates an AdvisorClient around the given backend
func NewAdvisorClient(service services.AdvisorService, availability *AvailabilityCache) *AdvisorClient {
	return &AdvisorClient{
		service:      service,
		availability: availability,
	}
}

// BuildPrompt renders the deterministic analysis prompt for a snapshot.
// Undefined indicators appear as "n/a" rather than fabricated numbers.
func BuildPrompt(snapshot *models.AssetSnapshot) string {
	rsi := "n/a"
	if snapshot.RSI != nil {
		rsi = fmt.Sprintf("%.2f", *snapshot.RSI)
	}
	trend := "n/a"
	if snapshot.Trend != nil {
		trend = string(*snapshot.Trend)
	}

	return fmt.Sprintf(
		"Act as a concise financial analyst. Asset: %s (%s). Current price: %.2f. "+
			"RSI(14): %s. Trend vs 50-day average: %s. "+
			"In 3 short sentences, give a technical read on this asset for a retail investor. "+
			"Do not give financial advice disclaimers.",
		snapshot.Name, snapshot.Symbol, snapshot.Price, rsi, trend)
}

// StreamAnalysis returns a finite ordered sequence of text chunks for the
// snapshot. The channel is fresh per call and closed when the sequence ends.
// If the advisor is unavailable the sequence is exactly one explanatory
// chunk; a mid-stream failure appends one terminal chunk after whatever was
// already delivered.
func (c *AdvisorClient) StreamAnalysis(ctx context.Context, snapshot *models.AssetSnapshot) <-chan string {
	out := make(chan string, 8)
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()

	if !c.availability.IsAvailable(ctx) {
		go func() {
			defer close(out)
			out <- fmt.Sprintf("AI advisor (%s) is not reachable. Start the service and try again.", c.service.Name())
			metrics.RecordAdvisorStream("unavailable")
			timer.ObserveAdvisor("unavailable")
		}()
		return out
	}

	prompt := BuildPrompt(snapshot)

	go func() {
		defer close(out)

		err := c.service.StreamChat(ctx, prompt, func(chunk string) error {
			select {
			case out <- chunk:
				metrics.RecordAdvisorChunk()
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			observability.Warn("advisor stream interrupted",
				"advisor", c.service.Name(), "symbol", snapshot.Symbol, "error", err)
			metrics.RecordAdvisorStream("interrupted")
			timer.ObserveAdvisor("interrupted")

			// best effort; the consumer may already be gone
			select {
			case out <- "\n[analysis interrupted: connection to the AI advisor was lost]":
			case <-ctx.Done():
			}
			return
		}

		metrics.RecordAdvisorStream("completed")
		timer.ObserveAdvisor("completed")
	}()

	return out
}
