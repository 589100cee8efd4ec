package models

import (
	"time"
)

// PriceBar represents OHLCV price data for a single trading period
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// PriceHistory is a chronological sequence of price bars for one symbol.
// It is treated as immutable once fetched.
type PriceHistory []PriceBar

// Closes returns the closing prices in chronological order
func (h PriceHistory) Closes() []float64 {
	closes := make([]float64, len(h))
	for i, bar := range h {
		closes[i] = bar.Close
	}
	return closes
}

// Last returns the most recent bar and whether the history is non-empty
func (h PriceHistory) Last() (PriceBar, bool) {
	if len(h) == 0 {
		return PriceBar{}, false
	}
	return h[len(h)-1], true
}

// Trend classifies price direction relative to its moving average
type Trend string

const (
	TrendUp   Trend = "UPTREND"
	TrendDown Trend = "DOWNTREND"
)

// Decision is the discrete trading stance derived from the heuristic score
type Decision string

const (
	DecisionBuyZone  Decision = "BUY ZONE"
	DecisionSellZone Decision = "SELL ZONE"
	DecisionNeutral  Decision = "NEUTRAL"
)

// AssetSnapshot is the immutable computed result for one symbol at one point
// in time. RSI and Trend are nil when the history is too short (or the RSI
// loss component is zero) to produce a meaningful value; consumers must treat
// nil as "undefined", not as zero.
type AssetSnapshot struct {
	Symbol    string       `json:"symbol"`
	Name      string       `json:"name"`
	Price     float64      `json:"price"`
	RSI       *float64     `json:"rsi"`
	Trend     *Trend       `json:"trend"`
	Score     int          `json:"score"`
	Decision  Decision     `json:"decision"`
	History   PriceHistory `json:"history,omitempty"`
	FetchedAt time.Time    `json:"fetched_at"`
}
