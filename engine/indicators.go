package engine

import (
	"math"

	"apex-titan/models"
)

const (
	// DefaultRSIPeriod is the standard RSI lookback in bars
	DefaultRSIPeriod = 14
	// DefaultTrendWindow is the SMA window used for the trend signal
	DefaultTrendWindow = 50
)

// RSI computes the Relative Strength Index over the trailing window ending at
// the most recent close. Gains and losses are simple rolling means of the
// close-to-close differences. Returns ok=false when there are fewer than
// period+1 closes or when the loss component is zero across the whole window;
// a zero-loss window has no defined RSI and is never coerced to 100.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}

	var gainSum, lossSum float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum += -delta
		}
	}

	meanGain := gainSum / float64(period)
	meanLoss := lossSum / float64(period)
	if meanLoss == 0 {
		return 0, false
	}

	rs := meanGain / meanLoss
	return 100 - 100/(1+rs), true
}

// SMA computes the simple moving average of the trailing window.
// Returns ok=false when fewer than window closes exist.
func SMA(closes []float64, window int) (float64, bool) {
	if window <= 0 || len(closes) < window {
		return 0, false
	}

	var sum float64
	for i := len(closes) - window; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(window), true
}

// TrendSignal classifies the last close against the trailing SMA.
// UPTREND only on a strictly higher close; ties are DOWNTREND.
// Returns ok=false when the SMA is undefined.
func TrendSignal(closes []float64, window int) (models.Trend, bool) {
	sma, ok := SMA(closes, window)
	if !ok {
		return "", false
	}

	last := closes[len(closes)-1]
	if last > sma {
		return models.TrendUp, true
	}
	return models.TrendDown, true
}

// round2 rounds to 2 decimal places for display fields
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
