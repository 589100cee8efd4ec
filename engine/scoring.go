package engine

import "apex-titan/models"

// Score maps indicator outputs onto a heuristic score. Pure and
// deterministic. Base is 50; the first matching RSI rule applies (strict
// inequalities, RSI of exactly 30 or 70 earns nothing), then the trend rule
// applies independently. The rule set itself bounds the result to [30, 85],
// so there is deliberately no clamp.
func Score(rsi *float64, lastClose float64, sma *float64) int {
	score := 50

	if rsi != nil {
		switch {
		case *rsi < 30:
			score += 20
		case *rsi > 70:
			score -= 20
		}
	}

	if sma != nil && lastClose > *sma {
		score += 15
	}

	return score
}

// Decide maps a score onto a discrete stance. Thresholds are inclusive:
// 65 and above is BUY ZONE, 40 and below is SELL ZONE.
func Decide(score int) models.Decision {
	switch {
	case score >= 65:
		return models.DecisionBuyZone
	case score <= 40:
		return models.DecisionSellZone
	default:
		return models.DecisionNeutral
	}
}
