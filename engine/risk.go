package engine

import (
	"errors"
	"fmt"

	"apex-titan/models"

	"github.com/shopspring/decimal"
)

// ErrInvalidRiskInput means the risk inputs cannot produce a position plan
var ErrInvalidRiskInput = errors.New("invalid risk input")

// PlanRisk sizes a position from account balance, risk tolerance and the
// entry/stop pair. The risk amount is the balance fraction put at stake; the
// position size is how many whole units can be bought so that hitting the
// stop loses at most that amount.
func PlanRisk(balance, riskPercent, entry, stop decimal.Decimal) (*models.RiskPlan, error) {
	if balance.Sign() <= 0 {
		return nil, fmt.Errorf("%w: balance must be positive", ErrInvalidRiskInput)
	}
	if riskPercent.Sign() <= 0 || riskPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: risk percent must be in (0, 100]", ErrInvalidRiskInput)
	}
	if entry.Sign() <= 0 {
		return nil, fmt.Errorf("%w: entry price must be positive", ErrInvalidRiskInput)
	}

	perUnitRisk := entry.Sub(stop)
	if perUnitRisk.Sign() <= 0 {
		return nil, fmt.Errorf("%w: stop loss must be below entry", ErrInvalidRiskInput)
	}

	riskAmount := balance.Mul(riskPercent).Div(decimal.NewFromInt(100))
	positionSize := riskAmount.Div(perUnitRisk).Floor().IntPart()

	return &models.RiskPlan{
		RiskAmount:   riskAmount.Round(2),
		PositionSize: positionSize,
		TotalCapital: entry.Mul(decimal.NewFromInt(positionSize)).Round(2),
	}, nil
}
