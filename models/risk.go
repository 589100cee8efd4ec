package models

import (
	"github.com/shopspring/decimal"
)

// RiskPlan is the output of the position-size calculator: how much capital is
// at risk and how many units that risk budget buys given the stop distance.
type RiskPlan struct {
	RiskAmount   decimal.Decimal `json:"risk_amount"`
	PositionSize int64           `json:"position_size"`
	TotalCapital decimal.Decimal `json:"total_capital"`
}
