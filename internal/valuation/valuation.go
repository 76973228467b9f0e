// Package valuation provides pure per-lot cost and return arithmetic.
// Everything here is side-effect free; callers own persistence and display.
package valuation

import (
	apperrors "valuefolio/internal/errors"
)

// Lot is the input to per-lot valuation: one discrete purchase of a symbol.
type Lot struct {
	Quantity         float64
	BuyPrice         float64
	Commission       float64
	DividendReceived float64
}

// Result holds the derived figures for a lot at a given current price.
type Result struct {
	CostBasis       float64 `json:"cost_basis"`
	MarketValue     float64 `json:"market_value"`
	GainLoss        float64 `json:"gain_loss"`
	GainLossPercent float64 `json:"gain_loss_percent"`
}

// CostBasis is the total amount paid to acquire the lot, including commission.
func CostBasis(quantity, buyPrice, commission float64) float64 {
	return quantity*buyPrice + commission
}

// MarketValue is the lot's value at the given current price.
func MarketValue(quantity, currentPrice float64) float64 {
	return quantity * currentPrice
}

// GainLossPercent is gainLoss as a percentage of costBasis. A zero cost
// basis yields 0 rather than dividing; a free lot has no meaningful
// percentage return.
func GainLossPercent(gainLoss, costBasis float64) float64 {
	if costBasis == 0 {
		return 0
	}
	return gainLoss / costBasis * 100
}

// Value computes the full valuation of a lot at currentPrice. Dividends
// received count toward gain/loss. Negative quantity or prices are
// structurally invalid; a commission below zero is too.
func Value(lot Lot, currentPrice float64) (Result, error) {
	if lot.Quantity < 0 || lot.BuyPrice < 0 || currentPrice < 0 || lot.Commission < 0 {
		return Result{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity, prices, and commission must not be negative")
	}

	costBasis := CostBasis(lot.Quantity, lot.BuyPrice, lot.Commission)
	marketValue := MarketValue(lot.Quantity, currentPrice)
	gainLoss := marketValue - costBasis + lot.DividendReceived

	return Result{
		CostBasis:       costBasis,
		MarketValue:     marketValue,
		GainLoss:        gainLoss,
		GainLossPercent: GainLossPercent(gainLoss, costBasis),
	}, nil
}
