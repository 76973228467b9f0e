// Package dca simulates a periodic-investment (dollar-cost-averaging)
// strategy against a synthetic price path. The path is a deliberately simple
// model, a deterministic drift reaching +5% by the final period plus an
// independent uniform ±1% noise draw per period, not a calibrated
// stochastic process. Each run is a single stateless pass; the noise source
// is injectable so tests can collapse the path to a known price.
package dca

import (
	"math"
	"math/rand"

	apperrors "valuefolio/internal/errors"
)

// Frequency is how often a contribution is made.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// noiseBand is half the width of the per-period uniform noise interval
// (±1%, a 2% volatility band).
const noiseBand = 0.01

// terminalDrift is the deterministic upward drift reached by the final
// period.
const terminalDrift = 0.05

// Params describes one simulation run.
type Params struct {
	CurrentPrice   float64   // anchor price, required, positive
	Contribution   float64   // amount invested per period, required, positive
	Frequency      Frequency // defaults to Monthly when empty
	DurationMonths int       // required, positive
	DividendYield  float64   // annual %, 0 disables dividend accrual
}

// Result is the outcome of one simulation run. Never persisted; created
// fresh per call.
type Result struct {
	TotalPeriods             int     `json:"total_periods"`
	TotalInvested            float64 `json:"total_invested"`
	TotalShares              float64 `json:"total_shares"`
	AveragePrice             float64 `json:"average_price"`
	CurrentValue             float64 `json:"current_value"`
	TotalReturn              float64 `json:"total_return"`
	TotalReturnPercent       float64 `json:"total_return_percent"`
	TotalDividends           float64 `json:"total_dividends"`
	TotalReturnWithDividends float64 `json:"total_return_with_dividends"`
}

// Simulator carries the injectable pieces of the price model. The zero
// value is not usable; construct with New, or fill the fields directly in
// tests to disable noise or drift.
type Simulator struct {
	// Noise returns one per-period noise term. Draws are independent, not
	// path-dependent.
	Noise func() float64
	// Drift returns the deterministic drift term for period i of n.
	Drift func(i, n int) float64
}

// New returns a Simulator with the standard model, drawing noise from rng.
// Pass a seeded *rand.Rand for reproducible runs.
func New(rng *rand.Rand) *Simulator {
	return &Simulator{
		Noise: func() float64 { return (rng.Float64()*2 - 1) * noiseBand },
		Drift: LinearDrift,
	}
}

// LinearDrift is the standard drift term: mild upward, reaching
// terminalDrift by the final period.
func LinearDrift(i, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(i) / float64(n) * terminalDrift
}

// periods derives the contribution count for a duration in months.
func periods(f Frequency, months int) (total, perYear int) {
	switch f {
	case Weekly:
		return int(math.Floor(float64(months) * 4.33)), 52
	case Daily:
		return months * 30, 365
	default:
		return months, 12
	}
}

// Run simulates the strategy. It validates inputs up front: a non-positive
// price, contribution, or duration produces InvalidInput and no computation,
// so a zero share count can never reach the division below.
func (s *Simulator) Run(p Params) (Result, error) {
	if p.CurrentPrice <= 0 {
		return Result{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "current price must be positive")
	}
	if p.Contribution <= 0 {
		return Result{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "contribution must be positive")
	}
	if p.DurationMonths <= 0 {
		return Result{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "duration must be positive")
	}
	if p.DividendYield < 0 {
		return Result{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "dividend yield must not be negative")
	}

	totalPeriods, perYear := periods(p.Frequency, p.DurationMonths)
	dividendInterval := perYear / 4 // quarterly cadence

	var totalShares, totalInvested, totalDividends float64
	for i := 0; i < totalPeriods; i++ {
		price := p.CurrentPrice * (1 + s.Drift(i, totalPeriods)) * (1 + s.Noise())

		totalShares += p.Contribution / price
		totalInvested += p.Contribution

		// Dividends accrue off the anchor price, not the simulated one:
		// payouts are declared against announced prices, not noise.
		if p.DividendYield > 0 && i > 0 && i%dividendInterval == 0 {
			totalDividends += totalShares * p.CurrentPrice * (p.DividendYield / 100 / 4)
		}
	}

	currentValue := totalShares * p.CurrentPrice
	totalReturn := currentValue - totalInvested

	res := Result{
		TotalPeriods:             totalPeriods,
		TotalInvested:            totalInvested,
		TotalShares:              totalShares,
		CurrentValue:             currentValue,
		TotalReturn:              totalReturn,
		TotalDividends:           totalDividends,
		TotalReturnWithDividends: totalReturn + totalDividends,
	}
	if totalShares > 0 {
		res.AveragePrice = totalInvested / totalShares
	}
	if totalInvested > 0 {
		res.TotalReturnPercent = totalReturn / totalInvested * 100
	}
	return res, nil
}
