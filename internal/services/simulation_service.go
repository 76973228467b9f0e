package services

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"valuefolio/internal/dca"
	apperrors "valuefolio/internal/errors"
	"valuefolio/internal/marketdata"
	"valuefolio/internal/models"
)

// simulationService resolves quote inputs and runs the DCA simulator. Runs
// are ephemeral; nothing is persisted.
type simulationService struct {
	provider marketdata.Provider
}

// NewSimulationService creates a new SimulationServicer.
func NewSimulationService(provider marketdata.Provider) SimulationServicer {
	return &simulationService{provider: provider}
}

// Simulate runs one simulation. An explicit CurrentPrice skips the quote
// lookup; otherwise the symbol's live quote supplies price, currency, and a
// dividend yield when the input carries none.
func (s *simulationService) Simulate(ctx context.Context, input SimulationInput) (*SimulationOutcome, error) {
	outcome := &SimulationOutcome{
		Symbol:       strings.ToUpper(input.Symbol),
		CurrentPrice: input.CurrentPrice,
	}
	if input.DividendYield != nil {
		outcome.DividendYield = *input.DividendYield
	}

	if outcome.CurrentPrice <= 0 {
		if outcome.Symbol == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "either a symbol or a current price is required")
		}
		quote, err := s.lookupQuote(ctx, outcome.Symbol, input.Market)
		if err != nil {
			return nil, err
		}
		outcome.CurrentPrice = quote.Price
		outcome.Currency = quote.Currency
		if input.DividendYield == nil {
			outcome.DividendYield = quote.DividendYield
		}
	}

	sim := dca.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	result, err := sim.Run(dca.Params{
		CurrentPrice:   outcome.CurrentPrice,
		Contribution:   input.Contribution,
		Frequency:      input.Frequency,
		DurationMonths: input.DurationMonths,
		DividendYield:  outcome.DividendYield,
	})
	if err != nil {
		return nil, err
	}

	outcome.Result = result
	return outcome, nil
}

func (s *simulationService) lookupQuote(ctx context.Context, symbol string, market models.Market) (*marketdata.Quote, error) {
	h := models.Holding{Symbol: symbol, Market: market}
	quoteSymbol := h.QuoteSymbol()

	quotes, err := s.provider.GetQuotes(ctx, []string{quoteSymbol})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}
	quote, ok := quotes[quoteSymbol]
	if !ok || quote.Price <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDataUnavailable, "no quote available for "+symbol)
	}
	return &quote, nil
}
