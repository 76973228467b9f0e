package testutil

import (
	"context"

	apperrors "valuefolio/internal/errors"
	"valuefolio/internal/marketdata"
	"valuefolio/internal/scoring"
)

// StubProvider is a canned market-data provider for tests. Quotes and
// Ratios are keyed by the provider-qualified symbol; symbols absent from
// Quotes are omitted from results, symbols absent from Ratios yield
// ErrDataUnavailable.
type StubProvider struct {
	Quotes    map[string]marketdata.Quote
	Ratios    map[string]scoring.Ratios
	QuotesErr error
}

// GetQuotes returns the canned quotes for the requested symbols.
func (p *StubProvider) GetQuotes(_ context.Context, symbols []string) (map[string]marketdata.Quote, error) {
	if p.QuotesErr != nil {
		return nil, p.QuotesErr
	}
	result := make(map[string]marketdata.Quote, len(symbols))
	for _, s := range symbols {
		if q, ok := p.Quotes[s]; ok {
			result[s] = q
		}
	}
	return result, nil
}

// GetRatios returns the canned ratio record for the symbol.
func (p *StubProvider) GetRatios(_ context.Context, symbol string) (*scoring.Ratios, error) {
	r, ok := p.Ratios[symbol]
	if !ok {
		return nil, apperrors.ErrDataUnavailable
	}
	return &r, nil
}
