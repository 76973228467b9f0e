// Package marketdata fetches point-in-time quotes and fundamentals from a
// Yahoo-Finance-compatible HTTP endpoint. Responses are cached with a short
// TTL and outbound calls are rate-limited, so a portfolio aggregation issues
// at most one upstream request per unique symbol per cache window.
package marketdata

import (
	"context"

	"valuefolio/internal/scoring"
)

// Quote is one point-in-time market quote.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	DividendYield float64 `json:"dividend_yield"` // annual %, 0 when the symbol pays none
}

// Provider is the market-data collaborator contract. GetQuotes tolerates
// unknown symbols by omitting them from the result map, never by erroring,
// so callers can apply per-symbol fallback policies. GetRatios returns
// ErrDataUnavailable when no fundamentals exist for the symbol, which keeps
// "no data" distinguishable from zero-valued ratios.
type Provider interface {
	GetQuotes(ctx context.Context, symbols []string) (map[string]Quote, error)
	GetRatios(ctx context.Context, symbol string) (*scoring.Ratios, error)
}
