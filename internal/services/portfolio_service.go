package services

import (
	"context"

	"valuefolio/internal/logger"
	"valuefolio/internal/marketdata"
	"valuefolio/internal/models"
	"valuefolio/internal/portfolio"
)

// portfolioService derives portfolio views by pairing stored lots with
// live quotes. Quote failures never fail a snapshot: valuation falls back
// to each lot's last stored price.
type portfolioService struct {
	holdings HoldingServicer
	provider marketdata.Provider
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(holdings HoldingServicer, provider marketdata.Provider) PortfolioServicer {
	return &portfolioService{holdings: holdings, provider: provider}
}

// GetSnapshot aggregates the user's lots into per-symbol positions and
// portfolio totals, valued at the freshest price available.
func (s *portfolioService) GetSnapshot(ctx context.Context, userID uint) (*portfolio.Snapshot, error) {
	holdings, err := s.holdings.GetUserHoldings(userID)
	if err != nil {
		return nil, err
	}

	prices := s.fetchPrices(ctx, holdings)

	lots := make([]portfolio.Lot, 0, len(holdings))
	for i := range holdings {
		h := &holdings[i]
		lot := portfolio.Lot{
			Symbol:           h.Symbol,
			CompanyName:      h.CompanyName,
			Quantity:         h.Quantity,
			BuyPrice:         h.BuyPrice,
			Commission:       h.Commission,
			DividendReceived: h.DividendReceived,
		}
		if h.CurrentPrice != nil {
			lot.StoredPrice = *h.CurrentPrice
		}
		lots = append(lots, lot)
	}

	snap := portfolio.Aggregate(lots, prices)
	return &snap, nil
}

// RefreshPrices fetches quotes for every distinct symbol the user holds and
// persists them onto the lots. Returns the number of lots updated.
func (s *portfolioService) RefreshPrices(ctx context.Context, userID uint) (int, error) {
	holdings, err := s.holdings.GetUserHoldings(userID)
	if err != nil {
		return 0, err
	}
	if len(holdings) == 0 {
		return 0, nil
	}

	prices := s.fetchPrices(ctx, holdings)
	if len(prices) == 0 {
		return 0, nil
	}
	return s.holdings.WriteBackPrices(userID, prices)
}

// fetchPrices resolves quotes for the distinct symbols across the given
// lots, keyed by the bare holding symbol. Provider failures and unknown
// symbols degrade to an empty or partial map.
func (s *portfolioService) fetchPrices(ctx context.Context, holdings []models.Holding) map[string]float64 {
	// Quote symbols may be exchange-qualified (".BK" for SET); map them
	// back to the bare symbol used as the storage key.
	bySymbol := make(map[string]string, len(holdings))
	querySymbols := make([]string, 0, len(holdings))
	for i := range holdings {
		h := &holdings[i]
		qs := h.QuoteSymbol()
		if _, seen := bySymbol[qs]; seen {
			continue
		}
		bySymbol[qs] = h.Symbol
		querySymbols = append(querySymbols, qs)
	}
	if len(querySymbols) == 0 {
		return nil
	}

	quotes, err := s.provider.GetQuotes(ctx, querySymbols)
	if err != nil {
		logger.Get().Warnw("quote fetch failed, using stored prices",
			"symbols", len(querySymbols), "error", err)
		return nil
	}

	prices := make(map[string]float64, len(quotes))
	for qs, quote := range quotes {
		if quote.Price <= 0 {
			continue
		}
		if bare, ok := bySymbol[qs]; ok {
			prices[bare] = quote.Price
		}
	}
	return prices
}
