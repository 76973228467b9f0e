// Package portfolio turns a flat list of purchase lots into per-symbol
// aggregates and whole-portfolio totals. Aggregation is a pure fold over the
// input: deterministic for identical inputs, no mutation of the lots, and no
// I/O. Price resolution happens before this package is called.
package portfolio

import (
	"sort"

	"valuefolio/internal/valuation"
)

// Lot is one purchase transaction as seen by the aggregator. StoredPrice is
// the last price persisted for the lot (or its buy price when no quote has
// ever arrived) and is used when the price map carries no entry for the
// symbol.
type Lot struct {
	Symbol           string
	CompanyName      string
	Quantity         float64
	BuyPrice         float64
	Commission       float64
	DividendReceived float64
	StoredPrice      float64
}

// SymbolAggregate is the derived position for one symbol across its lots.
type SymbolAggregate struct {
	Symbol           string  `json:"symbol"`
	CompanyName      string  `json:"company_name"`
	TotalQuantity    float64 `json:"total_quantity"`
	AverageCost      float64 `json:"average_cost"`
	TotalCost        float64 `json:"total_cost"`
	CurrentPrice     float64 `json:"current_price"`
	MarketValue      float64 `json:"market_value"`
	DividendReceived float64 `json:"dividend_received"`
	GainLoss         float64 `json:"gain_loss"`
	GainLossPercent  float64 `json:"gain_loss_percent"`
	PercentOfTotal   float64 `json:"percent_of_total"`
}

// Snapshot is the derived whole-portfolio view. Holdings are ranked
// descending by market value; ties keep first-seen symbol order.
type Snapshot struct {
	TotalValue       float64           `json:"total_value"`
	TotalCost        float64           `json:"total_cost"`
	TotalGainLoss    float64           `json:"total_gain_loss"`
	GainLossPercent  float64           `json:"gain_loss_percent"`
	TotalDividends   float64           `json:"total_dividends"`
	DividendYield    float64           `json:"dividend_yield"`
	SymbolCount      int               `json:"symbol_count"`
	Holdings         []SymbolAggregate `json:"holdings"`
}

// Aggregate groups lots by symbol, accumulates quantity, cost, and
// dividends, and values each group at the price from prices, falling back
// to each lot's stored price for symbols the map omits. Average cost is
// recomputed from running totals so unequal lot sizes weigh correctly.
func Aggregate(lots []Lot, prices map[string]float64) Snapshot {
	groups := make(map[string]*SymbolAggregate, len(lots))
	order := make([]string, 0, len(lots))

	for i := range lots {
		lot := &lots[i]

		price, ok := prices[lot.Symbol]
		if !ok || price <= 0 {
			price = lot.StoredPrice
			if price <= 0 {
				price = lot.BuyPrice
			}
		}

		cost := valuation.CostBasis(lot.Quantity, lot.BuyPrice, lot.Commission)
		value := valuation.MarketValue(lot.Quantity, price)

		agg, seen := groups[lot.Symbol]
		if !seen {
			agg = &SymbolAggregate{
				Symbol:      lot.Symbol,
				CompanyName: lot.CompanyName,
			}
			groups[lot.Symbol] = agg
			order = append(order, lot.Symbol)
		}
		if agg.CompanyName == "" {
			agg.CompanyName = lot.CompanyName
		}

		agg.TotalQuantity += lot.Quantity
		agg.TotalCost += cost
		agg.MarketValue += value
		agg.DividendReceived += lot.DividendReceived
		agg.CurrentPrice = price
		if agg.TotalQuantity > 0 {
			agg.AverageCost = agg.TotalCost / agg.TotalQuantity
		}
	}

	var snap Snapshot
	snap.Holdings = make([]SymbolAggregate, 0, len(order))
	for _, symbol := range order {
		agg := groups[symbol]
		agg.GainLoss = agg.MarketValue - agg.TotalCost + agg.DividendReceived
		agg.GainLossPercent = valuation.GainLossPercent(agg.GainLoss, agg.TotalCost)

		snap.TotalValue += agg.MarketValue
		snap.TotalCost += agg.TotalCost
		snap.TotalDividends += agg.DividendReceived
		snap.Holdings = append(snap.Holdings, *agg)
	}

	for i := range snap.Holdings {
		if snap.TotalValue > 0 {
			snap.Holdings[i].PercentOfTotal = snap.Holdings[i].MarketValue / snap.TotalValue * 100
		}
	}

	// Stable: equal market values keep first-seen symbol order.
	sort.SliceStable(snap.Holdings, func(i, j int) bool {
		return snap.Holdings[i].MarketValue > snap.Holdings[j].MarketValue
	})

	snap.TotalGainLoss = snap.TotalValue - snap.TotalCost
	snap.GainLossPercent = valuation.GainLossPercent(snap.TotalGainLoss, snap.TotalCost)
	if snap.TotalValue > 0 {
		snap.DividendYield = snap.TotalDividends / snap.TotalValue * 100
	}
	snap.SymbolCount = len(snap.Holdings)

	return snap
}
