package portfolio

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestAggregateMultipleLots(t *testing.T) {
	lots := []Lot{
		{Symbol: "AAPL", CompanyName: "Apple Inc.", Quantity: 100, BuyPrice: 10, Commission: 5},
		{Symbol: "AAPL", Quantity: 50, BuyPrice: 12, Commission: 3},
	}
	prices := map[string]float64{"AAPL": 15}

	snap := Aggregate(lots, prices)

	if snap.SymbolCount != 1 {
		t.Fatalf("expected 1 symbol, got %d", snap.SymbolCount)
	}
	agg := snap.Holdings[0]
	if !almostEqual(agg.TotalQuantity, 150) {
		t.Errorf("expected quantity 150, got %v", agg.TotalQuantity)
	}
	if !almostEqual(agg.TotalCost, 1608) {
		t.Errorf("expected cost 1608, got %v", agg.TotalCost)
	}
	if !almostEqual(agg.AverageCost, 1608.0/150) {
		t.Errorf("expected average cost %v, got %v", 1608.0/150, agg.AverageCost)
	}
	if !almostEqual(agg.MarketValue, 2250) {
		t.Errorf("expected market value 2250, got %v", agg.MarketValue)
	}
	if !almostEqual(agg.GainLoss, 642) {
		t.Errorf("expected gain 642, got %v", agg.GainLoss)
	}
	if agg.CompanyName != "Apple Inc." {
		t.Errorf("expected company name from first lot, got %q", agg.CompanyName)
	}
	if !almostEqual(agg.PercentOfTotal, 100) {
		t.Errorf("expected 100%% of portfolio, got %v", agg.PercentOfTotal)
	}
	if !almostEqual(snap.TotalGainLoss, snap.TotalValue-snap.TotalCost) {
		t.Errorf("portfolio gain mismatch: %v", snap.TotalGainLoss)
	}
}

func TestAggregateOrderInvariance(t *testing.T) {
	lots := []Lot{
		{Symbol: "AAPL", Quantity: 100, BuyPrice: 10, Commission: 5},
		{Symbol: "MSFT", Quantity: 20, BuyPrice: 100},
		{Symbol: "AAPL", Quantity: 50, BuyPrice: 12, Commission: 3},
	}
	reversed := []Lot{lots[2], lots[1], lots[0]}
	prices := map[string]float64{"AAPL": 15, "MSFT": 110}

	a := Aggregate(lots, prices)
	b := Aggregate(reversed, prices)

	if a.TotalValue != b.TotalValue || a.TotalCost != b.TotalCost {
		t.Errorf("totals differ across input orderings: %+v vs %+v", a, b)
	}
	for i := range a.Holdings {
		if a.Holdings[i].Symbol != b.Holdings[i].Symbol {
			t.Errorf("ranking differs across input orderings")
		}
		if !almostEqual(a.Holdings[i].AverageCost, b.Holdings[i].AverageCost) {
			t.Errorf("average cost differs for %s", a.Holdings[i].Symbol)
		}
	}
}

func TestAggregateRankingAndShares(t *testing.T) {
	lots := []Lot{
		{Symbol: "SMALL", Quantity: 10, BuyPrice: 5},
		{Symbol: "BIG", Quantity: 100, BuyPrice: 20},
	}
	prices := map[string]float64{"SMALL": 5, "BIG": 20}

	snap := Aggregate(lots, prices)

	if snap.Holdings[0].Symbol != "BIG" {
		t.Errorf("expected BIG ranked first, got %s", snap.Holdings[0].Symbol)
	}

	var shareSum float64
	for _, h := range snap.Holdings {
		shareSum += h.PercentOfTotal
	}
	if !almostEqual(shareSum, 100) {
		t.Errorf("expected shares to sum to 100, got %v", shareSum)
	}
}

func TestAggregatePriceFallback(t *testing.T) {
	lots := []Lot{
		{Symbol: "STORED", Quantity: 10, BuyPrice: 5, StoredPrice: 8},
		{Symbol: "FRESH", Quantity: 10, BuyPrice: 5, StoredPrice: 8},
		{Symbol: "NOQUOTE", Quantity: 10, BuyPrice: 5},
	}
	prices := map[string]float64{"FRESH": 9}

	snap := Aggregate(lots, prices)

	byName := make(map[string]SymbolAggregate)
	for _, h := range snap.Holdings {
		byName[h.Symbol] = h
	}
	if !almostEqual(byName["FRESH"].CurrentPrice, 9) {
		t.Errorf("expected quote price 9, got %v", byName["FRESH"].CurrentPrice)
	}
	if !almostEqual(byName["STORED"].CurrentPrice, 8) {
		t.Errorf("expected stored price 8, got %v", byName["STORED"].CurrentPrice)
	}
	if !almostEqual(byName["NOQUOTE"].CurrentPrice, 5) {
		t.Errorf("expected buy price 5, got %v", byName["NOQUOTE"].CurrentPrice)
	}
}

func TestAggregateEmpty(t *testing.T) {
	snap := Aggregate(nil, nil)
	if snap.SymbolCount != 0 || snap.TotalValue != 0 || snap.GainLossPercent != 0 {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
	if len(snap.Holdings) != 0 {
		t.Errorf("expected no holdings, got %d", len(snap.Holdings))
	}
}
