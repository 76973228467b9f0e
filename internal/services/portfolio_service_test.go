package services

import (
	"context"
	"math"
	"testing"

	"valuefolio/internal/marketdata"
	"valuefolio/internal/models"
	"valuefolio/internal/testutil"
)

func TestGetSnapshot(t *testing.T) {
	t.Run("live_quotes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		holdingSvc := NewHoldingService(db)
		provider := &testutil.StubProvider{
			Quotes: map[string]marketdata.Quote{
				"AAPL": {Symbol: "AAPL", Price: 15, Currency: "USD"},
			},
		}
		svc := NewPortfolioService(holdingSvc, provider)

		testutil.CreateTestHoldingWithLot(t, db, user.ID, "AAPL", 100, 10)
		testutil.CreateTestHoldingWithLot(t, db, user.ID, "AAPL", 50, 12)

		snap, err := svc.GetSnapshot(context.Background(), user.ID)
		testutil.AssertNoError(t, err)

		if snap.SymbolCount != 1 {
			t.Fatalf("expected 1 symbol, got %d", snap.SymbolCount)
		}
		agg := snap.Holdings[0]
		if agg.TotalQuantity != 150 {
			t.Errorf("expected 150 shares, got %v", agg.TotalQuantity)
		}
		if math.Abs(agg.MarketValue-2250) > 1e-9 {
			t.Errorf("expected market value 2250, got %v", agg.MarketValue)
		}
	})

	t.Run("quote_failure_uses_stored_prices", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		holdingSvc := NewHoldingService(db)
		provider := &testutil.StubProvider{QuotesErr: context.DeadlineExceeded}
		svc := NewPortfolioService(holdingSvc, provider)

		holding := testutil.CreateTestHoldingWithLot(t, db, user.ID, "AAPL", 10, 100)
		stored := 120.0
		db.Model(holding).Update("current_price", &stored)

		snap, err := svc.GetSnapshot(context.Background(), user.ID)
		testutil.AssertNoError(t, err)

		if math.Abs(snap.Holdings[0].CurrentPrice-120) > 1e-9 {
			t.Errorf("expected stored price 120, got %v", snap.Holdings[0].CurrentPrice)
		}
	})

	t.Run("set_symbols_quoted_with_suffix", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		holdingSvc := NewHoldingService(db)
		provider := &testutil.StubProvider{
			Quotes: map[string]marketdata.Quote{
				"PTT.BK": {Symbol: "PTT.BK", Price: 35, Currency: "THB"},
			},
		}
		svc := NewPortfolioService(holdingSvc, provider)

		input := HoldingInput{Symbol: "PTT", Market: models.MarketSET, Quantity: 100, BuyPrice: 30}
		_, err := holdingSvc.CreateHolding(user.ID, input)
		testutil.AssertNoError(t, err)

		snap, err := svc.GetSnapshot(context.Background(), user.ID)
		testutil.AssertNoError(t, err)

		if snap.Holdings[0].Symbol != "PTT" {
			t.Errorf("expected bare symbol PTT, got %s", snap.Holdings[0].Symbol)
		}
		if math.Abs(snap.Holdings[0].CurrentPrice-35) > 1e-9 {
			t.Errorf("expected suffixed quote applied, got %v", snap.Holdings[0].CurrentPrice)
		}
	})

	t.Run("empty_portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		svc := NewPortfolioService(NewHoldingService(db), &testutil.StubProvider{})

		snap, err := svc.GetSnapshot(context.Background(), user.ID)
		testutil.AssertNoError(t, err)
		if snap.SymbolCount != 0 || snap.TotalValue != 0 {
			t.Errorf("expected empty snapshot, got %+v", snap)
		}
	})
}

func TestRefreshPrices(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	user := testutil.CreateTestUser(t, db)
	holdingSvc := NewHoldingService(db)
	provider := &testutil.StubProvider{
		Quotes: map[string]marketdata.Quote{
			"AAPL": {Symbol: "AAPL", Price: 187.3, Currency: "USD"},
		},
	}
	svc := NewPortfolioService(holdingSvc, provider)

	testutil.CreateTestHolding(t, db, user.ID, "AAPL")
	testutil.CreateTestHolding(t, db, user.ID, "NOQUOTE")

	updated, err := svc.RefreshPrices(context.Background(), user.ID)
	testutil.AssertNoError(t, err)
	if updated != 1 {
		t.Errorf("expected 1 lot updated, got %d", updated)
	}

	holdings, err := holdingSvc.GetUserHoldings(user.ID)
	testutil.AssertNoError(t, err)
	for _, h := range holdings {
		switch h.Symbol {
		case "AAPL":
			if h.CurrentPrice == nil || *h.CurrentPrice != 187.3 {
				t.Errorf("expected AAPL refreshed, got %v", h.CurrentPrice)
			}
		case "NOQUOTE":
			if h.CurrentPrice != nil {
				t.Errorf("expected NOQUOTE untouched, got %v", h.CurrentPrice)
			}
		}
	}
}
