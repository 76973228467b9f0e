package services

import (
	"testing"
	"time"

	"valuefolio/internal/models"
	"valuefolio/internal/pagination"
	"valuefolio/internal/testutil"
)

func validHoldingInput() HoldingInput {
	return HoldingInput{
		Symbol:       "aapl",
		CompanyName:  "Apple Inc.",
		Market:       models.MarketNASDAQ,
		Quantity:     10,
		BuyPrice:     150,
		Commission:   1.5,
		PurchaseDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateHolding(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHoldingService(db)
		user := testutil.CreateTestUser(t, db)

		holding, err := svc.CreateHolding(user.ID, validHoldingInput())
		testutil.AssertNoError(t, err)

		if holding.ID == 0 {
			t.Fatal("expected non-zero holding ID")
		}
		if holding.Symbol != "AAPL" {
			t.Errorf("expected uppercased symbol, got %s", holding.Symbol)
		}
		if holding.Currency != "USD" {
			t.Errorf("expected default currency USD, got %s", holding.Currency)
		}
		if holding.CurrentPrice != nil {
			t.Error("expected no current price before any quote")
		}
	})

	t.Run("set_market_defaults_thb", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHoldingService(db)
		user := testutil.CreateTestUser(t, db)

		input := validHoldingInput()
		input.Symbol = "PTT"
		input.Market = models.MarketSET
		holding, err := svc.CreateHolding(user.ID, input)
		testutil.AssertNoError(t, err)

		if holding.Currency != "THB" {
			t.Errorf("expected default currency THB for SET, got %s", holding.Currency)
		}
		if holding.QuoteSymbol() != "PTT.BK" {
			t.Errorf("expected quote symbol PTT.BK, got %s", holding.QuoteSymbol())
		}
	})

	t.Run("invalid_input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHoldingService(db)
		user := testutil.CreateTestUser(t, db)

		cases := []func(*HoldingInput){
			func(i *HoldingInput) { i.Symbol = "" },
			func(i *HoldingInput) { i.Quantity = 0 },
			func(i *HoldingInput) { i.Quantity = -5 },
			func(i *HoldingInput) { i.BuyPrice = 0 },
			func(i *HoldingInput) { i.Commission = -1 },
			func(i *HoldingInput) { i.DividendReceived = -1 },
		}
		for _, mutate := range cases {
			input := validHoldingInput()
			mutate(&input)
			_, err := svc.CreateHolding(user.ID, input)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}
	})
}

func TestGetHoldingByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewHoldingService(db)
	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	holding := testutil.CreateTestHolding(t, db, owner.ID, "MSFT")

	found, err := svc.GetHoldingByID(owner.ID, holding.ID)
	testutil.AssertNoError(t, err)
	if found.Symbol != "MSFT" {
		t.Errorf("expected MSFT, got %s", found.Symbol)
	}

	// Another user's lots are invisible, not forbidden.
	_, err = svc.GetHoldingByID(other.ID, holding.ID)
	testutil.AssertAppError(t, err, "HOLDING_NOT_FOUND")
}

func TestUpdateHolding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewHoldingService(db)
	user := testutil.CreateTestUser(t, db)

	holding := testutil.CreateTestHolding(t, db, user.ID, "NVDA")

	input := validHoldingInput()
	input.Symbol = "NVDA"
	input.Quantity = 25
	input.DividendReceived = 12.5
	updated, err := svc.UpdateHolding(user.ID, holding.ID, input)
	testutil.AssertNoError(t, err)

	if updated.Quantity != 25 {
		t.Errorf("expected quantity 25, got %v", updated.Quantity)
	}
	if updated.DividendReceived != 12.5 {
		t.Errorf("expected dividends 12.5, got %v", updated.DividendReceived)
	}
}

func TestDeleteHolding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewHoldingService(db)
	user := testutil.CreateTestUser(t, db)

	holding := testutil.CreateTestHolding(t, db, user.ID, "TSLA")

	testutil.AssertNoError(t, svc.DeleteHolding(user.ID, holding.ID))

	_, err := svc.GetHoldingByID(user.ID, holding.ID)
	testutil.AssertAppError(t, err, "HOLDING_NOT_FOUND")
}

func TestGetUserHoldingsPage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewHoldingService(db)
	user := testutil.CreateTestUser(t, db)

	for i := 0; i < 25; i++ {
		testutil.CreateTestHolding(t, db, user.ID, "AAPL")
	}

	page, err := svc.GetUserHoldingsPage(user.ID, pagination.PageRequest{Page: 2, PageSize: 10})
	testutil.AssertNoError(t, err)

	if page.TotalItems != 25 {
		t.Errorf("expected 25 total, got %d", page.TotalItems)
	}
	if page.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", page.TotalPages)
	}
	if len(page.Data) != 10 {
		t.Errorf("expected 10 items on page 2, got %d", len(page.Data))
	}
}

func TestWriteBackPrices(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewHoldingService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestHolding(t, db, user.ID, "AAPL")
	testutil.CreateTestHolding(t, db, user.ID, "AAPL")
	testutil.CreateTestHolding(t, db, user.ID, "MSFT")

	updated, err := svc.WriteBackPrices(user.ID, map[string]float64{"AAPL": 187.3, "BOGUS": -1})
	testutil.AssertNoError(t, err)

	if updated != 2 {
		t.Errorf("expected 2 lots updated, got %d", updated)
	}

	holdings, err := svc.GetUserHoldings(user.ID)
	testutil.AssertNoError(t, err)
	for _, h := range holdings {
		switch h.Symbol {
		case "AAPL":
			if h.CurrentPrice == nil || *h.CurrentPrice != 187.3 {
				t.Errorf("expected AAPL price 187.3, got %v", h.CurrentPrice)
			}
		case "MSFT":
			if h.CurrentPrice != nil {
				t.Errorf("expected MSFT price untouched, got %v", h.CurrentPrice)
			}
		}
	}
}
