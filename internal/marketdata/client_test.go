package marketdata

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperrors "valuefolio/internal/errors"
)

func TestGetQuotes(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[
			{"symbol":"AAPL","regularMarketPrice":185.5,"currency":"USD","trailingAnnualDividendYield":0.0052},
			{"symbol":"PTT.BK","regularMarketPrice":34.25,"currency":"THB","trailingAnnualDividendYield":0.058}
		],"error":null}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Minute)

	quotes, err := client.GetQuotes(context.Background(), []string{"AAPL", "PTT.BK", "UNKNOWN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if quotes["AAPL"].Price != 185.5 || quotes["AAPL"].Currency != "USD" {
		t.Errorf("unexpected AAPL quote: %+v", quotes["AAPL"])
	}
	if math.Abs(quotes["AAPL"].DividendYield-0.52) > 1e-9 {
		t.Errorf("expected dividend yield 0.52%%, got %v", quotes["AAPL"].DividendYield)
	}
	if _, ok := quotes["UNKNOWN"]; ok {
		t.Error("unknown symbol should be omitted, not present")
	}

	// Second call is served entirely from cache.
	before := hits.Load()
	quotes, err = client.GetQuotes(context.Background(), []string{"AAPL", "PTT.BK"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 2 {
		t.Errorf("expected 2 cached quotes, got %d", len(quotes))
	}
	if hits.Load() != before {
		t.Errorf("expected cache hit, server saw %d extra requests", hits.Load()-before)
	}
}

func TestGetQuotesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Minute)

	_, err := client.GetQuotes(context.Background(), []string{"AAPL"})
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != "DATA_UNAVAILABLE" {
		t.Fatalf("expected DATA_UNAVAILABLE, got %v", err)
	}
}

func TestGetRatios(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[{"financialData":{
			"returnOnEquity":{"raw":0.254},
			"returnOnAssets":{"raw":0.112},
			"debtToEquity":{"raw":152.1},
			"profitMargins":{"raw":0.21},
			"operatingMargins":{"raw":0.27},
			"currentRatio":{"raw":1.8},
			"freeCashflow":{"raw":95000000000},
			"totalRevenue":{"raw":380000000000},
			"earningsGrowth":{"raw":0.08}
		}}],"error":null}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Minute)

	ratios, err := client.GetRatios(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(ratios.ROE-25.4) > 1e-9 {
		t.Errorf("expected ROE 25.4, got %v", ratios.ROE)
	}
	if math.Abs(ratios.DebtEquity-1.521) > 1e-9 {
		t.Errorf("expected debt/equity 1.521, got %v", ratios.DebtEquity)
	}
	if math.Abs(ratios.NetProfitMargin-21) > 1e-9 {
		t.Errorf("expected net margin 21, got %v", ratios.NetProfitMargin)
	}
	if math.Abs(ratios.EPSGrowth-8) > 1e-9 {
		t.Errorf("expected EPS growth 8, got %v", ratios.EPSGrowth)
	}
	if ratios.Revenue != 380000000000 || ratios.FreeCashFlow != 95000000000 {
		t.Errorf("unexpected absolute figures: %+v", ratios)
	}
}

func TestGetRatiosUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[],"error":null}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Minute)

	_, err := client.GetRatios(context.Background(), "NODATA")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != "DATA_UNAVAILABLE" {
		t.Fatalf("expected DATA_UNAVAILABLE, got %v", err)
	}
}

func TestDebtToEquityRatio(t *testing.T) {
	if got := DebtToEquityRatio(152.1); math.Abs(got-1.521) > 1e-9 {
		t.Errorf("expected 1.521, got %v", got)
	}
	if got := DebtToEquityRatio(0.8); got != 0.8 {
		t.Errorf("expected 0.8 unchanged, got %v", got)
	}
}
