package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	apperrors "valuefolio/internal/errors"
	"valuefolio/internal/logger"
	"valuefolio/internal/scoring"
)

const (
	quoteBatchSize  = 50
	requestTimeout  = 20 * time.Second
	defaultCacheTTL = 5 * time.Minute
)

// Client is an HTTP Provider for a Yahoo-Finance-compatible API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *gocache.Cache
	limiter    *rate.Limiter
}

// NewClient creates a Client for the given base URL. cacheTTL <= 0 falls
// back to the 5-minute default.
func NewClient(baseURL string, cacheTTL time.Duration) *Client {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		cache:      gocache.New(cacheTTL, 2*cacheTTL),
		// Yahoo throttles aggressively; 2 req/s with small bursts stays
		// well under its limits.
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string  `json:"symbol"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			Currency                   string  `json:"currency"`
			TrailingAnnualDividendYield float64 `json:"trailingAnnualDividendYield"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"quoteResponse"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData struct {
				ReturnOnEquity   rawValue `json:"returnOnEquity"`
				ReturnOnAssets   rawValue `json:"returnOnAssets"`
				DebtToEquity     rawValue `json:"debtToEquity"`
				ProfitMargins    rawValue `json:"profitMargins"`
				OperatingMargins rawValue `json:"operatingMargins"`
				CurrentRatio     rawValue `json:"currentRatio"`
				FreeCashflow     rawValue `json:"freeCashflow"`
				TotalRevenue     rawValue `json:"totalRevenue"`
				EarningsGrowth   rawValue `json:"earningsGrowth"`
			} `json:"financialData"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"quoteSummary"`
}

// rawValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapper.
type rawValue struct {
	Raw float64 `json:"raw"`
}

// GetQuotes fetches quotes for the given symbols, serving from cache where
// possible and batching the remainder into one upstream call per
// quoteBatchSize symbols. Symbols the provider does not know are absent from
// the returned map.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	result := make(map[string]Quote, len(symbols))

	var misses []string
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		if cached, ok := c.cache.Get(quoteKey(s)); ok {
			result[s] = cached.(Quote)
			continue
		}
		misses = append(misses, s)
	}

	for start := 0; start < len(misses); start += quoteBatchSize {
		end := start + quoteBatchSize
		if end > len(misses) {
			end = len(misses)
		}
		if err := c.fetchQuoteBatch(ctx, misses[start:end], result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (c *Client) fetchQuoteBatch(ctx context.Context, symbols []string, out map[string]Quote) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}

	endpoint := fmt.Sprintf("%s/v7/finance/quote?symbols=%s",
		c.baseURL, url.QueryEscape(strings.Join(symbols, ",")))

	var parsed quoteResponse
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return err
	}

	for _, r := range parsed.QuoteResponse.Result {
		if r.Symbol == "" || r.RegularMarketPrice <= 0 {
			continue
		}
		q := Quote{
			Symbol:        r.Symbol,
			Price:         r.RegularMarketPrice,
			Currency:      r.Currency,
			DividendYield: r.TrailingAnnualDividendYield * 100,
		}
		out[r.Symbol] = q
		c.cache.SetDefault(quoteKey(r.Symbol), q)
	}
	return nil
}

// GetRatios fetches the fundamentals record for one symbol. A symbol the
// provider has no fundamentals for yields ErrDataUnavailable.
func (c *Client) GetRatios(ctx context.Context, symbol string) (*scoring.Ratios, error) {
	if cached, ok := c.cache.Get(ratiosKey(symbol)); ok {
		r := cached.(scoring.Ratios)
		return &r, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}

	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=financialData",
		c.baseURL, url.PathEscape(symbol))

	var parsed quoteSummaryResponse
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.QuoteSummary.Result) == 0 {
		logger.Get().Infow("no fundamentals for symbol", "symbol", symbol)
		return nil, apperrors.ErrDataUnavailable
	}

	fd := parsed.QuoteSummary.Result[0].FinancialData
	// Yahoo reports margins and returns as fractions; scoring expects
	// percents.
	ratios := scoring.Ratios{
		ROE:             fd.ReturnOnEquity.Raw * 100,
		ROA:             fd.ReturnOnAssets.Raw * 100,
		DebtEquity:      DebtToEquityRatio(fd.DebtToEquity.Raw),
		NetProfitMargin: fd.ProfitMargins.Raw * 100,
		OperatingMargin: fd.OperatingMargins.Raw * 100,
		CurrentRatio:    fd.CurrentRatio.Raw,
		FreeCashFlow:    fd.FreeCashflow.Raw,
		Revenue:         fd.TotalRevenue.Raw,
		EPSGrowth:       fd.EarningsGrowth.Raw * 100,
	}

	c.cache.SetDefault(ratiosKey(symbol), ratios)
	return &ratios, nil
}

// DebtToEquityRatio normalizes Yahoo's debt/equity figure, which arrives as
// a percentage (e.g. 150 for 1.5x) on some listings and a plain ratio on
// others. Values above 10 are treated as percentages.
func DebtToEquityRatio(v float64) float64 {
	if v > 10 {
		return v / 100
	}
	return v
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; valuefolio/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.ErrDataUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return apperrors.Wrap(apperrors.ErrDataUnavailable,
			fmt.Errorf("market data responded %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return apperrors.Wrap(apperrors.ErrDataUnavailable, err)
	}
	return nil
}

func quoteKey(symbol string) string  { return "quote:" + symbol }
func ratiosKey(symbol string) string { return "ratios:" + symbol }
