package models

import "time"

// Market identifies the exchange a holding trades on.
type Market string

const (
	MarketSET    Market = "SET"
	MarketNYSE   Market = "NYSE"
	MarketNASDAQ Market = "NASDAQ"
)

// Holding represents one purchase lot of a symbol. Several lots of the same
// symbol may exist; aggregation happens at read time, never in storage.
type Holding struct {
	Base
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Symbol       string    `gorm:"not null;index" json:"symbol"`
	CompanyName  string    `json:"company_name"`
	Market       Market    `gorm:"not null;default:'NYSE'" json:"market"`
	Quantity     float64   `gorm:"not null" json:"quantity"`
	BuyPrice     float64   `gorm:"not null" json:"buy_price"`
	Commission   float64   `gorm:"not null;default:0" json:"commission"`
	Currency     string    `gorm:"not null;default:'USD'" json:"currency"`
	PurchaseDate time.Time `gorm:"not null" json:"purchase_date"`

	// CurrentPrice is written back by the price-refresh job or a manual
	// refresh. Nil means no quote has ever arrived; valuation then falls
	// back to BuyPrice.
	CurrentPrice *float64 `json:"current_price"`

	DividendReceived        float64  `gorm:"not null;default:0" json:"dividend_received"`
	DividendYieldAtPurchase *float64 `json:"dividend_yield_at_purchase,omitempty"`
	Notes                   string   `json:"notes"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// QuoteSymbol returns the provider-qualified symbol: SET-listed symbols
// carry a ".BK" suffix upstream.
func (h *Holding) QuoteSymbol() string {
	if h.Market == MarketSET && len(h.Symbol) > 0 && !hasBKSuffix(h.Symbol) {
		return h.Symbol + ".BK"
	}
	return h.Symbol
}

func hasBKSuffix(symbol string) bool {
	const suffix = ".BK"
	return len(symbol) >= len(suffix) && symbol[len(symbol)-len(suffix):] == suffix
}
