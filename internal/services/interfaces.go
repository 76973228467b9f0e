// Package services contains the business logic between handlers and storage.
package services

import (
	"context"
	"time"

	"valuefolio/internal/dca"
	"valuefolio/internal/models"
	"valuefolio/internal/pagination"
	"valuefolio/internal/portfolio"
	"valuefolio/internal/scoring"
)

// UserServicer handles user registration and authentication lookups.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	RecordLogin(userID uint) error
}

// HoldingInput carries the user-editable fields of a purchase lot.
type HoldingInput struct {
	Symbol                  string
	CompanyName             string
	Market                  models.Market
	Quantity                float64
	BuyPrice                float64
	Commission              float64
	Currency                string
	PurchaseDate            time.Time
	DividendReceived        float64
	DividendYieldAtPurchase *float64
	Notes                   string
}

// HoldingServicer handles CRUD over purchase lots, always scoped by owner.
type HoldingServicer interface {
	CreateHolding(userID uint, input HoldingInput) (*models.Holding, error)
	GetUserHoldings(userID uint) ([]models.Holding, error)
	GetUserHoldingsPage(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Holding], error)
	GetHoldingByID(userID, holdingID uint) (*models.Holding, error)
	UpdateHolding(userID, holdingID uint, input HoldingInput) (*models.Holding, error)
	DeleteHolding(userID, holdingID uint) error
	WriteBackPrices(userID uint, prices map[string]float64) (int, error)
}

// PortfolioServicer derives portfolio views from the live set of holdings.
type PortfolioServicer interface {
	GetSnapshot(ctx context.Context, userID uint) (*portfolio.Snapshot, error)
	RefreshPrices(ctx context.Context, userID uint) (int, error)
}

// SymbolFailure reports one symbol that failed inside a batch operation.
type SymbolFailure struct {
	Symbol string `json:"symbol"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// BatchAnalysisResult carries the partial-success outcome of a batch run:
// failed symbols never discard the snapshots of the ones that succeeded.
type BatchAnalysisResult struct {
	Results  []models.AnalysisSnapshot `json:"results"`
	Failures []SymbolFailure           `json:"failures"`
}

// AnalysisServicer runs fundamentals scoring and reads back dated snapshots.
type AnalysisServicer interface {
	RunForSymbol(ctx context.Context, userID uint, symbol, strategy string) (*models.AnalysisSnapshot, error)
	RunAll(ctx context.Context, userID uint, strategy string) (*BatchAnalysisResult, error)
	LatestForUser(userID uint) ([]models.AnalysisSnapshot, error)
	History(userID uint, symbol string) ([]models.AnalysisSnapshot, error)
}

// WeightProfileServicer manages named scoring weight sets.
type WeightProfileServicer interface {
	Create(userID uint, name string, weights scoring.Weights, isDefault bool) (*models.WeightProfile, error)
	List(userID uint) ([]models.WeightProfile, error)
	GetByID(userID, profileID uint) (*models.WeightProfile, error)
	Update(userID, profileID uint, name string, weights scoring.Weights) (*models.WeightProfile, error)
	Delete(userID, profileID uint) error
	SetDefault(userID, profileID uint) (*models.WeightProfile, error)
	ActiveWeights(userID uint) (scoring.Weights, string)
	Presets() []scoring.Preset
}

// SimulationInput describes one DCA simulation request. Either Symbol or
// CurrentPrice must be set; an explicit price skips the quote lookup.
type SimulationInput struct {
	Symbol         string
	Market         models.Market
	CurrentPrice   float64
	Contribution   float64
	Frequency      dca.Frequency
	DurationMonths int
	DividendYield  *float64
}

// SimulationOutcome pairs the simulator result with the inputs it resolved.
type SimulationOutcome struct {
	Symbol        string     `json:"symbol,omitempty"`
	CurrentPrice  float64    `json:"current_price"`
	Currency      string     `json:"currency,omitempty"`
	DividendYield float64    `json:"dividend_yield"`
	Result        dca.Result `json:"result"`
}

// SimulationServicer resolves quote inputs and runs the DCA simulator.
type SimulationServicer interface {
	Simulate(ctx context.Context, input SimulationInput) (*SimulationOutcome, error)
}
