package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "valuefolio/internal/errors"
	"valuefolio/internal/models"
	"valuefolio/internal/pagination"
)

// holdingService handles purchase-lot business logic.
type holdingService struct {
	db *gorm.DB
}

// NewHoldingService creates a new HoldingServicer.
func NewHoldingService(db *gorm.DB) HoldingServicer {
	return &holdingService{db: db}
}

// validateInput enforces the structural invariants of a lot: positive
// quantity and buy price, non-negative commission and dividends.
func validateInput(input *HoldingInput) error {
	if input.Symbol == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required")
	}
	if input.Quantity <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
	}
	if input.BuyPrice <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "buy price must be positive")
	}
	if input.Commission < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "commission must not be negative")
	}
	if input.DividendReceived < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "dividend received must not be negative")
	}
	input.Symbol = strings.ToUpper(input.Symbol)
	if input.Market == "" {
		input.Market = models.MarketNYSE
	}
	if input.Currency == "" {
		if input.Market == models.MarketSET {
			input.Currency = "THB"
		} else {
			input.Currency = "USD"
		}
	}
	if input.PurchaseDate.IsZero() {
		input.PurchaseDate = time.Now()
	}
	return nil
}

// CreateHolding records a new purchase lot for the user.
func (s *holdingService) CreateHolding(userID uint, input HoldingInput) (*models.Holding, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	holding := &models.Holding{
		UserID:                  userID,
		Symbol:                  input.Symbol,
		CompanyName:             input.CompanyName,
		Market:                  input.Market,
		Quantity:                input.Quantity,
		BuyPrice:                input.BuyPrice,
		Commission:              input.Commission,
		Currency:                input.Currency,
		PurchaseDate:            input.PurchaseDate,
		DividendReceived:        input.DividendReceived,
		DividendYieldAtPurchase: input.DividendYieldAtPurchase,
		Notes:                   input.Notes,
	}

	if err := s.db.Create(holding).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holding, nil
}

// GetUserHoldings returns every lot the user owns, newest purchase first.
func (s *holdingService) GetUserHoldings(userID uint) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.db.Where("user_id = ?", userID).
		Order("purchase_date DESC").Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holdings, nil
}

// GetUserHoldingsPage retrieves a paginated list of the user's lots, newest
// purchase first.
func (s *holdingService) GetUserHoldingsPage(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Holding], error) {
	page.Defaults()

	base := s.db.Model(&models.Holding{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var holdings []models.Holding
	if err := base.Scopes(pagination.Paginate(page)).
		Order("purchase_date DESC").
		Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(holdings, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetHoldingByID returns a lot if it belongs to the user.
func (s *holdingService) GetHoldingByID(userID, holdingID uint) (*models.Holding, error) {
	var holding models.Holding
	if err := s.db.Where("id = ? AND user_id = ?", holdingID, userID).
		First(&holding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &holding, nil
}

// UpdateHolding applies an explicit user edit to a lot. This is the only
// path that mutates a lot's cost basis after creation.
func (s *holdingService) UpdateHolding(userID, holdingID uint, input HoldingInput) (*models.Holding, error) {
	holding, err := s.GetHoldingByID(userID, holdingID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"symbol":                     input.Symbol,
		"company_name":               input.CompanyName,
		"market":                     input.Market,
		"quantity":                   input.Quantity,
		"buy_price":                  input.BuyPrice,
		"commission":                 input.Commission,
		"currency":                   input.Currency,
		"purchase_date":              input.PurchaseDate,
		"dividend_received":          input.DividendReceived,
		"dividend_yield_at_purchase": input.DividendYieldAtPurchase,
		"notes":                      input.Notes,
	}
	if err := s.db.Model(holding).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holding, nil
}

// DeleteHolding removes a lot the user owns.
func (s *holdingService) DeleteHolding(userID, holdingID uint) error {
	holding, err := s.GetHoldingByID(userID, holdingID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(holding).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// WriteBackPrices stores fresh quote prices onto every lot of the quoted
// symbols. Symbols absent from the map keep their last known price. Returns
// the number of lots updated.
func (s *holdingService) WriteBackPrices(userID uint, prices map[string]float64) (int, error) {
	updated := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for symbol, price := range prices {
			if price <= 0 {
				continue
			}
			res := tx.Model(&models.Holding{}).
				Where("user_id = ? AND symbol = ?", userID, symbol).
				Update("current_price", price)
			if res.Error != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
			}
			updated += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
