package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "valuefolio/internal/errors"
	"valuefolio/internal/models"
	"valuefolio/internal/pagination"
	"valuefolio/internal/services"
)

// HoldingHandler handles purchase-lot requests
type HoldingHandler struct {
	holdingService services.HoldingServicer
}

// NewHoldingHandler creates a new HoldingHandler
func NewHoldingHandler(holdingService services.HoldingServicer) *HoldingHandler {
	return &HoldingHandler{holdingService: holdingService}
}

// HoldingRequest represents the create/update payload for a purchase lot
type HoldingRequest struct {
	Symbol                  string   `json:"symbol" binding:"required,symbol"`
	CompanyName             string   `json:"company_name" binding:"max=255"`
	Market                  string   `json:"market" binding:"omitempty,market"`
	Quantity                float64  `json:"quantity" binding:"required,gt=0"`
	BuyPrice                float64  `json:"buy_price" binding:"required,gt=0"`
	Commission              float64  `json:"commission" binding:"gte=0"`
	Currency                string   `json:"currency" binding:"omitempty,currency"`
	PurchaseDate            string   `json:"purchase_date" binding:"omitempty,datetime=2006-01-02"`
	DividendReceived        float64  `json:"dividend_received" binding:"gte=0"`
	DividendYieldAtPurchase *float64 `json:"dividend_yield_at_purchase" binding:"omitempty,gte=0"`
	Notes                   string   `json:"notes" binding:"max=1000"`
}

func (r *HoldingRequest) toInput() (services.HoldingInput, error) {
	input := services.HoldingInput{
		Symbol:                  r.Symbol,
		CompanyName:             r.CompanyName,
		Market:                  models.Market(r.Market),
		Quantity:                r.Quantity,
		BuyPrice:                r.BuyPrice,
		Commission:              r.Commission,
		Currency:                r.Currency,
		DividendReceived:        r.DividendReceived,
		DividendYieldAtPurchase: r.DividendYieldAtPurchase,
		Notes:                   r.Notes,
	}
	if r.PurchaseDate != "" {
		date, err := time.Parse("2006-01-02", r.PurchaseDate)
		if err != nil {
			return input, apperrors.WithMessage(apperrors.ErrInvalidInput, "purchase_date must be YYYY-MM-DD")
		}
		input.PurchaseDate = date
	}
	return input, nil
}

// CreateHolding records a new purchase lot
// @Summary     Create a holding
// @Description Record a new purchase lot for the authenticated user
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body HoldingRequest true "Holding data"
// @Success     201 {object} models.Holding "Holding created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /holdings [post]
func (h *HoldingHandler) CreateHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req HoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.holdingService.CreateHolding(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, holding)
}

// GetUserHoldings lists the user's purchase lots
// @Summary     List holdings
// @Description Get a paginated list of the authenticated user's purchase lots
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number (default 1)"
// @Param       page_size query int false "Page size (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Holding] "Paginated holdings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /holdings [get]
func (h *HoldingHandler) GetUserHoldings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.holdingService.GetUserHoldingsPage(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetHoldingByID returns a single purchase lot
// @Summary     Get a holding
// @Description Get one purchase lot by ID
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Holding ID"
// @Success     200 {object} models.Holding "Holding"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /holdings/{id} [get]
func (h *HoldingHandler) GetHoldingByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.holdingService.GetHoldingByID(userID, holdingID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, holding)
}

// UpdateHolding edits a purchase lot
// @Summary     Update a holding
// @Description Apply a user edit to a purchase lot
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Holding ID"
// @Param       request body HoldingRequest true "Holding data"
// @Success     200 {object} models.Holding "Holding updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /holdings/{id} [put]
func (h *HoldingHandler) UpdateHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req HoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.holdingService.UpdateHolding(userID, holdingID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, holding)
}

// DeleteHolding removes a purchase lot
// @Summary     Delete a holding
// @Description Delete one purchase lot by ID
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Holding ID"
// @Success     204 "Holding deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /holdings/{id} [delete]
func (h *HoldingHandler) DeleteHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.holdingService.DeleteHolding(userID, holdingID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
