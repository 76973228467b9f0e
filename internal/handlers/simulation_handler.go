package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"valuefolio/internal/dca"
	apperrors "valuefolio/internal/errors"
	"valuefolio/internal/models"
	"valuefolio/internal/services"
)

// SimulationHandler handles DCA simulation requests
type SimulationHandler struct {
	simulationService services.SimulationServicer
}

// NewSimulationHandler creates a new SimulationHandler
func NewSimulationHandler(simulationService services.SimulationServicer) *SimulationHandler {
	return &SimulationHandler{simulationService: simulationService}
}

// DCASimulationRequest represents a simulation run. Either symbol or
// current_price must be provided; an explicit price skips the quote lookup.
type DCASimulationRequest struct {
	Symbol         string   `json:"symbol" binding:"omitempty,symbol"`
	Market         string   `json:"market" binding:"omitempty,market"`
	CurrentPrice   float64  `json:"current_price" binding:"omitempty,gt=0"`
	Contribution   float64  `json:"contribution" binding:"required,gt=0"`
	Frequency      string   `json:"frequency" binding:"omitempty,dca_frequency"`
	DurationMonths int      `json:"duration_months" binding:"required,gt=0,max=600"`
	DividendYield  *float64 `json:"dividend_yield" binding:"omitempty,gte=0"`
}

// SimulateDCA runs one dollar-cost-averaging simulation
// @Summary     Simulate a DCA strategy
// @Description Project a periodic-investment outcome against a synthetic price path; nothing is persisted
// @Tags        simulations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body DCASimulationRequest true "Simulation parameters"
// @Success     200 {object} services.SimulationOutcome "Simulation outcome"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Quote unavailable"
// @Router      /simulations/dca [post]
func (h *SimulationHandler) SimulateDCA(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req DCASimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	outcome, err := h.simulationService.Simulate(c.Request.Context(), services.SimulationInput{
		Symbol:         req.Symbol,
		Market:         models.Market(req.Market),
		CurrentPrice:   req.CurrentPrice,
		Contribution:   req.Contribution,
		Frequency:      dca.Frequency(req.Frequency),
		DurationMonths: req.DurationMonths,
		DividendYield:  req.DividendYield,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}
