package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "valuefolio/internal/errors"
	"valuefolio/internal/services"
)

// AnalysisHandler handles fundamentals-scoring requests
type AnalysisHandler struct {
	analysisService services.AnalysisServicer
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(analysisService services.AnalysisServicer) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// AnalysisRunRequest represents the run payload. Strategy defaults to the
// fixed-weight Buffett variant when omitted.
type AnalysisRunRequest struct {
	Strategy string `json:"strategy" binding:"omitempty,scoring_strategy"`
}

// GetLatestAnalyses returns the most recent snapshot per analyzed symbol
// @Summary     List latest analyses
// @Description Get the most recent analysis snapshot for every symbol the user has analyzed
// @Tags        analysis
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.AnalysisSnapshot "Latest snapshots"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analysis [get]
func (h *AnalysisHandler) GetLatestAnalyses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshots, err := h.analysisService.LatestForUser(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analyses": snapshots})
}

// RunAll scores every held symbol
// @Summary     Run analysis for all holdings
// @Description Score every distinct held symbol; failed symbols are reported without discarding successful runs
// @Tags        analysis
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AnalysisRunRequest false "Run options"
// @Success     200 {object} services.BatchAnalysisResult "Snapshots and per-symbol failures"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analysis/run [post]
func (h *AnalysisHandler) RunAll(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AnalysisRunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	result, err := h.analysisService.RunAll(c.Request.Context(), userID, req.Strategy)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RunForSymbol scores one held symbol
// @Summary     Run analysis for one symbol
// @Description Score a single held symbol and persist the snapshot
// @Tags        analysis
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       symbol path string true "Ticker symbol"
// @Param       request body AnalysisRunRequest false "Run options"
// @Success     201 {object} models.AnalysisSnapshot "Snapshot created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Symbol not held"
// @Failure     503 {object} ErrorResponse "Fundamentals unavailable"
// @Router      /analysis/run/{symbol} [post]
func (h *AnalysisHandler) RunForSymbol(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required"))
		return
	}

	var req AnalysisRunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	snapshot, err := h.analysisService.RunForSymbol(c.Request.Context(), userID, symbol, req.Strategy)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}

// GetHistory returns every snapshot for one symbol
// @Summary     Get analysis history
// @Description Get all analysis snapshots for a symbol, newest first
// @Tags        analysis
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       symbol path string true "Ticker symbol"
// @Success     200 {array} models.AnalysisSnapshot "Snapshots"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No analysis for symbol"
// @Router      /analysis/{symbol}/history [get]
func (h *AnalysisHandler) GetHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required"))
		return
	}

	snapshots, err := h.analysisService.History(userID, symbol)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": snapshots})
}
