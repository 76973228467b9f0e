package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "valuefolio/internal/errors"
	"valuefolio/internal/scoring"
	"valuefolio/internal/services"
)

// WeightProfileHandler handles scoring weight profile requests
type WeightProfileHandler struct {
	profileService services.WeightProfileServicer
}

// NewWeightProfileHandler creates a new WeightProfileHandler
func NewWeightProfileHandler(profileService services.WeightProfileServicer) *WeightProfileHandler {
	return &WeightProfileHandler{profileService: profileService}
}

// WeightsPayload represents the eleven per-factor weights
type WeightsPayload struct {
	ROE             float64 `json:"roe" binding:"gte=0"`
	DebtEquity      float64 `json:"debt_equity" binding:"gte=0"`
	NetProfitMargin float64 `json:"net_profit_margin" binding:"gte=0"`
	FreeCashFlow    float64 `json:"free_cash_flow" binding:"gte=0"`
	EPSGrowth       float64 `json:"eps_growth" binding:"gte=0"`
	OperatingMargin float64 `json:"operating_margin" binding:"gte=0"`
	CurrentRatio    float64 `json:"current_ratio" binding:"gte=0"`
	ShareDilution   float64 `json:"share_dilution" binding:"gte=0"`
	ROA             float64 `json:"roa" binding:"gte=0"`
	Moat            float64 `json:"moat" binding:"gte=0"`
	Management      float64 `json:"management" binding:"gte=0"`
}

func (w WeightsPayload) toWeights() scoring.Weights {
	return scoring.Weights{
		ROE:             w.ROE,
		DebtEquity:      w.DebtEquity,
		NetProfitMargin: w.NetProfitMargin,
		FreeCashFlow:    w.FreeCashFlow,
		EPSGrowth:       w.EPSGrowth,
		OperatingMargin: w.OperatingMargin,
		CurrentRatio:    w.CurrentRatio,
		ShareDilution:   w.ShareDilution,
		ROA:             w.ROA,
		Moat:            w.Moat,
		Management:      w.Management,
	}
}

// WeightProfileRequest represents the create/update payload for a profile
type WeightProfileRequest struct {
	Name      string         `json:"name" binding:"required,max=100"`
	IsDefault bool           `json:"is_default"`
	Weights   WeightsPayload `json:"weights" binding:"required"`
}

// CreateProfile stores a new weight profile
// @Summary     Create a weight profile
// @Description Store a named weight set for the user-weighted scoring strategy
// @Tags        weight-profiles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body WeightProfileRequest true "Profile data"
// @Success     201 {object} models.WeightProfile "Profile created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate profile name"
// @Router      /weight-profiles [post]
func (h *WeightProfileHandler) CreateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req WeightProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.profileService.Create(userID, req.Name, req.Weights.toWeights(), req.IsDefault)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// GetUserProfiles lists the user's weight profiles
// @Summary     List weight profiles
// @Description Get the user's stored weight profiles, default first
// @Tags        weight-profiles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.WeightProfile "Profiles"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /weight-profiles [get]
func (h *WeightProfileHandler) GetUserProfiles(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profiles, err := h.profileService.List(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// GetProfileByID returns one weight profile
// @Summary     Get a weight profile
// @Description Get one weight profile by ID
// @Tags        weight-profiles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Profile ID"
// @Success     200 {object} models.WeightProfile "Profile"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Profile not found"
// @Router      /weight-profiles/{id} [get]
func (h *WeightProfileHandler) GetProfileByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profileID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.profileService.GetByID(userID, profileID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile renames a profile and replaces its weights
// @Summary     Update a weight profile
// @Description Rename a profile and replace its weight set
// @Tags        weight-profiles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Profile ID"
// @Param       request body WeightProfileRequest true "Profile data"
// @Success     200 {object} models.WeightProfile "Profile updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Profile not found"
// @Failure     409 {object} ErrorResponse "Duplicate profile name"
// @Router      /weight-profiles/{id} [put]
func (h *WeightProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profileID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req WeightProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.profileService.Update(userID, profileID, req.Name, req.Weights.toWeights())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DeleteProfile removes a weight profile
// @Summary     Delete a weight profile
// @Description Delete a profile; scoring falls back to the built-in weights if it was the default
// @Tags        weight-profiles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Profile ID"
// @Success     204 "Profile deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Profile not found"
// @Router      /weight-profiles/{id} [delete]
func (h *WeightProfileHandler) DeleteProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profileID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.profileService.Delete(userID, profileID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetDefaultProfile promotes a profile to the user's default
// @Summary     Set default weight profile
// @Description Promote a profile to be the default used by the user-weighted strategy
// @Tags        weight-profiles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Profile ID"
// @Success     200 {object} models.WeightProfile "Profile promoted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Profile not found"
// @Router      /weight-profiles/{id}/default [put]
func (h *WeightProfileHandler) SetDefaultProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profileID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.profileService.SetDefault(userID, profileID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetPresets lists the built-in weight profiles
// @Summary     List weight presets
// @Description Get the built-in weight profiles that can seed a custom one
// @Tags        weight-profiles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} scoring.Preset "Presets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /weight-profiles/presets [get]
func (h *WeightProfileHandler) GetPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": h.profileService.Presets()})
}
