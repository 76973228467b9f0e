package models

import (
	"time"

	"valuefolio/internal/uuid"

	"gorm.io/gorm"
)

// Recommendation is the discrete outcome of a fundamentals analysis.
type Recommendation string

const (
	RecommendationAccumulate Recommendation = "DCA_MORE"
	RecommendationHold       Recommendation = "HOLD"
	RecommendationReduce     Recommendation = "REDUCE_SELL"
)

// AnalysisSnapshot is one dated scoring run for a symbol. Snapshots are
// append-only time-series data: no Base embed, no soft deletes. Later runs
// supersede earlier ones; the latest record per symbol is authoritative.
type AnalysisSnapshot struct {
	ID             string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Symbol         string         `gorm:"not null;index:idx_analysis_symbol_date" json:"symbol"`
	AnalysisDate   time.Time      `gorm:"not null;index:idx_analysis_symbol_date" json:"analysis_date"`
	Strategy       string         `gorm:"not null" json:"strategy"`
	TotalScore     int            `gorm:"not null" json:"total_score"`
	Recommendation Recommendation `gorm:"not null" json:"recommendation"`

	// Per-factor sub-scores, scale 1-5.
	ROEScore             int `gorm:"not null" json:"roe_score"`
	DebtEquityScore      int `gorm:"not null" json:"debt_equity_score"`
	NetProfitMarginScore int `gorm:"not null" json:"net_profit_margin_score"`
	FreeCashFlowScore    int `gorm:"not null" json:"free_cash_flow_score"`
	EPSGrowthScore       int `gorm:"not null" json:"eps_growth_score"`
	OperatingMarginScore int `gorm:"not null" json:"operating_margin_score"`
	CurrentRatioScore    int `gorm:"not null" json:"current_ratio_score"`
	ShareDilutionScore   int `gorm:"not null" json:"share_dilution_score"`
	ROAScore             int `gorm:"not null" json:"roa_score"`
	MoatScore            int `gorm:"not null" json:"moat_score"`
	ManagementScore      int `gorm:"not null" json:"management_score"`

	// Raw ratio values the run was scored from, for display alongside the
	// sub-scores.
	ROEPercentage   float64  `json:"roe_percentage"`
	DebtEquityRatio float64  `json:"debt_equity_ratio"`
	NetProfitMargin float64  `json:"net_profit_margin"`
	FreeCashFlow    float64  `json:"free_cash_flow"`
	Revenue         float64  `json:"revenue"`
	EPSGrowth       float64  `json:"eps_growth"`
	OperatingMargin float64  `json:"operating_margin"`
	CurrentRatio    float64  `json:"current_ratio"`
	ROAPercentage   float64  `json:"roa_percentage"`
	CurrentPrice    *float64 `json:"current_price,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records.
func (a *AnalysisSnapshot) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New()
	}
	return nil
}
