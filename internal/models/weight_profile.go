package models

// WeightProfile is a named set of per-factor weights for the user-weighted
// scoring strategy. At most one profile per user may be the default;
// promoting a profile demotes the previous default.
type WeightProfile struct {
	Base
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	Name      string `gorm:"not null" json:"name"`
	IsDefault bool   `gorm:"not null;default:false" json:"is_default"`

	WeightROE             float64 `gorm:"not null" json:"weight_roe"`
	WeightDebtEquity      float64 `gorm:"not null" json:"weight_debt_equity"`
	WeightNetProfitMargin float64 `gorm:"not null" json:"weight_net_profit_margin"`
	WeightFreeCashFlow    float64 `gorm:"not null" json:"weight_free_cash_flow"`
	WeightEPSGrowth       float64 `gorm:"not null" json:"weight_eps_growth"`
	WeightOperatingMargin float64 `gorm:"not null" json:"weight_operating_margin"`
	WeightCurrentRatio    float64 `gorm:"not null" json:"weight_current_ratio"`
	WeightShareDilution   float64 `gorm:"not null" json:"weight_share_dilution"`
	WeightROA             float64 `gorm:"not null" json:"weight_roa"`
	WeightMoat            float64 `gorm:"not null" json:"weight_moat"`
	WeightManagement      float64 `gorm:"not null" json:"weight_management"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
