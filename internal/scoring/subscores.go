package scoring

// SubScores holds the eleven per-factor ratings, scale 1-5, higher is better.
type SubScores struct {
	ROE             int `json:"roe_score"`
	DebtEquity      int `json:"debt_equity_score"`
	NetProfitMargin int `json:"net_profit_margin_score"`
	FreeCashFlow    int `json:"free_cash_flow_score"`
	EPSGrowth       int `json:"eps_growth_score"`
	OperatingMargin int `json:"operating_margin_score"`
	CurrentRatio    int `json:"current_ratio_score"`
	ShareDilution   int `json:"share_dilution_score"`
	ROA             int `json:"roa_score"`
	Moat            int `json:"moat_score"`
	Management      int `json:"management_score"`
}

// Sum returns the raw total on the 11-55 scale.
func (s SubScores) Sum() int {
	return s.ROE + s.DebtEquity + s.NetProfitMargin + s.FreeCashFlow +
		s.EPSGrowth + s.OperatingMargin + s.CurrentRatio + s.ShareDilution +
		s.ROA + s.Moat + s.Management
}

// thresholds holds descending bracket boundaries for one factor: value >=
// Score5 rates 5, >= Score4 rates 4, and so on down to the implicit 1.
type thresholds struct {
	Score5, Score4, Score3, Score2 float64
}

// rate maps a value onto the 1-5 scale using greater-or-equal brackets.
func (t thresholds) rate(v float64) int {
	switch {
	case v >= t.Score5:
		return 5
	case v >= t.Score4:
		return 4
	case v >= t.Score3:
		return 3
	case v >= t.Score2:
		return 2
	default:
		return 1
	}
}

// rateInverse maps a value where lower is better (debt/equity) using
// less-or-equal brackets.
func (t thresholds) rateInverse(v float64) int {
	switch {
	case v <= t.Score5:
		return 5
	case v <= t.Score4:
		return 4
	case v <= t.Score3:
		return 3
	case v <= t.Score2:
		return 2
	default:
		return 1
	}
}

// factorThresholds is one strategy's bracket table. The fixed-weight and
// user-weighted tables differ for ROE, the margins, and ROA; both are kept
// as independently specified rather than unified.
type factorThresholds struct {
	ROE             thresholds
	DebtEquity      thresholds
	NetProfitMargin thresholds
	EPSGrowth       thresholds
	OperatingMargin thresholds
	CurrentRatio    thresholds
	ROA             thresholds
}

var fixedWeightThresholds = factorThresholds{
	ROE:             thresholds{20, 17.5, 15, 10},
	DebtEquity:      thresholds{0.3, 0.5, 1, 1.5},
	NetProfitMargin: thresholds{20, 17.5, 15, 10},
	EPSGrowth:       thresholds{15, 10, 5, 0},
	OperatingMargin: thresholds{25, 22.5, 20, 15},
	CurrentRatio:    thresholds{2.5, 2, 1.5, 1},
	ROA:             thresholds{12, 9, 7, 4},
}

var userWeightedThresholds = factorThresholds{
	ROE:             thresholds{20, 15, 10, 5},
	DebtEquity:      thresholds{0.3, 0.5, 1, 1.5},
	NetProfitMargin: thresholds{20, 15, 10, 5},
	EPSGrowth:       thresholds{15, 10, 5, 0},
	OperatingMargin: thresholds{25, 20, 15, 10},
	CurrentRatio:    thresholds{2.5, 2, 1.5, 1},
	ROA:             thresholds{15, 10, 7, 3},
}

// rateFreeCashFlow scores free cash flow relative to revenue: above 10% of
// revenue rates 5, above 5% rates 4, any positive figure 3, better than -5%
// of revenue 2, else 1. Strictly-greater brackets, unlike the ratio factors.
func rateFreeCashFlow(fcf, revenue float64) int {
	switch {
	case fcf > 0.10*revenue:
		return 5
	case fcf > 0.05*revenue:
		return 4
	case fcf > 0:
		return 3
	case fcf > -0.05*revenue:
		return 2
	default:
		return 1
	}
}

// rateQualitative clamps an analyst-supplied 1-5 rating, substituting the
// neutral mid-scale 3 when no assessment exists.
func rateQualitative(v *int) int {
	if v == nil {
		return 3
	}
	switch {
	case *v < 1:
		return 1
	case *v > 5:
		return 5
	default:
		return *v
	}
}

// mapSubScores applies one threshold table to a ratio record.
func mapSubScores(r Ratios, t factorThresholds) SubScores {
	return SubScores{
		ROE:             t.ROE.rate(r.ROE),
		DebtEquity:      t.DebtEquity.rateInverse(r.DebtEquity),
		NetProfitMargin: t.NetProfitMargin.rate(r.NetProfitMargin),
		FreeCashFlow:    rateFreeCashFlow(r.FreeCashFlow, r.Revenue),
		EPSGrowth:       t.EPSGrowth.rate(r.EPSGrowth),
		OperatingMargin: t.OperatingMargin.rate(r.OperatingMargin),
		CurrentRatio:    t.CurrentRatio.rate(r.CurrentRatio),
		ShareDilution:   rateQualitative(r.ShareDilution),
		ROA:             t.ROA.rate(r.ROA),
		Moat:            rateQualitative(r.Moat),
		Management:      rateQualitative(r.Management),
	}
}
