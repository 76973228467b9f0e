// Package scoring maps fundamental financial ratios to per-factor sub-scores
// and a buy/hold/reduce recommendation. Two interchangeable strategies exist
// over the same eleven-factor shape: the fixed-weight Buffett variant, which
// sums raw sub-scores, and the user-weighted variant, which normalizes a
// weighted mean to a 0-100 scale. Both are pure: fresh inputs per call, no
// caching, no I/O.
package scoring

// Ratios is the normalized financial-ratio record one scoring run consumes.
// Percentages are expressed as percents (ROE 20 means 20%), not fractions.
// A missing upstream field arrives as its zero value and degrades the
// sub-score instead of failing the run.
type Ratios struct {
	ROE             float64 `json:"roe_percentage"`
	DebtEquity      float64 `json:"debt_equity_ratio"`
	NetProfitMargin float64 `json:"net_profit_margin"`
	FreeCashFlow    float64 `json:"free_cash_flow"`
	Revenue         float64 `json:"revenue"`
	EPSGrowth       float64 `json:"eps_growth"`
	OperatingMargin float64 `json:"operating_margin"`
	CurrentRatio    float64 `json:"current_ratio"`
	ROA             float64 `json:"roa_percentage"`

	// Qualitative factors on the 1-5 scale. Nil means no assessment exists
	// and the neutral mid-scale value 3 is used.
	ShareDilution *int `json:"share_dilution,omitempty"`
	Moat          *int `json:"moat,omitempty"`
	Management    *int `json:"management,omitempty"`
}

// Weights is a named set of eleven non-negative factor weights. The sum is
// the normalization base; it does not have to equal 100.
type Weights struct {
	ROE             float64 `json:"roe"`
	DebtEquity      float64 `json:"debt_equity"`
	NetProfitMargin float64 `json:"net_profit_margin"`
	FreeCashFlow    float64 `json:"free_cash_flow"`
	EPSGrowth       float64 `json:"eps_growth"`
	OperatingMargin float64 `json:"operating_margin"`
	CurrentRatio    float64 `json:"current_ratio"`
	ShareDilution   float64 `json:"share_dilution"`
	ROA             float64 `json:"roa"`
	Moat            float64 `json:"moat"`
	Management      float64 `json:"management"`
}

// Sum returns the normalization base for the weight set.
func (w Weights) Sum() float64 {
	return w.ROE + w.DebtEquity + w.NetProfitMargin + w.FreeCashFlow +
		w.EPSGrowth + w.OperatingMargin + w.CurrentRatio + w.ShareDilution +
		w.ROA + w.Moat + w.Management
}

// BuffettDefaultWeights is the uniform built-in weight set.
func BuffettDefaultWeights() Weights {
	return Weights{
		ROE: 5, DebtEquity: 5, NetProfitMargin: 5, FreeCashFlow: 5,
		EPSGrowth: 5, OperatingMargin: 5, CurrentRatio: 5,
		ShareDilution: 5, ROA: 5, Moat: 5, Management: 5,
	}
}

// Preset is a named built-in weight profile.
type Preset struct {
	Name    string  `json:"name"`
	Weights Weights `json:"weights"`
}

// Presets returns the built-in weight profiles, Buffett Default first.
func Presets() []Preset {
	return []Preset{
		{Name: "Buffett Default", Weights: BuffettDefaultWeights()},
		{Name: "Conservative", Weights: Weights{
			ROE: 8, DebtEquity: 10, NetProfitMargin: 7, FreeCashFlow: 8,
			EPSGrowth: 3, OperatingMargin: 6, CurrentRatio: 10,
			ShareDilution: 7, ROA: 6, Moat: 8, Management: 7,
		}},
		{Name: "Growth Focused", Weights: Weights{
			ROE: 10, DebtEquity: 3, NetProfitMargin: 8, FreeCashFlow: 6,
			EPSGrowth: 9, OperatingMargin: 8, CurrentRatio: 3,
			ShareDilution: 4, ROA: 8, Moat: 6, Management: 8,
		}},
		{Name: "Value Investing", Weights: Weights{
			ROE: 6, DebtEquity: 8, NetProfitMargin: 6, FreeCashFlow: 10,
			EPSGrowth: 4, OperatingMargin: 5, CurrentRatio: 8,
			ShareDilution: 6, ROA: 7, Moat: 10, Management: 10,
		}},
	}
}
