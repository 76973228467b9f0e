package scoring

import "math"

// Recommendation is the discrete action label a strategy produces.
type Recommendation string

const (
	Accumulate Recommendation = "DCA_MORE"
	Hold       Recommendation = "HOLD"
	Reduce     Recommendation = "REDUCE_SELL"
)

// Outcome is the result of one scoring run. TotalScore is on the strategy's
// own scale: 11-55 raw sum for the fixed-weight strategy, 0-100 normalized
// for the user-weighted one.
type Outcome struct {
	SubScores      SubScores      `json:"sub_scores"`
	TotalScore     int            `json:"total_score"`
	MaxScore       int            `json:"max_score"`
	Recommendation Recommendation `json:"recommendation"`
}

// Strategy evaluates a ratio record against a weight set. Implementations
// are pure functions; missing ratio fields degrade sub-scores rather than
// erroring.
type Strategy interface {
	Name() string
	Evaluate(r Ratios, w Weights) Outcome
}

// BuffettStrategy is the fixed-weight variant: sub-scores from the
// fixed-weight threshold table, summed unweighted onto the 11-55 scale.
type BuffettStrategy struct{}

func (BuffettStrategy) Name() string { return "buffett" }

// Evaluate ignores the weight set; the Buffett criteria weigh every factor
// equally.
func (BuffettStrategy) Evaluate(r Ratios, _ Weights) Outcome {
	sub := mapSubScores(r, fixedWeightThresholds)
	total := sub.Sum()

	rec := Reduce
	switch {
	case total >= 40:
		rec = Accumulate
	case total >= 30:
		rec = Hold
	}

	return Outcome{SubScores: sub, TotalScore: total, MaxScore: 55, Recommendation: rec}
}

// WeightedStrategy is the user-weighted variant: sub-scores from its own
// threshold table, combined as a weighted mean and normalized to 0-100.
type WeightedStrategy struct{}

func (WeightedStrategy) Name() string { return "weighted" }

func (WeightedStrategy) Evaluate(r Ratios, w Weights) Outcome {
	sub := mapSubScores(r, userWeightedThresholds)

	totalWeight := w.Sum()
	if totalWeight <= 0 {
		w = BuffettDefaultWeights()
		totalWeight = w.Sum()
	}

	weighted := (float64(sub.ROE)*w.ROE +
		float64(sub.DebtEquity)*w.DebtEquity +
		float64(sub.NetProfitMargin)*w.NetProfitMargin +
		float64(sub.FreeCashFlow)*w.FreeCashFlow +
		float64(sub.EPSGrowth)*w.EPSGrowth +
		float64(sub.OperatingMargin)*w.OperatingMargin +
		float64(sub.CurrentRatio)*w.CurrentRatio +
		float64(sub.ShareDilution)*w.ShareDilution +
		float64(sub.ROA)*w.ROA +
		float64(sub.Moat)*w.Moat +
		float64(sub.Management)*w.Management) / totalWeight

	normalized := weighted / 5 * 100

	rec := Reduce
	switch {
	case normalized >= 80:
		rec = Accumulate
	case normalized >= 60:
		rec = Hold
	}

	return Outcome{
		SubScores:      sub,
		TotalScore:     int(math.Round(normalized)),
		MaxScore:       100,
		Recommendation: rec,
	}
}
