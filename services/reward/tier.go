package reward

import (
	"github.com/shopspring/decimal"
)

// TierResult reports where a cumulative participation score lands on a
// tier ladder.
type TierResult struct {
	CurrentTier  int             `json:"current_tier"`
	CurrentTotal decimal.Decimal `json:"current_total"`
}

// ResolveTier returns the highest tier whose threshold does not exceed
// cumulative, and the progress past that threshold. There is no upper
// clamp: any score at or above the last threshold resolves to the last
// tier.
func ResolveTier(cumulative decimal.Decimal, tiers TierTable) (TierResult, error) {
	if err := tiers.Validate(); err != nil {
		return TierResult{}, err
	}

	current := 0
	for i := range tiers {
		if tiers[i].Threshold.GreaterThan(cumulative) {
			break
		}
		current = i
	}

	return TierResult{
		CurrentTier:  current,
		CurrentTotal: cumulative.Sub(tiers[current].Threshold),
	}, nil
}
