package reward

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Pool divisions need more headroom than the package default of 16.
	if decimal.DivisionPrecision < 28 {
		decimal.DivisionPrecision = 28
	}
}

var (
	ErrEmptyTierTable     = errors.New("tier table is empty")
	ErrUnsortedTierTable  = errors.New("tier thresholds must be strictly increasing")
	ErrNegativePointValue = errors.New("point value must not be negative")
	ErrNegativeCounter    = errors.New("counter must not be negative")
)

// PointValues holds the per-action weights of a campaign algorithm.
type PointValues struct {
	Clicks      decimal.Decimal `json:"clicks"`
	Views       decimal.Decimal `json:"views"`
	Submissions decimal.Decimal `json:"submissions"`
	Likes       decimal.Decimal `json:"likes"`
	Shares      decimal.Decimal `json:"shares"`
}

func (pv PointValues) Validate() error {
	for _, v := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"clicks", pv.Clicks},
		{"views", pv.Views},
		{"submissions", pv.Submissions},
		{"likes", pv.Likes},
		{"shares", pv.Shares},
	} {
		if v.value.IsNegative() {
			return fmt.Errorf("point value %s: %w", v.name, ErrNegativePointValue)
		}
	}
	return nil
}

// Tier is a single reward band. Threshold is the cumulative participation
// score at which the band starts.
type Tier struct {
	Threshold   decimal.Decimal `json:"threshold"`
	TotalReward decimal.Decimal `json:"total_reward"`
}

// TierTable is the campaign tier ladder, ascending by threshold.
// The first tier must start at zero.
type TierTable []Tier

func (t TierTable) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTierTable
	}

	if !t[0].Threshold.IsZero() {
		return fmt.Errorf("first tier threshold must be zero, got %s: %w", t[0].Threshold, ErrUnsortedTierTable)
	}

	for i := 1; i < len(t); i++ {
		if t[i].Threshold.LessThanOrEqual(t[i-1].Threshold) {
			return fmt.Errorf("tier %d threshold %s not above tier %d threshold %s: %w",
				i, t[i].Threshold, i-1, t[i-1].Threshold, ErrUnsortedTierTable)
		}
	}

	return nil
}

// AlgorithmConfig is the parsed form of a campaign's algorithm blob.
type AlgorithmConfig struct {
	Version int         `json:"version"`
	Tiers   TierTable   `json:"tiers"`
	Points  PointValues `json:"points"`
}

func (c AlgorithmConfig) Validate() error {
	if err := c.Tiers.Validate(); err != nil {
		return err
	}
	return c.Points.Validate()
}

// ParseAlgorithmConfig decodes and validates an algorithm blob.
func ParseAlgorithmConfig(raw []byte) (AlgorithmConfig, error) {
	var cfg AlgorithmConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return AlgorithmConfig{}, fmt.Errorf("failed to decode algorithm config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return AlgorithmConfig{}, err
	}

	return cfg, nil
}
