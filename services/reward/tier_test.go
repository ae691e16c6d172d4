package reward

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func ladder(thresholds ...int64) TierTable {
	table := make(TierTable, 0, len(thresholds))
	for _, th := range thresholds {
		table = append(table, Tier{
			Threshold:   decimal.NewFromInt(th),
			TotalReward: decimal.NewFromInt(th * 10),
		})
	}
	return table
}

func TestResolveTier(t *testing.T) {
	table := ladder(0, 100)

	res, err := ResolveTier(decimal.NewFromInt(150), table)
	require.NoError(t, err)
	require.Equal(t, 1, res.CurrentTier)
	require.Equal(t, "50", res.CurrentTotal.String())
}

func TestResolveTier_ExactBoundary(t *testing.T) {
	table := ladder(0, 100, 250)

	res, err := ResolveTier(decimal.NewFromInt(250), table)
	require.NoError(t, err)
	require.Equal(t, 2, res.CurrentTier)
	require.True(t, res.CurrentTotal.IsZero())
}

func TestResolveTier_BelowFirst(t *testing.T) {
	table := ladder(0, 100)

	res, err := ResolveTier(decimal.NewFromInt(40), table)
	require.NoError(t, err)
	require.Equal(t, 0, res.CurrentTier)
	require.Equal(t, "40", res.CurrentTotal.String())
}

func TestResolveTier_NoUpperClamp(t *testing.T) {
	table := ladder(0, 100, 250)

	res, err := ResolveTier(decimal.NewFromInt(100000), table)
	require.NoError(t, err)
	require.Equal(t, 2, res.CurrentTier)
	require.Equal(t, "99750", res.CurrentTotal.String())
}

func TestResolveTier_Monotonic(t *testing.T) {
	table := ladder(0, 100, 250, 900)

	prev := -1
	for score := int64(0); score <= 1000; score += 25 {
		res, err := ResolveTier(decimal.NewFromInt(score), table)
		require.NoError(t, err)
		require.GreaterOrEqual(t, res.CurrentTier, prev)
		prev = res.CurrentTier
	}
}

func TestResolveTier_EmptyTable(t *testing.T) {
	_, err := ResolveTier(decimal.NewFromInt(10), TierTable{})
	require.ErrorIs(t, err, ErrEmptyTierTable)
}

func TestResolveTier_UnsortedTable(t *testing.T) {
	table := TierTable{
		{Threshold: decimal.Zero},
		{Threshold: decimal.NewFromInt(300)},
		{Threshold: decimal.NewFromInt(100)},
	}

	_, err := ResolveTier(decimal.NewFromInt(10), table)
	require.ErrorIs(t, err, ErrUnsortedTierTable)
}
