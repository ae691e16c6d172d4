package reward

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestWeightedRawScores(t *testing.T) {
	c := Counters{
		Clicks:      decimal.NewFromInt(10),
		Views:       decimal.NewFromInt(100),
		Submissions: decimal.NewFromInt(2),
		Likes:       decimal.NewFromInt(5),
		Shares:      decimal.NewFromInt(1),
	}
	pv := PointValues{
		Clicks:      decimal.NewFromInt(1),
		Views:       decimal.RequireFromString("0.1"),
		Submissions: decimal.NewFromInt(5),
		Likes:       decimal.NewFromInt(2),
		Shares:      decimal.NewFromInt(3),
	}

	raw, err := WeightedRawScores(c, pv)
	require.NoError(t, err)
	require.Equal(t, "10", raw.Clicks.String())
	require.Equal(t, "10", raw.Views.String())
	require.Equal(t, "10", raw.Submissions.String())
	require.Equal(t, "10", raw.Likes.String())
	require.Equal(t, "3", raw.Shares.String())
	require.Equal(t, "43", raw.Total().String())
}

func TestWeightedRawScores_NegativeCounter(t *testing.T) {
	_, err := WeightedRawScores(Counters{Views: decimal.NewFromInt(-5)}, PointValues{})
	require.ErrorIs(t, err, ErrNegativeCounter)
}

func TestCalculatePayout(t *testing.T) {
	raw := RawScores{Clicks: decimal.NewFromInt(30)}
	totals := RawScores{Clicks: decimal.NewFromInt(100)}
	pool := decimal.NewFromInt(1000)

	res := CalculatePayout("p1", raw, pool, totals)
	require.Equal(t, "p1", res.ParticipantID)
	require.Equal(t, "300", res.ClickPayout.String())
	require.Equal(t, "300", res.TotalPayout.String())
	require.True(t, res.ViewPayout.IsZero())
}

func TestCalculatePayout_SplitsPoolExactly(t *testing.T) {
	totals := RawScores{Clicks: decimal.NewFromInt(100)}
	pool := decimal.NewFromInt(1000)

	a := CalculatePayout("a", RawScores{Clicks: decimal.NewFromInt(30)}, pool, totals)
	b := CalculatePayout("b", RawScores{Clicks: decimal.NewFromInt(70)}, pool, totals)

	require.Equal(t, "300", a.TotalPayout.String())
	require.Equal(t, "700", b.TotalPayout.String())
	require.True(t, a.TotalPayout.Add(b.TotalPayout).Equal(pool))
}

func TestCalculatePayout_ScaleInvariance(t *testing.T) {
	raw := RawScores{
		Clicks: decimal.NewFromInt(12),
		Likes:  decimal.NewFromInt(8),
	}
	totals := RawScores{
		Clicks: decimal.NewFromInt(40),
		Likes:  decimal.NewFromInt(10),
	}
	pool := decimal.NewFromInt(500)

	base := CalculatePayout("p", raw, pool, totals)
	doubled := CalculatePayout("p", raw, pool.Mul(decimal.NewFromInt(2)), totals)

	require.True(t, doubled.ClickPayout.Equal(base.ClickPayout.Mul(decimal.NewFromInt(2))))
	require.True(t, doubled.LikesPayout.Equal(base.LikesPayout.Mul(decimal.NewFromInt(2))))
	require.True(t, doubled.TotalPayout.Equal(base.TotalPayout.Mul(decimal.NewFromInt(2))))
}

func TestCalculatePayout_ZeroCampaignTotal(t *testing.T) {
	res := CalculatePayout("p", RawScores{}, decimal.NewFromInt(1000), RawScores{})
	require.True(t, res.TotalPayout.IsZero())
	require.True(t, res.ClickPayout.IsZero())
}
