package reward

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestScoreEngagement(t *testing.T) {
	posts := []PostMetrics{
		{Likes: decimal.NewFromInt(6), Shares: decimal.NewFromInt(2)},
		{Likes: decimal.NewFromInt(4), Shares: decimal.NewFromInt(3)},
	}
	pv := PointValues{
		Likes:  decimal.NewFromInt(2),
		Shares: decimal.NewFromInt(3),
	}

	score, err := ScoreEngagement(posts, pv)
	require.NoError(t, err)
	require.Equal(t, "10", score.TotalLikes.String())
	require.Equal(t, "5", score.TotalShares.String())
	require.Equal(t, "20", score.LikesScore.String())
	require.Equal(t, "15", score.ShareScore.String())
}

func TestScoreEngagement_EmptyPosts(t *testing.T) {
	score, err := ScoreEngagement(nil, PointValues{Likes: decimal.NewFromInt(2)})
	require.NoError(t, err)
	require.True(t, score.TotalLikes.IsZero())
	require.True(t, score.TotalShares.IsZero())
	require.True(t, score.LikesScore.IsZero())
	require.True(t, score.ShareScore.IsZero())
}

func TestScoreEngagement_NegativeMetric(t *testing.T) {
	posts := []PostMetrics{
		{Likes: decimal.NewFromInt(-1)},
	}

	_, err := ScoreEngagement(posts, PointValues{})
	require.ErrorIs(t, err, ErrNegativeCounter)
}

func TestScoreEngagement_NegativeWeight(t *testing.T) {
	_, err := ScoreEngagement(nil, PointValues{Shares: decimal.NewFromInt(-3)})
	require.ErrorIs(t, err, ErrNegativePointValue)
}

func TestScoreEngagement_DoesNotMutateInput(t *testing.T) {
	posts := []PostMetrics{
		{Likes: decimal.NewFromInt(7), Shares: decimal.NewFromInt(1)},
	}

	_, err := ScoreEngagement(posts, PointValues{Likes: decimal.NewFromInt(5)})
	require.NoError(t, err)
	require.Equal(t, "7", posts[0].Likes.String())
	require.Equal(t, "1", posts[0].Shares.String())
}
