package reward

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PostMetrics carries the raw engagement numbers of a single social post.
type PostMetrics struct {
	Likes    decimal.Decimal `json:"likes"`
	Shares   decimal.Decimal `json:"shares"`
	Comments decimal.Decimal `json:"comments"`
}

// SocialScore is the aggregated, weighted engagement of a participant's
// posts.
type SocialScore struct {
	TotalLikes  decimal.Decimal `json:"total_likes"`
	TotalShares decimal.Decimal `json:"total_shares"`
	LikesScore  decimal.Decimal `json:"likes_score"`
	ShareScore  decimal.Decimal `json:"share_score"`
}

// ScoreEngagement sums likes and shares across posts and applies the
// campaign weights. An empty slice yields a zero score and no error.
func ScoreEngagement(posts []PostMetrics, pv PointValues) (SocialScore, error) {
	if err := pv.Validate(); err != nil {
		return SocialScore{}, err
	}

	var likes, shares decimal.Decimal
	for i := range posts {
		if posts[i].Likes.IsNegative() || posts[i].Shares.IsNegative() || posts[i].Comments.IsNegative() {
			return SocialScore{}, fmt.Errorf("post %d: %w", i, ErrNegativeCounter)
		}
		likes = likes.Add(posts[i].Likes)
		shares = shares.Add(posts[i].Shares)
	}

	return SocialScore{
		TotalLikes:  likes,
		TotalShares: shares,
		LikesScore:  likes.Mul(pv.Likes),
		ShareScore:  shares.Mul(pv.Shares),
	}, nil
}
