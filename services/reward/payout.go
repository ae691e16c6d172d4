package reward

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Counters holds per-action activity totals for one participant.
type Counters struct {
	Clicks      decimal.Decimal `json:"clicks"`
	Views       decimal.Decimal `json:"views"`
	Submissions decimal.Decimal `json:"submissions"`
	Likes       decimal.Decimal `json:"likes"`
	Shares      decimal.Decimal `json:"shares"`
}

func (c Counters) Validate() error {
	for _, v := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"clicks", c.Clicks},
		{"views", c.Views},
		{"submissions", c.Submissions},
		{"likes", c.Likes},
		{"shares", c.Shares},
	} {
		if v.value.IsNegative() {
			return fmt.Errorf("counter %s: %w", v.name, ErrNegativeCounter)
		}
	}
	return nil
}

// RawScores holds weighted per-action scores (counter × point value).
type RawScores struct {
	Clicks      decimal.Decimal `json:"clicks"`
	Views       decimal.Decimal `json:"views"`
	Submissions decimal.Decimal `json:"submissions"`
	Likes       decimal.Decimal `json:"likes"`
	Shares      decimal.Decimal `json:"shares"`
}

func (r RawScores) Total() decimal.Decimal {
	return r.Clicks.Add(r.Views).Add(r.Submissions).Add(r.Likes).Add(r.Shares)
}

func (r RawScores) Add(o RawScores) RawScores {
	return RawScores{
		Clicks:      r.Clicks.Add(o.Clicks),
		Views:       r.Views.Add(o.Views),
		Submissions: r.Submissions.Add(o.Submissions),
		Likes:       r.Likes.Add(o.Likes),
		Shares:      r.Shares.Add(o.Shares),
	}
}

// WeightedRawScores applies the campaign point values to a participant's
// counters.
func WeightedRawScores(c Counters, pv PointValues) (RawScores, error) {
	if err := c.Validate(); err != nil {
		return RawScores{}, err
	}
	if err := pv.Validate(); err != nil {
		return RawScores{}, err
	}

	return RawScores{
		Clicks:      c.Clicks.Mul(pv.Clicks),
		Views:       c.Views.Mul(pv.Views),
		Submissions: c.Submissions.Mul(pv.Submissions),
		Likes:       c.Likes.Mul(pv.Likes),
		Shares:      c.Shares.Mul(pv.Shares),
	}, nil
}

// PayoutResult is one participant's share of the reward pool, broken out
// per action type.
type PayoutResult struct {
	ParticipantID    string          `json:"participant_id"`
	ViewPayout       decimal.Decimal `json:"view_payout"`
	ClickPayout      decimal.Decimal `json:"click_payout"`
	SubmissionPayout decimal.Decimal `json:"submission_payout"`
	LikesPayout      decimal.Decimal `json:"likes_payout"`
	SharesPayout     decimal.Decimal `json:"shares_payout"`
	TotalPayout      decimal.Decimal `json:"total_payout"`
}

// CalculatePayout allocates the reward pool to one participant in
// proportion to their weighted scores against the campaign-wide totals.
// A zero campaign total yields a zero payout rather than an error.
func CalculatePayout(participantID string, raw RawScores, pool decimal.Decimal, totals RawScores) PayoutResult {
	result := PayoutResult{ParticipantID: participantID}

	grand := totals.Total()
	if grand.IsZero() {
		return result
	}

	result.ClickPayout = raw.Clicks.Div(grand).Mul(pool)
	result.ViewPayout = raw.Views.Div(grand).Mul(pool)
	result.SubmissionPayout = raw.Submissions.Div(grand).Mul(pool)
	result.LikesPayout = raw.Likes.Div(grand).Mul(pool)
	result.SharesPayout = raw.Shares.Div(grand).Mul(pool)
	result.TotalPayout = result.ClickPayout.
		Add(result.ViewPayout).
		Add(result.SubmissionPayout).
		Add(result.LikesPayout).
		Add(result.SharesPayout)

	return result
}
