package reward

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ParticipantActivity is the full activity record of one participant fed
// into an audit run.
type ParticipantActivity struct {
	ID       string        `json:"id"`
	Counters Counters      `json:"counters"`
	Posts    []PostMetrics `json:"posts"`
}

// AuditOptions tunes an audit run.
type AuditOptions struct {
	// DeviationThreshold is the number of standard deviations a payout
	// may stray from the mean before it is flagged. Zero means the
	// default of 2.
	DeviationThreshold float64

	// Concurrency bounds the per-participant workers. Zero means 8.
	Concurrency int
}

func (o AuditOptions) withDefaults() AuditOptions {
	if o.DeviationThreshold <= 0 {
		o.DeviationThreshold = 2
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 8
	}
	return o
}

// AuditReport is the full payout reconciliation for a campaign.
type AuditReport struct {
	CampaignID        string          `json:"campaign_id"`
	ParticipantCount  int             `json:"participant_count"`
	TotalClicks       decimal.Decimal `json:"total_clicks"`
	TotalViews        decimal.Decimal `json:"total_views"`
	TotalSubmissions  decimal.Decimal `json:"total_submissions"`
	TotalLikes        decimal.Decimal `json:"total_likes"`
	TotalShares       decimal.Decimal `json:"total_shares"`
	Totals            RawScores       `json:"totals"`
	TotalRewardPayout decimal.Decimal `json:"total_reward_payout"`
	Payouts           []PayoutResult  `json:"payouts"`
	Flagged           []PayoutResult  `json:"flagged"`
	Note              string          `json:"note,omitempty"`
}

// BuildAuditReport computes every participant's payout and flags
// statistical outliers. The first pass scores each participant's
// engagement and weighted counters; the second allocates the pool
// against the campaign-wide totals. Both passes fan out across
// participants.
func BuildAuditReport(campaignID string, pool decimal.Decimal, pv PointValues, participants []ParticipantActivity, opts AuditOptions) (AuditReport, error) {
	opts = opts.withDefaults()

	report := AuditReport{
		CampaignID:       campaignID,
		ParticipantCount: len(participants),
		Payouts:          make([]PayoutResult, len(participants)),
		Flagged:          []PayoutResult{},
	}

	if err := pv.Validate(); err != nil {
		return AuditReport{}, err
	}

	// Pass 1: per-participant weighted scores. Likes and shares come
	// from the engagement pass over posts, not from the counters.
	raws := make([]RawScores, len(participants))
	counters := make([]Counters, len(participants))

	var g errgroup.Group
	g.SetLimit(opts.Concurrency)
	for i := range participants {
		g.Go(func() error {
			p := participants[i]

			social, err := ScoreEngagement(p.Posts, pv)
			if err != nil {
				return fmt.Errorf("participant %s: %w", p.ID, err)
			}

			c := p.Counters
			c.Likes = c.Likes.Add(social.TotalLikes)
			c.Shares = c.Shares.Add(social.TotalShares)

			raw, err := WeightedRawScores(c, pv)
			if err != nil {
				return fmt.Errorf("participant %s: %w", p.ID, err)
			}

			counters[i] = c
			raws[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return AuditReport{}, err
	}

	for i := range participants {
		report.TotalClicks = report.TotalClicks.Add(counters[i].Clicks)
		report.TotalViews = report.TotalViews.Add(counters[i].Views)
		report.TotalSubmissions = report.TotalSubmissions.Add(counters[i].Submissions)
		report.TotalLikes = report.TotalLikes.Add(counters[i].Likes)
		report.TotalShares = report.TotalShares.Add(counters[i].Shares)
		report.Totals = report.Totals.Add(raws[i])
	}

	// Pass 2: payouts against the campaign-wide totals.
	var g2 errgroup.Group
	g2.SetLimit(opts.Concurrency)
	for i := range participants {
		g2.Go(func() error {
			report.Payouts[i] = CalculatePayout(participants[i].ID, raws[i], pool, report.Totals)
			return nil
		})
	}
	_ = g2.Wait()

	for i := range report.Payouts {
		report.TotalRewardPayout = report.TotalRewardPayout.Add(report.Payouts[i].TotalPayout)
	}

	if len(participants) < 2 {
		report.Note = "outlier detection skipped: fewer than two participants"
		return report, nil
	}

	report.Flagged = flagOutliers(report.Payouts, opts.DeviationThreshold)
	return report, nil
}

// flagOutliers returns payouts whose total strays more than k sample
// standard deviations from the mean. The statistical pass runs on
// float64; the payouts themselves stay decimal.
func flagOutliers(payouts []PayoutResult, k float64) []PayoutResult {
	values := make([]float64, len(payouts))
	var sum float64
	for i := range payouts {
		values[i], _ = payouts[i].TotalPayout.Float64()
		sum += values[i]
	}

	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values) - 1)
	stddev := math.Sqrt(variance)

	flagged := []PayoutResult{}
	if stddev == 0 {
		return flagged
	}

	for i, v := range values {
		if math.Abs(v-mean) > k*stddev {
			flagged = append(flagged, payouts[i])
		}
	}
	return flagged
}
