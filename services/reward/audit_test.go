package reward

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBuildAuditReport(t *testing.T) {
	pv := PointValues{
		Clicks: decimal.NewFromInt(1),
		Likes:  decimal.NewFromInt(2),
	}
	participants := []ParticipantActivity{
		{
			ID:       "p1",
			Counters: Counters{Clicks: decimal.NewFromInt(30)},
			Posts:    []PostMetrics{{Likes: decimal.NewFromInt(10)}},
		},
		{
			ID:       "p2",
			Counters: Counters{Clicks: decimal.NewFromInt(70)},
			Posts:    []PostMetrics{{Likes: decimal.NewFromInt(40)}},
		},
	}

	report, err := BuildAuditReport("cmp_1", decimal.NewFromInt(1000), pv, participants, AuditOptions{})
	require.NoError(t, err)

	require.Equal(t, "cmp_1", report.CampaignID)
	require.Equal(t, 2, report.ParticipantCount)
	require.Equal(t, "100", report.TotalClicks.String())
	require.Equal(t, "50", report.TotalLikes.String())

	// weighted grand total: 100 clicks ×1 + 50 likes ×2 = 200
	require.Equal(t, "200", report.Totals.Total().String())

	// p1: (30 + 20) / 200 × 1000 = 250; p2: (70 + 80) / 200 × 1000 = 750
	require.Equal(t, "250", report.Payouts[0].TotalPayout.String())
	require.Equal(t, "750", report.Payouts[1].TotalPayout.String())
	require.True(t, report.TotalRewardPayout.Equal(decimal.NewFromInt(1000)))
	require.Empty(t, report.Note)
}

func TestBuildAuditReport_PayoutsSumToPool(t *testing.T) {
	pv := PointValues{Views: decimal.NewFromInt(1)}
	pool := decimal.NewFromInt(800)

	participants := make([]ParticipantActivity, 4)
	for i := range participants {
		participants[i] = ParticipantActivity{
			ID:       fmt.Sprintf("p%d", i),
			Counters: Counters{Views: decimal.NewFromInt(int64(i+1) * 10)},
		}
	}

	report, err := BuildAuditReport("cmp_1", pool, pv, participants, AuditOptions{Concurrency: 2})
	require.NoError(t, err)
	require.True(t, report.TotalRewardPayout.Equal(pool),
		"expected %s, got %s", pool, report.TotalRewardPayout)
}

func TestBuildAuditReport_SingleParticipantNeverFlagged(t *testing.T) {
	pv := PointValues{Clicks: decimal.NewFromInt(1)}
	participants := []ParticipantActivity{
		{ID: "solo", Counters: Counters{Clicks: decimal.NewFromInt(500)}},
	}

	report, err := BuildAuditReport("cmp_1", decimal.NewFromInt(100), pv, participants, AuditOptions{})
	require.NoError(t, err)
	require.Empty(t, report.Flagged)
	require.NotEmpty(t, report.Note)
	require.Equal(t, "100", report.Payouts[0].TotalPayout.String())
}

func TestBuildAuditReport_EmptyPopulation(t *testing.T) {
	report, err := BuildAuditReport("cmp_1", decimal.NewFromInt(100), PointValues{}, nil, AuditOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, report.ParticipantCount)
	require.Empty(t, report.Flagged)
	require.NotEmpty(t, report.Note)
	require.True(t, report.TotalRewardPayout.IsZero())
}

func TestBuildAuditReport_FlagsOutlier(t *testing.T) {
	pv := PointValues{Clicks: decimal.NewFromInt(1)}

	// Nine quiet participants and one dominating the pool.
	participants := make([]ParticipantActivity, 10)
	for i := 0; i < 9; i++ {
		participants[i] = ParticipantActivity{
			ID:       fmt.Sprintf("p%d", i),
			Counters: Counters{Clicks: decimal.NewFromInt(10)},
		}
	}
	participants[9] = ParticipantActivity{
		ID:       "whale",
		Counters: Counters{Clicks: decimal.NewFromInt(10000)},
	}

	report, err := BuildAuditReport("cmp_1", decimal.NewFromInt(1000), pv, participants, AuditOptions{})
	require.NoError(t, err)
	require.Len(t, report.Flagged, 1)
	require.Equal(t, "whale", report.Flagged[0].ParticipantID)
}

func TestBuildAuditReport_UniformPayoutsNotFlagged(t *testing.T) {
	pv := PointValues{Clicks: decimal.NewFromInt(1)}

	participants := make([]ParticipantActivity, 5)
	for i := range participants {
		participants[i] = ParticipantActivity{
			ID:       fmt.Sprintf("p%d", i),
			Counters: Counters{Clicks: decimal.NewFromInt(20)},
		}
	}

	report, err := BuildAuditReport("cmp_1", decimal.NewFromInt(100), pv, participants, AuditOptions{})
	require.NoError(t, err)
	require.Empty(t, report.Flagged)
}

func TestBuildAuditReport_NegativeCounter(t *testing.T) {
	participants := []ParticipantActivity{
		{ID: "bad", Counters: Counters{Clicks: decimal.NewFromInt(-1)}},
	}

	_, err := BuildAuditReport("cmp_1", decimal.NewFromInt(100), PointValues{}, participants, AuditOptions{})
	require.ErrorIs(t, err, ErrNegativeCounter)
}

func TestBuildAuditReport_NegativePointValue(t *testing.T) {
	_, err := BuildAuditReport("cmp_1", decimal.NewFromInt(100),
		PointValues{Views: decimal.NewFromInt(-2)}, nil, AuditOptions{})
	require.ErrorIs(t, err, ErrNegativePointValue)
}
