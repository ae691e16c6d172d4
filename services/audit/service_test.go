package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"rewardplane/pkg/config"
	"rewardplane/pkg/errutil"
	"rewardplane/pkg/rediskey"
	"rewardplane/pkg/taskname"
	"rewardplane/services/campaign"
	"rewardplane/services/participant"
	"rewardplane/services/reward"
	"rewardplane/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type storeMock struct {
	setFn func(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	getFn func(ctx context.Context, key string) *goredis.StringCmd
}

func (m *storeMock) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, expiration)
	}
	return goredis.NewStatusCmd(ctx)
}

func (m *storeMock) Get(ctx context.Context, key string) *goredis.StringCmd {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	cmd := goredis.NewStringCmd(ctx)
	cmd.SetErr(goredis.Nil)
	return cmd
}

type enqueuerMock struct {
	enqueueFn func(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func (m *enqueuerMock) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if m.enqueueFn != nil {
		return m.enqueueFn(task, opts...)
	}
	return &asynq.TaskInfo{ID: "task_1", Queue: "default"}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Audit.DeviationThreshold = 2
	cfg.Audit.Concurrency = 4
	cfg.Audit.ReportTTL = time.Hour
	return cfg
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := testutil.NewTestDB(t,
		&campaign.Campaign{},
		&participant.Participant{},
		&participant.SocialPost{},
	)

	return NewService(ServiceParams{Config: testConfig(), DB: db}), db
}

func seedCampaign(t *testing.T, db *gorm.DB) *campaign.Campaign {
	t.Helper()

	c := &campaign.Campaign{
		ID:         "cmp_1",
		TenantID:   "tnt_1",
		Name:       "Audited",
		Status:     campaign.StatusCompleted,
		RewardPool: decimal.NewFromInt(1000),
		Algorithm: datatypes.JSON(`{
			"version": 1,
			"tiers": [{"threshold": "0", "total_reward": "0"}],
			"points": {"clicks": "1", "views": "0", "submissions": "0", "likes": "2", "shares": "0"}
		}`),
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func TestBuildReport(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	c := seedCampaign(t, db)

	require.NoError(t, db.Create(&participant.Participant{
		ID: "p1", TenantID: "tnt_1", CampaignID: c.ID, MemberID: "m1",
		ClickCount: decimal.NewFromInt(30),
	}).Error)
	require.NoError(t, db.Create(&participant.Participant{
		ID: "p2", TenantID: "tnt_1", CampaignID: c.ID, MemberID: "m2",
		ClickCount: decimal.NewFromInt(70),
	}).Error)
	require.NoError(t, db.Create(&participant.SocialPost{
		ID: "post_1", ParticipantID: "p1", CampaignID: c.ID,
		Platform: "x", ExternalRef: "ref-1",
		Likes: decimal.NewFromInt(10),
	}).Error)

	report, err := svc.BuildReport(ctx, "tnt_1", c.ID)
	require.NoError(t, err)

	require.Equal(t, c.ID, report.CampaignID)
	require.Equal(t, 2, report.ParticipantCount)
	require.Equal(t, "100", report.TotalClicks.String())
	require.Equal(t, "10", report.TotalLikes.String())

	// weighted totals: 100 clicks ×1 + 10 likes ×2 = 120
	require.Equal(t, "120", report.Totals.Total().String())

	// p1: 50/120, p2: 70/120 of the 1000 pool
	require.True(t, report.TotalRewardPayout.Equal(decimal.NewFromInt(1000)))
	require.Len(t, report.Payouts, 2)
	require.Empty(t, report.Flagged)
}

func TestBuildReport_CampaignNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.BuildReport(context.Background(), "tnt_1", "missing")
	require.Error(t, err)

	be, ok := err.(errutil.BaseError)
	require.True(t, ok)
	require.Equal(t, errutil.StatusNotFound, be.Code)
}

func TestBuildReport_InvalidAlgorithm(t *testing.T) {
	svc, db := newTestService(t)

	require.NoError(t, db.Create(&campaign.Campaign{
		ID: "cmp_bad", TenantID: "tnt_1", Name: "Broken",
		Algorithm: datatypes.JSON(`{"tiers": [], "points": {}}`),
	}).Error)

	_, err := svc.BuildReport(context.Background(), "tnt_1", "cmp_bad")
	require.Error(t, err)

	be, ok := err.(errutil.BaseError)
	require.True(t, ok)
	require.Equal(t, errutil.StatusUnprocessableEntity, be.Code)
}

func TestBuildReport_NoParticipants(t *testing.T) {
	svc, db := newTestService(t)
	c := seedCampaign(t, db)

	report, err := svc.BuildReport(context.Background(), "tnt_1", c.ID)
	require.NoError(t, err)
	require.Equal(t, 0, report.ParticipantCount)
	require.NotEmpty(t, report.Note)
	require.True(t, report.TotalRewardPayout.IsZero())
}

func TestEnqueue(t *testing.T) {
	svc, db := newTestService(t)
	c := seedCampaign(t, db)

	var captured *asynq.Task
	svc.enqueuer = &enqueuerMock{
		enqueueFn: func(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
			captured = task
			return &asynq.TaskInfo{ID: "task_9", Queue: "default"}, nil
		},
	}

	out, err := svc.Enqueue(context.Background(), "tnt_1", c.ID)
	require.NoError(t, err)
	require.Equal(t, "task_9", out.TaskID)
	require.Equal(t, c.ID, out.CampaignID)

	require.NotNil(t, captured)
	require.Equal(t, taskname.AuditReportRun, captured.Type())

	var payload ReportTaskPayload
	require.NoError(t, json.Unmarshal(captured.Payload(), &payload))
	require.Equal(t, "tnt_1", payload.TenantID)
	require.Equal(t, c.ID, payload.CampaignID)
}

func TestEnqueue_NoQueueConfigured(t *testing.T) {
	svc, db := newTestService(t)
	c := seedCampaign(t, db)

	_, err := svc.Enqueue(context.Background(), "tnt_1", c.ID)
	require.Error(t, err)

	be, ok := err.(errutil.BaseError)
	require.True(t, ok)
	require.Equal(t, errutil.StatusNotImplemented, be.Code)
}

func TestLatest_NoStoreConfigured(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Latest(context.Background(), "tnt_1", "cmp_1")
	require.Error(t, err)

	be, ok := err.(errutil.BaseError)
	require.True(t, ok)
	require.Equal(t, errutil.StatusNotImplemented, be.Code)
}

func TestStore(t *testing.T) {
	svc, _ := newTestService(t)

	var gotKey string
	var gotValue []byte
	var gotTTL time.Duration
	svc.redis = &storeMock{
		setFn: func(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd {
			gotKey = key
			gotValue = value.([]byte)
			gotTTL = expiration
			return goredis.NewStatusCmd(ctx)
		},
	}

	report := &reward.AuditReport{
		CampaignID:       "cmp_1",
		ParticipantCount: 2,
	}
	require.NoError(t, svc.Store(context.Background(), report))

	require.Equal(t, rediskey.BuildAuditReportKey("cmp_1"), gotKey)
	require.Equal(t, time.Hour, gotTTL)

	var stored StoredReport
	require.NoError(t, json.Unmarshal(gotValue, &stored))
	require.Equal(t, "cmp_1", stored.Report.CampaignID)
	require.Equal(t, 2, stored.Report.ParticipantCount)
	require.False(t, stored.GeneratedAt.IsZero())
}

func TestLatest(t *testing.T) {
	svc, db := newTestService(t)
	c := seedCampaign(t, db)

	stored := StoredReport{
		GeneratedAt: time.Now().UTC(),
		Report:      reward.AuditReport{CampaignID: c.ID, ParticipantCount: 3},
	}
	raw, err := json.Marshal(stored)
	require.NoError(t, err)

	svc.redis = &storeMock{
		getFn: func(ctx context.Context, key string) *goredis.StringCmd {
			require.Equal(t, rediskey.BuildAuditReportKey(c.ID), key)
			cmd := goredis.NewStringCmd(ctx)
			cmd.SetVal(string(raw))
			return cmd
		},
	}

	out, err := svc.Latest(context.Background(), "tnt_1", c.ID)
	require.NoError(t, err)
	require.Equal(t, c.ID, out.Report.CampaignID)
	require.Equal(t, 3, out.Report.ParticipantCount)
}

func TestLatest_TenantScoped(t *testing.T) {
	svc, db := newTestService(t)
	c := seedCampaign(t, db)

	readCount := 0
	svc.redis = &storeMock{
		getFn: func(ctx context.Context, key string) *goredis.StringCmd {
			readCount++
			cmd := goredis.NewStringCmd(ctx)
			cmd.SetVal("{}")
			return cmd
		},
	}

	// another tenant must not read this campaign's report
	_, err := svc.Latest(context.Background(), "tnt_2", c.ID)
	require.Error(t, err)

	be, ok := err.(errutil.BaseError)
	require.True(t, ok)
	require.Equal(t, errutil.StatusNotFound, be.Code)
	require.Zero(t, readCount)
}

func TestLatest_NoReportStored(t *testing.T) {
	svc, db := newTestService(t)
	c := seedCampaign(t, db)

	svc.redis = &storeMock{}

	_, err := svc.Latest(context.Background(), "tnt_1", c.ID)
	require.Error(t, err)

	be, ok := err.(errutil.BaseError)
	require.True(t, ok)
	require.Equal(t, errutil.StatusNotFound, be.Code)
}

func TestHandleReportTask(t *testing.T) {
	svc, db := newTestService(t)
	c := seedCampaign(t, db)

	require.NoError(t, db.Create(&participant.Participant{
		ID: "p1", TenantID: "tnt_1", CampaignID: c.ID, MemberID: "m1",
		ClickCount: decimal.NewFromInt(40),
	}).Error)

	var gotKey string
	var gotValue []byte
	svc.redis = &storeMock{
		setFn: func(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd {
			gotKey = key
			gotValue = value.([]byte)
			return goredis.NewStatusCmd(ctx)
		},
	}

	payload, err := json.Marshal(ReportTaskPayload{TenantID: "tnt_1", CampaignID: c.ID})
	require.NoError(t, err)

	task := NewTask(svc)
	require.NoError(t, task.HandleReportTask(context.Background(), asynq.NewTask(taskname.AuditReportRun, payload)))

	require.Equal(t, rediskey.BuildAuditReportKey(c.ID), gotKey)

	var stored StoredReport
	require.NoError(t, json.Unmarshal(gotValue, &stored))
	require.Equal(t, c.ID, stored.Report.CampaignID)
	require.Equal(t, 1, stored.Report.ParticipantCount)
	require.True(t, stored.Report.TotalRewardPayout.Equal(decimal.NewFromInt(1000)))
}

func TestHandleReportTask_InvalidPayload(t *testing.T) {
	svc, _ := newTestService(t)
	task := NewTask(svc)

	err := task.HandleReportTask(context.Background(), asynq.NewTask(taskname.AuditReportRun, []byte("{")))
	require.Error(t, err)
}
