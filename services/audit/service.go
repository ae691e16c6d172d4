package audit

import (
	"context"
	"encoding/json"
	"time"

	"rewardplane/pkg/config"
	"rewardplane/pkg/errutil"
	"rewardplane/pkg/rediskey"
	"rewardplane/pkg/repository"
	"rewardplane/pkg/sequence"
	"rewardplane/pkg/task"
	"rewardplane/pkg/taskname"
	"rewardplane/services/campaign"
	"rewardplane/services/participant"
	"rewardplane/services/reward"

	"github.com/hibiken/asynq"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportStore is the slice of the redis client the report store needs.
type ReportStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Get(ctx context.Context, key string) *goredis.StringCmd
}

type Service struct {
	cfg      *config.Config
	redis    ReportStore
	enqueuer task.Enqueuer
	seq      sequence.Generator

	campaign    repository.Repository[campaign.Campaign]
	participant repository.Repository[participant.Participant]
	post        repository.Repository[participant.SocialPost]
}

type ServiceParams struct {
	fx.In
	Config   *config.Config
	DB       *gorm.DB
	Redis    *goredis.Client    `optional:"true"`
	Enqueuer task.Enqueuer      `optional:"true"`
	Seq      sequence.Generator `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	s := &Service{
		cfg:      p.Config,
		enqueuer: p.Enqueuer,
		seq:      p.Seq,

		campaign:    repository.ProvideStore[campaign.Campaign](p.DB),
		participant: repository.ProvideStore[participant.Participant](p.DB),
		post:        repository.ProvideStore[participant.SocialPost](p.DB),
	}

	if p.Redis != nil {
		s.redis = p.Redis
	}

	return s
}

// BuildReport assembles the full activity of a campaign and runs the
// payout reconciliation over it.
func (s *Service) BuildReport(ctx context.Context, tenantID, campaignID string) (*reward.AuditReport, error) {
	c, err := s.campaign.FindOne(ctx, &campaign.Campaign{ID: campaignID, TenantID: tenantID})
	if err != nil {
		return nil, errutil.Internal("failed to query campaign", err)
	}
	if c == nil {
		return nil, errutil.NotFound("campaign not found", nil)
	}

	cfg, err := reward.ParseAlgorithmConfig(c.Algorithm)
	if err != nil {
		return nil, errutil.UnprocessableEntity("invalid algorithm config", err)
	}

	participants, err := s.participant.Find(ctx, &participant.Participant{CampaignID: campaignID})
	if err != nil {
		return nil, errutil.Internal("failed to list participants", err)
	}

	posts, err := s.post.Find(ctx, &participant.SocialPost{CampaignID: campaignID})
	if err != nil {
		return nil, errutil.Internal("failed to list posts", err)
	}

	postsByParticipant := make(map[string][]reward.PostMetrics, len(participants))
	for _, post := range posts {
		postsByParticipant[post.ParticipantID] = append(postsByParticipant[post.ParticipantID], reward.PostMetrics{
			Likes:    post.Likes,
			Shares:   post.Shares,
			Comments: post.Comments,
		})
	}

	activities := make([]reward.ParticipantActivity, 0, len(participants))
	for _, p := range participants {
		activities = append(activities, reward.ParticipantActivity{
			ID: p.ID,
			Counters: reward.Counters{
				Clicks:      p.ClickCount,
				Views:       p.ViewCount,
				Submissions: p.SubmissionCount,
			},
			Posts: postsByParticipant[p.ID],
		})
	}

	report, err := reward.BuildAuditReport(campaignID, c.RewardPool, cfg.Points, activities, reward.AuditOptions{
		DeviationThreshold: s.cfg.Audit.DeviationThreshold,
		Concurrency:        s.cfg.Audit.Concurrency,
	})
	if err != nil {
		zap.L().Error("failed to build audit report",
			zap.String("campaign_id", campaignID), zap.Error(err))
		return nil, errutil.UnprocessableEntity("failed to build audit report", err)
	}

	zap.L().Info("audit report built",
		zap.String("campaign_id", campaignID),
		zap.Int("participants", report.ParticipantCount),
		zap.Int("flagged", len(report.Flagged)))

	return &report, nil
}

// Enqueue schedules an asynchronous report run for the campaign.
func (s *Service) Enqueue(ctx context.Context, tenantID, campaignID string) (*EnqueueResponse, error) {
	if s.enqueuer == nil {
		return nil, errutil.NotImplemented("task queue is not configured", nil)
	}

	c, err := s.campaign.FindOne(ctx, &campaign.Campaign{ID: campaignID, TenantID: tenantID})
	if err != nil {
		return nil, errutil.Internal("failed to query campaign", err)
	}
	if c == nil {
		return nil, errutil.NotFound("campaign not found", nil)
	}

	payload, err := json.Marshal(ReportTaskPayload{
		TenantID:   tenantID,
		CampaignID: campaignID,
	})
	if err != nil {
		return nil, errutil.Internal("failed to encode task payload", err)
	}

	info, err := s.enqueuer.Enqueue(
		asynq.NewTask(taskname.AuditReportRun, payload),
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		zap.L().Error("failed to enqueue audit report task",
			zap.String("campaign_id", campaignID), zap.Error(err))
		return nil, errutil.Internal("failed to enqueue audit report task", err)
	}

	zap.L().Info("audit report task enqueued",
		zap.String("campaign_id", campaignID),
		zap.String("task_id", info.ID),
		zap.String("queue", info.Queue))

	return &EnqueueResponse{
		TaskID:     info.ID,
		Queue:      info.Queue,
		CampaignID: campaignID,
	}, nil
}

// Store persists a finished report as the campaign's latest.
func (s *Service) Store(ctx context.Context, report *reward.AuditReport) error {
	if s.redis == nil {
		return errutil.NotImplemented("report store is not configured", nil)
	}

	stored := StoredReport{
		GeneratedAt: time.Now().UTC(),
		Report:      *report,
	}

	if s.seq != nil {
		if code, err := s.seq.NextReportCode(ctx, report.CampaignID); err == nil {
			stored.ReportCode = code
		}
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return errutil.Internal("failed to encode report", err)
	}

	key := rediskey.BuildAuditReportKey(report.CampaignID)
	if err := s.redis.Set(ctx, key, raw, s.cfg.Audit.ReportTTL).Err(); err != nil {
		return errutil.Internal("failed to store report", err)
	}

	return nil
}

// Latest returns the most recently stored report for a campaign.
func (s *Service) Latest(ctx context.Context, tenantID, campaignID string) (*StoredReport, error) {
	if s.redis == nil {
		return nil, errutil.NotImplemented("report store is not configured", nil)
	}

	c, err := s.campaign.FindOne(ctx, &campaign.Campaign{ID: campaignID, TenantID: tenantID})
	if err != nil {
		return nil, errutil.Internal("failed to query campaign", err)
	}
	if c == nil {
		return nil, errutil.NotFound("campaign not found", nil)
	}

	raw, err := s.redis.Get(ctx, rediskey.BuildAuditReportKey(campaignID)).Bytes()
	if err == goredis.Nil {
		return nil, errutil.NotFound("no report stored for campaign", nil)
	}
	if err != nil {
		return nil, errutil.Internal("failed to read report", err)
	}

	var stored StoredReport
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, errutil.Internal("failed to decode stored report", err)
	}

	return &stored, nil
}
