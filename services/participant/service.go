package participant

import (
	"context"
	"fmt"
	"time"

	"rewardplane/pkg/db/option"
	"rewardplane/pkg/errutil"
	"rewardplane/pkg/repository"
	"rewardplane/services/campaign"
	"rewardplane/services/reward"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node

	participant repository.Repository[Participant]
	post        repository.Repository[SocialPost]
	campaign    repository.Repository[campaign.Campaign]
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,

		participant: repository.ProvideStore[Participant](p.DB),
		post:        repository.ProvideStore[SocialPost](p.DB),
		campaign:    repository.ProvideStore[campaign.Campaign](p.DB),
	}
}

func (s *Service) Join(ctx context.Context, campaignID string, req *JoinRequest) (*Participant, error) {
	if req.TenantID == "" || req.MemberID == "" {
		return nil, errutil.BadRequest("tenant_id and member_id are required", nil)
	}

	c, err := s.campaign.FindOne(ctx, &campaign.Campaign{ID: campaignID, TenantID: req.TenantID})
	if err != nil {
		return nil, errutil.Internal("failed to query campaign", err)
	}
	if c == nil {
		return nil, errutil.NotFound("campaign not found", nil)
	}
	if c.Status != campaign.StatusActive {
		return nil, errutil.Conflict("campaign is not active",
			fmt.Errorf("campaign status is %s", c.Status))
	}

	if exist, _ := s.participant.FindOne(ctx, &Participant{
		CampaignID: campaignID, MemberID: req.MemberID,
	}); exist != nil {
		zap.L().Warn("member already joined campaign",
			zap.String("campaign_id", campaignID),
			zap.String("member_id", req.MemberID))
		return nil, errutil.Conflict("member already joined campaign", nil)
	}

	p := &Participant{
		ID:                 s.node.Generate().String(),
		TenantID:           req.TenantID,
		CampaignID:         campaignID,
		MemberID:           req.MemberID,
		ClickCount:         decimal.Zero,
		ViewCount:          decimal.Zero,
		SubmissionCount:    decimal.Zero,
		ParticipationScore: decimal.Zero,
	}

	if err := s.participant.Create(ctx, p); err != nil {
		zap.L().Error("failed to create participant", zap.String("campaign_id", campaignID), zap.Error(err))
		return nil, errutil.Internal("failed to create participant", err)
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, tenantID, participantID string) (*Participant, error) {
	p, err := s.participant.FindOne(ctx, &Participant{ID: participantID, TenantID: tenantID})
	if err != nil {
		return nil, errutil.Internal("failed to query participant", err)
	}
	if p == nil {
		return nil, errutil.NotFound("participant not found", nil)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, tenantID, campaignID string) ([]*Participant, error) {
	participants, err := s.participant.Find(ctx, &Participant{TenantID: tenantID, CampaignID: campaignID})
	if err != nil {
		return nil, errutil.Internal("failed to list participants", err)
	}
	return participants, nil
}

// RecordInteraction applies one participation event: the matching counter
// goes up, the participant's score goes up by the campaign point value,
// and the campaign running total goes up by the same amount. All three
// writes share one row-locked transaction, so the campaign total can
// never fall behind any participant's score.
func (s *Service) RecordInteraction(ctx context.Context, tenantID, participantID string, req *InteractionRequest) (*Participant, error) {
	amount := req.Amount
	if amount.IsZero() {
		amount = decimal.NewFromInt(1)
	}
	if amount.IsNegative() {
		return nil, errutil.ValidationFailed("amount must not be negative", reward.ErrNegativeCounter)
	}

	var counterColumn string
	switch req.Kind {
	case InteractionClick:
		counterColumn = "click_count"
	case InteractionView:
		counterColumn = "view_count"
	case InteractionSubmission:
		counterColumn = "submission_count"
	default:
		return nil, errutil.BadRequest("unknown interaction kind", fmt.Errorf("kind %q", req.Kind))
	}

	var updated *Participant
	err := s.db.Transaction(func(tx *gorm.DB) error {
		tx = tx.Scopes(option.LockingUpdate)

		p, err := s.participant.WithTrx(tx).FindOne(ctx, &Participant{ID: participantID, TenantID: tenantID})
		if err != nil {
			return err
		}
		if p == nil {
			return errutil.NotFound("participant not found", nil)
		}

		c, err := s.campaign.WithTrx(tx).FindOne(ctx, &campaign.Campaign{ID: p.CampaignID})
		if err != nil {
			return err
		}
		if c == nil {
			return errutil.NotFound("campaign not found", nil)
		}
		if c.Status != campaign.StatusActive {
			return errutil.Conflict("campaign is not active",
				fmt.Errorf("campaign status is %s", c.Status))
		}

		cfg, err := reward.ParseAlgorithmConfig(c.Algorithm)
		if err != nil {
			return errutil.UnprocessableEntity("invalid algorithm config", err)
		}

		var weight decimal.Decimal
		switch req.Kind {
		case InteractionClick:
			weight = cfg.Points.Clicks
			p.ClickCount = p.ClickCount.Add(amount)
		case InteractionView:
			weight = cfg.Points.Views
			p.ViewCount = p.ViewCount.Add(amount)
		case InteractionSubmission:
			weight = cfg.Points.Submissions
			p.SubmissionCount = p.SubmissionCount.Add(amount)
		}

		delta := amount.Mul(weight)
		p.ParticipationScore = p.ParticipationScore.Add(delta)

		if err := s.participant.WithTrx(tx).Update(ctx, p.ID, map[string]any{
			counterColumn:         p.counterValue(req.Kind),
			"participation_score": p.ParticipationScore,
			"updated_at":          time.Now(),
		}); err != nil {
			return err
		}

		if err := s.campaign.WithTrx(tx).Update(ctx, c.ID, map[string]any{
			"total_participation_score": c.TotalParticipationScore.Add(delta),
			"updated_at":                time.Now(),
		}); err != nil {
			return err
		}

		updated = p
		return nil
	})
	if err != nil {
		if _, ok := err.(errutil.BaseError); ok {
			return nil, err
		}
		zap.L().Error("failed to record interaction",
			zap.String("participant_id", participantID),
			zap.String("kind", req.Kind),
			zap.Error(err))
		return nil, errutil.Internal("failed to record interaction", err)
	}

	return updated, nil
}

func (p *Participant) counterValue(kind string) decimal.Decimal {
	switch kind {
	case InteractionClick:
		return p.ClickCount
	case InteractionView:
		return p.ViewCount
	case InteractionSubmission:
		return p.SubmissionCount
	}
	return decimal.Zero
}

// SyncPosts upserts externally fetched post metrics for a participant.
// Fetching from the platforms themselves happens upstream.
func (s *Service) SyncPosts(ctx context.Context, tenantID, participantID string, req *SyncPostsRequest) ([]*SocialPost, error) {
	p, err := s.Get(ctx, tenantID, participantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]*SocialPost, 0, len(req.Posts))

	for _, in := range req.Posts {
		if in.Likes.IsNegative() || in.Shares.IsNegative() || in.Comments.IsNegative() {
			return nil, errutil.ValidationFailed("post metrics must not be negative", reward.ErrNegativeCounter)
		}

		existing, err := s.post.FindOne(ctx, &SocialPost{
			ParticipantID: p.ID,
			Platform:      in.Platform,
			ExternalRef:   in.ExternalRef,
		})
		if err != nil {
			return nil, errutil.Internal("failed to query post", err)
		}

		if existing != nil {
			if err := s.post.Update(ctx, existing.ID, map[string]any{
				"likes":     in.Likes,
				"shares":    in.Shares,
				"comments":  in.Comments,
				"synced_at": now,
			}); err != nil {
				return nil, errutil.Internal("failed to update post", err)
			}
			existing.Likes = in.Likes
			existing.Shares = in.Shares
			existing.Comments = in.Comments
			existing.SyncedAt = now
			out = append(out, existing)
			continue
		}

		post := &SocialPost{
			ID:            s.node.Generate().String(),
			ParticipantID: p.ID,
			CampaignID:    p.CampaignID,
			Platform:      in.Platform,
			ExternalRef:   in.ExternalRef,
			Likes:         in.Likes,
			Shares:        in.Shares,
			Comments:      in.Comments,
			SyncedAt:      now,
		}
		if err := s.post.Create(ctx, post); err != nil {
			return nil, errutil.Internal("failed to create post", err)
		}
		out = append(out, post)
	}

	return out, nil
}

// EngagementScore runs the weighted engagement pass over a participant's
// synced posts.
func (s *Service) EngagementScore(ctx context.Context, tenantID, participantID string) (*reward.SocialScore, error) {
	p, err := s.Get(ctx, tenantID, participantID)
	if err != nil {
		return nil, err
	}

	c, err := s.campaign.FindOne(ctx, &campaign.Campaign{ID: p.CampaignID})
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

	posts, err := s.post.Find(ctx, &SocialPost{ParticipantID: p.ID})
	if err != nil {
		return nil, errutil.Internal("failed to list posts", err)
	}

	metrics := make([]reward.PostMetrics, 0, len(posts))
	for _, post := range posts {
		metrics = append(metrics, reward.PostMetrics{
			Likes:    post.Likes,
			Shares:   post.Shares,
			Comments: post.Comments,
		})
	}

	score, err := reward.ScoreEngagement(metrics, cfg.Points)
	if err != nil {
		return nil, errutil.UnprocessableEntity("failed to score engagement", err)
	}

	return &score, nil
}
