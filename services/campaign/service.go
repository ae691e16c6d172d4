package campaign

import (
	"context"
	"fmt"
	"time"

	"rewardplane/pkg/db/option"
	"rewardplane/pkg/db/pagination"
	"rewardplane/pkg/errutil"
	"rewardplane/pkg/repository"
	"rewardplane/pkg/sequence"
	"rewardplane/services/reward"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node
	seq  sequence.Generator

	campaign repository.Repository[Campaign]
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
	Seq  sequence.Generator `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,
		seq:  p.Seq,

		campaign: repository.ProvideStore[Campaign](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req *CreateCampaignRequest) (*Campaign, error) {
	if req.TenantID == "" || req.Name == "" {
		return nil, errutil.BadRequest("tenant_id and name are required", nil)
	}

	if req.RewardPool.IsNegative() {
		return nil, errutil.ValidationFailed("reward_pool must not be negative", nil)
	}

	if _, err := reward.ParseAlgorithmConfig(req.Algorithm); err != nil {
		zap.L().Warn("rejected algorithm config", zap.String("tenant_id", req.TenantID), zap.Error(err))
		return nil, errutil.UnprocessableEntity("invalid algorithm config", err)
	}

	code := ""
	if s.seq != nil {
		c, err := s.seq.NextCampaignCode(ctx, req.TenantID)
		if err != nil {
			zap.L().Warn("failed to generate campaign code", zap.Error(err))
		} else {
			code = c
		}
	}

	c := &Campaign{
		ID:                      s.node.Generate().String(),
		TenantID:                req.TenantID,
		Code:                    code,
		Slug:                    slug.Make(req.Name),
		Name:                    req.Name,
		Description:             req.Description,
		Status:                  StatusDraft,
		RewardPool:              req.RewardPool,
		TotalParticipationScore: decimal.Zero,
		Algorithm:               req.Algorithm,
		StartAt:                 req.StartAt,
		EndAt:                   req.EndAt,
	}

	if err := s.campaign.Create(ctx, c); err != nil {
		zap.L().Error("failed to create campaign", zap.String("tenant_id", req.TenantID), zap.Error(err))
		return nil, errutil.Internal("failed to create campaign", err)
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, tenantID, campaignID string) (*Campaign, error) {
	c, err := s.campaign.FindOne(ctx, &Campaign{ID: campaignID, TenantID: tenantID})
	if err != nil {
		zap.L().Error("failed to query campaign", zap.String("campaign_id", campaignID), zap.Error(err))
		return nil, errutil.Internal("failed to query campaign", err)
	}

	if c == nil {
		return nil, errutil.NotFound("campaign not found", nil)
	}

	return c, nil
}

func (s *Service) List(ctx context.Context, req *ListCampaignRequest) ([]*Campaign, *pagination.PageInfo, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := []option.QueryOption{
		option.ApplyPagination(pagination.Pagination{Cursor: req.Cursor, Limit: limit}),
		option.WithSortBy(option.QuerySortBy{OrderBy: "DESC"}),
	}

	campaigns, err := s.campaign.Find(ctx, &Campaign{TenantID: req.TenantID, Status: req.Status}, opts...)
	if err != nil {
		zap.L().Error("failed to list campaigns", zap.String("tenant_id", req.TenantID), zap.Error(err))
		return nil, nil, errutil.Internal("failed to list campaigns", err)
	}

	data, pageInfo := pagination.BuildCursorPageInfo(campaigns, limit, func(c *Campaign) string {
		return c.CreatedAt.Format(time.RFC3339Nano)
	})

	return data, pageInfo, nil
}

func (s *Service) Update(ctx context.Context, tenantID, campaignID string, req *UpdateCampaignRequest) (*Campaign, error) {
	existing, err := s.Get(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
		updates["slug"] = slug.Make(req.Name)
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if !req.RewardPool.IsZero() {
		if req.RewardPool.IsNegative() {
			return nil, errutil.ValidationFailed("reward_pool must not be negative", nil)
		}
		updates["reward_pool"] = req.RewardPool
	}
	if req.EndAt != nil {
		updates["end_at"] = req.EndAt
	}
	if len(req.Algorithm) > 0 {
		if _, err := reward.ParseAlgorithmConfig(req.Algorithm); err != nil {
			return nil, errutil.UnprocessableEntity("invalid algorithm config", err)
		}
		updates["algorithm"] = req.Algorithm
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.campaign.Update(ctx, campaignID, updates); err != nil {
		zap.L().Error("failed to update campaign", zap.String("campaign_id", campaignID), zap.Error(err))
		return nil, errutil.Internal("failed to update campaign", err)
	}

	return s.Get(ctx, tenantID, campaignID)
}

func (s *Service) Activate(ctx context.Context, tenantID, campaignID string) (*Campaign, error) {
	return s.transition(ctx, tenantID, campaignID, StatusDraft, StatusActive)
}

func (s *Service) Complete(ctx context.Context, tenantID, campaignID string) (*Campaign, error) {
	return s.transition(ctx, tenantID, campaignID, StatusActive, StatusCompleted)
}

func (s *Service) transition(ctx context.Context, tenantID, campaignID, from, to string) (*Campaign, error) {
	c, err := s.Get(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}

	if c.Status != from {
		return nil, errutil.Conflict("invalid status transition",
			fmt.Errorf("cannot move campaign from %s to %s", c.Status, to))
	}

	if err := s.campaign.Update(ctx, campaignID, map[string]any{"status": to}); err != nil {
		zap.L().Error("failed to update campaign status", zap.String("campaign_id", campaignID), zap.Error(err))
		return nil, errutil.Internal("failed to update campaign status", err)
	}

	c.Status = to
	return c, nil
}

// CurrentTier resolves where the campaign's running participation total
// sits on its tier ladder.
func (s *Service) CurrentTier(ctx context.Context, tenantID, campaignID string) (*reward.TierResult, error) {
	c, err := s.Get(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}

	cfg, err := reward.ParseAlgorithmConfig(c.Algorithm)
	if err != nil {
		zap.L().Error("stored algorithm config no longer parses", zap.String("campaign_id", campaignID), zap.Error(err))
		return nil, errutil.UnprocessableEntity("invalid algorithm config", err)
	}

	res, err := reward.ResolveTier(c.TotalParticipationScore, cfg.Tiers)
	if err != nil {
		return nil, errutil.UnprocessableEntity("failed to resolve tier", err)
	}

	return &res, nil
}

// AlgorithmConfig parses the stored algorithm blob.
func (s *Service) AlgorithmConfig(ctx context.Context, tenantID, campaignID string) (*Campaign, reward.AlgorithmConfig, error) {
	c, err := s.Get(ctx, tenantID, campaignID)
	if err != nil {
		return nil, reward.AlgorithmConfig{}, err
	}

	cfg, err := reward.ParseAlgorithmConfig(c.Algorithm)
	if err != nil {
		return nil, reward.AlgorithmConfig{}, errutil.UnprocessableEntity("invalid algorithm config", err)
	}

	return c, cfg, nil
}
