package campaign

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

type Campaign struct {
	ID                      string          `gorm:"column:id" json:"campaign_id"`
	TenantID                string          `gorm:"column:tenant_id" json:"tenant_id"`
	Code                    string          `gorm:"column:code" json:"code"`
	Slug                    string          `gorm:"column:slug" json:"slug"`
	Name                    string          `gorm:"column:name" json:"name"`
	Description             string          `gorm:"column:description" json:"description"`
	Status                  string          `gorm:"column:status" json:"status"`
	RewardPool              decimal.Decimal `gorm:"column:reward_pool;type:numeric" json:"reward_pool"`
	TotalParticipationScore decimal.Decimal `gorm:"column:total_participation_score;type:numeric" json:"total_participation_score"`
	Algorithm               datatypes.JSON  `gorm:"column:algorithm" json:"algorithm"`
	StartAt                 *time.Time      `gorm:"column:start_at" json:"start_at,omitempty"`
	EndAt                   *time.Time      `gorm:"column:end_at" json:"end_at,omitempty"`
	CreatedAt               time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt               time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

type CreateCampaignRequest struct {
	TenantID    string          `json:"tenant_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	RewardPool  decimal.Decimal `json:"reward_pool"`
	Algorithm   datatypes.JSON  `json:"algorithm"`
	StartAt     *time.Time      `json:"start_at,omitempty"`
	EndAt       *time.Time      `json:"end_at,omitempty"`
}

type UpdateCampaignRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	RewardPool  decimal.Decimal `json:"reward_pool"`
	Algorithm   datatypes.JSON  `json:"algorithm"`
	EndAt       *time.Time      `json:"end_at,omitempty"`
}

type ListCampaignRequest struct {
	TenantID string `form:"tenant_id"`
	Status   string `form:"status"`
	Cursor   string `form:"cursor"`
	Limit    int    `form:"limit"`
}
