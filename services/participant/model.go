package participant

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	InteractionClick      = "click"
	InteractionView       = "view"
	InteractionSubmission = "submission"
)

type Participant struct {
	ID                 string          `gorm:"column:id" json:"participant_id"`
	TenantID           string          `gorm:"column:tenant_id" json:"tenant_id"`
	CampaignID         string          `gorm:"column:campaign_id" json:"campaign_id"`
	MemberID           string          `gorm:"column:member_id" json:"member_id"`
	ClickCount         decimal.Decimal `gorm:"column:click_count;type:numeric" json:"click_count"`
	ViewCount          decimal.Decimal `gorm:"column:view_count;type:numeric" json:"view_count"`
	SubmissionCount    decimal.Decimal `gorm:"column:submission_count;type:numeric" json:"submission_count"`
	ParticipationScore decimal.Decimal `gorm:"column:participation_score;type:numeric" json:"participation_score"`
	CreatedAt          time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

type SocialPost struct {
	ID            string          `gorm:"column:id" json:"post_id"`
	ParticipantID string          `gorm:"column:participant_id" json:"participant_id"`
	CampaignID    string          `gorm:"column:campaign_id" json:"campaign_id"`
	Platform      string          `gorm:"column:platform" json:"platform"`
	ExternalRef   string          `gorm:"column:external_ref" json:"external_ref"`
	Likes         decimal.Decimal `gorm:"column:likes;type:numeric" json:"likes"`
	Shares        decimal.Decimal `gorm:"column:shares;type:numeric" json:"shares"`
	Comments      decimal.Decimal `gorm:"column:comments;type:numeric" json:"comments"`
	SyncedAt      time.Time       `gorm:"column:synced_at" json:"synced_at"`
}

type JoinRequest struct {
	TenantID string `json:"tenant_id"`
	MemberID string `json:"member_id"`
}

type InteractionRequest struct {
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

type SyncPostRequest struct {
	Platform    string          `json:"platform"`
	ExternalRef string          `json:"external_ref"`
	Likes       decimal.Decimal `json:"likes"`
	Shares      decimal.Decimal `json:"shares"`
	Comments    decimal.Decimal `json:"comments"`
}

type SyncPostsRequest struct {
	Posts []SyncPostRequest `json:"posts"`
}
