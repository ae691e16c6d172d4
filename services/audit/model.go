package audit

import (
	"time"

	"rewardplane/services/reward"
)

type ReportTaskPayload struct {
	TenantID   string `json:"tenant_id"`
	CampaignID string `json:"campaign_id"`
	TraceID    string `json:"trace_id,omitempty"`
}

type EnqueueResponse struct {
	TaskID     string `json:"task_id"`
	Queue      string `json:"queue"`
	CampaignID string `json:"campaign_id"`
}

// StoredReport wraps a report with the run metadata kept in redis.
type StoredReport struct {
	ReportCode  string             `json:"report_code,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
	Report      reward.AuditReport `json:"report"`
}
