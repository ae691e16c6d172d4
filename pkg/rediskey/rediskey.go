package rediskey

import "fmt"

// Audit keys (global convention across services)
const (
	AuditReportPrefix = "audit:report"
	CampaignPrefix    = "campaign"
)

func NamespaceKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

// BuildAuditReportKey returns "audit:report:{campaignID}" — the latest
// stored audit report for a campaign.
func BuildAuditReportKey(campaignID string) string {
	return NamespaceKey(AuditReportPrefix, campaignID)
}

// BuildCampaignKey returns "campaign:{campaignID}"
func BuildCampaignKey(campaignID string) string {
	return NamespaceKey(CampaignPrefix, campaignID)
}
