package taskname

const (
	// Audit tasks
	AuditReportRun = "audit:report:run"
)
