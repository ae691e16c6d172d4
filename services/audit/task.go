package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"rewardplane/pkg/taskname"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var TaskModule = fx.Module("task.audit",
	fx.Provide(NewTask),
	fx.Invoke(RegisterTaskHandlers),
)

type Task struct {
	svc *Service
}

func NewTask(svc *Service) *Task {
	return &Task{svc: svc}
}

func RegisterTaskHandlers(mux *asynq.ServeMux, t *Task) {
	mux.HandleFunc(taskname.AuditReportRun, t.HandleReportTask)
}

// HandleReportTask builds the report for the campaign in the payload and
// stores it as the campaign's latest.
func (t *Task) HandleReportTask(ctx context.Context, task *asynq.Task) error {
	var payload ReportTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	zapLog := zap.L().With(
		zap.String("task_type", task.Type()),
		zap.String("tenant_id", payload.TenantID),
		zap.String("campaign_id", payload.CampaignID),
		zap.String("trace_id", payload.TraceID),
	)
	zapLog.Info("start audit report task")

	report, err := t.svc.BuildReport(ctx, payload.TenantID, payload.CampaignID)
	if err != nil {
		zapLog.Error("failed to build report", zap.Error(err))
		return err
	}

	if err := t.svc.Store(ctx, report); err != nil {
		zapLog.Error("failed to store report", zap.Error(err))
		return err
	}

	zapLog.Info("audit report task finished",
		zap.Int("participants", report.ParticipantCount),
		zap.Int("flagged", len(report.Flagged)))
	return nil
}
