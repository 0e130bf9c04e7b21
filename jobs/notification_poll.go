package jobs

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/freightdesk/freightdesk/internal/notification"
	"github.com/freightdesk/freightdesk/internal/observability"
)

// NewNotificationPollHandler builds the asynq handler behind the 30 second
// poll cron. The poll itself is best effort; the task never fails.
func NewNotificationPollHandler(svc *notification.Service, metrics *observability.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		svc.Poll(ctx)
		metrics.ObserveJob(TaskNotificationPoll, nil)
		return nil
	}
}
