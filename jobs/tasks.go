package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskExportWaybills renders a bulk waybill selection into one PDF.
	TaskExportWaybills = "export:waybills"
	// TaskNotificationPoll refreshes the notification list and unread gauge.
	TaskNotificationPoll = "notifications:poll"
)

// ExportWaybillsPayload names the bookings a bulk export covers and the
// token the browser polls the result with.
type ExportWaybillsPayload struct {
	Token      string  `json:"token"`
	BookingIDs []int64 `json:"booking_ids"`
}

// NewExportWaybillsTask constructs the export task.
func NewExportWaybillsTask(payload ExportWaybillsPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExportWaybills, data), nil
}

// NewNotificationPollTask constructs the poll task. It carries no payload;
// the scheduler enqueues it on a fixed interval.
func NewNotificationPollTask() *asynq.Task {
	return asynq.NewTask(TaskNotificationPoll, nil)
}
