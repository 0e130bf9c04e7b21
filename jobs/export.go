package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/freightdesk/freightdesk/internal/observability"
	"github.com/freightdesk/freightdesk/report"
)

// exportTTL bounds how long a finished export stays downloadable.
const exportTTL = 15 * time.Minute

func exportKey(token string) string {
	return "export:waybill:" + token
}

// ExportService enqueues bulk waybill exports and serves their results.
// It satisfies report.Exporter.
type ExportService struct {
	queue *asynq.Client
	cache *redis.Client
}

// NewExportService constructs an ExportService.
func NewExportService(queue *asynq.Client, cache *redis.Client) *ExportService {
	return &ExportService{queue: queue, cache: cache}
}

// EnqueueExport queues a bulk export and returns the polling token.
func (s *ExportService) EnqueueExport(ctx context.Context, bookingIDs []int64) (string, error) {
	token := uuid.NewString()
	task, err := NewExportWaybillsTask(ExportWaybillsPayload{Token: token, BookingIDs: bookingIDs})
	if err != nil {
		return "", err
	}
	if _, err := s.queue.EnqueueContext(ctx, task, asynq.Queue(QueueDefault)); err != nil {
		return "", fmt.Errorf("jobs: enqueue export: %w", err)
	}
	return token, nil
}

// ExportResult returns the rendered PDF once the worker has stored it.
func (s *ExportService) ExportResult(ctx context.Context, token string) ([]byte, bool, error) {
	data, err := s.cache.Get(ctx, exportKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("jobs: export result: %w", err)
	}
	return data, true, nil
}

// NewExportWaybillsHandler builds the asynq handler that renders the bundle
// and stores it under the polling token.
func NewExportWaybillsHandler(
	bookings report.BookingSource,
	resolver report.DataResolver,
	pdf *report.Client,
	cache *redis.Client,
	metrics *observability.Metrics,
	logger *slog.Logger,
) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ExportWaybillsPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}

		var pages []string
		for _, id := range payload.BookingIDs {
			b, err := bookings.Get(ctx, id)
			if err != nil {
				// A booking deleted after selection drops out of the bundle.
				logger.Warn("export skipping booking", "id", id, "error", err)
				continue
			}
			html, err := report.WaybillHTML(report.WaybillData{
				Booking:      b,
				ShippingLine: resolver.ShippingLineName(b.ShippingLineID),
				Ship:         resolver.ShipName(b.ShipID),
				Collectible:  resolver.CollectibleOf(b.ID),
			})
			if err != nil {
				metrics.ObserveJob(TaskExportWaybills, err)
				return err
			}
			pages = append(pages, html)
		}
		if len(pages) == 0 {
			metrics.ObserveJob(TaskExportWaybills, nil)
			return asynq.SkipRetry
		}

		rendered, err := pdf.RenderHTML(ctx, report.BundleHTML(pages))
		if err != nil {
			metrics.ObserveJob(TaskExportWaybills, err)
			return err
		}
		if err := cache.Set(ctx, exportKey(payload.Token), rendered, exportTTL).Err(); err != nil {
			metrics.ObserveJob(TaskExportWaybills, err)
			return err
		}
		metrics.ObserveJob(TaskExportWaybills, nil)
		return nil
	}
}
