package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/freightdesk/freightdesk/internal/app"
	"github.com/freightdesk/freightdesk/internal/booking"
	"github.com/freightdesk/freightdesk/internal/finance"
	"github.com/freightdesk/freightdesk/internal/fleet/ships"
	"github.com/freightdesk/freightdesk/internal/notification"
	"github.com/freightdesk/freightdesk/internal/observability"
	"github.com/freightdesk/freightdesk/internal/partner"
	"github.com/freightdesk/freightdesk/internal/platform/remote"
	"github.com/freightdesk/freightdesk/jobs"
	"github.com/freightdesk/freightdesk/report"
)

// waybillResolver satisfies report.DataResolver from the cached collections.
type waybillResolver struct {
	partners *partner.Service
	ships    *ships.Service
	finance  *finance.Service
}

func (r waybillResolver) ShippingLineName(id int64) string {
	return r.partners.NameOf(partner.TypeShippingLine, id)
}

func (r waybillResolver) ShipName(id int64) string {
	return r.ships.NameOf(id)
}

func (r waybillResolver) CollectibleOf(bookingID int64) float64 {
	for _, rec := range r.finance.Receivables() {
		if rec.BookingID == bookingID {
			return rec.CollectibleAmount
		}
	}
	return 0
}

// bookingSource refreshes the supporting collections once before resolving a
// booking, so exports render names even on a cold worker.
type bookingSource struct {
	bookings *booking.Service
	partners *partner.Service
	ships    *ships.Service
	finance  *finance.Service
}

func (s bookingSource) Get(ctx context.Context, id int64) (booking.Booking, error) {
	if len(s.partners.StoreFor(partner.TypeShippingLine).Items()) == 0 {
		_, _ = s.partners.FetchShippingLines(ctx)
	}
	if len(s.ships.Store().Items()) == 0 {
		_, _ = s.ships.FetchAll(ctx)
	}
	if len(s.finance.Receivables()) == 0 {
		_, _ = s.finance.FetchReceivables(ctx)
	}
	return s.bookings.Get(ctx, id)
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	// Workers have no session; the service token authenticates their calls.
	withToken := func(h asynq.HandlerFunc) asynq.HandlerFunc {
		return func(ctx context.Context, t *asynq.Task) error {
			if cfg.FreightAPIServiceToken != "" {
				ctx = remote.WithBearer(ctx, cfg.FreightAPIServiceToken)
			}
			return h(ctx, t)
		}
	}

	api := remote.NewClient(cfg.FreightAPIURL, cfg.FreightAPITimeout)
	cacheTTL := cfg.CollectionCacheTTL

	partnerService := partner.NewService(
		partner.NewClient(api, partner.TypeShippingLine),
		partner.NewClient(api, partner.TypeTrucking),
		redisClient, cacheTTL)
	shipService := ships.NewService(ships.NewClient(api), redisClient, cacheTTL)
	bookingService := booking.NewService(booking.NewClient(api), redisClient, cacheTTL)
	financeService := finance.NewService(finance.NewClient(api))
	notificationService := notification.NewService(notification.NewClient(api), redisClient, logger)

	metrics := observability.NewMetrics()
	pdfClient := report.NewClient(cfg.GotenbergURL, 0)

	bookings := bookingSource{
		bookings: bookingService,
		partners: partnerService,
		ships:    shipService,
		finance:  financeService,
	}
	resolver := waybillResolver{partners: partnerService, ships: shipService, finance: financeService}

	exportHandler := jobs.NewExportWaybillsHandler(bookings, resolver, pdfClient, redisClient, metrics, logger)
	pollHandler := jobs.NewNotificationPollHandler(notificationService, metrics)

	pollTask := jobs.NewNotificationPollTask()

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskExportWaybills, Handler: withToken(exportHandler)},
			{Type: jobs.TaskNotificationPoll, Handler: withToken(pollHandler)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "@every " + cfg.NotificationPollEvery.String(), Task: pollTask},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
