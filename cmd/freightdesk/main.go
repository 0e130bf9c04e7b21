package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/freightdesk/freightdesk/internal/app"
	"github.com/freightdesk/freightdesk/internal/auth"
	"github.com/freightdesk/freightdesk/internal/booking"
	"github.com/freightdesk/freightdesk/internal/booking/wizard"
	"github.com/freightdesk/freightdesk/internal/dashboard"
	"github.com/freightdesk/freightdesk/internal/finance"
	"github.com/freightdesk/freightdesk/internal/fleet"
	"github.com/freightdesk/freightdesk/internal/fleet/containers"
	"github.com/freightdesk/freightdesk/internal/fleet/ships"
	"github.com/freightdesk/freightdesk/internal/fleet/trucks"
	"github.com/freightdesk/freightdesk/internal/geo"
	"github.com/freightdesk/freightdesk/internal/incident"
	"github.com/freightdesk/freightdesk/internal/notification"
	"github.com/freightdesk/freightdesk/internal/observability"
	"github.com/freightdesk/freightdesk/internal/partner"
	"github.com/freightdesk/freightdesk/internal/platform/remote"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/users"
	"github.com/freightdesk/freightdesk/internal/view"
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

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "freightdesk_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine(booking.TemplateFuncs())
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	api := remote.NewClient(cfg.FreightAPIURL, cfg.FreightAPITimeout)
	cacheTTL := cfg.CollectionCacheTTL

	authService := auth.NewService(auth.NewClient(api))
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager)

	partnerService := partner.NewService(
		partner.NewClient(api, partner.TypeShippingLine),
		partner.NewClient(api, partner.TypeTrucking),
		redisClient, cacheTTL)
	shipService := ships.NewService(ships.NewClient(api), redisClient, cacheTTL)
	truckService := trucks.NewService(trucks.NewClient(api), redisClient, cacheTTL)
	containerService := containers.NewService(containers.NewClient(api), redisClient, cacheTTL)
	bookingService := booking.NewService(booking.NewClient(api), redisClient, cacheTTL)
	incidentService := incident.NewService(incident.NewClient(api), redisClient, cacheTTL)
	financeService := finance.NewService(finance.NewClient(api))
	notificationService := notification.NewService(notification.NewClient(api), redisClient, logger)
	userService := users.NewService(users.NewClient(api))

	// Render the previous collections immediately on a fresh start; the first
	// page load revalidates against the API.
	for _, warm := range []interface{ Warm(context.Context) bool }{
		partnerService.StoreFor(partner.TypeShippingLine),
		partnerService.StoreFor(partner.TypeTrucking),
		shipService.Store(),
		truckService.Store(),
		containerService.Store(),
		bookingService.Store(),
		incidentService.Store(),
	} {
		warm.Warm(ctx)
	}

	geocoder := geo.NewGeocoder(cfg.GeocoderURL, cfg.GeocoderTimeout, cfg.GeocoderDebounce)
	boundaries := geo.NewBoundaryClient(cfg.BoundaryURL)
	idempotency := shared.NewIdempotencyStore(redisClient, 10*time.Minute)
	drafts := wizard.NewDraftStore(redisClient, 24*time.Hour)
	metrics := observability.NewMetrics()

	dashboardService := dashboard.NewService(bookingService, incidentService, financeService, notificationService, logger)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService, templates, csrfManager)

	bookingNames := booking.Names{
		ShippingLine: func(id int64) string { return partnerService.NameOf(partner.TypeShippingLine, id) },
		Ship:         shipService.NameOf,
		Trucker:      func(id int64) string { return partnerService.NameOf(partner.TypeTrucking, id) },
		Truck:        truckService.PlateOf,
	}
	bookingHandler := booking.NewHandler(logger, bookingService, bookingNames, templates, csrfManager)

	wizardHandler := wizard.NewHandler(wizard.HandlerConfig{
		Logger:     logger,
		Drafts:     drafts,
		Bookings:   bookingService,
		Partners:   partnerService,
		Ships:      shipService,
		Trucks:     truckService,
		Geocoder:   geocoder,
		Boundaries: boundaries,
		Idem:       idempotency,
		Templates:  templates,
		CSRF:       csrfManager,
	})

	partnerHandler := partner.NewHandler(logger, partnerService, templates, csrfManager)
	partnerOptions := func(ptype partner.Type) func() []fleet.Option {
		return func() []fleet.Option {
			items := partnerService.StoreFor(ptype).Items()
			opts := make([]fleet.Option, 0, len(items))
			for _, p := range items {
				if p.IsActive {
					opts = append(opts, fleet.Option{ID: p.ID, Name: p.Name})
				}
			}
			return opts
		}
	}
	fleetHandler := fleet.NewHandler(fleet.HandlerConfig{
		Logger:         logger,
		Ships:          shipService,
		Trucks:         truckService,
		Containers:     containerService,
		LineName:       func(id int64) string { return partnerService.NameOf(partner.TypeShippingLine, id) },
		TruckerName:    func(id int64) string { return partnerService.NameOf(partner.TypeTrucking, id) },
		LineOptions:    partnerOptions(partner.TypeShippingLine),
		TruckerOptions: partnerOptions(partner.TypeTrucking),
		Templates:      templates,
		CSRF:           csrfManager,
	})

	hwbOf := func(id int64) string {
		for _, b := range bookingService.Store().Items() {
			if b.ID == id {
				return b.HWBNumber
			}
		}
		return ""
	}
	incidentHandler := incident.NewHandler(logger, incidentService, hwbOf, templates, csrfManager)
	notificationHandler := notification.NewHandler(logger, notificationService, templates, csrfManager)
	financeHandler := finance.NewHandler(logger, financeService, templates, csrfManager)
	usersHandler := users.NewHandler(logger, userService, templates, csrfManager)

	queue := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()
	exporter := jobs.NewExportService(queue, redisClient)

	pdfClient := report.NewClient(cfg.GotenbergURL, 0)
	resolver := waybillResolver{partners: partnerService, ships: shipService, finance: financeService}
	reportHandler := report.NewHandler(pdfClient, logger, bookingService, resolver, exporter)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		Templates:           templates,
		SessionManager:      sessionManager,
		CSRFManager:         csrfManager,
		AuthHandler:         authHandler,
		DashboardHandler:    dashboardHandler,
		BookingHandler:      bookingHandler,
		WizardHandler:       wizardHandler,
		PartnerHandler:      partnerHandler,
		FleetHandler:        fleetHandler,
		IncidentHandler:     incidentHandler,
		NotificationHandler: notificationHandler,
		FinanceHandler:      financeHandler,
		UsersHandler:        usersHandler,
		ReportHandler:       reportHandler,
		JobHandler:          jobHandler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
