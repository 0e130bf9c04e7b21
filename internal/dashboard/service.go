// Package dashboard assembles the executive overview from the other domain
// services. Sections load independently; a failed section renders as "N/A"
// instead of failing the whole page.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/freightdesk/freightdesk/internal/booking"
	"github.com/freightdesk/freightdesk/internal/finance"
	"github.com/freightdesk/freightdesk/internal/incident"
)

// BookingSource supplies the booking collection.
type BookingSource interface {
	FetchAll(ctx context.Context) ([]booking.Booking, error)
}

// IncidentSource supplies the incident collection.
type IncidentSource interface {
	FetchAll(ctx context.Context) ([]incident.Incident, error)
}

// FinanceSource supplies the AR view and aging buckets.
type FinanceSource interface {
	FetchReceivables(ctx context.Context) ([]finance.Receivable, error)
	ARAging(asOf time.Time) finance.AgingBucket
}

// NotificationSource supplies the unread badge count.
type NotificationSource interface {
	UnreadCount(ctx context.Context) int
}

// Section wraps one dashboard block. Available is false when its fetch
// failed and the template shows the placeholder instead.
type Section[T any] struct {
	Available bool
	Value     T
}

// Overview is everything the dashboard page renders.
type Overview struct {
	StatusDistribution Section[map[booking.Status]int]
	ActiveBookings     Section[int]
	OpenIncidents      Section[int]
	IncidentCost       Section[float64]
	ARAging            Section[finance.AgingBucket]
	OverdueCount       Section[int]
	UnreadCount        int
}

// Service fans out the section fetches.
type Service struct {
	bookings      BookingSource
	incidents     IncidentSource
	finances      FinanceSource
	notifications NotificationSource
	logger        *slog.Logger
}

// NewService constructs a Service.
func NewService(bookings BookingSource, incidents IncidentSource, finances FinanceSource, notifications NotificationSource, logger *slog.Logger) *Service {
	return &Service{
		bookings:      bookings,
		incidents:     incidents,
		finances:      finances,
		notifications: notifications,
		logger:        logger,
	}
}

// Load fetches every section concurrently. Section errors are logged and
// downgrade that section to unavailable; Load itself never fails.
func (s *Service) Load(ctx context.Context, asOf time.Time) Overview {
	var overview Overview

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := s.bookings.FetchAll(gctx)
		if err != nil {
			s.logger.Warn("dashboard bookings fetch failed", "error", err)
			return nil
		}
		dist := make(map[booking.Status]int)
		active := 0
		for _, b := range items {
			dist[b.Status]++
			if b.Status != booking.StatusCompleted {
				active++
			}
		}
		overview.StatusDistribution = Section[map[booking.Status]int]{Available: true, Value: dist}
		overview.ActiveBookings = Section[int]{Available: true, Value: active}
		return nil
	})

	g.Go(func() error {
		items, err := s.incidents.FetchAll(gctx)
		if err != nil {
			s.logger.Warn("dashboard incidents fetch failed", "error", err)
			return nil
		}
		var cost float64
		for _, inc := range items {
			cost += inc.TotalCost
		}
		overview.OpenIncidents = Section[int]{Available: true, Value: len(items)}
		overview.IncidentCost = Section[float64]{Available: true, Value: cost}
		return nil
	})

	g.Go(func() error {
		items, err := s.finances.FetchReceivables(gctx)
		if err != nil {
			s.logger.Warn("dashboard receivables fetch failed", "error", err)
			return nil
		}
		overdue := 0
		for _, r := range items {
			if r.Overdue(asOf) {
				overdue++
			}
		}
		overview.ARAging = Section[finance.AgingBucket]{Available: true, Value: s.finances.ARAging(asOf)}
		overview.OverdueCount = Section[int]{Available: true, Value: overdue}
		return nil
	})

	g.Go(func() error {
		overview.UnreadCount = s.notifications.UnreadCount(gctx)
		return nil
	})

	// Goroutines only ever return nil; Wait is a join point.
	_ = g.Wait()
	return overview
}
