package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/booking"
	"github.com/freightdesk/freightdesk/internal/finance"
	"github.com/freightdesk/freightdesk/internal/incident"
)

type stubBookings struct {
	items []booking.Booking
	err   error
}

func (s *stubBookings) FetchAll(ctx context.Context) ([]booking.Booking, error) {
	return s.items, s.err
}

type stubIncidents struct {
	items []incident.Incident
	err   error
}

func (s *stubIncidents) FetchAll(ctx context.Context) ([]incident.Incident, error) {
	return s.items, s.err
}

type stubFinance struct {
	receivables []finance.Receivable
	err         error
}

func (s *stubFinance) FetchReceivables(ctx context.Context) ([]finance.Receivable, error) {
	return s.receivables, s.err
}

func (s *stubFinance) ARAging(asOf time.Time) finance.AgingBucket {
	return finance.AgingBucket{Current: 100}
}

type stubNotifications struct{ unread int }

func (s *stubNotifications) UnreadCount(ctx context.Context) int { return s.unread }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadAggregatesSections(t *testing.T) {
	booked := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(
		&stubBookings{items: []booking.Booking{
			{ID: 1, Status: booking.StatusPending},
			{ID: 2, Status: booking.StatusInTransit},
			{ID: 3, Status: booking.StatusInTransit},
			{ID: 4, Status: booking.StatusCompleted},
		}},
		&stubIncidents{items: []incident.Incident{
			{ID: 1, TotalCost: 500},
			{ID: 2, TotalCost: 250},
		}},
		&stubFinance{receivables: []finance.Receivable{
			{BookingDate: booked, Terms: 30, CollectibleAmount: 1000},
		}},
		&stubNotifications{unread: 3},
		testLogger(),
	)

	overview := svc.Load(context.Background(), booked.AddDate(0, 2, 0))

	require.True(t, overview.StatusDistribution.Available)
	require.Equal(t, 2, overview.StatusDistribution.Value[booking.StatusInTransit])
	require.Equal(t, 3, overview.ActiveBookings.Value)
	require.Equal(t, 2, overview.OpenIncidents.Value)
	require.InDelta(t, 750, overview.IncidentCost.Value, 0.001)
	require.Equal(t, 1, overview.OverdueCount.Value)
	require.InDelta(t, 100, overview.ARAging.Value.Current, 0.001)
	require.Equal(t, 3, overview.UnreadCount)
}

func TestLoadDowngradesFailedSections(t *testing.T) {
	svc := NewService(
		&stubBookings{err: errors.New("upstream unavailable")},
		&stubIncidents{items: []incident.Incident{{ID: 1, TotalCost: 10}}},
		&stubFinance{err: errors.New("upstream unavailable")},
		&stubNotifications{},
		testLogger(),
	)

	overview := svc.Load(context.Background(), time.Now())

	require.False(t, overview.StatusDistribution.Available)
	require.False(t, overview.ActiveBookings.Available)
	require.False(t, overview.ARAging.Available)
	require.False(t, overview.OverdueCount.Available)
	require.True(t, overview.OpenIncidents.Available)
	require.Equal(t, 1, overview.OpenIncidents.Value)
}
