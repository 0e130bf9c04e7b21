package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freightdesk/freightdesk/internal/store"
)

// API is the remote surface the service depends on.
type API interface {
	store.Source[Booking, CreateRequest]
	UpdateStatus(ctx context.Context, id int64, status Status) (Booking, error)
	AddMilestone(ctx context.Context, id int64, req MilestoneRequest) (Booking, error)
}

// Service owns the booking collection store and the status transition rules
// the monitoring views rely on.
type Service struct {
	port  API
	store *store.Store[Booking, CreateRequest]
}

// NewService builds a Service with its injected collection store.
func NewService(port API, cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{
		port:  port,
		store: store.New[Booking, CreateRequest](port, cache, "bookings", cacheTTL),
	}
}

// Store exposes the collection store to handlers.
func (s *Service) Store() *store.Store[Booking, CreateRequest] {
	return s.store
}

// FetchAll refreshes and returns the booking collection.
func (s *Service) FetchAll(ctx context.Context) ([]Booking, error) {
	return s.store.FetchAll(ctx)
}

// Get returns one booking.
func (s *Service) Get(ctx context.Context, id int64) (Booking, error) {
	return s.store.Get(ctx, id)
}

// Create submits a new booking through the store, which re-fetches the
// collection on success.
func (s *Service) Create(ctx context.Context, payload CreateRequest) store.Result[Booking] {
	return s.store.Create(ctx, payload)
}

// AdvanceStatus moves a booking to the next status of its linear
// progression. Skipping ahead or moving backwards is rejected locally before
// any network call.
func (s *Service) AdvanceStatus(ctx context.Context, id int64) (Booking, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	next, err := current.Status.Next()
	if err != nil {
		return Booking{}, err
	}
	updated, err := s.port.UpdateStatus(ctx, id, next)
	if err != nil {
		return Booking{}, err
	}
	_, _ = s.store.FetchAll(ctx)
	return updated, nil
}

// RecordMilestone appends a fine-grained milestone to the booking's status
// history.
func (s *Service) RecordMilestone(ctx context.Context, id int64, milestone Milestone, note string) (Booking, error) {
	if !milestone.Valid() {
		return Booking{}, fmt.Errorf("booking: unknown milestone %q", milestone)
	}
	updated, err := s.port.AddMilestone(ctx, id, MilestoneRequest{Milestone: milestone, Note: note})
	if err != nil {
		return Booking{}, err
	}
	_, _ = s.store.FetchAll(ctx)
	return updated, nil
}
