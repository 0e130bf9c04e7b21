package containers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freightdesk/freightdesk/internal/store"
)

// Port is the API surface the service needs.
type Port interface {
	store.Source[Container, Payload]
	MarkReturned(ctx context.Context, id int64) (Container, error)
}

// Service owns the container collection store.
type Service struct {
	port  Port
	store *store.Store[Container, Payload]
}

// NewService builds the service with its injected store.
func NewService(port Port, cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{
		port:  port,
		store: store.New[Container, Payload](port, cache, "containers", cacheTTL),
	}
}

// Store exposes the collection store.
func (s *Service) Store() *store.Store[Container, Payload] {
	return s.store
}

// FetchAll refreshes and returns the container collection.
func (s *Service) FetchAll(ctx context.Context) ([]Container, error) {
	return s.store.FetchAll(ctx)
}

// MarkReturned flips the container status and re-fetches the collection.
func (s *Service) MarkReturned(ctx context.Context, id int64) (Container, error) {
	updated, err := s.port.MarkReturned(ctx, id)
	if err != nil {
		return Container{}, err
	}
	_, _ = s.store.FetchAll(ctx)
	return updated, nil
}

// OfBooking returns the cached containers assigned to a booking.
func (s *Service) OfBooking(bookingID int64) []Container {
	var out []Container
	for _, c := range s.store.Items() {
		if c.BookingID == bookingID && c.Status == StatusInUse {
			out = append(out, c)
		}
	}
	return out
}
