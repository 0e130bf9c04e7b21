package incident

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freightdesk/freightdesk/internal/store"
)

// Port is the API surface the service needs.
type Port interface {
	store.Source[Incident, Payload]
	UploadImage(ctx context.Context, id int64, filename, contentType string, data []byte) (Incident, error)
}

// Service owns the incident collection store.
type Service struct {
	port  Port
	store *store.Store[Incident, Payload]
}

// NewService builds the service with its injected store.
func NewService(port Port, cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{
		port:  port,
		store: store.New[Incident, Payload](port, cache, "incidents", cacheTTL),
	}
}

// Store exposes the collection store.
func (s *Service) Store() *store.Store[Incident, Payload] {
	return s.store
}

// FetchAll refreshes and returns the incident collection.
func (s *Service) FetchAll(ctx context.Context) ([]Incident, error) {
	return s.store.FetchAll(ctx)
}

// File records an incident, optionally with a photo. The photo goes up in a
// second request once the incident exists; a failed upload leaves the
// incident filed without it.
func (s *Service) File(ctx context.Context, payload Payload, image *ImageUpload) (Incident, error) {
	created, err := s.port.Create(ctx, payload)
	if err != nil {
		return Incident{}, err
	}
	if image != nil {
		if withImage, err := s.port.UploadImage(ctx, created.ID, image.Filename, image.ContentType, image.Data); err == nil {
			created = withImage
		}
	}
	_, _ = s.store.FetchAll(ctx)
	return created, nil
}

// ImageUpload carries an incident photo through the service layer.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// OfBooking returns the cached incidents filed against a booking.
func (s *Service) OfBooking(bookingID int64) []Incident {
	var out []Incident
	for _, inc := range s.store.Items() {
		if inc.BookingID == bookingID {
			out = append(out, inc)
		}
	}
	return out
}

// TotalCostOf sums the cached incident costs for a booking.
func (s *Service) TotalCostOf(bookingID int64) float64 {
	var total float64
	for _, inc := range s.OfBooking(bookingID) {
		total += inc.TotalCost
	}
	return total
}
