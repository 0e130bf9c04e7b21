package trucks

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freightdesk/freightdesk/internal/store"
)

// Service owns the truck collection store.
type Service struct {
	store *store.Store[Truck, Payload]
}

// NewService builds the service with its injected store.
func NewService(src store.Source[Truck, Payload], cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{store: store.New[Truck, Payload](src, cache, "trucks", cacheTTL)}
}

// Store exposes the collection store.
func (s *Service) Store() *store.Store[Truck, Payload] {
	return s.store
}

// FetchAll refreshes and returns the truck collection.
func (s *Service) FetchAll(ctx context.Context) ([]Truck, error) {
	return s.store.FetchAll(ctx)
}

// OfCompany returns the cached trucks scoped to a trucking company.
func (s *Service) OfCompany(companyID int64) []Truck {
	var out []Truck
	for _, truck := range s.store.Items() {
		if truck.TruckingCompanyID == companyID {
			out = append(out, truck)
		}
	}
	return out
}

// PlateOf resolves a plate number from the cached collection.
func (s *Service) PlateOf(id int64) string {
	for _, truck := range s.store.Items() {
		if truck.ID == id {
			return truck.PlateNumber
		}
	}
	return ""
}
