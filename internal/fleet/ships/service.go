package ships

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freightdesk/freightdesk/internal/store"
)

// Service owns the ship collection store.
type Service struct {
	store *store.Store[Ship, Payload]
}

// NewService builds the service with its injected store.
func NewService(src store.Source[Ship, Payload], cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{store: store.New[Ship, Payload](src, cache, "ships", cacheTTL)}
}

// Store exposes the collection store.
func (s *Service) Store() *store.Store[Ship, Payload] {
	return s.store
}

// FetchAll refreshes and returns the ship collection.
func (s *Service) FetchAll(ctx context.Context) ([]Ship, error) {
	return s.store.FetchAll(ctx)
}

// OfLine returns the cached ships scoped to a shipping line, the option set
// the wizard shows after a carrier is picked.
func (s *Service) OfLine(lineID int64) []Ship {
	var out []Ship
	for _, ship := range s.store.Items() {
		if ship.ShippingLineID == lineID {
			out = append(out, ship)
		}
	}
	return out
}

// NameOf resolves a ship name from the cached collection.
func (s *Service) NameOf(id int64) string {
	for _, ship := range s.store.Items() {
		if ship.ID == id {
			return ship.Name
		}
	}
	return ""
}
