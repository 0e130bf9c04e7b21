package partner

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freightdesk/freightdesk/internal/store"
)

// Port is the API surface the service needs per partner type.
type Port interface {
	store.Source[Partner, Payload]
	SetActive(ctx context.Context, id int64, active bool) (Partner, error)
	UploadLogo(ctx context.Context, id int64, filename, contentType string, data []byte) (Partner, error)
}

// Service manages both partner collections behind one API: the partners
// screen shows shipping lines and trucking companies side by side, and the
// wizard resolves names from either.
type Service struct {
	lines    Port
	truckers Port

	lineStore    *store.Store[Partner, Payload]
	truckerStore *store.Store[Partner, Payload]
}

// NewService builds the service with one injected store per partner type.
func NewService(lines, truckers Port, cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{
		lines:        lines,
		truckers:     truckers,
		lineStore:    store.New[Partner, Payload](lines, cache, "shipping_lines", cacheTTL),
		truckerStore: store.New[Partner, Payload](truckers, cache, "trucking_companies", cacheTTL),
	}
}

// StoreFor returns the collection store for a partner type.
func (s *Service) StoreFor(t Type) *store.Store[Partner, Payload] {
	if t == TypeTrucking {
		return s.truckerStore
	}
	return s.lineStore
}

func (s *Service) portFor(t Type) Port {
	if t == TypeTrucking {
		return s.truckers
	}
	return s.lines
}

// FetchShippingLines refreshes and returns the shipping line collection.
func (s *Service) FetchShippingLines(ctx context.Context) ([]Partner, error) {
	return s.lineStore.FetchAll(ctx)
}

// FetchTruckers refreshes and returns the trucking company collection.
func (s *Service) FetchTruckers(ctx context.Context) ([]Partner, error) {
	return s.truckerStore.FetchAll(ctx)
}

// Create registers a partner of the given type.
func (s *Service) Create(ctx context.Context, t Type, payload Payload) store.Result[Partner] {
	return s.StoreFor(t).Create(ctx, payload)
}

// Update replaces a partner of the given type.
func (s *Service) Update(ctx context.Context, t Type, id int64, payload Payload) store.Result[Partner] {
	return s.StoreFor(t).Update(ctx, id, payload)
}

// ToggleActive flips the soft-delete flag and re-fetches the collection.
func (s *Service) ToggleActive(ctx context.Context, t Type, id int64, active bool) (Partner, error) {
	updated, err := s.portFor(t).SetActive(ctx, id, active)
	if err != nil {
		return Partner{}, err
	}
	_, _ = s.StoreFor(t).FetchAll(ctx)
	return updated, nil
}

// UploadLogo stores a partner logo and re-fetches the collection.
func (s *Service) UploadLogo(ctx context.Context, t Type, id int64, filename, contentType string, data []byte) (Partner, error) {
	updated, err := s.portFor(t).UploadLogo(ctx, id, filename, contentType, data)
	if err != nil {
		return Partner{}, err
	}
	_, _ = s.StoreFor(t).FetchAll(ctx)
	return updated, nil
}

// NameOf resolves a partner name from the cached collections, for review
// and listing pages. Unknown ids resolve to empty.
func (s *Service) NameOf(t Type, id int64) string {
	for _, p := range s.StoreFor(t).Items() {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}
