package users

import (
	"context"
	"sync"
)

// Port is the API surface the service needs.
type Port interface {
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id int64, payload Payload) (User, error)
}

// Service manages the staff user list shown on the admin screen.
type Service struct {
	port Port

	mu    sync.RWMutex
	items []User
}

// NewService constructs a Service.
func NewService(port Port) *Service {
	return &Service{port: port}
}

// FetchAll refreshes and returns the user list.
func (s *Service) FetchAll(ctx context.Context) ([]User, error) {
	items, err := s.port.List(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return items, nil
}

// Items returns the last fetched user list.
func (s *Service) Items() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// Update edits a user and re-fetches the list.
func (s *Service) Update(ctx context.Context, id int64, payload Payload) (User, error) {
	updated, err := s.port.Update(ctx, id, payload)
	if err != nil {
		return User{}, err
	}
	_, _ = s.FetchAll(ctx)
	return updated, nil
}
