package notification

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// unreadKey is where the worker publishes the last polled unread count so
// every web process renders the same badge.
const unreadKey = "notifications:unread"

// Port is the API surface the service needs.
type Port interface {
	List(ctx context.Context) ([]Notification, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) error
	Dismiss(ctx context.Context, id int64) error
}

// Service polls and mutates notifications. Every operation is best effort:
// a failed poll keeps the previous list, and failed mutations never surface
// past the log. Alerts must not break the page that hosts them.
type Service struct {
	port   Port
	cache  *redis.Client
	logger *slog.Logger

	mu    sync.RWMutex
	items []Notification
}

// NewService builds the service.
func NewService(port Port, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{port: port, cache: cache, logger: logger}
}

// Poll refreshes the notification list and publishes the unread count.
func (s *Service) Poll(ctx context.Context) []Notification {
	items, err := s.port.List(ctx)
	if err != nil {
		s.logger.Warn("notification poll failed", "error", err)
		return s.Items()
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.publishUnread(ctx, countUnread(items))
	return items
}

// Items returns the last polled list.
func (s *Service) Items() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// UnreadCount reads the published badge count, falling back to the local
// list when redis is unavailable.
func (s *Service) UnreadCount(ctx context.Context) int {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, unreadKey).Result(); err == nil {
			if n, err := strconv.Atoi(raw); err == nil {
				return n
			}
		}
	}
	return countUnread(s.Items())
}

// MarkRead flags one notification and re-polls. Failures are logged only.
func (s *Service) MarkRead(ctx context.Context, id int64) {
	if err := s.port.MarkRead(ctx, id); err != nil {
		s.logger.Warn("mark notification read failed", "id", id, "error", err)
		return
	}
	s.Poll(ctx)
}

// MarkAllRead flags everything and re-polls. Failures are logged only.
func (s *Service) MarkAllRead(ctx context.Context) {
	if err := s.port.MarkAllRead(ctx); err != nil {
		s.logger.Warn("mark all notifications read failed", "error", err)
		return
	}
	s.Poll(ctx)
}

// Dismiss removes one notification and re-polls. Failures are logged only.
func (s *Service) Dismiss(ctx context.Context, id int64) {
	if err := s.port.Dismiss(ctx, id); err != nil {
		s.logger.Warn("dismiss notification failed", "id", id, "error", err)
		return
	}
	s.Poll(ctx)
}

func (s *Service) publishUnread(ctx context.Context, n int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, unreadKey, strconv.Itoa(n), time.Minute).Err(); err != nil {
		s.logger.Warn("publish unread count failed", "error", err)
	}
}

func countUnread(items []Notification) int {
	var n int
	for _, item := range items {
		if !item.Read {
			n++
		}
	}
	return n
}
