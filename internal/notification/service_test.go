package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type memoryPort struct {
	items    []Notification
	listErr  error
	readErr  error
	listHits int
}

func (m *memoryPort) List(ctx context.Context) ([]Notification, error) {
	m.listHits++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]Notification, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *memoryPort) MarkRead(ctx context.Context, id int64) error {
	if m.readErr != nil {
		return m.readErr
	}
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Read = true
		}
	}
	return nil
}

func (m *memoryPort) MarkAllRead(ctx context.Context) error {
	for i := range m.items {
		m.items[i].Read = true
	}
	return nil
}

func (m *memoryPort) Dismiss(ctx context.Context, id int64) error {
	kept := m.items[:0]
	for _, item := range m.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	m.items = kept
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestPollPublishesUnreadCount(t *testing.T) {
	port := &memoryPort{items: []Notification{
		{ID: 1, Title: "Booking confirmed"},
		{ID: 2, Title: "Vessel departed", Read: true},
		{ID: 3, Title: "Incident filed"},
	}}
	svc := NewService(port, testRedis(t), testLogger())

	items := svc.Poll(context.Background())
	require.Len(t, items, 3)
	require.Equal(t, 2, svc.UnreadCount(context.Background()))
}

func TestPollFailureKeepsPreviousList(t *testing.T) {
	port := &memoryPort{items: []Notification{{ID: 1, Title: "Booking confirmed"}}}
	svc := NewService(port, nil, testLogger())

	require.Len(t, svc.Poll(context.Background()), 1)

	port.listErr = errors.New("upstream unavailable")
	items := svc.Poll(context.Background())
	require.Len(t, items, 1)
	require.Equal(t, 1, svc.UnreadCount(context.Background()))
}

func TestMarkReadFailureIsSilent(t *testing.T) {
	port := &memoryPort{
		items:   []Notification{{ID: 1, Title: "Booking confirmed"}},
		readErr: errors.New("upstream unavailable"),
	}
	svc := NewService(port, nil, testLogger())
	svc.Poll(context.Background())
	hits := port.listHits

	svc.MarkRead(context.Background(), 1)
	require.Equal(t, hits, port.listHits, "failed mutation must not re-poll")
	require.False(t, svc.Items()[0].Read)
}

func TestDismissRepolls(t *testing.T) {
	port := &memoryPort{items: []Notification{
		{ID: 1, Title: "Booking confirmed"},
		{ID: 2, Title: "Vessel departed"},
	}}
	svc := NewService(port, testRedis(t), testLogger())
	svc.Poll(context.Background())

	svc.Dismiss(context.Background(), 1)
	require.Len(t, svc.Items(), 1)
	require.Equal(t, int64(2), svc.Items()[0].ID)
	require.Equal(t, 1, svc.UnreadCount(context.Background()))
}
