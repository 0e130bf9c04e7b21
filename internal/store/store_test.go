package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/platform/httpx"
)

type widget struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type widgetPayload struct {
	Name string
}

type fakeSource struct {
	items     []widget
	nextID    int64
	listCalls int
	listErr   error
	createErr error
}

func (f *fakeSource) List(ctx context.Context) ([]widget, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]widget(nil), f.items...), nil
}

func (f *fakeSource) Get(ctx context.Context, id int64) (widget, error) {
	for _, w := range f.items {
		if w.ID == id {
			return w, nil
		}
	}
	return widget{}, httpx.ErrNotFound
}

func (f *fakeSource) Create(ctx context.Context, payload widgetPayload) (widget, error) {
	if f.createErr != nil {
		return widget{}, f.createErr
	}
	f.nextID++
	w := widget{ID: f.nextID, Name: payload.Name}
	f.items = append(f.items, w)
	return w, nil
}

func (f *fakeSource) Update(ctx context.Context, id int64, payload widgetPayload) (widget, error) {
	for i, w := range f.items {
		if w.ID == id {
			f.items[i].Name = payload.Name
			return f.items[i], nil
		}
	}
	return widget{}, httpx.ErrNotFound
}

func (f *fakeSource) Delete(ctx context.Context, id int64) error {
	for i, w := range f.items {
		if w.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return httpx.ErrNotFound
}

func TestCreateRefetchesExactlyOnce(t *testing.T) {
	src := &fakeSource{}
	s := New[widget, widgetPayload](src, nil, "", 0)

	res := s.Create(context.Background(), widgetPayload{Name: "MV Horizon"})
	require.True(t, res.OK)
	require.Empty(t, res.Err)
	require.Equal(t, 1, src.listCalls)
	require.Len(t, s.Items(), 1)
	require.Equal(t, "MV Horizon", s.Items()[0].Name)
}

func TestFailedMutationDoesNotRefetch(t *testing.T) {
	src := &fakeSource{createErr: fmt.Errorf("%w: name already taken", httpx.ErrDuplicate)}
	s := New[widget, widgetPayload](src, nil, "", 0)

	res := s.Create(context.Background(), widgetPayload{Name: "dup"})
	require.False(t, res.OK)
	require.NotEmpty(t, res.Err)
	require.Zero(t, src.listCalls)
}

func TestUpdateAndRemoveRefetch(t *testing.T) {
	src := &fakeSource{items: []widget{{ID: 1, Name: "old"}, {ID: 2, Name: "keep"}}, nextID: 2}
	s := New[widget, widgetPayload](src, nil, "", 0)

	res := s.Update(context.Background(), 1, widgetPayload{Name: "new"})
	require.True(t, res.OK)
	require.Equal(t, 1, src.listCalls)
	require.Equal(t, "new", s.Items()[0].Name)

	res = s.Remove(context.Background(), 1)
	require.True(t, res.OK)
	require.Equal(t, 2, src.listCalls)
	require.Len(t, s.Items(), 1)
}

func TestFetchFailureKeepsPreviousCollectionAndSetsErr(t *testing.T) {
	src := &fakeSource{items: []widget{{ID: 1, Name: "a"}}}
	s := New[widget, widgetPayload](src, nil, "", 0)

	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, s.Err())

	src.listErr = errors.New("connection refused")
	_, err = s.FetchAll(context.Background())
	require.Error(t, err)
	require.NotEmpty(t, s.Err())
	require.Len(t, s.Items(), 1, "stale collection kept for display")
}

func TestSnapshotRoundTripThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	src := &fakeSource{items: []widget{{ID: 1, Name: "cached"}}}
	s := New[widget, widgetPayload](src, client, "widgets", time.Minute)
	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	// A fresh store instance warms from the snapshot without a remote call.
	warm := New[widget, widgetPayload](&fakeSource{}, client, "widgets", time.Minute)
	require.True(t, warm.Warm(context.Background()))
	require.Len(t, warm.Items(), 1)
	require.Equal(t, "cached", warm.Items()[0].Name)
}
