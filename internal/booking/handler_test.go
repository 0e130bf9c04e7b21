package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/view"
	_ "github.com/freightdesk/freightdesk/testing"
)

func newBookingRouter(t *testing.T, svc *Service) http.Handler {
	t.Helper()
	templates, err := view.NewEngine(TemplateFuncs())
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)

	csrf := shared.NewCSRFManager("csrfsecret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, svc, Names{
		ShippingLine: func(int64) string { return "Oceanic Lines" },
		Ship:         func(int64) string { return "MV Example" },
	}, templates, csrf)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessions.Load(req.Context(), req)
			if err != nil {
				t.Fatalf("load session: %v", err)
			}
			ctx := shared.ContextWithSession(req.Context(), sess)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/bookings", handler.MountRoutes)
	return r
}

func TestListPageRendersBookings(t *testing.T) {
	port := newMemoryPort()
	svc := NewService(port, nil, 0)
	res := svc.Create(context.Background(), CreateRequest{Mode: ModeDoorToDoor, ContainerType: Container20FT, Quantity: 3})
	require.True(t, res.OK)

	router := newBookingRouter(t, svc)
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "SRV-HWB-001")
	require.Contains(t, rec.Body.String(), "3 × 20FT")
}

// failingPort drops the connection on list calls once fail is flipped.
type failingPort struct {
	*memoryPort
	fail bool
}

func (f *failingPort) List(ctx context.Context) ([]Booking, error) {
	if f.fail {
		return nil, errors.New("connection refused")
	}
	return f.memoryPort.List(ctx)
}

func TestListRendersRetryPageWhenFetchFailsCold(t *testing.T) {
	svc := NewService(&failingPort{memoryPort: newMemoryPort(), fail: true}, nil, 0)

	router := newBookingRouter(t, svc)
	req := httptest.NewRequest(http.MethodGet, "/bookings?sort=hwb", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "Bookings are unavailable")
	require.Contains(t, rec.Body.String(), `href="/bookings?sort=hwb"`)
	require.Contains(t, rec.Body.String(), "Retry")
}

func TestListKeepsCachedRowsWhenFetchFails(t *testing.T) {
	port := &failingPort{memoryPort: newMemoryPort()}
	svc := NewService(port, nil, 0)
	require.True(t, svc.Create(context.Background(), CreateRequest{Mode: ModePierToPier, ContainerType: ContainerLCL, Quantity: 1}).OK)

	// Later refreshes fail but the earlier snapshot still renders.
	port.fail = true

	router := newBookingRouter(t, svc)
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "SRV-HWB-001")
}

func TestDetailPageShowsNextStatus(t *testing.T) {
	port := newMemoryPort()
	svc := NewService(port, nil, 0)
	res := svc.Create(context.Background(), CreateRequest{Mode: ModePierToPier, ContainerType: ContainerLCL, Quantity: 1})
	require.True(t, res.OK)

	router := newBookingRouter(t, svc)
	req := httptest.NewRequest(http.MethodGet, "/bookings/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Advance to Confirmed")
}

func TestAdvanceRedirectsBackToDetail(t *testing.T) {
	port := newMemoryPort()
	svc := NewService(port, nil, 0)
	res := svc.Create(context.Background(), CreateRequest{Mode: ModePierToPier, ContainerType: ContainerLCL, Quantity: 1})
	require.True(t, res.OK)

	router := newBookingRouter(t, svc)
	req := httptest.NewRequest(http.MethodPost, "/bookings/1/advance", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/bookings/1", rec.Header().Get("Location"))
	require.Equal(t, StatusConfirmed, port.bookings[1].Status)
}

func TestBulkDeleteRemovesSelection(t *testing.T) {
	port := newMemoryPort()
	svc := NewService(port, nil, 0)
	for i := 0; i < 3; i++ {
		require.True(t, svc.Create(context.Background(), CreateRequest{Mode: ModePierToPier, ContainerType: ContainerLCL, Quantity: 1}).OK)
	}

	router := newBookingRouter(t, svc)
	req := httptest.NewRequest(http.MethodPost, "/bookings/bulk-delete", strings.NewReader("id=1&id=3"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, port.bookings, 1)
	_, stillThere := port.bookings[2]
	require.True(t, stillThere)
}
