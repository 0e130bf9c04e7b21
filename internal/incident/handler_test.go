package incident

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/booking"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/view"
	_ "github.com/freightdesk/freightdesk/testing"
)

// failingPort drops the connection on list calls once fail is flipped.
type failingPort struct {
	*memoryPort
	fail bool
}

func (f *failingPort) List(ctx context.Context) ([]Incident, error) {
	if f.fail {
		return nil, errors.New("connection refused")
	}
	return f.memoryPort.List(ctx)
}

func newIncidentRouter(t *testing.T, svc *Service) http.Handler {
	t.Helper()
	templates, err := view.NewEngine(booking.TemplateFuncs())
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)

	csrf := shared.NewCSRFManager("csrfsecret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hwbOf := func(int64) string { return "HWB-000042" }
	handler := NewHandler(logger, svc, hwbOf, templates, csrf)

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
	r.Route("/incidents", handler.MountRoutes)
	return r
}

func TestListPageRendersIncidents(t *testing.T) {
	port := &memoryPort{incidents: []Incident{
		{ID: 1, BookingID: 7, Kind: KindSea, Description: "Container breached in transit", TotalCost: 1500},
	}}
	svc := NewService(port, nil, time.Minute)

	router := newIncidentRouter(t, svc)
	req := httptest.NewRequest(http.MethodGet, "/incidents", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Container breached in transit")
	require.Contains(t, rec.Body.String(), "HWB-000042")
}

func TestListRendersRetryPageWhenFetchFailsCold(t *testing.T) {
	svc := NewService(&failingPort{memoryPort: &memoryPort{}, fail: true}, nil, time.Minute)

	router := newIncidentRouter(t, svc)
	req := httptest.NewRequest(http.MethodGet, "/incidents", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "Incidents are unavailable")
	require.Contains(t, rec.Body.String(), `href="/incidents"`)
	require.Contains(t, rec.Body.String(), "Retry")
}

func TestListKeepsCachedRowsWhenFetchFails(t *testing.T) {
	port := &failingPort{memoryPort: &memoryPort{incidents: []Incident{
		{ID: 1, BookingID: 7, Kind: KindLand, Description: "Truck rollover on NLEX", TotalCost: 9000},
	}}}
	svc := NewService(port, nil, time.Minute)
	_, err := svc.FetchAll(context.Background())
	require.NoError(t, err)

	port.fail = true

	router := newIncidentRouter(t, svc)
	req := httptest.NewRequest(http.MethodGet, "/incidents", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Truck rollover on NLEX")
}
