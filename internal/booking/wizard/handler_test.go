package wizard

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/booking"
	"github.com/freightdesk/freightdesk/internal/fleet/ships"
	"github.com/freightdesk/freightdesk/internal/fleet/trucks"
	"github.com/freightdesk/freightdesk/internal/geo"
	"github.com/freightdesk/freightdesk/internal/partner"
	"github.com/freightdesk/freightdesk/internal/platform/httpx"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/view"
	_ "github.com/freightdesk/freightdesk/testing"
)

type fakeBookingAPI struct {
	createCalls int
	created     []booking.Booking
}

func (f *fakeBookingAPI) List(ctx context.Context) ([]booking.Booking, error) {
	return f.created, nil
}

func (f *fakeBookingAPI) Get(ctx context.Context, id int64) (booking.Booking, error) {
	for _, b := range f.created {
		if b.ID == id {
			return b, nil
		}
	}
	return booking.Booking{}, httpx.ErrNotFound
}

func (f *fakeBookingAPI) Create(ctx context.Context, payload booking.CreateRequest) (booking.Booking, error) {
	f.createCalls++
	b := booking.Booking{
		ID:            int64(f.createCalls),
		HWBNumber:     "SRV-HWB-001",
		BookingNumber: "SRV-BKG-001",
		Mode:          payload.Mode,
		ContainerType: payload.ContainerType,
		Quantity:      payload.Quantity,
		Status:        booking.StatusPending,
	}
	f.created = append(f.created, b)
	return b, nil
}

func (f *fakeBookingAPI) Update(ctx context.Context, id int64, payload booking.CreateRequest) (booking.Booking, error) {
	return booking.Booking{}, httpx.ErrNotFound
}

func (f *fakeBookingAPI) Delete(ctx context.Context, id int64) error { return httpx.ErrNotFound }

func (f *fakeBookingAPI) UpdateStatus(ctx context.Context, id int64, status booking.Status) (booking.Booking, error) {
	return booking.Booking{}, httpx.ErrNotFound
}

func (f *fakeBookingAPI) AddMilestone(ctx context.Context, id int64, req booking.MilestoneRequest) (booking.Booking, error) {
	return booking.Booking{}, httpx.ErrNotFound
}

type staticPartners struct {
	items []partner.Partner
}

func (s *staticPartners) List(ctx context.Context) ([]partner.Partner, error) { return s.items, nil }

func (s *staticPartners) Get(ctx context.Context, id int64) (partner.Partner, error) {
	for _, p := range s.items {
		if p.ID == id {
			return p, nil
		}
	}
	return partner.Partner{}, httpx.ErrNotFound
}

func (s *staticPartners) Create(ctx context.Context, payload partner.Payload) (partner.Partner, error) {
	return partner.Partner{}, httpx.ErrNotFound
}

func (s *staticPartners) Update(ctx context.Context, id int64, payload partner.Payload) (partner.Partner, error) {
	return partner.Partner{}, httpx.ErrNotFound
}

func (s *staticPartners) Delete(ctx context.Context, id int64) error { return httpx.ErrNotFound }

func (s *staticPartners) SetActive(ctx context.Context, id int64, active bool) (partner.Partner, error) {
	return partner.Partner{}, httpx.ErrNotFound
}

func (s *staticPartners) UploadLogo(ctx context.Context, id int64, filename, contentType string, data []byte) (partner.Partner, error) {
	return partner.Partner{}, httpx.ErrNotFound
}

type staticShips struct {
	items []ships.Ship
}

func (s *staticShips) List(ctx context.Context) ([]ships.Ship, error) { return s.items, nil }

func (s *staticShips) Get(ctx context.Context, id int64) (ships.Ship, error) {
	return ships.Ship{}, httpx.ErrNotFound
}

func (s *staticShips) Create(ctx context.Context, payload ships.Payload) (ships.Ship, error) {
	return ships.Ship{}, httpx.ErrNotFound
}

func (s *staticShips) Update(ctx context.Context, id int64, payload ships.Payload) (ships.Ship, error) {
	return ships.Ship{}, httpx.ErrNotFound
}

func (s *staticShips) Delete(ctx context.Context, id int64) error { return httpx.ErrNotFound }

type staticTrucks struct {
	items []trucks.Truck
}

func (s *staticTrucks) List(ctx context.Context) ([]trucks.Truck, error) { return s.items, nil }

func (s *staticTrucks) Get(ctx context.Context, id int64) (trucks.Truck, error) {
	return trucks.Truck{}, httpx.ErrNotFound
}

func (s *staticTrucks) Create(ctx context.Context, payload trucks.Payload) (trucks.Truck, error) {
	return trucks.Truck{}, httpx.ErrNotFound
}

func (s *staticTrucks) Update(ctx context.Context, id int64, payload trucks.Payload) (trucks.Truck, error) {
	return trucks.Truck{}, httpx.ErrNotFound
}

func (s *staticTrucks) Delete(ctx context.Context, id int64) error { return httpx.ErrNotFound }

const testSessionID = "wizard-test-session"

type wizardFixture struct {
	router http.Handler
	drafts *DraftStore
	api    *fakeBookingAPI
}

func newWizardFixture(t *testing.T, geocoder *geo.Geocoder, boundaries *geo.BoundaryClient) *wizardFixture {
	t.Helper()
	templates, err := view.NewEngine(booking.TemplateFuncs())
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	drafts := NewDraftStore(redisClient, time.Hour)

	api := &fakeBookingAPI{}
	lines := &staticPartners{items: []partner.Partner{
		{ID: 1, Type: partner.TypeShippingLine, Name: "Oceanic Lines", IsActive: true},
	}}
	truckers := &staticPartners{items: []partner.Partner{
		{ID: 7, Type: partner.TypeTrucking, Name: "RoadRunner Trucking", IsActive: true},
	}}

	if geocoder == nil {
		geocoder = geo.NewGeocoder("http://127.0.0.1:1", time.Second, 0)
	}

	handler := NewHandler(HandlerConfig{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Drafts:   drafts,
		Bookings: booking.NewService(api, nil, 0),
		Partners: partner.NewService(lines, truckers, nil, 0),
		Ships: ships.NewService(&staticShips{items: []ships.Ship{
			{ID: 2, ShippingLineID: 1, Name: "MV Mactan", VesselNumber: "V-204"},
		}}, nil, 0),
		Trucks: trucks.NewService(&staticTrucks{items: []trucks.Truck{
			{ID: 4, TruckingCompanyID: 7, PlateNumber: "ABC-1234", Name: "Unit 4"},
		}}, nil, 0),
		Geocoder:   geocoder,
		Boundaries: boundaries,
		Idem:       shared.NewIdempotencyStore(redisClient, time.Minute),
		Templates:  templates,
		CSRF:       shared.NewCSRFManager("csrfsecret"),
	})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessions.Load(req.Context(), req)
			if err != nil {
				t.Fatalf("load session: %v", err)
			}
			// Pin the ID so drafts and geocode throttle keys survive
			// across requests without cookie juggling.
			sess.ID = testSessionID
			ctx := shared.ContextWithSession(req.Context(), sess)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/bookings/new", handler.MountRoutes)
	return &wizardFixture{router: r, drafts: drafts, api: api}
}

func (f *wizardFixture) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *wizardFixture) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// completeP2PDraft satisfies the full schema: Pier to Pier needs neither
// trucking assignments nor door addresses.
func completeP2PDraft() *Draft {
	d := &Draft{
		Step:           StepReview,
		HWBNumber:      "HWB-000042",
		BookingNumber:  "BKG-123456",
		BookingDate:    "2026-08-01",
		ShipperName:    "Acme Exports",
		ShipperPhone:   "+639171234567",
		ConsigneeName:  "Cebu Imports",
		ConsigneePhone: "+639181234567",
		ShippingLineID: 1,
		ShipID:         2,
		OriginPort:     "MNL",
		DestPort:       "CEB",
		ContainerType:  booking.Container20FT,
		Quantity:       2,
		Commodity:      "Electronics",
	}
	d.SetMode(booking.ModePierToPier)
	return d
}

func TestShowStartsAtPartiesStep(t *testing.T) {
	f := newWizardFixture(t, nil, nil)

	rec := f.get("/bookings/new")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Shipper &amp; Consignee")
	assert.Contains(t, rec.Body.String(), `name="shipper_name"`)
}

func TestNextBindsStepAndAdvances(t *testing.T) {
	f := newWizardFixture(t, nil, nil)

	form := url.Values{}
	form.Set("shipper_name", "Acme Exports")
	form.Set("shipper_phone", "+639171234567")
	form.Set("consignee_name", "Cebu Imports")
	form.Set("consignee_phone", "+639181234567")
	rec := f.post("/bookings/new/next", form)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/bookings/new", rec.Header().Get("Location"))

	draft, err := f.drafts.Load(context.Background(), testSessionID)
	require.NoError(t, err)
	assert.Equal(t, StepRouting, draft.Step)
	assert.Equal(t, "Acme Exports", draft.ShipperName)
}

func TestWizardStepSkipsTruckingForPierToPier(t *testing.T) {
	f := newWizardFixture(t, nil, nil)

	seed := &Draft{Step: StepRouting}
	require.NoError(t, f.drafts.Save(context.Background(), testSessionID, seed))

	form := url.Values{}
	form.Set("shipping_line_id", "1")
	form.Set("ship_id", "2")
	form.Set("origin_port", "MNL")
	form.Set("destination_port", "CEB")
	form.Set("container_type", "20FT")
	form.Set("quantity", "2")
	form.Set("commodity", "Electronics")
	form.Set("booking_mode", string(booking.ModePierToPier))
	form.Set("booking_date", "2026-08-01")
	rec := f.post("/bookings/new/next", form)

	require.Equal(t, http.StatusSeeOther, rec.Code)

	draft, err := f.drafts.Load(context.Background(), testSessionID)
	require.NoError(t, err)
	assert.Equal(t, StepLocations, draft.Step, "Pier to Pier jumps over trucking")
	assert.True(t, draft.SkipTrucking)
}

func TestValidateFieldReportsPhoneFormat(t *testing.T) {
	f := newWizardFixture(t, nil, nil)

	form := url.Values{}
	form.Set("field", "shipper_phone")
	form.Set("value", "0917 123 4567")
	rec := f.post("/bookings/new/field", form)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "shipper_phone", resp["field"])
	assert.Contains(t, resp["error"], "international phone format")
}

func TestSubmitCreatesBookingAndResetsDraft(t *testing.T) {
	f := newWizardFixture(t, nil, nil)
	require.NoError(t, f.drafts.Save(context.Background(), testSessionID, completeP2PDraft()))

	form := url.Values{}
	form.Set("submit_key", "HWB-000042:BKG-123456")
	rec := f.post("/bookings/new/submit", form)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/bookings", rec.Header().Get("Location"))
	require.Equal(t, 1, f.api.createCalls)

	// The next visit starts over at step one with fresh suggestions.
	draft, err := f.drafts.Load(context.Background(), testSessionID)
	require.NoError(t, err)
	assert.Equal(t, FirstStep, draft.Step)
	assert.Empty(t, draft.ShipperName)
}

func TestSubmitIsIdempotentPerKey(t *testing.T) {
	f := newWizardFixture(t, nil, nil)
	require.NoError(t, f.drafts.Save(context.Background(), testSessionID, completeP2PDraft()))

	form := url.Values{}
	form.Set("submit_key", "HWB-000042:BKG-123456")
	first := f.post("/bookings/new/submit", form)
	require.Equal(t, http.StatusSeeOther, first.Code)

	// A retried double-click replays the identical form before the page
	// reloads; the draft is still what the browser had.
	require.NoError(t, f.drafts.Save(context.Background(), testSessionID, completeP2PDraft()))
	second := f.post("/bookings/new/submit", form)

	require.Equal(t, http.StatusSeeOther, second.Code)
	require.Equal(t, "/bookings", second.Header().Get("Location"))
	assert.Equal(t, 1, f.api.createCalls, "duplicate key must not reach the API")
}

func TestSubmitWithIncompleteDraftReturnsToReview(t *testing.T) {
	f := newWizardFixture(t, nil, nil)
	incomplete := completeP2PDraft()
	incomplete.ConsigneePhone = ""
	require.NoError(t, f.drafts.Save(context.Background(), testSessionID, incomplete))

	rec := f.post("/bookings/new/submit", url.Values{})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Some details are missing or invalid")
	assert.Zero(t, f.api.createCalls)
}

func TestGeocodeThrottlesRapidQueries(t *testing.T) {
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"display_name":"Manila City Hall","lat":"14.5896","lon":"120.9810"}]`))
	}))
	defer nominatim.Close()

	f := newWizardFixture(t, geo.NewGeocoder(nominatim.URL, time.Second, 500*time.Millisecond), nil)

	first := f.get("/bookings/new/geocode?side=pickup&q=manila")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), "Manila City Hall")
	assert.Contains(t, first.Body.String(), "generation")

	second := f.get("/bookings/new/geocode?side=pickup&q=manila+city")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestApplyLocationRecordsCoordinates(t *testing.T) {
	f := newWizardFixture(t, nil, nil)
	seed := completeP2PDraft()
	seed.Step = StepLocations
	require.NoError(t, f.drafts.Save(context.Background(), testSessionID, seed))

	form := url.Values{}
	form.Set("side", "pickup")
	form.Set("address", "Makati City")
	form.Set("lat", "14.5547")
	form.Set("lng", "121.0244")
	rec := f.post("/bookings/new/location", form)

	require.Equal(t, http.StatusOK, rec.Code)
	draft, err := f.drafts.Load(context.Background(), testSessionID)
	require.NoError(t, err)
	assert.Equal(t, "Makati City", draft.PickupAddress)
	assert.InDelta(t, 14.5547, draft.PickupLat, 0.0001)
}

func TestBoundariesWalkTheAddressHierarchy(t *testing.T) {
	psgc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/provinces.json":
			_, _ = w.Write([]byte(`[{"code":"0722","name":"Cebu"}]`))
		case "/provinces/0722/cities-municipalities.json":
			_, _ = w.Write([]byte(`[{"code":"072217","name":"Cebu City"}]`))
		case "/cities-municipalities/072217/barangays.json":
			_, _ = w.Write([]byte(`[{"code":"072217001","name":"Lahug"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer psgc.Close()

	f := newWizardFixture(t, nil, geo.NewBoundaryClient(psgc.URL))

	rec := f.get("/bookings/new/boundaries?level=provinces")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cebu")

	rec = f.get("/bookings/new/boundaries?level=cities&parent=0722")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cebu City")

	rec = f.get("/bookings/new/boundaries?level=barangays&parent=072217")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lahug")

	rec = f.get("/bookings/new/boundaries?level=streets")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouteReturnsLegsForDraft(t *testing.T) {
	f := newWizardFixture(t, nil, nil)
	require.NoError(t, f.drafts.Save(context.Background(), testSessionID, completeP2PDraft()))

	rec := f.get("/bookings/new/route")

	require.Equal(t, http.StatusOK, rec.Code)
	var legs []geo.Leg
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &legs))
	require.Len(t, legs, 1, "Pier to Pier is a single sea leg")
	assert.Equal(t, geo.LegSea, legs[0].Kind)
}
