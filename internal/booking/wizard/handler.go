package wizard

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/freightdesk/freightdesk/internal/booking"
	"github.com/freightdesk/freightdesk/internal/fleet/ships"
	"github.com/freightdesk/freightdesk/internal/fleet/trucks"
	"github.com/freightdesk/freightdesk/internal/geo"
	"github.com/freightdesk/freightdesk/internal/partner"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/view"
)

// Handler drives the five-step booking wizard over HTTP: step rendering,
// navigation, live field validation, geocoding for the locations step and the
// final idempotent submission.
type Handler struct {
	logger     *slog.Logger
	schema     *Schema
	drafts     *DraftStore
	bookings   *booking.Service
	partners   *partner.Service
	ships      *ships.Service
	trucks     *trucks.Service
	geocoder   *geo.Geocoder
	boundaries *geo.BoundaryClient
	idem       *shared.IdempotencyStore
	templates  *view.Engine
	csrf       *shared.CSRFManager
}

// HandlerConfig collects the wizard handler dependencies.
type HandlerConfig struct {
	Logger     *slog.Logger
	Drafts     *DraftStore
	Bookings   *booking.Service
	Partners   *partner.Service
	Ships      *ships.Service
	Trucks     *trucks.Service
	Geocoder   *geo.Geocoder
	Boundaries *geo.BoundaryClient
	Idem       *shared.IdempotencyStore
	Templates  *view.Engine
	CSRF       *shared.CSRFManager
}

// NewHandler builds Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		logger:     cfg.Logger,
		schema:     NewSchema(),
		drafts:     cfg.Drafts,
		bookings:   cfg.Bookings,
		partners:   cfg.Partners,
		ships:      cfg.Ships,
		trucks:     cfg.Trucks,
		geocoder:   cfg.Geocoder,
		boundaries: cfg.Boundaries,
		idem:       cfg.Idem,
		templates:  cfg.Templates,
		csrf:       cfg.CSRF,
	}
}

// MountRoutes registers wizard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.show)
	r.Post("/field", h.validateField)
	r.Post("/next", h.next)
	r.Post("/prev", h.prev)
	r.Post("/reset", h.reset)
	r.Post("/submit", h.submit)
	r.Get("/geocode", h.geocode)
	r.Get("/reverse", h.reverse)
	r.Get("/boundaries", h.boundaryLookup)
	r.Post("/location", h.applyLocation)
	r.Get("/route", h.route)
}

// stepPageData is what every step template receives.
type stepPageData struct {
	Draft  *Draft
	Step   Step
	Steps  []Step
	Errors map[string]string

	Ports          []booking.Port
	ContainerTypes []booking.ContainerType
	Modes          []booking.Mode
	ShippingLines  []partner.Partner
	Ships          []ships.Ship
	Truckers       []partner.Partner
	PickupTrucks   []trucks.Truck
	DeliveryTrucks []trucks.Truck

	Review []Row
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	h.renderStep(w, r, draft, nil)
}

func (h *Handler) renderStep(w http.ResponseWriter, r *http.Request, draft *Draft, errs map[string]string) {
	data := stepPageData{
		Draft:  draft,
		Step:   draft.Step,
		Steps:  Sequence(draft.Mode),
		Errors: errs,
	}

	switch draft.Step {
	case StepRouting:
		data.Ports = booking.Ports
		data.ContainerTypes = booking.ContainerTypes()
		data.Modes = booking.Modes()
		if lines, err := h.partners.FetchShippingLines(r.Context()); err == nil {
			data.ShippingLines = activeOnly(lines)
		} else {
			h.logger.Warn("fetch shipping lines", slog.Any("error", err))
			data.ShippingLines = activeOnly(h.partners.StoreFor(partner.TypeShippingLine).Items())
		}
		if _, err := h.ships.FetchAll(r.Context()); err != nil {
			h.logger.Warn("fetch ships", slog.Any("error", err))
		}
		data.Ships = h.ships.OfLine(draft.ShippingLineID)
	case StepTrucking:
		if truckers, err := h.partners.FetchTruckers(r.Context()); err == nil {
			data.Truckers = activeOnly(truckers)
		} else {
			h.logger.Warn("fetch trucking companies", slog.Any("error", err))
			data.Truckers = activeOnly(h.partners.StoreFor(partner.TypeTrucking).Items())
		}
		if _, err := h.trucks.FetchAll(r.Context()); err != nil {
			h.logger.Warn("fetch trucks", slog.Any("error", err))
		}
		data.PickupTrucks = h.trucks.OfCompany(draft.PickupTruckerID)
		data.DeliveryTrucks = h.trucks.OfCompany(draft.DeliveryTruckerID)
	case StepReview:
		data.Review = ReviewRows(draft, h.resolver())
	}

	h.render(w, r, "pages/wizard.html", "New Booking — "+draft.Step.Title(), data)
}

func (h *Handler) resolver() Resolver {
	return Resolver{
		ShippingLine: func(id int64) string { return h.partners.NameOf(partner.TypeShippingLine, id) },
		Ship:         h.ships.NameOf,
		Trucker:      func(id int64) string { return h.partners.NameOf(partner.TypeTrucking, id) },
		Truck:        h.trucks.PlateOf,
	}
}

func activeOnly(partners []partner.Partner) []partner.Partner {
	out := make([]partner.Partner, 0, len(partners))
	for _, p := range partners {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out
}

// validateField is the live-mode endpoint: it binds one changed field into
// the draft, persists it and returns the field's validation message.
func (h *Handler) validateField(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	field := r.PostFormValue("field")
	h.bindField(draft, field, r.PostFormValue("value"))
	h.saveDraft(w, r, draft)

	writeJSON(w, http.StatusOK, map[string]string{
		"field": field,
		"error": h.schema.ValidateField(draft, field),
	})
}

func (h *Handler) next(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	h.bindStep(draft, r)
	draft.Advance()
	h.saveDraft(w, r, draft)
	http.Redirect(w, r, "/bookings/new", http.StatusSeeOther)
}

func (h *Handler) prev(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	h.bindStep(draft, r)
	draft.Back()
	h.saveDraft(w, r, draft)
	http.Redirect(w, r, "/bookings/new", http.StatusSeeOther)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if err := h.drafts.Reset(r.Context(), sess.ID); err != nil {
			h.logger.Warn("reset draft", slog.Any("error", err))
		}
	}
	http.Redirect(w, r, "/bookings/new", http.StatusSeeOther)
}

// submit runs the full schema, guards against double submission and sends the
// assembled payload. On success the draft is discarded so the next visit
// starts over at step one.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if errs := h.schema.ValidateAll(draft); len(errs) > 0 {
		draft.Step = StepReview
		h.saveDraft(w, r, draft)
		h.renderStep(w, r, draft, errs)
		return
	}

	if key := r.PostFormValue("submit_key"); key != "" {
		if err := h.idem.CheckAndInsert(r.Context(), key, "booking_create"); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				h.redirectWithFlash(w, r, "/bookings", "success", "Booking already submitted")
				return
			}
			h.logger.Warn("idempotency check", slog.Any("error", err))
		}
	}

	res := h.bookings.Create(r.Context(), BuildPayload(draft))
	if !res.OK {
		h.redirectWithFlash(w, r, "/bookings/new", "error", res.Err)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if err := h.drafts.Reset(r.Context(), sess.ID); err != nil {
			h.logger.Warn("reset draft after submit", slog.Any("error", err))
		}
	}
	h.redirectWithFlash(w, r, "/bookings", "success", "Booking "+res.Entity.HWBNumber+" created")
}

// geocode resolves free text for one side of the locations step. Responses
// carry a generation; a result superseded while in flight returns 409 so the
// client never applies stale coordinates.
func (h *Handler) geocode(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	side := r.URL.Query().Get("side")
	query := r.URL.Query().Get("q")
	key := sess.ID + ":" + side

	candidates, gen, err := h.geocoder.Search(r.Context(), key, query)
	if err != nil {
		if errors.Is(err, geo.ErrThrottled) {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Typing too fast; retrying shortly."})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": shared.UserSafeMessage(err)})
		return
	}
	if !h.geocoder.Fresh(key, gen) {
		w.WriteHeader(http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": candidates, "generation": gen})
}

func (h *Handler) reverse(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	candidate, err := h.geocoder.Reverse(r.Context(), lat, lng)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": shared.UserSafeMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}

// boundaryLookup serves the structured-address pickers on the locations
// step: provinces first, then the cities of a province, then the barangays
// of a city.
func (h *Handler) boundaryLookup(w http.ResponseWriter, r *http.Request) {
	if h.boundaries == nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	var (
		areas []geo.Area
		err   error
	)
	q := r.URL.Query()
	switch q.Get("level") {
	case "provinces":
		areas, err = h.boundaries.Provinces(r.Context())
	case "cities":
		areas, err = h.boundaries.Cities(r.Context(), q.Get("parent"))
	case "barangays":
		areas, err = h.boundaries.Barangays(r.Context(), q.Get("parent"))
	default:
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": shared.UserSafeMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, areas)
}

// applyLocation records a chosen geocoding candidate on the draft.
func (h *Handler) applyLocation(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	lat, _ := strconv.ParseFloat(r.PostFormValue("lat"), 64)
	lng, _ := strconv.ParseFloat(r.PostFormValue("lng"), 64)
	address := r.PostFormValue("address")

	switch r.PostFormValue("side") {
	case "pickup":
		draft.PickupAddress = address
		draft.PickupLat = lat
		draft.PickupLng = lng
	case "delivery":
		draft.DeliveryAddress = address
		draft.DeliveryLat = lat
		draft.DeliveryLng = lng
	default:
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	h.saveDraft(w, r, draft)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// route returns the draft's current map segments as JSON for the locations
// step preview.
func (h *Handler) route(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.loadDraft(w, r)
	if !ok {
		return
	}
	origin, okOrigin := booking.PortByCode(draft.OriginPort)
	dest, okDest := booking.PortByCode(draft.DestPort)
	if !okOrigin || !okDest {
		writeJSON(w, http.StatusOK, []geo.Leg{})
		return
	}
	pickup := geo.Point{Label: draft.PickupAddress, Lat: draft.PickupLat, Lng: draft.PickupLng}
	delivery := geo.Point{Label: draft.DeliveryAddress, Lat: draft.DeliveryLat, Lng: draft.DeliveryLng}
	writeJSON(w, http.StatusOK, geo.BuildRoute(
		draft.Mode.NeedsPickupAddress(), draft.Mode.NeedsDeliveryAddress(),
		pickup,
		geo.Point{Label: origin.Name, Lat: origin.Lat, Lng: origin.Lng},
		geo.Point{Label: dest.Name, Lat: dest.Lat, Lng: dest.Lng},
		delivery))
}

// bindStep copies the posted values of the draft's current step.
func (h *Handler) bindStep(d *Draft, r *http.Request) {
	switch d.Step {
	case StepParties:
		d.ShipperName = r.PostFormValue("shipper_name")
		d.ShipperPhone = r.PostFormValue("shipper_phone")
		d.ConsigneeName = r.PostFormValue("consignee_name")
		d.ConsigneePhone = r.PostFormValue("consignee_phone")
	case StepRouting:
		d.SetShippingLine(parseID(r.PostFormValue("shipping_line_id")))
		d.ShipID = parseID(r.PostFormValue("ship_id"))
		d.OriginPort = r.PostFormValue("origin_port")
		d.DestPort = r.PostFormValue("destination_port")
		d.ContainerType = booking.ContainerType(r.PostFormValue("container_type"))
		if q, err := strconv.Atoi(r.PostFormValue("quantity")); err == nil {
			d.Quantity = q
		}
		d.Commodity = r.PostFormValue("commodity")
		d.SetMode(booking.Mode(r.PostFormValue("booking_mode")))
		d.BookingDate = r.PostFormValue("booking_date")
	case StepTrucking:
		d.PickupTruckerID = parseID(r.PostFormValue("pickup_trucker_id"))
		d.PickupTruckID = parseID(r.PostFormValue("pickup_truck_id"))
		d.DeliveryTruckerID = parseID(r.PostFormValue("delivery_trucker_id"))
		d.DeliveryTruckID = parseID(r.PostFormValue("delivery_truck_id"))
	case StepLocations:
		d.PickupAddress = r.PostFormValue("pickup_address")
		d.DeliveryAddress = r.PostFormValue("delivery_address")
	}
}

// bindField applies a single live-validated field change.
func (h *Handler) bindField(d *Draft, field, value string) {
	switch field {
	case "shipper_name":
		d.ShipperName = value
	case "shipper_phone":
		d.ShipperPhone = value
	case "consignee_name":
		d.ConsigneeName = value
	case "consignee_phone":
		d.ConsigneePhone = value
	case "shipping_line_id":
		d.SetShippingLine(parseID(value))
	case "ship_id":
		d.ShipID = parseID(value)
	case "origin_port":
		d.OriginPort = value
	case "destination_port":
		d.DestPort = value
	case "container_type":
		d.ContainerType = booking.ContainerType(value)
	case "quantity":
		if q, err := strconv.Atoi(value); err == nil {
			d.Quantity = q
		} else {
			d.Quantity = 0
		}
	case "commodity":
		d.Commodity = value
	case "booking_mode":
		d.SetMode(booking.Mode(value))
	case "booking_date":
		d.BookingDate = value
	}
}

func parseID(raw string) int64 {
	id, _ := strconv.ParseInt(raw, 10, 64)
	return id
}

func (h *Handler) loadDraft(w http.ResponseWriter, r *http.Request) (*Draft, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, false
	}
	draft, err := h.drafts.Load(r.Context(), sess.ID)
	if err != nil {
		h.logger.Error("load draft", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	return draft, true
}

func (h *Handler) saveDraft(w http.ResponseWriter, r *http.Request, draft *Draft) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return
	}
	if err := h.drafts.Save(r.Context(), sess.ID, draft); err != nil {
		h.logger.Error("save draft", slog.Any("error", err))
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, tpl, title string, data any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, tpl, viewData); err != nil {
		h.logger.Error("render template", slog.Any("error", err), slog.String("template", tpl))
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
