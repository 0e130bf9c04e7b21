package booking

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/freightdesk/freightdesk/internal/geo"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/table"
	"github.com/freightdesk/freightdesk/internal/view"
)

// Names resolves selected IDs into display names for listing and monitoring
// pages. Failed lookups return empty strings; the templates fall back to a
// placeholder.
type Names struct {
	ShippingLine func(id int64) string
	Ship         func(id int64) string
	Trucker      func(id int64) string
	Truck        func(id int64) string
}

func (n Names) resolve(fn func(int64) string, id int64) string {
	if fn == nil || id <= 0 {
		return ""
	}
	return fn(id)
}

// Handler serves the bookings listing and the monitoring detail pages.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	names     Names
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, names Names, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, names: names, templates: templates, csrf: csrf}
}

// MountRoutes registers booking routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.detail)
	r.Post("/{id}/advance", h.advance)
	r.Post("/{id}/milestone", h.milestone)
	r.Post("/{id}/delete", h.remove)
	r.Post("/bulk-delete", h.bulkDelete)
}

func bookingColumns() []table.Column[Booking] {
	return []table.Column[Booking]{
		{Key: "hwb", Label: "HWB #", Value: func(b Booking) string { return b.HWBNumber }},
		{Key: "booking", Label: "Booking #", Value: func(b Booking) string { return b.BookingNumber }},
		{Key: "shipper", Label: "Shipper", Value: func(b Booking) string { return b.Shipper.Name }},
		{Key: "consignee", Label: "Consignee", Value: func(b Booking) string { return b.Consignee.Name }},
		{Key: "route", Label: "Route", Value: func(b Booking) string {
			return PortLabel(b.OriginPort) + " → " + PortLabel(b.DestPort)
		}},
		{Key: "cargo", Label: "Cargo", Value: func(b Booking) string { return b.CargoSummary() }},
		{Key: "mode", Label: "Mode", Value: func(b Booking) string { return b.Mode.Label() }},
		{Key: "status", Label: "Status", Value: func(b Booking) string { return b.Status.Label() }},
		{Key: "date", Label: "Date", Value: func(b Booking) string { return b.BookingDate.Format("02 Jan 2006") }},
	}
}

type listPageData struct {
	Bookings table.Page[Booking]
	State    table.State
	LoadErr  string
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	state := table.StateFromQuery(r)

	items, err := h.service.FetchAll(r.Context())
	if err != nil {
		h.logger.Warn("fetch bookings", slog.Any("error", err))
		items = h.service.Store().Items()
		// Nothing cached either: there is no table to show, so render the
		// retry page instead of an empty listing.
		if len(items) == 0 {
			h.render(w, r, "pages/load_error.html", "Bookings", view.LoadErrorData{
				Heading:   "Bookings are unavailable",
				Message:   shared.UserSafeMessage(err),
				RetryPath: r.URL.RequestURI(),
			}, http.StatusServiceUnavailable)
			return
		}
	}

	data := listPageData{
		Bookings: table.Apply(items, bookingColumns(), state),
		State:    state,
		LoadErr:  h.service.Store().Err(),
	}
	h.render(w, r, "pages/bookings.html", "Bookings", data, http.StatusOK)
}

type detailPageData struct {
	Booking          Booking
	ShippingLineName string
	ShipName         string
	PickupTrucker    string
	PickupTruck      string
	DeliveryTrucker  string
	DeliveryTruck    string
	NextStatus       string
	Milestones       []Milestone
	Legs             []geo.Leg
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Warn("fetch booking", slog.Int64("id", id), slog.Any("error", err))
		h.redirectWithFlash(w, r, "/bookings", "error", shared.UserSafeMessage(err))
		return
	}

	data := detailPageData{
		Booking:          b,
		ShippingLineName: h.names.resolve(h.names.ShippingLine, b.ShippingLineID),
		ShipName:         h.names.resolve(h.names.Ship, b.ShipID),
		PickupTrucker:    h.names.resolve(h.names.Trucker, b.PickupTruckerID),
		PickupTruck:      h.names.resolve(h.names.Truck, b.PickupTruckID),
		DeliveryTrucker:  h.names.resolve(h.names.Trucker, b.DeliveryTruckerID),
		DeliveryTruck:    h.names.resolve(h.names.Truck, b.DeliveryTruckID),
		Milestones:       Milestones(),
		Legs:             routeLegs(b),
	}
	if next, err := b.Status.Next(); err == nil {
		data.NextStatus = next.Label()
	}
	h.render(w, r, "pages/booking_detail.html", b.HWBNumber, data, http.StatusOK)
}

// routeLegs derives the monitoring map segments from the booking's mode and
// stored coordinates.
func routeLegs(b Booking) []geo.Leg {
	origin, okOrigin := PortByCode(b.OriginPort)
	dest, okDest := PortByCode(b.DestPort)
	if !okOrigin || !okDest {
		return nil
	}
	pickup := geo.Point{Label: "Pickup", Lat: b.PickupLat, Lng: b.PickupLng}
	delivery := geo.Point{Label: "Delivery", Lat: b.DeliveryLat, Lng: b.DeliveryLng}
	return geo.BuildRoute(
		b.Mode.NeedsPickupAddress(), b.Mode.NeedsDeliveryAddress(),
		pickup, portPoint(origin), portPoint(dest), delivery)
}

func portPoint(p Port) geo.Point {
	return geo.Point{Label: p.Name, Lat: p.Lat, Lng: p.Lng}
}

func (h *Handler) advance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	updated, err := h.service.AdvanceStatus(r.Context(), id)
	if err != nil {
		h.redirectWithFlash(w, r, "/bookings/"+chi.URLParam(r, "id"), "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/bookings/"+chi.URLParam(r, "id"), "success", "Status moved to "+updated.Status.Label())
}

func (h *Handler) milestone(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	milestone := Milestone(r.PostFormValue("milestone"))
	note := r.PostFormValue("note")
	if _, err := h.service.RecordMilestone(r.Context(), id, milestone, note); err != nil {
		h.redirectWithFlash(w, r, "/bookings/"+chi.URLParam(r, "id"), "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/bookings/"+chi.URLParam(r, "id"), "success", "Milestone recorded")
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if res := h.service.Store().Remove(r.Context(), id); !res.OK {
		h.redirectWithFlash(w, r, "/bookings", "error", res.Err)
		return
	}
	h.redirectWithFlash(w, r, "/bookings", "success", "Booking deleted")
}

func (h *Handler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	deleted := 0
	for _, raw := range r.PostForm["id"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if res := h.service.Store().Remove(r.Context(), id); res.OK {
			deleted++
		}
	}
	h.redirectWithFlash(w, r, "/bookings", "success", strconv.Itoa(deleted)+" booking(s) deleted")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, tpl, title string, data any, status int) {
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
	if status != http.StatusOK {
		w.WriteHeader(status)
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
