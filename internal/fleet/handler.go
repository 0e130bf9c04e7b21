// Package fleet serves the ships, trucks and container-tracking pages over
// the ships, trucks and containers collection services.
package fleet

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/freightdesk/freightdesk/internal/fleet/containers"
	"github.com/freightdesk/freightdesk/internal/fleet/ships"
	"github.com/freightdesk/freightdesk/internal/fleet/trucks"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/table"
	"github.com/freightdesk/freightdesk/internal/view"
)

// Option is one selectable owning partner in the create and edit forms.
type Option struct {
	ID   int64
	Name string
}

// Handler manages fleet endpoints.
type Handler struct {
	logger         *slog.Logger
	ships          *ships.Service
	trucks         *trucks.Service
	containers     *containers.Service
	lineName       func(id int64) string
	truckerName    func(id int64) string
	lineOptions    func() []Option
	truckerOptions func() []Option
	templates      *view.Engine
	csrf           *shared.CSRFManager
	validator      *validator.Validate
}

// HandlerConfig collects the fleet handler dependencies. The name funcs
// resolve owning partners for listings; the option funcs feed the owner
// selects on the create and edit forms.
type HandlerConfig struct {
	Logger         *slog.Logger
	Ships          *ships.Service
	Trucks         *trucks.Service
	Containers     *containers.Service
	LineName       func(id int64) string
	TruckerName    func(id int64) string
	LineOptions    func() []Option
	TruckerOptions func() []Option
	Templates      *view.Engine
	CSRF           *shared.CSRFManager
}

// NewHandler builds Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		logger:         cfg.Logger,
		ships:          cfg.Ships,
		trucks:         cfg.Trucks,
		containers:     cfg.Containers,
		lineName:       cfg.LineName,
		truckerName:    cfg.TruckerName,
		lineOptions:    cfg.LineOptions,
		truckerOptions: cfg.TruckerOptions,
		templates:      cfg.Templates,
		csrf:           cfg.CSRF,
		validator:      validator.New(),
	}
}

// MountRoutes registers fleet routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ships", h.listShips)
	r.Post("/ships", h.createShip)
	r.Post("/ships/{id}/edit", h.updateShip)
	r.Post("/ships/{id}/delete", h.deleteShip)

	r.Get("/trucks", h.listTrucks)
	r.Post("/trucks", h.createTruck)
	r.Post("/trucks/{id}/edit", h.updateTruck)
	r.Post("/trucks/{id}/delete", h.deleteTruck)

	r.Get("/containers", h.listContainers)
	r.Post("/containers", h.createContainer)
	r.Post("/containers/{id}/return", h.markReturned)
	r.Post("/containers/{id}/delete", h.deleteContainer)
}

func (h *Handler) shipColumns() []table.Column[ships.Ship] {
	return []table.Column[ships.Ship]{
		{Key: "name", Label: "Name", Value: func(s ships.Ship) string { return s.Name }},
		{Key: "line", Label: "Shipping Line", Value: func(s ships.Ship) string { return h.lineName(s.ShippingLineID) }},
		{Key: "vessel", Label: "Vessel #", Value: func(s ships.Ship) string { return s.VesselNumber }},
		{Key: "capacity", Label: "Capacity (TEU)", Value: func(s ships.Ship) string { return strconv.Itoa(s.CapacityTEU) }},
		{Key: "imo", Label: "IMO", Value: func(s ships.Ship) string { return s.IMONumber }},
	}
}

func (h *Handler) truckColumns() []table.Column[trucks.Truck] {
	return []table.Column[trucks.Truck]{
		{Key: "plate", Label: "Plate #", Value: func(t trucks.Truck) string { return t.PlateNumber }},
		{Key: "company", Label: "Trucking Company", Value: func(t trucks.Truck) string { return h.truckerName(t.TruckingCompanyID) }},
		{Key: "name", Label: "Name", Value: func(t trucks.Truck) string { return t.Name }},
		{Key: "remarks", Label: "Remarks", Value: func(t trucks.Truck) string { return t.Remarks }},
	}
}

func containerColumns() []table.Column[containers.Container] {
	return []table.Column[containers.Container]{
		{Key: "number", Label: "Container #", Value: func(c containers.Container) string { return c.ContainerNumber }},
		{Key: "size", Label: "Size", Value: func(c containers.Container) string { return c.Size }},
		{Key: "status", Label: "Status", Value: func(c containers.Container) string { return string(c.Status) }},
		{Key: "returned", Label: "Returned", Value: func(c containers.Container) string { return c.ReturnedOn() }},
	}
}

type shipsPageData struct {
	Ships     table.Page[ships.Ship]
	State     table.State
	LineNames map[int64]string
	Lines     []Option
}

func (h *Handler) listShips(w http.ResponseWriter, r *http.Request) {
	state := table.StateFromQuery(r)
	items, err := h.ships.FetchAll(r.Context())
	if err != nil {
		h.logger.Warn("fetch ships", slog.Any("error", err))
		items = h.ships.Store().Items()
	}
	page := table.Apply(items, h.shipColumns(), state)
	names := make(map[int64]string, len(page.Rows))
	for _, s := range page.Rows {
		names[s.ShippingLineID] = h.lineName(s.ShippingLineID)
	}
	data := shipsPageData{Ships: page, State: state, LineNames: names, Lines: h.lineOptions()}
	h.render(w, r, "pages/ships.html", "Ships", data)
}

func (h *Handler) createShip(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.shipPayload(w, r)
	if !ok {
		return
	}
	if res := h.ships.Store().Create(r.Context(), payload); !res.OK {
		h.redirectWithFlash(w, r, "/fleet/ships", "error", res.Err)
		return
	}
	h.redirectWithFlash(w, r, "/fleet/ships", "success", "Ship created")
}

func (h *Handler) updateShip(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	payload, ok := h.shipPayload(w, r)
	if !ok {
		return
	}
	if res := h.ships.Store().Update(r.Context(), id, payload); !res.OK {
		h.redirectWithFlash(w, r, "/fleet/ships", "error", res.Err)
		return
	}
	h.redirectWithFlash(w, r, "/fleet/ships", "success", "Ship updated")
}

func (h *Handler) deleteShip(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if res := h.ships.Store().Remove(r.Context(), id); !res.OK {
		h.redirectWithFlash(w, r, "/fleet/ships", "error", res.Err)
		return
	}
	h.redirectWithFlash(w, r, "/fleet/ships", "success", "Ship deleted")
}

func (h *Handler) shipPayload(w http.ResponseWriter, r *http.Request) (ships.Payload, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return ships.Payload{}, false
	}
	capacity, _ := strconv.Atoi(r.PostFormValue("capacity_teu"))
	payload := ships.Payload{
		ShippingLineID: parseID(r.PostFormValue("shipping_line_id")),
		Name:           r.PostFormValue("name"),
		VesselNumber:   r.PostFormValue("vessel_number"),
		CapacityTEU:    capacity,
		IMONumber:      r.PostFormValue("imo_number"),
	}
	if err := h.validator.Struct(payload); err != nil {
		h.redirectWithFlash(w, r, "/fleet/ships", "error", "Check the ship details and try again")
		return ships.Payload{}, false
	}
	return payload, true
}

type trucksPageData struct {
	Trucks       table.Page[trucks.Truck]
	State        table.State
	CompanyNames map[int64]string
	Companies    []Option
}

func (h *Handler) listTrucks(w http.ResponseWriter, r *http.Request) {
	state := table.StateFromQuery(r)
	items, err := h.trucks.FetchAll(r.Context())
	if err != nil {
		h.logger.Warn("fetch trucks", slog.Any("error", err))
		items = h.trucks.Store().Items()
	}
	page := table.Apply(items, h.truckColumns(), state)
	names := make(map[int64]string, len(page.Rows))
	for _, t := range page.Rows {
		names[t.TruckingCompanyID] = h.truckerName(t.TruckingCompanyID)
	}
	data := trucksPageData{Trucks: page, State: state, CompanyNames: names, Companies: h.truckerOptions()}
	h.render(w, r, "pages/trucks.html", "Trucks", data)
}

func (h *Handler) createTruck(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.truckPayload(w, r)
	if !ok {
		return
	}
	if res := h.trucks.Store().Create(r.Context(), payload); !res.OK {
		h.redirectWithFlash(w, r, "/fleet/trucks", "error", res.Err)
		return
	}
	h.redirectWithFlash(w, r, "/fleet/trucks", "success", "Truck created")
}

func (h *Handler) updateTruck(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	payload, ok := h.truckPayload(w, r)
	if !ok {
		return
	}
	if res := h.trucks.Store().Update(r.Context(), id, payload); !res.OK {
		h.redirectWithFlash(w, r, "/fleet/trucks", "error", res.Err)
		return
	}
	h.redirectWithFlash(w, r, "/fleet/trucks", "success", "Truck updated")
}

func (h *Handler) deleteTruck(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if res := h.trucks.Store().Remove(r.Context(), id); !res.OK {
		h.redirectWithFlash(w, r, "/fleet/trucks", "error", res.Err)
		return
	}
	h.redirectWithFlash(w, r, "/fleet/trucks", "success", "Truck deleted")
}

func (h *Handler) truckPayload(w http.ResponseWriter, r *http.Request) (trucks.Payload, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return trucks.Payload{}, false
	}
	payload := trucks.Payload{
		TruckingCompanyID: parseID(r.PostFormValue("trucking_company_id")),
		PlateNumber:       r.PostFormValue("plate_number"),
		Name:              r.PostFormValue("name"),
		Remarks:           r.PostFormValue("remarks"),
	}
	if err := h.validator.Struct(payload); err != nil {
		h.redirectWithFlash(w, r, "/fleet/trucks", "error", "Check the truck details and try again")
		return trucks.Payload{}, false
	}
	return payload, true
}

type containersPageData struct {
	Containers table.Page[containers.Container]
	State      table.State
	Today      time.Time
}

func (h *Handler) listContainers(w http.ResponseWriter, r *http.Request) {
	state := table.StateFromQuery(r)
	items, err := h.containers.FetchAll(r.Context())
	if err != nil {
		h.logger.Warn("fetch containers", slog.Any("error", err))
		items = h.containers.Store().Items()
	}
	data := containersPageData{
		Containers: table.Apply(items, containerColumns(), state),
		State:      state,
		Today:      time.Now(),
	}
	h.render(w, r, "pages/containers.html", "Containers", data)
}

func (h *Handler) createContainer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	payload := containers.Payload{
		ContainerNumber: r.PostFormValue("container_number"),
		Size:            r.PostFormValue("size"),
		BookingID:       parseID(r.PostFormValue("booking_id")),
	}
	if err := h.validator.Struct(payload); err != nil {
		h.redirectWithFlash(w, r, "/fleet/containers", "error", "Check the container details and try again")
		return
	}
	if res := h.containers.Store().Create(r.Context(), payload); !res.OK {
		h.redirectWithFlash(w, r, "/fleet/containers", "error", res.Err)
		return
	}
	h.redirectWithFlash(w, r, "/fleet/containers", "success", "Container created")
}

func (h *Handler) markReturned(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if _, err := h.containers.MarkReturned(r.Context(), id); err != nil {
		h.redirectWithFlash(w, r, "/fleet/containers", "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/fleet/containers", "success", "Container marked as returned")
}

func (h *Handler) deleteContainer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if res := h.containers.Store().Remove(r.Context(), id); !res.OK {
		h.redirectWithFlash(w, r, "/fleet/containers", "error", res.Err)
		return
	}
	h.redirectWithFlash(w, r, "/fleet/containers", "success", "Container deleted")
}

func parseID(raw string) int64 {
	id, _ := strconv.ParseInt(raw, 10, 64)
	return id
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
