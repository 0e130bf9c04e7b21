package incident

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/freightdesk/freightdesk/internal/form"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/table"
	"github.com/freightdesk/freightdesk/internal/view"
)

// Handler manages incident endpoints.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	bookingHWB func(id int64) string
	templates  *view.Engine
	csrf       *shared.CSRFManager
	validator  *validator.Validate
}

// NewHandler builds Handler instance. bookingHWB resolves the HWB number
// shown next to each incident.
func NewHandler(logger *slog.Logger, service *Service, bookingHWB func(id int64) string, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		bookingHWB: bookingHWB,
		templates:  templates,
		csrf:       csrf,
		validator:  validator.New(),
	}
}

// MountRoutes registers incident routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.file)
	r.Post("/{id}/delete", h.remove)
}

func (h *Handler) columns() []table.Column[Incident] {
	return []table.Column[Incident]{
		{Key: "booking", Label: "Booking", Value: func(i Incident) string { return h.bookingHWB(i.BookingID) }},
		{Key: "kind", Label: "Type", Value: func(i Incident) string { return i.Kind.Label() }},
		{Key: "description", Label: "Description", Value: func(i Incident) string { return i.Description }},
		{Key: "cost", Label: "Cost", Value: func(i Incident) string {
			return strconv.FormatFloat(i.TotalCost, 'f', 2, 64)
		}},
		{Key: "occurred", Label: "Occurred", Value: func(i Incident) string {
			return i.OccurredAt.Format("02 Jan 2006")
		}},
	}
}

type listPageData struct {
	Incidents   table.Page[Incident]
	State       table.State
	HWBs        map[int64]string
	ReportModal form.Modal
}

// reportModal declares the incident report dialog.
func reportModal() form.Modal {
	kinds := make([][2]string, 0, len(Kinds()))
	for _, k := range Kinds() {
		kinds = append(kinds, [2]string{string(k), k.Label()})
	}
	return form.Modal{
		ID:        "new-incident-modal",
		Heading:   "Report Incident",
		Action:    "/incidents",
		Multipart: true,
		Fields: []form.Field{
			{Name: "booking_id", Label: "Booking ID", Kind: form.KindNumber, Min: "1", Required: true},
			{Name: "incident_type", Label: "Type", Kind: form.KindSelect, Required: true, Options: form.SelectOptions(kinds, string(KindSea))},
			{Name: "description", Label: "Description", Kind: form.KindTextarea, Rows: 3, Required: true},
			{Name: "total_cost", Label: "Total Cost", Kind: form.KindNumber, Min: "0", Step: "0.01"},
			{Name: "occurred_at", Label: "Occurred On", Kind: form.KindDate},
			{Name: "image", Label: "Photo (max 5MB)", Kind: form.KindFile, Accept: "image/*"},
		},
		SubmitLabel: "Submit Report",
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	state := table.StateFromQuery(r)
	items, err := h.service.FetchAll(r.Context())
	if err != nil {
		h.logger.Warn("fetch incidents", slog.Any("error", err))
		items = h.service.Store().Items()
		if len(items) == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			h.render(w, r, "pages/load_error.html", "Incidents", view.LoadErrorData{
				Heading:   "Incidents are unavailable",
				Message:   shared.UserSafeMessage(err),
				RetryPath: r.URL.RequestURI(),
			})
			return
		}
	}
	page := table.Apply(items, h.columns(), state)
	hwbs := make(map[int64]string, len(page.Rows))
	for _, inc := range page.Rows {
		hwbs[inc.BookingID] = h.bookingHWB(inc.BookingID)
	}
	data := listPageData{Incidents: page, State: state, HWBs: hwbs, ReportModal: reportModal()}
	h.render(w, r, "pages/incidents.html", "Incidents", data)
}

// file records an incident from the multipart report form. The photo is
// optional; an oversized or non-image file rejects the whole submission
// before anything goes out.
func (h *Handler) file(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageBytes + 64<<10); err != nil {
		h.redirectWithFlash(w, r, "/incidents", "error", "Incident report is too large")
		return
	}
	cost, _ := strconv.ParseFloat(r.PostFormValue("total_cost"), 64)
	payload := Payload{
		BookingID:   parseID(r.PostFormValue("booking_id")),
		Kind:        Kind(r.PostFormValue("incident_type")),
		Description: r.PostFormValue("description"),
		TotalCost:   cost,
		OccurredAt:  r.PostFormValue("occurred_at"),
	}
	if err := h.validator.Struct(payload); err != nil {
		h.redirectWithFlash(w, r, "/incidents", "error", "Check the incident details and try again")
		return
	}

	image, errMsg := h.imageFromForm(r)
	if errMsg != "" {
		h.redirectWithFlash(w, r, "/incidents", "error", errMsg)
		return
	}

	if _, err := h.service.File(r.Context(), payload, image); err != nil {
		h.redirectWithFlash(w, r, "/incidents", "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/incidents", "success", "Incident filed")
}

// imageFromForm extracts the optional photo. A missing file is not an error;
// a present but invalid one is.
func (h *Handler) imageFromForm(r *http.Request) (*ImageUpload, string) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, ""
		}
		return nil, "Could not read the attached photo"
	}
	defer func() {
		_ = file.Close()
	}()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "Attachments must be images"
	}
	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		return nil, "Could not read the attached photo"
	}
	if len(data) > maxImageBytes {
		return nil, "Photos must be 5MB or smaller"
	}
	return &ImageUpload{Filename: header.Filename, ContentType: contentType, Data: data}, ""
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if res := h.service.Store().Remove(r.Context(), id); !res.OK {
		h.redirectWithFlash(w, r, "/incidents", "error", res.Err)
		return
	}
	h.redirectWithFlash(w, r, "/incidents", "success", "Incident deleted")
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
