package partner

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/freightdesk/freightdesk/internal/form"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/table"
	"github.com/freightdesk/freightdesk/internal/view"
)

// Handler manages partner endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf, validator: validator.New()}
}

// MountRoutes registers partner routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/{id}/edit", h.update)
	r.Post("/{id}/toggle", h.toggle)
	r.Post("/{id}/logo", h.uploadLogo)
	r.Post("/bulk-delete", h.bulkDelete)
}

func partnerColumns() []table.Column[Partner] {
	return []table.Column[Partner]{
		{Key: "name", Label: "Name", Value: func(p Partner) string { return p.Name }},
		{Key: "type", Label: "Type", Value: func(p Partner) string { return p.Type.Label() }},
		{Key: "phone", Label: "Phone", Value: func(p Partner) string { return p.Phone }},
		{Key: "email", Label: "Email", Value: func(p Partner) string { return p.Email }},
		{Key: "active", Label: "Active", Value: func(p Partner) string {
			if p.IsActive {
				return "Yes"
			}
			return "No"
		}},
	}
}

type listPageData struct {
	Lines      table.Page[Partner]
	Truckers   table.Page[Partner]
	State      table.State
	NewLine    form.Modal
	NewTrucker form.Modal
}

// newPartnerModal declares the create-partner dialog for one partner type.
func newPartnerModal(id, heading string, ptype Type) form.Modal {
	return form.Modal{
		ID:      id,
		Heading: heading,
		Action:  "/partners",
		Hidden:  []form.Hidden{{Name: "type", Value: string(ptype)}},
		Fields: []form.Field{
			{Name: "name", Label: "Name", Kind: form.KindText, Required: true},
			{Name: "contact_person", Label: "Contact Person", Kind: form.KindText},
			{Name: "phone", Label: "Phone", Kind: form.KindTel, Placeholder: "+639171234567"},
			{Name: "email", Label: "Email", Kind: form.KindEmail},
			{Name: "address", Label: "Address", Kind: form.KindText},
		},
		SubmitLabel: "Create",
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	state := table.StateFromQuery(r)

	lines, err := h.service.FetchShippingLines(r.Context())
	if err != nil {
		h.logger.Warn("fetch shipping lines", slog.Any("error", err))
		lines = h.service.StoreFor(TypeShippingLine).Items()
	}
	truckers, err := h.service.FetchTruckers(r.Context())
	if err != nil {
		h.logger.Warn("fetch trucking companies", slog.Any("error", err))
		truckers = h.service.StoreFor(TypeTrucking).Items()
	}

	cols := partnerColumns()
	data := listPageData{
		Lines:      table.Apply(lines, cols, state),
		Truckers:   table.Apply(truckers, cols, state),
		State:      state,
		NewLine:    newPartnerModal("new-line-modal", "New Shipping Line", TypeShippingLine),
		NewTrucker: newPartnerModal("new-trucker-modal", "New Trucking Company", TypeTrucking),
	}
	h.render(w, r, "pages/partners.html", "Partners", data, http.StatusOK)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ptype := typeFromForm(r)
	payload := Payload{
		Name:          r.PostFormValue("name"),
		ContactPerson: r.PostFormValue("contact_person"),
		Phone:         r.PostFormValue("phone"),
		Email:         r.PostFormValue("email"),
		Address:       r.PostFormValue("address"),
	}
	if err := h.validator.Struct(payload); err != nil {
		h.redirectWithFlash(w, r, "/partners", "error", "Check the partner details and try again")
		return
	}
	res := h.service.Create(r.Context(), ptype, payload)
	if !res.OK {
		h.redirectWithFlash(w, r, "/partners", "error", res.Err)
		return
	}
	h.redirectWithFlash(w, r, "/partners", "success", "Partner created")
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ptype := typeFromForm(r)
	payload := Payload{
		Name:          r.PostFormValue("name"),
		ContactPerson: r.PostFormValue("contact_person"),
		Phone:         r.PostFormValue("phone"),
		Email:         r.PostFormValue("email"),
		Address:       r.PostFormValue("address"),
	}
	if err := h.validator.Struct(payload); err != nil {
		h.redirectWithFlash(w, r, "/partners", "error", "Check the partner details and try again")
		return
	}
	res := h.service.Update(r.Context(), ptype, id, payload)
	if !res.OK {
		h.redirectWithFlash(w, r, "/partners", "error", res.Err)
		return
	}
	h.redirectWithFlash(w, r, "/partners", "success", "Partner updated")
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	active := r.PostFormValue("active") == "true"
	if _, err := h.service.ToggleActive(r.Context(), typeFromForm(r), id, active); err != nil {
		h.redirectWithFlash(w, r, "/partners", "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/partners", "success", "Partner status updated")
}

func (h *Handler) uploadLogo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := r.ParseMultipartForm(maxLogoBytes + 1024); err != nil {
		h.redirectWithFlash(w, r, "/partners", "error", "Logo upload is too large")
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		h.redirectWithFlash(w, r, "/partners", "error", "Choose a logo file first")
		return
	}
	defer func() {
		_ = file.Close()
	}()
	data, err := io.ReadAll(io.LimitReader(file, maxLogoBytes+1))
	if err != nil {
		h.redirectWithFlash(w, r, "/partners", "error", "Could not read the logo file")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if _, err := h.service.UploadLogo(r.Context(), typeFromForm(r), id, header.Filename, contentType, data); err != nil {
		h.redirectWithFlash(w, r, "/partners", "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/partners", "success", "Logo updated")
}

func (h *Handler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ptype := typeFromForm(r)
	store := h.service.StoreFor(ptype)
	deleted := 0
	for _, raw := range r.PostForm["id"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if res := store.Remove(r.Context(), id); res.OK {
			deleted++
		}
	}
	h.redirectWithFlash(w, r, "/partners", "success", strconv.Itoa(deleted)+" partner(s) deleted")
}

func typeFromForm(r *http.Request) Type {
	if r.PostFormValue("type") == string(TypeTrucking) {
		return TypeTrucking
	}
	return TypeShippingLine
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
