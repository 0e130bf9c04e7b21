package users

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/table"
	"github.com/freightdesk/freightdesk/internal/view"
)

// Handler serves the staff administration page.
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

// MountRoutes registers user administration routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/{id}/edit", h.update)
}

func userColumns() []table.Column[User] {
	return []table.Column[User]{
		{Key: "name", Label: "Name", Value: func(u User) string { return u.Name }},
		{Key: "email", Label: "Email", Value: func(u User) string { return u.Email }},
		{Key: "role", Label: "Role", Value: func(u User) string { return u.Role }},
		{Key: "active", Label: "Active", Value: func(u User) string {
			if u.IsActive {
				return "Yes"
			}
			return "No"
		}},
	}
}

type listPageData struct {
	Users table.Page[User]
	State table.State
	Roles []string
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	state := table.StateFromQuery(r)
	items, err := h.service.FetchAll(r.Context())
	if err != nil {
		h.logger.Warn("fetch users", slog.Any("error", err))
		items = h.service.Items()
	}
	data := listPageData{
		Users: table.Apply(items, userColumns(), state),
		State: state,
		Roles: []string{"ADMIN", "OPERATIONS", "FINANCE", "VIEWER"},
	}
	h.render(w, r, "pages/users.html", "Users", data)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	payload := Payload{
		Name:     r.PostFormValue("name"),
		Role:     r.PostFormValue("role"),
		IsActive: r.PostFormValue("is_active") == "true",
	}
	if err := h.validator.Struct(payload); err != nil {
		h.redirectWithFlash(w, r, "/users", "error", "Check the user details and try again")
		return
	}
	if _, err := h.service.Update(r.Context(), id, payload); err != nil {
		h.redirectWithFlash(w, r, "/users", "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/users", "success", "User updated")
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
