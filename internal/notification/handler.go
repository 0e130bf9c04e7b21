package notification

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/view"
)

// Handler serves the notification dropdown and its mutations. Mutations
// always come back 303 to the referring page; the alerts UI never blocks the
// page that hosts it.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf}
}

// MountRoutes registers notification routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/unread-count", h.unreadCount)
	r.Post("/{id}/read", h.markRead)
	r.Post("/read-all", h.markAllRead)
	r.Post("/{id}/dismiss", h.dismiss)
}

type listPageData struct {
	Notifications []Notification
	UnreadCount   int
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items := h.service.Poll(r.Context())
	data := listPageData{
		Notifications: items,
		UnreadCount:   h.service.UnreadCount(r.Context()),
	}
	h.render(w, r, "pages/notifications.html", "Notifications", data)
}

// unreadCount feeds the badge refresh without a full page load.
func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{"unread": h.service.UnreadCount(r.Context())})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.service.MarkRead(r.Context(), id)
	h.redirectBack(w, r)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	h.service.MarkAllRead(r.Context())
	h.redirectBack(w, r)
}

func (h *Handler) dismiss(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.service.Dismiss(r.Context(), id)
	h.redirectBack(w, r)
}

func (h *Handler) redirectBack(w http.ResponseWriter, r *http.Request) {
	target := r.Header.Get("Referer")
	if target == "" {
		target = "/notifications"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
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
