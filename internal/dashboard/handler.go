package dashboard

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/view"
)

// Handler serves the dashboard page.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	now       func() time.Time
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf, now: time.Now}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.show)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	overview := h.service.Load(r.Context(), h.now())

	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	userName := ""
	if sess != nil {
		flash = sess.PopFlash()
		userName = sess.Get("user_name")
	}
	viewData := view.TemplateData{
		Title:       "Dashboard",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		UserName:    userName,
		UnreadCount: overview.UnreadCount,
		Data:        overview,
	}
	if err := h.templates.Render(w, "pages/dashboard.html", viewData); err != nil {
		h.logger.Error("render template", slog.Any("error", err), slog.String("template", "pages/dashboard.html"))
	}
}
