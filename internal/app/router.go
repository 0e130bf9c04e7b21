package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/freightdesk/freightdesk/internal/auth"
	"github.com/freightdesk/freightdesk/internal/booking"
	"github.com/freightdesk/freightdesk/internal/booking/wizard"
	"github.com/freightdesk/freightdesk/internal/dashboard"
	"github.com/freightdesk/freightdesk/internal/finance"
	"github.com/freightdesk/freightdesk/internal/fleet"
	"github.com/freightdesk/freightdesk/internal/incident"
	"github.com/freightdesk/freightdesk/internal/notification"
	"github.com/freightdesk/freightdesk/internal/observability"
	"github.com/freightdesk/freightdesk/internal/partner"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/users"
	"github.com/freightdesk/freightdesk/internal/view"
	"github.com/freightdesk/freightdesk/jobs"
	"github.com/freightdesk/freightdesk/report"
	"github.com/freightdesk/freightdesk/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Templates      *view.Engine
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler         *auth.Handler
	DashboardHandler    *dashboard.Handler
	BookingHandler      *booking.Handler
	WizardHandler       *wizard.Handler
	PartnerHandler      *partner.Handler
	FleetHandler        *fleet.Handler
	IncidentHandler     *incident.Handler
	NotificationHandler *notification.Handler
	FinanceHandler      *finance.Handler
	UsersHandler        *users.Handler
	ReportHandler       *report.Handler
	JobHandler          *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router. Everything except the landing, auth
// and health endpoints sits behind RequireAuth.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Landing page for unauthenticated users
	r.Get("/welcome", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		csrfToken, _ := params.CSRFManager.EnsureToken(r.Context(), sess)
		var flash *shared.FlashMessage
		if sess != nil {
			flash = sess.PopFlash()
		}
		data := view.TemplateData{
			Title:     "FreightDesk",
			CSRFToken: csrfToken,
			Flash:     flash,
		}
		if err := params.Templates.Render(w, "pages/landing.html", data); err != nil {
			params.Logger.Error("render landing", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.BearerToken() == "" {
			http.Redirect(w, r, "/welcome", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})

	params.AuthHandler.MountRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		r.Route("/profile", params.AuthHandler.MountProfileRoutes)
		r.Route("/bookings/new", params.WizardHandler.MountRoutes)
		r.Route("/bookings", params.BookingHandler.MountRoutes)
		r.Route("/partners", params.PartnerHandler.MountRoutes)
		r.Route("/fleet", params.FleetHandler.MountRoutes)
		r.Route("/incidents", params.IncidentHandler.MountRoutes)
		r.Route("/notifications", params.NotificationHandler.MountRoutes)
		r.Route("/finance", params.FinanceHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/report", params.ReportHandler.MountRoutes)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		// Static assets are served without session or CSRF requirements.
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers so
// browsers keep assets for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
