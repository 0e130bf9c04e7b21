package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/view"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		templates:      templates,
		sessionManager: sessions,
		csrfManager:    csrf,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Get("/register", h.showRegister)
	r.Post("/register", h.handleRegister)
	r.Post("/logout", h.handleLogout)
	r.Get("/forgot-password", h.showForgotPassword)
	r.Post("/forgot-password", h.handleForgotPassword)
	r.Post("/reset-password", h.handleResetPassword)
}

// MountProfileRoutes registers the signed-in profile pages. These live
// behind RequireAuth, unlike the rest of the auth surface.
func (h *Handler) MountProfileRoutes(r chi.Router) {
	r.Get("/", h.showProfile)
	r.Post("/", h.handleProfileUpdate)
}

// RequireAuth redirects anonymous requests to the login page. Signed-in
// requests continue with the bearer token available on the session context.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.BearerToken() == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type loginPageData struct {
	Form   loginForm
	Errors map[string]string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, loginPageData{}, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())

	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	errors := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errors[fieldErr.Field()] = fieldErr.Error()
		}
	}

	if len(errors) == 0 {
		creds := Credentials{Email: form.Email, Password: form.Password}
		user, err := h.service.Authenticate(r.Context(), sess, creds)
		if err != nil {
			errors["general"] = "Invalid email or password"
		} else {
			if sess != nil {
				sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Welcome back, " + user.Name})
			} else {
				h.logger.Error("session missing during login")
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}

	h.renderLogin(w, r, loginPageData{Form: form, Errors: errors}, http.StatusBadRequest)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, data loginPageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	viewData := view.TemplateData{
		Title:       "Sign In",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/login.html", viewData); err != nil {
		h.logger.Error("render login", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

type registerForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type registerPageData struct {
	Form   registerForm
	Errors map[string]string
}

func (h *Handler) showRegister(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, r, registerPageData{}, http.StatusOK)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())

	form := registerForm{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	errors := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errors[fieldErr.Field()] = fieldErr.Error()
		}
	}

	if len(errors) == 0 {
		reg := Registration{Name: form.Name, Email: form.Email, Password: form.Password}
		if _, err := h.service.SignUp(r.Context(), sess, reg); err != nil {
			errors["general"] = shared.UserSafeMessage(err)
		} else {
			if sess != nil {
				sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Account created"})
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}

	h.renderRegister(w, r, registerPageData{Form: form, Errors: errors}, http.StatusBadRequest)
}

func (h *Handler) renderRegister(w http.ResponseWriter, r *http.Request, data registerPageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	viewData := view.TemplateData{
		Title:       "Create Account",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/register.html", viewData); err != nil {
		h.logger.Error("render register", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

type profileForm struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
}

type profilePageData struct {
	Form   profileForm
	Errors map[string]string
}

func (h *Handler) showProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Profile(r.Context())
	if err != nil {
		sess := shared.SessionFromContext(r.Context())
		if sess != nil {
			sess.AddFlash(shared.FlashMessage{Kind: "error", Message: shared.UserSafeMessage(err)})
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	form := profileForm{Name: user.Name, Email: user.Email}
	h.renderProfile(w, r, profilePageData{Form: form}, http.StatusOK)
}

func (h *Handler) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())

	form := profileForm{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
	}
	errors := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errors[fieldErr.Field()] = fieldErr.Error()
		}
	}

	if len(errors) == 0 {
		update := ProfileUpdate{Name: form.Name, Email: form.Email}
		user, err := h.service.UpdateProfile(r.Context(), update)
		if err != nil {
			errors["general"] = shared.UserSafeMessage(err)
		} else {
			if sess != nil {
				sess.SetUser(user.Email)
				sess.Set("user_name", user.Name)
				sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Profile updated"})
			}
			http.Redirect(w, r, "/profile", http.StatusSeeOther)
			return
		}
	}

	h.renderProfile(w, r, profilePageData{Form: form, Errors: errors}, http.StatusBadRequest)
}

func (h *Handler) renderProfile(w http.ResponseWriter, r *http.Request, data profilePageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	viewData := view.TemplateData{
		Title:       "My Profile",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/profile.html", viewData); err != nil {
		h.logger.Error("render profile", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) showForgotPassword(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	viewData := view.TemplateData{
		Title:       "Forgot Password",
		CSRFToken:   csrfToken,
		CurrentPath: r.URL.Path,
	}
	if err := h.templates.Render(w, "pages/forgot_password.html", viewData); err != nil {
		h.logger.Error("render forgot password", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	// The response never reveals whether the account exists.
	if err := h.service.RequestPasswordReset(r.Context(), email); err != nil {
		h.logger.Warn("password reset request", slog.Any("error", err))
	}
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "info", Message: "If that address exists, a reset link is on its way"})
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	reset := PasswordReset{
		Token:    r.PostFormValue("token"),
		Password: r.PostFormValue("password"),
	}
	if err := h.validator.Struct(reset); err != nil {
		http.Error(w, "Token and a password of at least 8 characters are required", http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if err := h.service.ConfirmPasswordReset(r.Context(), reset); err != nil {
		if sess != nil {
			sess.AddFlash(shared.FlashMessage{Kind: "error", Message: shared.UserSafeMessage(err)})
		}
		http.Redirect(w, r, "/forgot-password", http.StatusSeeOther)
		return
	}
	if sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Password updated, sign in with the new one"})
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ShowLoginForTest exposes the GET handler for tests.
func (h *Handler) ShowLoginForTest(w http.ResponseWriter, r *http.Request) {
	h.showLogin(w, r)
}

// HandleLoginForTest exposes the POST handler for tests.
func (h *Handler) HandleLoginForTest(w http.ResponseWriter, r *http.Request) {
	h.handleLogin(w, r)
}

// ShowProfileForTest exposes the GET handler for tests.
func (h *Handler) ShowProfileForTest(w http.ResponseWriter, r *http.Request) {
	h.showProfile(w, r)
}

// HandleProfileUpdateForTest exposes the POST handler for tests.
func (h *Handler) HandleProfileUpdateForTest(w http.ResponseWriter, r *http.Request) {
	h.handleProfileUpdate(w, r)
}
