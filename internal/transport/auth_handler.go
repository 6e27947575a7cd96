package transport

import (
	"errors"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/forms"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthHandler serves the landing page, registration, login and logout
type AuthHandler struct {
	responder
	authService    service.AuthService
	catalogService service.CatalogService
	cookie         middleware.SessionCookie
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	authService service.AuthService,
	catalogService service.CatalogService,
	cookie middleware.SessionCookie,
	renderer *Renderer,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		responder:      responder{renderer: renderer, logger: logger},
		authService:    authService,
		catalogService: catalogService,
		cookie:         cookie,
	}
}

// RegisterRoutes registers the public routes. limit guards the credential
// posts.
func (h *AuthHandler) RegisterRoutes(r chi.Router, limit func(http.Handler) http.Handler) {
	r.Get("/", h.Landing)

	r.Get("/register/", h.RegisterForm)
	r.Get("/login/", h.LoginForm)
	r.Post("/logout/", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(limit)
		r.Post("/register/", h.Register)
		r.Post("/login/", h.Login)
	})
}

// Landing sends signed-in users to their home and shows anonymous visitors
// the catalog
func (h *AuthHandler) Landing(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity.IsAuthenticated() {
		redirect(w, r, homeFor(identity))
		return
	}

	products, err := h.catalogService.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to list products")
		return
	}

	h.render(w, r, http.StatusOK, "landing", Page{Title: "Products", Data: products})
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", Page{Title: "Register"})
}

// Register creates a customer account and signs it in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form")
		return
	}

	input, errs := forms.ValidateRegistration(r.PostForm)
	if !errs.Valid() {
		h.logger.Debug("Registration validation failed", zap.Error(errs))
		h.render(w, r, http.StatusBadRequest, "register", Page{Title: "Register", Form: r.PostForm, Errors: errs})
		return
	}

	user, err := h.authService.Register(r.Context(), service.RegisterInput{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			errs = forms.FieldErrors{}
			errs.Add("username", "A user with that username already exists.")
			h.render(w, r, http.StatusBadRequest, "register", Page{Title: "Register", Form: r.PostForm, Errors: errs})
			return
		}
		h.fail(w, r, err, "Registration failed")
		return
	}

	h.logger.Info("User registered successfully", zap.String("user_id", user.ID.String()))
	h.signIn(w, r, user)
}

// LoginForm redirects users who already have a session
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if identity := middleware.GetIdentity(r.Context()); identity.IsAuthenticated() {
		redirect(w, r, homeFor(identity))
		return
	}

	h.render(w, r, http.StatusOK, "login", Page{Title: "Log in"})
}

// Login answers failures in plain text: 400 for an incomplete form and 401
// for wrong credentials
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid login form")
		return
	}

	credentials, errs := forms.ValidateLogin(r.PostForm)
	if !errs.Valid() {
		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid login form")
		return
	}

	user, err := h.authService.Login(r.Context(), credentials.Username, credentials.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Debug("Login failed", zap.String("username", credentials.Username))
			middleware.RespondWithError(w, http.StatusUnauthorized, "Invalid login credentials")
			return
		}
		h.fail(w, r, err, "Login failed")
		return
	}

	h.logger.Info("User logged in successfully", zap.String("user_id", user.ID.String()))
	h.signIn(w, r, user)
}

// Logout revokes the session and returns to the login page
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), middleware.GetIdentity(r.Context())); err != nil {
		h.fail(w, r, err, "Logout failed")
		return
	}

	h.cookie.Clear(w)
	redirect(w, r, middleware.LoginPath)
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, user *domain.User) {
	token, err := h.authService.StartSession(r.Context(), user)
	if err != nil {
		h.fail(w, r, err, "Failed to start session")
		return
	}

	h.cookie.Set(w, token.Value, token.ExpiresAt)
	redirect(w, r, homeFor(domain.Identity{UserID: user.ID, Role: user.Role}))
}
