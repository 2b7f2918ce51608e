package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/campuscore/user-management/internal/auth"
	"github.com/campuscore/user-management/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register validates credentials and creates a new account.
	//
	// "req" parameter contains username, email, password and an optional role.
	// "actor" is the authenticated caller, or nil for anonymous registration.
	//
	// Privileged role assignment requires an actor allowed to create users
	// with that role; anonymous registration always yields a student account.
	Register(ctx context.Context, req *models.RegisterRequest, actor *models.User) (*models.User, error)
	// Method Login validates credentials and issues an opaque session token.
	//
	// Unknown email and wrong password produce the same error so callers
	// cannot probe which accounts exist.
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error)
	// Method Logout revokes the session token. Revoking a token that no
	// longer exists is not an error.
	Logout(ctx context.Context, token string) error
	// Method ResolveToken returns the active user owning the session token.
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService AuthService,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authService: authService,
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})
}

// Register handles POST /auth/register
// @Summary Register a new user
// @Description Register a new account. Anonymous callers always get the student role; assigning another role requires a logged-in user permitted to create accounts with that role.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} models.User "User registered successfully"
// @Failure 400 {object} map[string]string "Invalid request body, weak password or duplicate email"
// @Failure 403 {object} map[string]string "Caller may not assign the requested role"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Registration is public, but a logged-in caller may assign a role.
	// A bad or stale token here simply means an anonymous registration.
	var actor *models.User
	if token := auth.ExtractToken(r); token != "" {
		if resolved, err := h.authService.ResolveToken(r.Context(), token); err == nil {
			actor = resolved
		}
	}

	user, err := h.authService.Register(r.Context(), &req, actor)
	if err != nil {
		h.Logger.Warn("failed to register user", zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
// @Summary Login user
// @Description Authenticate with email and password. Returns the user and an opaque session token valid until logout.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.LoginResponse "Login successful"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials or deactivated account"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.Logger.Warn("failed to login user", zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.LoginResponse{
		Message: "login successful",
		User:    user,
		Token:   token,
	})
}

// Logout handles POST /auth/logout
// @Summary Logout user
// @Description Revoke the session token carried in the Authorization header. Logout is idempotent.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Logout successful"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.ExtractToken(r)
	if token == "" {
		h.RespondError(w, http.StatusUnauthorized, "authorization token required")
		return
	}

	if err := h.authService.Logout(r.Context(), token); err != nil {
		h.Logger.Error("failed to logout user", zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}
