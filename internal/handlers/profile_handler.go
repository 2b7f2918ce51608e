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

// ProfileService is the interface that wraps methods for the caller's own account.
type ProfileService interface {
	// Method GetProfile returns the current state of the actor's account.
	GetProfile(ctx context.Context, actor *models.User) (*models.User, error)
	// Method ChangePassword verifies the old password and stores a new one.
	ChangePassword(ctx context.Context, actor *models.User, oldPassword, newPassword, confirm string) error
}

// ProfileHandler handles requests against the caller's own account
type ProfileHandler struct {
	BaseHandler
	profileService ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(
	profileService ProfileService,
	logger *zap.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		profileService: profileService,
	}
}

// RegisterRoutes registers all profile handler routes
// Note: This assumes the router is already scoped to /api/v1 and protected
// by the auth middleware.
func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/profile", h.GetProfile)
		r.Post("/change-password", h.ChangePassword)
	})
}

// GetProfile handles GET /auth/profile
// @Summary Get own profile
// @Description Return the authenticated user's account.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User "Current user"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Router /auth/profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.profileService.GetProfile(r.Context(), actor)
	if err != nil {
		h.Logger.Error("failed to load profile", zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// ChangePassword handles POST /auth/change-password
// @Summary Change own password
// @Description Change the authenticated user's password. Requires the current password; existing sessions stay valid.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChangePasswordRequest true "Change password request"
// @Success 200 {object} map[string]string "Password changed"
// @Failure 400 {object} map[string]string "Weak password or confirmation mismatch"
// @Failure 401 {object} map[string]string "Wrong current password"
// @Router /auth/change-password [post]
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.profileService.ChangePassword(r.Context(), actor, req.OldPassword, req.NewPassword, req.NewPasswordConfirm)
	if err != nil {
		h.Logger.Warn("failed to change password", zap.Int("user_id", actor.ID), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "password changed successfully"})
}
