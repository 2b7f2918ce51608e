package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/campuscore/user-management/internal/auth"
	"github.com/campuscore/user-management/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserService is the interface that wraps methods for user administration.
//
// Every method takes the acting user; the service enforces both the
// role-based permission matrix and the actor's visibility scope, returning
// a not-found error for targets outside that scope.
type UserService interface {
	ListUsers(ctx context.Context, actor *models.User, filter models.ListUsersFilter) ([]models.User, error)
	GetUser(ctx context.Context, actor *models.User, targetID int) (*models.User, error)
	UpdateUser(ctx context.Context, actor *models.User, targetID int, req *models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, actor *models.User, targetID int) error
	ToggleStatus(ctx context.Context, actor *models.User, targetID int) (*models.User, error)
	ChangeRole(ctx context.Context, actor *models.User, targetID int, newRole models.Role) (*models.User, error)
	AssignableRoles(actor *models.User) []models.RoleOption
	FilterRoles(actor *models.User) []models.RoleOption
}

// UserHandler handles user administration HTTP requests
type UserHandler struct {
	BaseHandler
	userService UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	userService UserService,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		BaseHandler: BaseHandler{Logger: logger},
		userService: userService,
	}
}

// RegisterRoutes registers all user handler routes
// Note: This assumes the router is already scoped to /api/v1 and protected
// by the auth middleware.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetUser)
			r.Patch("/", h.UpdateUser)
			r.Delete("/", h.DeleteUser)
			r.Patch("/toggle-status", h.ToggleStatus)
			r.Patch("/change-role", h.ChangeRole)
		})
	})
	r.Get("/roles", h.Roles)
	r.Get("/filter-roles", h.FilterRoles)
}

func (h *UserHandler) targetID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListUsers handles GET /users
// @Summary List visible users
// @Description List users within the caller's visibility scope, optionally filtered by role and a username/email search term.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param count query int false "Page size (default 20)"
// @Param role query string false "Filter by role"
// @Param search query string false "Match against username or email"
// @Success 200 {array} models.User "Visible users"
// @Failure 400 {object} map[string]string "Unknown role filter"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	filter := models.ListUsersFilter{
		Search: r.URL.Query().Get("search"),
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		filter.Page = page
	}
	if count, err := strconv.Atoi(r.URL.Query().Get("count")); err == nil {
		filter.Count = count
	}
	if roleParam := r.URL.Query().Get("role"); roleParam != "" {
		role := models.Role(roleParam)
		filter.Role = &role
	}

	users, err := h.userService.ListUsers(r.Context(), actor, filter)
	if err != nil {
		h.Logger.Warn("failed to list users", zap.Int("actor_id", actor.ID), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, users)
}

// GetUser handles GET /users/{id}
// @Summary Get a user
// @Description Fetch a single user. Users outside the caller's visibility scope look like they do not exist.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.User "User"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 404 {object} map[string]string "User not found or not visible"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := h.targetID(r)
	if !ok {
		h.RespondError(w, http.StatusNotFound, "user not found")
		return
	}

	user, err := h.userService.GetUser(r.Context(), actor, id)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// UpdateUser handles PATCH /users/{id}
// @Summary Update a user
// @Description Update username and/or email. Everyone may edit their own profile; editing others requires admin, or faculty editing a student.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body models.UpdateUserRequest true "Fields to update"
// @Success 200 {object} models.User "Updated user"
// @Failure 400 {object} map[string]string "Validation failure or duplicate email"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 403 {object} map[string]string "Not allowed to edit this user"
// @Failure 404 {object} map[string]string "User not found or not visible"
// @Router /users/{id} [patch]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := h.targetID(r)
	if !ok {
		h.RespondError(w, http.StatusNotFound, "user not found")
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), actor, id, &req)
	if err != nil {
		h.Logger.Warn("failed to update user",
			zap.Int("actor_id", actor.ID), zap.Int("target_id", id), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /users/{id}
// @Summary Delete a user
// @Description Delete a user and revoke their sessions. Admin only; self-deletion is rejected.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204 "User deleted"
// @Failure 400 {object} map[string]string "Attempted self-deletion"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 403 {object} map[string]string "Not allowed to delete users"
// @Failure 404 {object} map[string]string "User not found or not visible"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := h.targetID(r)
	if !ok {
		h.RespondError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), actor, id); err != nil {
		h.Logger.Warn("failed to delete user",
			zap.Int("actor_id", actor.ID), zap.Int("target_id", id), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleStatus handles PATCH /users/{id}/toggle-status
// @Summary Toggle a user's active flag
// @Description Flip the target's active status. Admin may toggle anyone but themselves; faculty may toggle students.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.User "User with updated status"
// @Failure 400 {object} map[string]string "Attempted to toggle own status"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 403 {object} map[string]string "Not allowed to toggle this user"
// @Failure 404 {object} map[string]string "User not found or not visible"
// @Router /users/{id}/toggle-status [patch]
func (h *UserHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := h.targetID(r)
	if !ok {
		h.RespondError(w, http.StatusNotFound, "user not found")
		return
	}

	user, err := h.userService.ToggleStatus(r.Context(), actor, id)
	if err != nil {
		h.Logger.Warn("failed to toggle user status",
			zap.Int("actor_id", actor.ID), zap.Int("target_id", id), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// ChangeRole handles PATCH /users/{id}/change-role
// @Summary Change a user's role
// @Description Assign a new role to the target. Admin only; admins cannot change their own role.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body models.ChangeRoleRequest true "New role"
// @Success 200 {object} models.User "User with updated role"
// @Failure 400 {object} map[string]string "Unknown role or attempted self role change"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 403 {object} map[string]string "Not allowed to change roles"
// @Failure 404 {object} map[string]string "User not found or not visible"
// @Router /users/{id}/change-role [patch]
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := h.targetID(r)
	if !ok {
		h.RespondError(w, http.StatusNotFound, "user not found")
		return
	}

	var req models.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.ChangeRole(r.Context(), actor, id, req.Role)
	if err != nil {
		h.Logger.Warn("failed to change user role",
			zap.Int("actor_id", actor.ID), zap.Int("target_id", id), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// Roles handles GET /roles
// @Summary List assignable roles
// @Description Return the roles the caller may assign when creating users.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.RoleOption "Assignable roles"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Router /roles [get]
func (h *UserHandler) Roles(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	h.RespondJSON(w, http.StatusOK, h.userService.AssignableRoles(actor))
}

// FilterRoles handles GET /filter-roles
// @Summary List filterable roles
// @Description Return the role choices the caller may filter listings by, with an "all roles" option first.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.RoleOption "Filterable roles"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Router /filter-roles [get]
func (h *UserHandler) FilterRoles(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	h.RespondJSON(w, http.StatusOK, h.userService.FilterRoles(actor))
}
