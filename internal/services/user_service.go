package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/campuscore/user-management/internal/apperrors"
	"github.com/campuscore/user-management/internal/models"
	"github.com/campuscore/user-management/internal/permissions"
	"go.uber.org/zap"
)

// AdminUserRepository is the interface that wraps methods for User table data
// access needed by the user management service
type AdminUserRepository interface {
	// GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, apperrors.ErrNotFound is returned.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// GetAll retrieves a paginated list of users restricted to visibleRoles,
	// with optional role filter and search in username or email.
	GetAll(ctx context.Context, page, count int, visibleRoles []models.Role, roleFilter *models.Role, search string) ([]models.User, error)
	// Update updates username and email of a user.
	Update(ctx context.Context, userID int, username, email string) error
	// ExistsByEmailExcluding checks if a user other than excludeID exists with
	// the given email.
	ExistsByEmailExcluding(ctx context.Context, email string, excludeID int) (bool, error)
	// UpdateActive updates the active status of a user.
	UpdateActive(ctx context.Context, userID int, active bool) error
	// UpdateRole updates the role of a user.
	UpdateRole(ctx context.Context, userID int, role models.Role) error
	// Delete deletes a user by ID. Returns apperrors.ErrNotFound when no row matched.
	Delete(ctx context.Context, userID int) error
}

// UserSessionRepository wraps the session access needed when deleting accounts
type UserSessionRepository interface {
	// DeleteByUserID revokes every session issued to the user.
	DeleteByUserID(ctx context.Context, userID int) error
}

// userService implements role-gated user management operations. Every operation
// resolves the target, applies the visibility scope, and consults the
// permission evaluator before any mutation.
type userService struct {
	userRepo    AdminUserRepository
	sessionRepo UserSessionRepository
	logger      *zap.Logger
}

// NewUserService creates a new user management service
func NewUserService(
	userRepo AdminUserRepository,
	sessionRepo UserSessionRepository,
	logger *zap.Logger,
) *userService {
	return &userService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// getVisibleTarget loads the target account and applies the actor's visibility
// scope. Targets outside the scope are reported as not found, exactly like
// unknown IDs, so the response does not leak whether the account exists.
// An actor is always visible to itself.
func (s *userService) getVisibleTarget(ctx context.Context, actor *models.User, targetID int) (*models.User, error) {
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if actor.ID != target.ID && !permissions.VisibleTo(actor.Role, target.Role) {
		return nil, apperrors.ErrNotFound
	}

	return target, nil
}

// ListUsers returns the accounts visible to the actor, paginated and optionally
// filtered by role or by a search term on username/email.
func (s *userService) ListUsers(ctx context.Context, actor *models.User, filter models.ListUsersFilter) ([]models.User, error) {
	if !permissions.CanPerform(actor.Role, permissions.ActionViewUsers, "", false) {
		return nil, apperrors.ErrForbidden
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Count < 1 {
		filter.Count = 20
	}

	if filter.Role != nil && !filter.Role.IsValid() {
		return nil, apperrors.ErrInvalidRole
	}

	// The visible-role set is pushed into the query so hidden accounts never
	// leave the database.
	return s.userRepo.GetAll(ctx, filter.Page, filter.Count, permissions.VisibleRoles(actor.Role), filter.Role, filter.Search)
}

// GetUser returns a single account, subject to the actor's visibility scope
func (s *userService) GetUser(ctx context.Context, actor *models.User, targetID int) (*models.User, error) {
	return s.getVisibleTarget(ctx, actor, targetID)
}

// UpdateUser updates username and/or email of the target account
func (s *userService) UpdateUser(ctx context.Context, actor *models.User, targetID int, req *models.UpdateUserRequest) (*models.User, error) {
	target, err := s.getVisibleTarget(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}

	action := permissions.ActionEditOtherUser
	isSelf := actor.ID == target.ID
	if isSelf {
		action = permissions.ActionEditOwnProfile
	}
	if !permissions.CanPerform(actor.Role, action, target.Role, isSelf) {
		return nil, apperrors.ErrForbidden
	}

	username := target.Username
	if req.Username != nil {
		username = strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, apperrors.NewValidationError("username", "username cannot be empty")
		}
	}

	email := target.Email
	if req.Email != nil {
		email = strings.TrimSpace(strings.ToLower(*req.Email))
		if !emailRegex.MatchString(email) {
			return nil, apperrors.NewValidationError("email", "invalid email format")
		}
		emailExists, err := s.userRepo.ExistsByEmailExcluding(ctx, email, target.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if emailExists {
			return nil, apperrors.ErrDuplicateEmail
		}
	}

	if err := s.userRepo.Update(ctx, target.ID, username, email); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, target.ID)
}

// DeleteUser removes the target account and revokes all its sessions
func (s *userService) DeleteUser(ctx context.Context, actor *models.User, targetID int) error {
	target, err := s.getVisibleTarget(ctx, actor, targetID)
	if err != nil {
		return err
	}

	if !permissions.CanPerform(actor.Role, permissions.ActionDeleteUser, target.Role, actor.ID == target.ID) {
		return apperrors.ErrForbidden
	}

	if actor.ID == target.ID {
		return apperrors.NewValidationError("id", "cannot delete your own account")
	}

	if err := s.userRepo.Delete(ctx, target.ID); err != nil {
		return err
	}

	// The schema cascades session deletion; revoke explicitly as well so the
	// tokens die even on stores without foreign key enforcement.
	if err := s.sessionRepo.DeleteByUserID(ctx, target.ID); err != nil {
		s.logger.Warn("failed to revoke sessions for deleted user", zap.Int("userId", target.ID), zap.Error(err))
	}

	return nil
}

// ToggleStatus flips the active flag of the target account
func (s *userService) ToggleStatus(ctx context.Context, actor *models.User, targetID int) (*models.User, error) {
	target, err := s.getVisibleTarget(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}

	if actor.ID == target.ID {
		return nil, apperrors.NewValidationError("id", "cannot change your own status")
	}

	if !permissions.CanPerform(actor.Role, permissions.ActionToggleStatus, target.Role, false) {
		return nil, apperrors.ErrForbidden
	}

	if err := s.userRepo.UpdateActive(ctx, target.ID, !target.Active); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, target.ID)
}

// ChangeRole assigns a new role to the target account
func (s *userService) ChangeRole(ctx context.Context, actor *models.User, targetID int, newRole models.Role) (*models.User, error) {
	target, err := s.getVisibleTarget(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}

	if !permissions.CanPerform(actor.Role, permissions.ActionChangeRole, target.Role, false) {
		return nil, apperrors.ErrForbidden
	}

	if !newRole.IsValid() {
		return nil, apperrors.ErrInvalidRole
	}

	if actor.ID == target.ID {
		return nil, apperrors.NewValidationError("id", "cannot change your own role")
	}

	if err := s.userRepo.UpdateRole(ctx, target.ID, newRole); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, target.ID)
}

// AssignableRoles returns the roles the actor may assign when creating users
func (s *userService) AssignableRoles(actor *models.User) []models.RoleOption {
	roles := permissions.AssignableRoles(actor.Role)
	options := make([]models.RoleOption, len(roles))
	for i, role := range roles {
		options[i] = models.RoleOption{Value: string(role), Label: permissions.RoleLabel(role)}
	}
	return options
}

// FilterRoles returns the role options usable as list filters by the actor,
// with an "All Roles" choice first.
func (s *userService) FilterRoles(actor *models.User) []models.RoleOption {
	roles := permissions.VisibleRoles(actor.Role)
	options := make([]models.RoleOption, 0, len(roles)+1)
	options = append(options, models.RoleOption{Value: "", Label: "All Roles"})
	for _, role := range roles {
		options = append(options, models.RoleOption{Value: string(role), Label: permissions.RoleLabel(role)})
	}
	return options
}
