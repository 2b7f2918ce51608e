package services

import (
	"context"

	"github.com/campuscore/user-management/internal/apperrors"
	"github.com/campuscore/user-management/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ProfileUserRepository is the interface that wraps methods for User table data
// access needed by the profile service
type ProfileUserRepository interface {
	// GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, apperrors.ErrNotFound is returned.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// UpdatePasswordHash updates the password hash for a user.
	UpdatePasswordHash(ctx context.Context, userID int, passwordHash string) error
}

// profileService implements own-profile operations
type profileService struct {
	userRepo ProfileUserRepository
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo ProfileUserRepository) *profileService {
	return &profileService{
		userRepo: userRepo,
	}
}

// GetProfile returns the actor's own record
func (s *profileService) GetProfile(ctx context.Context, actor *models.User) (*models.User, error) {
	return s.userRepo.GetByID(ctx, actor.ID)
}

// ChangePassword verifies the current password and replaces it with a new one
func (s *profileService) ChangePassword(ctx context.Context, actor *models.User, oldPassword, newPassword, newPasswordConfirm string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	if newPassword != newPasswordConfirm {
		return apperrors.ErrPasswordMismatch
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePasswordHash(ctx, actor.ID, string(passwordHash))
}
