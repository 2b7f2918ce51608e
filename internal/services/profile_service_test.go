package services

import (
	"context"
	"testing"

	"github.com/campuscore/user-management/internal/apperrors"
	"github.com/campuscore/user-management/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockProfileUserRepository is a mock implementation of ProfileUserRepository
type mockProfileUserRepository struct {
	user *models.User

	updatedHash string
}

func (m *mockProfileUserRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	if m.user == nil || m.user.ID != userID {
		return nil, apperrors.ErrNotFound
	}
	return m.user, nil
}

func (m *mockProfileUserRepository) UpdatePasswordHash(ctx context.Context, userID int, passwordHash string) error {
	m.updatedHash = passwordHash
	return nil
}

func TestProfileService_GetProfile(t *testing.T) {
	user := &models.User{ID: 1, Username: "jdoe", Email: "j@x.com", Role: models.RoleStudent, Active: true}
	svc := NewProfileService(&mockProfileUserRepository{user: user})

	profile, err := svc.GetProfile(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)
}

func TestProfileService_ChangePassword(t *testing.T) {
	currentHash := hashPassword(t, "Secur3!pass")

	tests := []struct {
		name          string
		oldPassword   string
		newPassword   string
		confirm       string
		expectedError error
		expectUpdate  bool
	}{
		{
			name:         "success",
			oldPassword:  "Secur3!pass",
			newPassword:  "N3wSecur3!pass",
			confirm:      "N3wSecur3!pass",
			expectUpdate: true,
		},
		{
			name:          "wrong old password",
			oldPassword:   "Wr0ng!pass",
			newPassword:   "N3wSecur3!pass",
			confirm:       "N3wSecur3!pass",
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:          "confirmation mismatch",
			oldPassword:   "Secur3!pass",
			newPassword:   "N3wSecur3!pass",
			confirm:       "Different3!pass",
			expectedError: apperrors.ErrPasswordMismatch,
		},
		{
			name:          "weak new password",
			oldPassword:   "Secur3!pass",
			newPassword:   "weak",
			confirm:       "weak",
			expectedError: apperrors.ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := &models.User{ID: 1, PasswordHash: currentHash, Role: models.RoleStudent, Active: true}
			repo := &mockProfileUserRepository{user: actor}
			svc := NewProfileService(repo)

			err := svc.ChangePassword(context.Background(), actor, tt.oldPassword, tt.newPassword, tt.confirm)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, repo.updatedHash)
			} else {
				require.NoError(t, err)
				require.NotEmpty(t, repo.updatedHash)
				// The stored hash must verify against the new password
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.updatedHash), []byte(tt.newPassword)))
			}
		})
	}
}
