package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/campuscore/user-management/internal/apperrors"
	"github.com/campuscore/user-management/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupUserTestRepository creates a user repository with a mock database
func setupUserTestRepository(t *testing.T) (*userRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewUserRepository(db, zap.NewNop())

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

// userRows builds a sqlmock row set for the full user column list
func userRows(users ...models.User) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "is_active", "created_at", "updated_at"})
	for _, u := range users {
		rows.AddRow(u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.Active, u.CreatedAt, u.UpdatedAt)
	}
	return rows
}

func TestNewUserRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewUserRepository(db, zap.NewNop())

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		user          *models.User
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedID    int
	}{
		{
			name: "success",
			user: &models.User{
				Username:     "jdoe",
				Email:        "j@x.com",
				PasswordHash: "hashedpassword",
				Role:         models.RoleStudent,
				Active:       true,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("jdoe", "j@x.com", "hashedpassword", models.RoleStudent, true).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			expectedError: false,
			expectedID:    1,
		},
		{
			name: "database error on insert",
			user: &models.User{
				Username:     "jdoe",
				Email:        "j@x.com",
				PasswordHash: "hashedpassword",
				Role:         models.RoleStudent,
				Active:       true,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("jdoe", "j@x.com", "hashedpassword", models.RoleStudent, true).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
			expectedID:    0,
		},
		{
			name: "error getting last insert id",
			user: &models.User{
				Username:     "jdoe",
				Email:        "j@x.com",
				PasswordHash: "hashedpassword",
				Role:         models.RoleStudent,
				Active:       true,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("jdoe", "j@x.com", "hashedpassword", models.RoleStudent, true).
					WillReturnResult(sqlmock.NewErrorResult(errors.New("last insert id error")))
			},
			expectedError: true,
			expectedID:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Create(context.Background(), tt.user)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, tt.user.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		userID        int
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name:   "success",
			userID: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \?`).
					WithArgs(1).
					WillReturnRows(userRows(models.User{
						ID: 1, Username: "jdoe", Email: "j@x.com", PasswordHash: "hash",
						Role: models.RoleStudent, Active: true, CreatedAt: now, UpdatedAt: now,
					}))
			},
		},
		{
			name:   "not found",
			userID: 42,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \?`).
					WithArgs(42).
					WillReturnRows(userRows())
			},
			expectedError: apperrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			user, err := repo.GetByID(context.Background(), tt.userID)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.userID, user.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \?`).
		WithArgs("j@x.com").
		WillReturnRows(userRows(models.User{
			ID: 1, Username: "jdoe", Email: "j@x.com", PasswordHash: "hash",
			Role: models.RoleStudent, Active: true, CreatedAt: now, UpdatedAt: now,
		}))

	user, err := repo.GetByEmail(context.Background(), "j@x.com")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \?`).
		WithArgs("unknown@x.com").
		WillReturnRows(userRows())

	user, err := repo.GetByEmail(context.Background(), "unknown@x.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, user)
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("j@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "j@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_ExistsByEmailExcluding(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("j@x.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ExistsByEmailExcluding(context.Background(), "j@x.com", 1)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_GetAll(t *testing.T) {
	now := time.Now()
	studentRole := models.RoleStudent

	tests := []struct {
		name         string
		visibleRoles []models.Role
		roleFilter   *models.Role
		search       string
		setupMock    func(sqlmock.Sqlmock)
		expectedLen  int
	}{
		{
			name:         "all visible roles",
			visibleRoles: []models.Role{models.RoleFaculty, models.RoleStudent},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE role IN \(\?, \?\)`).
					WithArgs(models.RoleFaculty, models.RoleStudent, 20, 0).
					WillReturnRows(userRows(
						models.User{ID: 1, Username: "prof", Email: "p@x.com", Role: models.RoleFaculty, Active: true, CreatedAt: now, UpdatedAt: now},
						models.User{ID: 2, Username: "jdoe", Email: "j@x.com", Role: models.RoleStudent, Active: true, CreatedAt: now, UpdatedAt: now},
					))
			},
			expectedLen: 2,
		},
		{
			name:         "with role filter and search",
			visibleRoles: []models.Role{models.RoleFaculty, models.RoleStudent},
			roleFilter:   &studentRole,
			search:       "doe",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE role IN \(\?, \?\) AND role = \? AND \(username LIKE \? OR email LIKE \?\)`).
					WithArgs(models.RoleFaculty, models.RoleStudent, models.RoleStudent, "%doe%", "%doe%", 20, 0).
					WillReturnRows(userRows(
						models.User{ID: 2, Username: "jdoe", Email: "j@x.com", Role: models.RoleStudent, Active: true, CreatedAt: now, UpdatedAt: now},
					))
			},
			expectedLen: 1,
		},
		{
			name:         "empty visible set short-circuits",
			visibleRoles: nil,
			setupMock:    func(mock sqlmock.Sqlmock) {},
			expectedLen:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			users, err := repo.GetAll(context.Background(), 1, 20, tt.visibleRoles, tt.roleFilter, tt.search)
			require.NoError(t, err)
			assert.Len(t, users, tt.expectedLen)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Update(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE users SET username = \?, email = \?`).
		WithArgs("newname", "new@x.com", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), 1, "newname", "new@x.com")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE users SET password_hash = \?`).
		WithArgs("newhash", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePasswordHash(context.Background(), 1, "newhash")
	assert.NoError(t, err)
}

func TestUserRepository_UpdateActive(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE users SET is_active = \?`).
		WithArgs(false, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateActive(context.Background(), 1, false)
	assert.NoError(t, err)
}

func TestUserRepository_UpdateRole(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE users SET role = \?`).
		WithArgs(models.RoleFaculty, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateRole(context.Background(), 1, models.RoleFaculty)
	assert.NoError(t, err)
}

func TestUserRepository_Delete(t *testing.T) {
	tests := []struct {
		name          string
		userID        int
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name:   "success",
			userID: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM users WHERE id = \?`).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   "not found",
			userID: 42,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM users WHERE id = \?`).
					WithArgs(42).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: apperrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Delete(context.Background(), tt.userID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
