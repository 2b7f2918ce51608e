package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/campuscore/user-management/internal/apperrors"
	"github.com/campuscore/user-management/internal/auth"
	"github.com/campuscore/user-management/internal/models"
	"github.com/campuscore/user-management/internal/permissions"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the interface that wraps methods for User table data access
// needed by the auth service.
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user; its ID is filled on success.
	//
	// If some error occurs during user creation, the error will be returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, apperrors.ErrNotFound is returned
	// together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Method GetByEmail retrieves a user by email.
	//
	// If user with such email does not exist, apperrors.ErrNotFound is returned
	// together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// SessionRepository is the interface that wraps methods for session table data access
type SessionRepository interface {
	// Method Create inserts a new session into the database.
	Create(ctx context.Context, session *models.Session) error
	// Method GetByToken retrieves a session by token string.
	//
	// If no session with such token exists, apperrors.ErrNotFound is returned.
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	// Method DeleteByToken revokes a session. Deleting an unknown token is not
	// an error.
	DeleteByToken(ctx context.Context, token string) error
}

// authService implements registration, login and logout
type authService struct {
	userRepo    UserRepository
	sessionRepo SessionRepository
	logger      *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// passwordRegex validates password: at least 8 chars, uppercase, lowercase, number, special: !_?^&+-=|
var passwordRegex = []*regexp.Regexp{
	regexp.MustCompile(`.{8,}`),
	regexp.MustCompile(`[a-z]`),
	regexp.MustCompile(`[A-Z]`),
	regexp.MustCompile(`[0-9]`),
	regexp.MustCompile(`[!_?^&+\-=|]`),
}

// validatePassword checks the password strength policy
func validatePassword(password string) error {
	for _, regex := range passwordRegex {
		if !regex.MatchString(password) {
			return apperrors.ErrWeakPassword
		}
	}
	return nil
}

// Register creates a new user account.
//
// The actor is nil for self-service registration, in which case the role is
// always student. An authenticated actor may request a different role; that
// path is gated by the CREATE_USER permission and the actor's assignable-role
// set, checked before anything is written.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest, actor *models.User) (*models.User, error) {
	normalizedEmail := strings.TrimSpace(strings.ToLower(req.Email))
	normalizedUsername := strings.TrimSpace(req.Username)

	if normalizedUsername == "" {
		return nil, apperrors.NewValidationError("username", "username cannot be empty")
	}
	if !emailRegex.MatchString(normalizedEmail) {
		return nil, apperrors.NewValidationError("email", "invalid email format")
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	if req.PasswordConfirm != "" && req.PasswordConfirm != req.Password {
		return nil, apperrors.ErrPasswordMismatch
	}

	// Resolve the role before touching the store so a denied request stays
	// side-effect-free.
	role := models.RoleStudent
	if req.Role != "" && req.Role != models.RoleStudent {
		if !req.Role.IsValid() {
			return nil, apperrors.ErrInvalidRole
		}
		if actor == nil || !permissions.CanPerform(actor.Role, permissions.ActionCreateUser, "", false) {
			return nil, apperrors.ErrForbidden
		}
		if !permissions.CanAssignRole(actor.Role, req.Role) {
			return nil, apperrors.ErrForbidden
		}
		role = req.Role
	}

	emailExists, err := s.userRepo.ExistsByEmail(ctx, normalizedEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if emailExists {
		return nil, apperrors.ErrDuplicateEmail
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     normalizedUsername,
		Email:        normalizedEmail,
		PasswordHash: string(passwordHash),
		Role:         role,
		Active:       true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Read the row back so the response carries the database timestamps
	created, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		s.logger.Warn("failed to reload created user", zap.Int("userId", user.ID), zap.Error(err))
		return user, nil
	}

	return created, nil
}

// Login authenticates a user by email and password and issues a session token.
//
// Unknown email and wrong password produce the same error so the response
// cannot be used for account enumeration.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return nil, "", apperrors.NewValidationError("email", "email cannot be empty")
	}
	if req.Password == "" {
		return nil, "", apperrors.NewValidationError("password", "password cannot be empty")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, "", apperrors.ErrAccountInactive
	}

	token, err := auth.GenerateToken()
	if err != nil {
		return nil, "", err
	}

	session := &models.Session{
		UserID: user.ID,
		Token:  token,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("failed to save session: %w", err)
	}

	return user, token, nil
}

// Logout revokes the session for the given token. Revoking an already-invalid
// token is not an error.
func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.DeleteByToken(ctx, token)
}

// ResolveToken resolves an opaque bearer token into the owning account.
// It satisfies the auth middleware's ActorResolver interface.
func (s *authService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session account: %w", err)
	}

	return user, nil
}
