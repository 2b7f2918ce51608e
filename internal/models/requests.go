package models

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	// Role is optional; it is honored only for privileged actors and
	// defaults to student for self-service registration.
	Role Role `json:"role,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the authenticated user and the issued bearer token
type LoginResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// UpdateUserRequest represents a partial user update. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// ChangeRoleRequest represents a role change request
type ChangeRoleRequest struct {
	Role Role `json:"role"`
}

// ListUsersFilter holds the supported filters for user listings
type ListUsersFilter struct {
	Page   int
	Count  int
	Role   *Role
	Search string
}

// RoleOption is a role choice offered to the client
type RoleOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
