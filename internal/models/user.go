package models

import "time"

// Role is a closed enumeration of user roles
type Role string

// Role constants
const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
	RoleStaff   Role = "staff"
	RoleStudent Role = "student"
)

// AllRoles lists every valid role value
var AllRoles = []Role{RoleAdmin, RoleFaculty, RoleStaff, RoleStudent}

// IsValid reports whether the role is part of the enumeration
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleStaff, RoleStudent:
		return true
	}
	return false
}

// User represents a user account in the system
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	Role         Role      `json:"role"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
