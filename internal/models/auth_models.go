package models

import "time"

// Access roles for application users. These gate the API, unrelated to job roles.
const (
	AccessRoleAdmin   = "Admin"
	AccessRoleManager = "Manager"
	AccessRoleViewer  = "Viewer"
)

// User is an operator account that can sign in.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     *string   `json:"full_name,omitempty" db:"full_name"`
	AccessRole   string    `json:"access_role" db:"access_role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// IsValidAccessRole reports whether role is one of the known access roles.
func IsValidAccessRole(role string) bool {
	switch role {
	case AccessRoleAdmin, AccessRoleManager, AccessRoleViewer:
		return true
	}
	return false
}
