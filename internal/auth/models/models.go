// Package models defines the staff users who operate the admin panel and
// the delivery workflow.
package models

import (
	"time"

	id "solidario/pkg/domain"
)

// Staff roles. Operators register deliveries, editors manage portal
// content, admins can do everything including staff management.
const (
	RoleOperator = "operator"
	RoleEditor   = "editor"
	RoleAdmin    = "admin"
)

// ValidRole reports whether s is a known staff role.
func ValidRole(s string) bool {
	switch s {
	case RoleOperator, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// StaffUser is an authenticated member of the program staff. The password
// hash never leaves the server.
type StaffUser struct {
	ID           id.UserID `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
