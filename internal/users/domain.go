// Package users manages the user accounts consumed by the access policy.
package users

import (
	"time"

	"github.com/stockwise/stockwise/internal/shared"
)

// User is an account that can authenticate and act on the API. PasswordHash
// never leaves the server.
type User struct {
	ID           int64       `json:"id"`
	LoginID      string      `json:"login_id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         shared.Role `json:"role"`
	IsActive     bool        `json:"is_active"`
	LastLogin    *time.Time  `json:"last_login,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
