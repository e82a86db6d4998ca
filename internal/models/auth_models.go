package models

import "time"

// Staff roles. A user is the bartender (or manager) attributed as the pourer
// of a pint.
const (
	RoleBartender = "BARTENDER"
	RoleManager   = "MANAGER"
)

// User represents a staff member in the system.
type User struct {
	ID           string    `json:"id" db:"id"`
	Role         string    `json:"role" db:"role"`
	DisplayName  *string   `json:"displayName,omitempty" db:"display_name"`
	Username     *string   `json:"username,omitempty" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// BartenderLabel returns the human-readable label used in pour projections:
// the display name when set, otherwise "Bartender " plus the id prefix.
func (u *User) BartenderLabel() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	id := u.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "Bartender " + id
}

// IsValidRole reports whether role is one of the recognized staff roles.
func IsValidRole(role string) bool {
	return role == RoleBartender || role == RoleManager
}

// Credentials for login request
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
