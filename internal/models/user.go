package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a moderator account role.
type Role string

const (
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// User is a moderator or admin account. Guests are anonymous and have no row.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// UserPublic is the user shape returned by the API.
type UserPublic struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// ToPublic strips credentials.
func (u *User) ToPublic() UserPublic {
	return UserPublic{ID: u.ID, Email: u.Email, Role: u.Role}
}
