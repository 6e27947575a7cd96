package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the privilege level of an identity
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleStaff
}

// User represents a registered identity
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// IsStaff reports whether the user may manage the catalog and orders
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}

// Session is a server-side login session referenced by the session cookie
type Session struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}

// Identity is the resolved caller of a request. The zero value is anonymous.
type Identity struct {
	UserID    uuid.UUID
	Username  string
	Role      Role
	SessionID uuid.UUID
}

// IsAuthenticated reports whether the request carries a live session
func (i Identity) IsAuthenticated() bool {
	return i.UserID != uuid.Nil
}

// IsStaff reports whether the caller is an authenticated staff member
func (i Identity) IsStaff() bool {
	return i.IsAuthenticated() && i.Role == RoleStaff
}
