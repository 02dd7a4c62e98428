// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role is a coarse permission label attached to a user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// User is an account. PasswordHash is a bcrypt hash (the salt is embedded in
// it) and never leaves the server: it is excluded from JSON.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"-"`
}
