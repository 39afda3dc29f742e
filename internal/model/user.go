package model

import "time"

// Role values stored in the users.role column.  There is no promotion
// path between them: the role is fixed when the account is created.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an application user record as stored in the `users`
// table.  Identifiers are UUID strings generated at creation time and
// never change afterwards.  The password hash is excluded from JSON so
// handlers can return the struct directly without leaking credential
// material.
//
// Fields:
//  ID           – primary key identifier (UUID string).
//  Email        – unique, normalized (lower-cased, trimmed) email address.
//  PasswordHash – bcrypt hashed password, never serialized.
//  Role         – "admin" or "user"; defaults to "user" at registration.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
