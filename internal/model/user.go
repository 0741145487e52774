package model

import "time"

// Role is the single role assigned to a user. Exactly one value, never a set.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// User represents an account in the system.
// This is a pure domain model with no database-specific dependencies or tags.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	DepartmentID *string   `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Actor is the authenticated identity attached to a request.
// It carries exactly the fields the visibility policy depends on.
type Actor struct {
	ID           string
	Role         Role
	DepartmentID *string
}

// Actor derives the request-scoped identity from a full user record.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, DepartmentID: u.DepartmentID}
}
