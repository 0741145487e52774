package repository

import (
	"context"

	"github.com/matkmin/Document-Management-System-Backend/internal/model"
)

// UserUpdate carries the fields an admin may change on a user.
// PasswordHash is applied only when non-empty.
type UserUpdate struct {
	Name         string
	Email        string
	Role         model.Role
	DepartmentID *string
	PasswordHash string
}

// UserRepository defines data access for users.
type UserRepository interface {
	// Create inserts a new user. A duplicate email yields errs.ErrAlreadyExists.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns a user by ID, or errs.ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns a user by email, or errs.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// List returns users newest-first with a total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.User], error)

	// Update applies the given fields and returns the stored row.
	Update(ctx context.Context, id string, upd UserUpdate) (*model.User, error)

	// Delete removes a user by ID, or errs.ErrNotFound.
	Delete(ctx context.Context, id string) error
}
