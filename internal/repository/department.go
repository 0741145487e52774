package repository

import (
	"context"

	"github.com/matkmin/Document-Management-System-Backend/internal/model"
)

// DepartmentRepository defines data access for departments.
type DepartmentRepository interface {
	Create(ctx context.Context, d *model.Department) (*model.Department, error)
	FindByID(ctx context.Context, id string) (*model.Department, error)
	List(ctx context.Context) ([]model.Department, error)
	Update(ctx context.Context, id, name, description string) (*model.Department, error)
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines data access for document categories.
type CategoryRepository interface {
	// Create inserts a category. A duplicate title yields errs.ErrAlreadyExists.
	Create(ctx context.Context, c *model.DocumentCategory) (*model.DocumentCategory, error)
	FindByID(ctx context.Context, id string) (*model.DocumentCategory, error)
	List(ctx context.Context) ([]model.DocumentCategory, error)
	// Update renames a category. A duplicate title yields errs.ErrAlreadyExists.
	Update(ctx context.Context, id, title, description string) (*model.DocumentCategory, error)
	Delete(ctx context.Context, id string) error
}
