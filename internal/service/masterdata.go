package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matkmin/Document-Management-System-Backend/internal/errs"
	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/repository"
)

// CategoryService defines category management. Reading is open to any
// authenticated user; mutations are admin-only.
type CategoryService interface {
	List(ctx context.Context) ([]model.DocumentCategory, error)
	Get(ctx context.Context, id string) (*model.DocumentCategory, error)
	Create(ctx context.Context, actor model.Actor, title, description string) (*model.DocumentCategory, error)
	Update(ctx context.Context, actor model.Actor, id, title, description string) (*model.DocumentCategory, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
}

type categoryService struct {
	cats repository.CategoryRepository
}

func NewCategoryService(cats repository.CategoryRepository) CategoryService {
	return &categoryService{cats: cats}
}

func (s *categoryService) List(ctx context.Context) ([]model.DocumentCategory, error) {
	return s.cats.List(ctx)
}

func (s *categoryService) Get(ctx context.Context, id string) (*model.DocumentCategory, error) {
	return s.cats.FindByID(ctx, id)
}

func (s *categoryService) Create(ctx context.Context, actor model.Actor, title, description string) (*model.DocumentCategory, error) {
	if actor.Role != model.RoleAdmin {
		return nil, errs.ErrForbidden
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", errs.ErrValidation)
	}
	return s.cats.Create(ctx, &model.DocumentCategory{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	})
}

func (s *categoryService) Update(ctx context.Context, actor model.Actor, id, title, description string) (*model.DocumentCategory, error) {
	if actor.Role != model.RoleAdmin {
		return nil, errs.ErrForbidden
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", errs.ErrValidation)
	}
	return s.cats.Update(ctx, id, title, description)
}

func (s *categoryService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if actor.Role != model.RoleAdmin {
		return errs.ErrForbidden
	}
	return s.cats.Delete(ctx, id)
}

// DepartmentService defines department management. Employees only see their
// own department; admins and managers see and manage all of them.
type DepartmentService interface {
	List(ctx context.Context, actor model.Actor) ([]model.Department, error)
	Get(ctx context.Context, id string) (*model.Department, error)
	Create(ctx context.Context, actor model.Actor, name, description string) (*model.Department, error)
	Update(ctx context.Context, actor model.Actor, id, name, description string) (*model.Department, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
}

type departmentService struct {
	depts repository.DepartmentRepository
}

func NewDepartmentService(depts repository.DepartmentRepository) DepartmentService {
	return &departmentService{depts: depts}
}

func (s *departmentService) List(ctx context.Context, actor model.Actor) ([]model.Department, error) {
	if actor.Role == model.RoleEmployee {
		if actor.DepartmentID == nil {
			return []model.Department{}, nil
		}
		d, err := s.depts.FindByID(ctx, *actor.DepartmentID)
		if err != nil {
			return nil, err
		}
		return []model.Department{*d}, nil
	}
	return s.depts.List(ctx)
}

func (s *departmentService) Get(ctx context.Context, id string) (*model.Department, error) {
	return s.depts.FindByID(ctx, id)
}

func (s *departmentService) Create(ctx context.Context, actor model.Actor, name, description string) (*model.Department, error) {
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleManager {
		return nil, errs.ErrForbidden
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", errs.ErrValidation)
	}
	return s.depts.Create(ctx, &model.Department{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	})
}

func (s *departmentService) Update(ctx context.Context, actor model.Actor, id, name, description string) (*model.Department, error) {
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleManager {
		return nil, errs.ErrForbidden
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", errs.ErrValidation)
	}
	return s.depts.Update(ctx, id, name, description)
}

func (s *departmentService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if actor.Role != model.RoleAdmin {
		return errs.ErrForbidden
	}
	return s.depts.Delete(ctx, id)
}
