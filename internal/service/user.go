package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matkmin/Document-Management-System-Backend/internal/auth"
	"github.com/matkmin/Document-Management-System-Backend/internal/errs"
	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/repository"
)

// userPageSize is the fixed page size for user listings.
const userPageSize = 20

// UserListResult is the service-level DTO for paginated users.
type UserListResult struct {
	Items []model.User `json:"data"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
}

// UserInput carries an admin create/update request for a user account.
type UserInput struct {
	Name         string
	Email        string
	Password     string
	Role         model.Role
	DepartmentID *string
}

// UserService defines admin user management. Every operation requires an
// admin actor; an admin can never delete their own account.
type UserService interface {
	List(ctx context.Context, actor model.Actor, page int) (*UserListResult, error)
	Get(ctx context.Context, actor model.Actor, id string) (*model.User, error)
	Create(ctx context.Context, actor model.Actor, in UserInput) (*model.User, error)
	Update(ctx context.Context, actor model.Actor, id string, in UserInput) (*model.User, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
}

type userService struct {
	users repository.UserRepository
	depts repository.DepartmentRepository
}

// NewUserService constructs a UserService.
func NewUserService(users repository.UserRepository, depts repository.DepartmentRepository) UserService {
	return &userService{users: users, depts: depts}
}

func (s *userService) List(ctx context.Context, actor model.Actor, page int) (*UserListResult, error) {
	if actor.Role != model.RoleAdmin {
		return nil, errs.ErrForbidden
	}
	if page < 1 {
		page = 1
	}
	res, err := s.users.List(ctx, repository.PageQuery{
		Limit:  userPageSize,
		Offset: (page - 1) * userPageSize,
	})
	if err != nil {
		return nil, err
	}
	return &UserListResult{Items: res.Items, Total: res.Total, Page: page}, nil
}

func (s *userService) Get(ctx context.Context, actor model.Actor, id string) (*model.User, error) {
	if actor.Role != model.RoleAdmin {
		return nil, errs.ErrForbidden
	}
	return s.users.FindByID(ctx, id)
}

func (s *userService) validate(ctx context.Context, in UserInput, passwordRequired bool) error {
	if in.Name == "" || in.Email == "" {
		return fmt.Errorf("%w: name and email are required", errs.ErrValidation)
	}
	if !strings.Contains(in.Email, "@") {
		return fmt.Errorf("%w: invalid email", errs.ErrValidation)
	}
	if !in.Role.Valid() {
		return fmt.Errorf("%w: role must be admin, manager or employee", errs.ErrValidation)
	}
	if passwordRequired && in.Password == "" {
		return fmt.Errorf("%w: password is required", errs.ErrValidation)
	}
	if in.Password != "" && len(in.Password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", errs.ErrValidation, minPasswordLen)
	}
	if in.DepartmentID != nil {
		if _, err := s.depts.FindByID(ctx, *in.DepartmentID); err != nil {
			return fmt.Errorf("%w: unknown department", errs.ErrValidation)
		}
	}
	return nil
}

func (s *userService) Create(ctx context.Context, actor model.Actor, in UserInput) (*model.User, error) {
	if actor.Role != model.RoleAdmin {
		return nil, errs.ErrForbidden
	}
	if err := s.validate(ctx, in, true); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		DepartmentID: in.DepartmentID,
		CreatedAt:    time.Now().UTC(),
	}
	return s.users.Create(ctx, u)
}

func (s *userService) Update(ctx context.Context, actor model.Actor, id string, in UserInput) (*model.User, error) {
	if actor.Role != model.RoleAdmin {
		return nil, errs.ErrForbidden
	}
	if err := s.validate(ctx, in, false); err != nil {
		return nil, err
	}

	upd := repository.UserUpdate{
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		DepartmentID: in.DepartmentID,
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = hash
	}
	return s.users.Update(ctx, id, upd)
}

func (s *userService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if actor.Role != model.RoleAdmin {
		return errs.ErrForbidden
	}
	// Rejected before any lookup or mutation.
	if id == actor.ID {
		return errs.ErrSelfDelete
	}
	return s.users.Delete(ctx, id)
}
