package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matkmin/Document-Management-System-Backend/internal/auth"
	"github.com/matkmin/Document-Management-System-Backend/internal/errs"
	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/repository"
)

const minPasswordLen = 6

// RegisterInput carries a self-registration request. Registered users always
// start as employees; only an admin can grant a higher role afterwards.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	DepartmentID *string
}

// AuthResult bundles a signed access token with the authenticated user.
type AuthResult struct {
	Token     string     `json:"access_token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      model.User `json:"user"`
}

// AuthService defines registration, login, and per-request actor resolution.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Authenticate resolves a bearer token into the current user record.
	// Role and department come from storage, not from token claims.
	Authenticate(ctx context.Context, token string) (*model.User, error)

	// UpdateProfile lets a user change their own name and, optionally, password.
	UpdateProfile(ctx context.Context, actor model.Actor, name, password string) (*model.User, error)
}

type authService struct {
	users   repository.UserRepository
	depts   repository.DepartmentRepository
	signKey []byte
	ttl     time.Duration
}

// NewAuthService constructs an AuthService with the given signing key and token TTL.
func NewAuthService(users repository.UserRepository, depts repository.DepartmentRepository, signKey []byte, ttl time.Duration) AuthService {
	return &authService{users: users, depts: depts, signKey: signKey, ttl: ttl}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Name == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", errs.ErrValidation)
	}
	if !strings.Contains(in.Email, "@") {
		return nil, fmt.Errorf("%w: invalid email", errs.ErrValidation)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", errs.ErrValidation, minPasswordLen)
	}
	if in.DepartmentID != nil {
		if _, err := s.depts.FindByID(ctx, *in.DepartmentID); err != nil {
			return nil, fmt.Errorf("%w: unknown department", errs.ErrValidation)
		}
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
		Role:         model.RoleEmployee,
		DepartmentID: in.DepartmentID,
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	return s.issue(stored)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	// A missing user and a wrong password report the same way.
	if err != nil || !auth.VerifyPassword(u.PasswordHash, password) {
		return nil, errs.ErrUnauthorized
	}
	return s.issue(u)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	userID, err := auth.ParseToken(s.signKey, token)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

func (s *authService) UpdateProfile(ctx context.Context, actor model.Actor, name, password string) (*model.User, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", errs.ErrValidation)
	}

	current, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	upd := repository.UserUpdate{
		Name:         name,
		Email:        current.Email,
		Role:         current.Role,
		DepartmentID: current.DepartmentID,
	}
	if password != "" {
		if len(password) < minPasswordLen {
			return nil, fmt.Errorf("%w: password must be at least %d characters", errs.ErrValidation, minPasswordLen)
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = hash
	}
	return s.users.Update(ctx, actor.ID, upd)
}

func (s *authService) issue(u *model.User) (*AuthResult, error) {
	token, exp, err := auth.IssueToken(s.signKey, u.ID, s.ttl)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: *u}, nil
}
