package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/matkmin/Document-Management-System-Backend/internal/http/middleware"
	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/service"
)

type registerRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	DepartmentID *string `json:"department_id"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register creates a new account. Self-registered accounts always start as
// employees; roles are assigned later by an administrator.
func Register(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
		}

		res, err := auth.Register(c.UserContext(), service.RegisterInput{
			Name:         req.Name,
			Email:        req.Email,
			Password:     req.Password,
			DepartmentID: req.DepartmentID,
		})
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// Login exchanges credentials for an access token.
func Login(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
		}

		res, err := auth.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(res)
	}
}

// Logout acknowledges a sign-out. Tokens are stateless JWTs, so there is no
// server-side session to revoke; the client discards the token.
func Logout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := middleware.UserFromCtx(c); !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}
		return c.JSON(fiber.Map{"message": "logged out"})
	}
}

// ListRoles returns the fixed set of assignable roles.
func ListRoles() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := middleware.UserFromCtx(c); !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}
		return c.JSON(fiber.Map{"data": []model.Role{
			model.RoleAdmin,
			model.RoleManager,
			model.RoleEmployee,
		}})
	}
}

// CurrentUser returns the authenticated user's own record.
func CurrentUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := middleware.UserFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}
		return c.JSON(user)
	}
}

// UpdateProfile lets the authenticated user change their name and password.
func UpdateProfile(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		var req profileRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
		}

		user, err := auth.UpdateProfile(c.UserContext(), actor, req.Name, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(user)
	}
}
