package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/matkmin/Document-Management-System-Backend/internal/http/middleware"
	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/service"
)

type userRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	DepartmentID *string `json:"department_id"`
}

func (r userRequest) input() service.UserInput {
	return service.UserInput{
		Name:         r.Name,
		Email:        r.Email,
		Password:     r.Password,
		Role:         model.Role(r.Role),
		DepartmentID: r.DepartmentID,
	}
}

// ListUsers returns one page of user accounts. Administrators only.
func ListUsers(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		res, err := users.List(c.UserContext(), actor, c.QueryInt("page", 1))
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(res)
	}
}

// GetUser returns a single user account. Administrators only.
func GetUser(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}

		user, err := users.Get(c.UserContext(), actor, id)
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(user)
	}
}

// CreateUser creates an account with an explicit role. Administrators only.
func CreateUser(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		var req userRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
		}

		user, err := users.Create(c.UserContext(), actor, req.input())
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

// UpdateUser updates an account's profile, role, or department. Administrators only.
func UpdateUser(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}

		var req userRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
		}

		user, err := users.Update(c.UserContext(), actor, id, req.input())
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(user)
	}
}

// DeleteUser removes an account. Administrators only, and never their own.
func DeleteUser(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}

		if err := users.Delete(c.UserContext(), actor, id); err != nil {
			return writeServiceError(c, err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
