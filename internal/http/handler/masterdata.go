package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/matkmin/Document-Management-System-Backend/internal/http/middleware"
	"github.com/matkmin/Document-Management-System-Backend/internal/service"
)

type categoryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type departmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListCategories returns every document category. Open to all authenticated users.
func ListCategories(cats service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := cats.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// GetCategory returns a single category by id.
func GetCategory(cats service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}

		cat, err := cats.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cat)
	}
}

// CreateCategory creates a category. Administrators only.
func CreateCategory(cats service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		var req categoryRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
		}

		cat, err := cats.Create(c.UserContext(), actor, req.Title, req.Description)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(cat)
	}
}

// UpdateCategory renames a category. Administrators only.
func UpdateCategory(cats service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}

		var req categoryRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
		}

		cat, err := cats.Update(c.UserContext(), actor, id, req.Title, req.Description)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cat)
	}
}

// DeleteCategory removes a category. Administrators only.
func DeleteCategory(cats service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}

		if err := cats.Delete(c.UserContext(), actor, id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListDepartments returns the departments the caller may see. Employees only
// see their own department.
func ListDepartments(depts service.DepartmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		items, err := depts.List(c.UserContext(), actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// GetDepartment returns a single department by id.
func GetDepartment(depts service.DepartmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}

		dept, err := depts.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(dept)
	}
}

// CreateDepartment creates a department. Administrators and managers.
func CreateDepartment(depts service.DepartmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		var req departmentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
		}

		dept, err := depts.Create(c.UserContext(), actor, req.Name, req.Description)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dept)
	}
}

// UpdateDepartment renames a department. Administrators and managers.
func UpdateDepartment(depts service.DepartmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}

		var req departmentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
		}

		dept, err := depts.Update(c.UserContext(), actor, id, req.Name, req.Description)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(dept)
	}
}

// DeleteDepartment removes a department. Administrators only.
func DeleteDepartment(depts service.DepartmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}

		if err := depts.Delete(c.UserContext(), actor, id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
