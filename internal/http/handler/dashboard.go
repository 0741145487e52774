package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/matkmin/Document-Management-System-Backend/internal/http/middleware"
	"github.com/matkmin/Document-Management-System-Backend/internal/service"
)

// GetDashboard returns the caller's document statistics and recent activity.
func GetDashboard(dash service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		res, err := dash.Get(c.UserContext(), actor)
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(res)
	}
}

// ListActivityLogs returns one page of the audit trail. Administrators only.
func ListActivityLogs(logs service.ActivityLogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		res, err := logs.List(c.UserContext(), actor, c.QueryInt("page", 1))
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(res)
	}
}
