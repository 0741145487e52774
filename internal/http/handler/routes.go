package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/matkmin/Document-Management-System-Backend/internal/http/middleware"
	"github.com/matkmin/Document-Management-System-Backend/internal/service"
)

// Services bundles the service layer for route registration.
type Services struct {
	Auth         service.AuthService
	Users        service.UserService
	Documents    service.DocumentService
	Categories   service.CategoryService
	Departments  service.DepartmentService
	ActivityLogs service.ActivityLogService
	Dashboard    service.DashboardService
}

// HealthCheck reports readiness by pinging the database.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always reports OK while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Readiness: checks DB connectivity. Liveness: always OK.
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/register", Register(svc.Auth))
	app.Post("/login", Login(svc.Auth))

	// Attached per route so unknown paths still fall through to 404.
	authed := middleware.RequireAuth(svc.Auth)

	app.Post("/logout", authed, Logout())
	app.Get("/user", authed, CurrentUser())
	app.Put("/profile", authed, UpdateProfile(svc.Auth))
	app.Get("/roles", authed, ListRoles())
	app.Get("/dashboard", authed, GetDashboard(svc.Dashboard))

	app.Get("/documents", authed, ListDocuments(svc.Documents))
	app.Post("/documents", authed, UploadDocument(svc.Documents))
	app.Get("/documents/:id", authed, GetDocument(svc.Documents))
	app.Put("/documents/:id", authed, UpdateDocument(svc.Documents))
	app.Patch("/documents/:id", authed, UpdateDocument(svc.Documents))
	app.Delete("/documents/:id", authed, DeleteDocument(svc.Documents))
	app.Get("/documents/:id/download", authed, DownloadDocument(svc.Documents))

	app.Get("/categories", authed, ListCategories(svc.Categories))
	app.Post("/categories", authed, CreateCategory(svc.Categories))
	app.Get("/categories/:id", authed, GetCategory(svc.Categories))
	app.Put("/categories/:id", authed, UpdateCategory(svc.Categories))
	app.Delete("/categories/:id", authed, DeleteCategory(svc.Categories))

	app.Get("/departments", authed, ListDepartments(svc.Departments))
	app.Post("/departments", authed, CreateDepartment(svc.Departments))
	app.Get("/departments/:id", authed, GetDepartment(svc.Departments))
	app.Put("/departments/:id", authed, UpdateDepartment(svc.Departments))
	app.Delete("/departments/:id", authed, DeleteDepartment(svc.Departments))

	app.Get("/users", authed, ListUsers(svc.Users))
	app.Post("/users", authed, CreateUser(svc.Users))
	app.Get("/users/:id", authed, GetUser(svc.Users))
	app.Put("/users/:id", authed, UpdateUser(svc.Users))
	app.Delete("/users/:id", authed, DeleteUser(svc.Users))

	app.Get("/activity-logs", authed, ListActivityLogs(svc.ActivityLogs))
}
