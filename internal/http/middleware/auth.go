package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/service"
)

// UserLocalKey is the key under which the authenticated user is stored in
// Fiber's context locals.
const UserLocalKey = "auth_user"

// RequireAuth resolves the bearer token on every request and stores the
// authenticated user in context locals. Requests without a valid token are
// rejected with 401 before reaching the handler.
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return unauthorized(c)
		}

		user, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(UserLocalKey, user)

		return c.Next()
	}
}

// UserFromCtx returns the authenticated user stored by RequireAuth.
// The boolean is false on routes that did not pass through the middleware.
func UserFromCtx(c *fiber.Ctx) (*model.User, bool) {
	user, ok := c.Locals(UserLocalKey).(*model.User)
	return user, ok
}

// ActorFromCtx returns the policy actor derived from the authenticated user.
func ActorFromCtx(c *fiber.Ctx) (model.Actor, bool) {
	user, ok := UserFromCtx(c)
	if !ok {
		return model.Actor{}, false
	}
	return user.Actor(), true
}

func unauthorized(c *fiber.Ctx) error {
	rid, _ := c.Locals(RequestIDLocalKey).(string)

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"request_id": rid,
		"error": fiber.Map{
			"code":    "UNAUTHORIZED",
			"message": "missing or invalid access token",
		},
	})
}
