package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/matkmin/Document-Management-System-Backend/internal/errs"
	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/service/mocks"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		// Check if it's readable in handler (from response body)
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})
}

func TestRequireAuth(t *testing.T) {
	user := &model.User{ID: "user-1", Role: model.RoleEmployee}

	newApp := func(auth *mocks.MockAuthService) *fiber.App {
		app := fiber.New()
		app.Use(RequestID())
		app.Use(RequireAuth(auth))
		app.Get("/test", func(c *fiber.Ctx) error {
			actor, ok := ActorFromCtx(c)
			if !ok {
				return c.SendStatus(fiber.StatusInternalServerError)
			}
			return c.SendString(actor.ID)
		})
		return app
	}

	t.Run("should resolve bearer token and expose the actor", func(t *testing.T) {
		auth := new(mocks.MockAuthService)
		auth.On("Authenticate", mock.Anything, "good-token").Return(user, nil)

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")
		resp, _ := newApp(auth).Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, "user-1", buf.String())
	})

	t.Run("should reject requests without a bearer token", func(t *testing.T) {
		auth := new(mocks.MockAuthService)

		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := newApp(auth).Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("should reject invalid tokens with the error envelope", func(t *testing.T) {
		auth := new(mocks.MockAuthService)
		auth.On("Authenticate", mock.Anything, "bad-token").Return(nil, errs.ErrUnauthorized)

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer bad-token")
		resp, _ := newApp(auth).Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		var body struct {
			RequestID string `json:"request_id"`
			Error     struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
		assert.NotEmpty(t, body.RequestID)
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	loc := time.UTC

	// Logger usually depends on RequestID for request_id field
	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, loc))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	// Verify log output
	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	assert.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])
}
