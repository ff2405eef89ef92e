package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mcq-generator/internal/middleware"
	"mcq-generator/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestIDApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Get("/id", func(c *fiber.Ctx) error {
		return c.SendString(middleware.RequestIDFrom(c))
	})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})
	return app
}

func TestRequestID_Generated(t *testing.T) {
	app := newRequestIDApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/id", nil), -1)
	require.NoError(t, err)
	id := resp.Header.Get(middleware.HeaderRequestID)
	assert.True(t, util.IsULID(id))
}

func TestRequestID_ReusesValidClientID(t *testing.T) {
	app := newRequestIDApp()
	clientID := util.NewULID()

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(middleware.HeaderRequestID, clientID)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, clientID, resp.Header.Get(middleware.HeaderRequestID))
}

func TestRequestID_ReplacesInvalidClientID(t *testing.T) {
	app := newRequestIDApp()

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(middleware.HeaderRequestID, "not-a-ulid")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	id := resp.Header.Get(middleware.HeaderRequestID)
	assert.NotEqual(t, "not-a-ulid", id)
	assert.True(t, util.IsULID(id))
}

func TestRequestLogger_WritesErrorResponse(t *testing.T) {
	app := newRequestIDApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
