package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"huddle-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracedApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.Tracing())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(middleware.GetTraceID(c))
	})
	return app
}

func TestTracing_GeneratesID(t *testing.T) {
	app := newTracedApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	echoed := resp.Header.Get("X-Trace-Id")
	_, err = uuid.Parse(echoed)
	assert.NoError(t, err)
}

func TestTracing_PropagatesInboundID(t *testing.T) {
	app := newTracedApp()
	inbound := uuid.New().String()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Trace-Id", inbound)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, inbound, resp.Header.Get("X-Trace-Id"))

	// Garbage inbound IDs are replaced, not echoed.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Trace-Id", "not-a-uuid")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	echoed := resp.Header.Get("X-Trace-Id")
	assert.NotEqual(t, "not-a-uuid", echoed)
	_, err = uuid.Parse(echoed)
	assert.NoError(t, err)
}
