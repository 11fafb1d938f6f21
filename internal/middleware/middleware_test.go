package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialpulse/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAndLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	prev := observability.GlobalLogger
	observability.InitLogger("production", &buf)
	t.Cleanup(func() { observability.GlobalLogger = prev })

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(TracingMiddleware())
	app.Use(ContextMiddleware())
	app.Use(StructuredLogger())

	var ctxRequestID any
	app.Get("/ping", func(c *fiber.Ctx) error {
		ctxRequestID = c.UserContext().Value(observability.RequestIDKey)
		return c.SendString("pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-123", ctxRequestID)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), `"path":"/ping"`)
}

func TestInitMetricsIsShared(t *testing.T) {
	a := InitMetrics("socialpulse-test")
	b := InitMetrics("socialpulse-test")
	assert.Same(t, a, b)
	assert.NotNil(t, MetricsMiddleware(a))
}
