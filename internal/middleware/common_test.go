package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/saraban-go-api/internal/middleware"
)

func newCommonApp(origins string) *fiber.App {
	app := fiber.New()
	middleware.Register(app, middleware.Config{AllowOrigins: origins})
	app.Get("/api/v1/documents", func(c *fiber.Ctx) error {
		return c.SendString(middleware.GetCorrelationID(c) + "|" + middleware.CorrelationIDFromContext(c.UserContext()))
	})
	return app
}

func TestCorrelationIDEchoesClientValue(t *testing.T) {
	app := newCommonApp("")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set(middleware.HeaderCorrelationID, "saraban-req-42")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, "saraban-req-42", resp.Header.Get(middleware.HeaderCorrelationID))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "saraban-req-42|saraban-req-42", string(body))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set("X-Request-ID", "upstream-7")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, "upstream-7", resp.Header.Get(middleware.HeaderCorrelationID))
}

func TestCorrelationIDReplacesUnusableValues(t *testing.T) {
	app := newCommonApp("")

	for _, value := range []string{strings.Repeat("a", 200), "bad\tid", "   "} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
		req.Header.Set(middleware.HeaderCorrelationID, value)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		id := resp.Header.Get(middleware.HeaderCorrelationID)
		require.Len(t, id, 36, value)
		require.NotEqual(t, strings.TrimSpace(value), id)
	}
}

func TestCORSExposesExportHeaders(t *testing.T) {
	app := newCommonApp("https://saraban.example.go.th")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://saraban.example.go.th")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, "https://saraban.example.go.th", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	exposed := resp.Header.Get(fiber.HeaderAccessControlExposeHeaders)
	require.Contains(t, exposed, middleware.HeaderCorrelationID)
	require.Contains(t, exposed, fiber.HeaderContentDisposition)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://elsewhere.example.com")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}
