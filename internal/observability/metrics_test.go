package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecipientTransitionsCounter(t *testing.T) {
	counter := RecipientTransitions().WithLabelValues("READ", "applied")
	before := testutil.ToFloat64(counter)
	counter.Inc()
	require.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	DocumentsSent().Inc()

	app := fiber.New()
	app.Get("/metrics", MetricsHandler(""))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "documents_sent_total"))
}

func TestMetricsHandlerRequiresToken(t *testing.T) {
	app := fiber.New()
	app.Get("/metrics", MetricsHandler("scrape-secret"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer wrong")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer scrape-secret")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "promhttp_metric_handler_requests_total")
}
