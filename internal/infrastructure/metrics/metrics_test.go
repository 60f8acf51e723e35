package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CuentaPorPatronDeRuta(t *testing.T) {
	m := New("test")
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/users/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/metrics", m.Handler())

	for _, p := range []string{"/users/1", "/users/2"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, p, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("GET", "/users/:id", "204")))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), `test_http_requests_total{method="GET",route="/users/:id",status="204"} 2`))
}

func TestGuardYLogin(t *testing.T) {
	m := New("test")
	m.GuardDecision("redirect", "/login")
	m.GuardDecision("redirect", "/login")
	m.LoginResult(true)
	m.LoginResult(false)
	m.LoginResult(false)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.decisions.WithLabelValues("redirect", "/login")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.logins.WithLabelValues("failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.logins.WithLabelValues("ok")))
}

func TestGauge(t *testing.T) {
	m := New("test")
	n := 3
	m.Gauge("portal_sessions", "sesiones", func() float64 { return float64(n) })

	count, err := testutil.GatherAndCount(m.Registry(), "test_portal_sessions")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
