package requestcontext

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seen struct {
	ip, caller, requestId string
}

func newApp(opts ...Option) (*fiber.App, *seen) {
	var s seen
	app := fiber.New()
	app.Use(New(opts...))
	app.Get("/", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		s = seen{ip: GetClientIP(ctx), caller: GetCaller(ctx), requestId: GetRequestId(ctx)}
		return c.SendStatus(http.StatusOK)
	})
	return app, &s
}

func do(t *testing.T, app *fiber.App, header map[string]string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestWithCallerAndRequestId(t *testing.T) {
	app, s := newApp(WithRequestId(), WithCaller("X-Caller"))

	require.Equal(t, http.StatusOK, do(t, app, map[string]string{"X-Caller": " alice ", "X-Request-ID": "req-1"}))
	assert.Equal(t, "alice", s.caller)
	assert.Equal(t, "req-1", s.requestId)

	require.Equal(t, http.StatusOK, do(t, app, nil))
	assert.Empty(t, s.caller)
	assert.NotEmpty(t, s.requestId)
}

func TestWithClientIP(t *testing.T) {
	t.Run("trusted_header", func(t *testing.T) {
		app, s := newApp(WithClientIP(WithClientIPConfig{TrustedHeader: "CF-Connecting-IP"}))
		require.Equal(t, http.StatusOK, do(t, app, map[string]string{"CF-Connecting-IP": "203.0.113.7"}))
		assert.Equal(t, "203.0.113.7", s.ip)
	})
	t.Run("skips_trusted_proxies", func(t *testing.T) {
		app, s := newApp(WithClientIP(WithClientIPConfig{TrustedProxiesIP: []string{"10.0.0.0/8"}}))
		require.Equal(t, http.StatusOK, do(t, app, map[string]string{"X-Forwarded-For": "198.51.100.1, 203.0.113.9, 10.1.2.3"}))
		assert.Equal(t, "203.0.113.9", s.ip)
	})
	t.Run("rejects_untrusted_forwarding", func(t *testing.T) {
		app, _ := newApp(WithClientIP(WithClientIPConfig{EnableRejectMalformedRequest: true}))
		assert.Equal(t, http.StatusForbidden, do(t, app, map[string]string{"X-Forwarded-For": "198.51.100.1"}))
	})
	t.Run("invalid_range_panics", func(t *testing.T) {
		assert.Panics(t, func() { WithClientIP(WithClientIPConfig{TrustedProxiesIP: []string{"not-a-cidr"}}) })
	})
}
