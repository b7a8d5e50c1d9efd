package errorhandler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	testCases := []struct {
		err    error
		status int
	}{
		{errors.Wrap(errs.NotFound, "sale 1"), http.StatusNotFound},
		{errors.Mark(errors.New("not the creator"), errs.AuthorizationError), http.StatusForbidden},
		{errors.Mark(errors.New("function paused"), errs.Paused), http.StatusConflict},
		{errors.Mark(errors.New("invalid state"), errs.StateError), http.StatusConflict},
		{errors.Mark(errors.New("insufficient balance"), errs.CustodyError), http.StatusPaymentRequired},
		{errors.Mark(errors.New("overflow"), errs.ArithmeticError), http.StatusUnprocessableEntity},
		{errors.Mark(errors.New("bid too low"), errs.ValidationError), http.StatusBadRequest},
		{errors.Mark(errors.New("sale ended"), errs.WindowError), http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			status, _, ok := StatusOf(tc.err)
			require.True(t, ok)
			assert.Equal(t, tc.status, status)
		})
	}

	_, _, ok := StatusOf(errors.New("boom"))
	assert.False(t, ok)
}

func TestHTTPErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: NewHTTPErrorHandler()})
	app.Get("/public", func(c *fiber.Ctx) error {
		return errs.NewPublicError("bad input")
	})
	app.Get("/kind", func(c *fiber.Ctx) error {
		return errors.Wrap(errors.Mark(errors.New("sale ended"), errs.WindowError), "purchase")
	})
	app.Get("/unknown", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	testCases := []struct {
		path   string
		status int
		body   map[string]any
	}{
		{"/public", http.StatusBadRequest, map[string]any{"error": "bad input"}},
		{"/kind", http.StatusBadRequest, map[string]any{"error": "purchase: sale ended", "kind": "window error"}},
		{"/unknown", http.StatusInternalServerError, map[string]any{"error": "Internal Server Error"}},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tc.body, body)
		})
	}
}
