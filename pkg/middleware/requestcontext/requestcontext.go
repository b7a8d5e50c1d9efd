// Package requestcontext enriches the user context of fiber requests with request scoped
// values and attaches them to the context logger.
package requestcontext

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

// Option derives the request context. A rejectError aborts the request with its status.
type Option func(ctx context.Context, c *fiber.Ctx) (context.Context, error)

type rejectError struct {
	status  int
	message string
}

func (r rejectError) Error() string {
	return r.message
}

func New(opts ...Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		for i, opt := range opts {
			var err error
			if ctx, err = opt(ctx, c); err != nil {
				var reject rejectError
				if errors.As(err, &reject) {
					return errors.WithStack(c.Status(reject.status).JSON(fiber.Map{"error": reject.message}))
				}
				logger.ErrorContext(c.UserContext(), "Failed to build request context", err,
					slogx.Event("requestcontext_error"),
					slogx.Int("option", i),
				)
				return errors.WithStack(c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"}))
			}
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

type (
	requestIdKey struct{}
	callerKey    struct{}
)

// GetRequestId returns the request id set by WithRequestId, or "".
func GetRequestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey{}).(string)
	return id
}

// WithRequestId reuses the id of the fiber requestid middleware, or the inbound header, or a
// fresh UUID, and echoes it in the response header.
func WithRequestId() Option {
	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		if id == "" {
			id = c.Get(requestid.ConfigDefault.Header, fiberutils.UUID())
			c.Set(requestid.ConfigDefault.Header, id)
			c.Locals(requestid.ConfigDefault.ContextKey, id)
		}
		ctx = context.WithValue(ctx, requestIdKey{}, id)
		return logger.WithContext(ctx, slogx.String("request_id", id)), nil
	}
}

// GetCaller returns the caller identity set by WithCaller, or "".
func GetCaller(ctx context.Context) string {
	caller, _ := ctx.Value(callerKey{}).(string)
	return caller
}

// WithCaller records the identity carried by header. Requests without it pass through; the
// handlers that need a caller reject them.
func WithCaller(header string) Option {
	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		caller := strings.TrimSpace(c.Get(header))
		if caller == "" {
			return ctx, nil
		}
		ctx = context.WithValue(ctx, callerKey{}, caller)
		return logger.WithContext(ctx, slogx.String("caller", caller)), nil
	}
}
