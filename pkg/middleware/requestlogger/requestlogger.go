// Package requestlogger logs one record per API request.
package requestlogger

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
	"github.com/gaze-network/sale-engine/pkg/middleware/requestcontext"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	// Disable drops the records of successful requests. Rejections and failures are always logged.
	Disable              bool     `mapstructure:"disable"`
	WithRequestHeader    bool     `mapstructure:"request_header"`
	HiddenRequestHeaders []string `mapstructure:"hidden_request_headers"`
}

// New logs successful requests at info, rejected requests (4xx) at warn and failed requests
// (5xx or an unhandled error) at error.
func New(config Config) fiber.Handler {
	hidden := make(map[string]struct{}, len(config.HiddenRequestHeaders))
	for _, header := range config.HiddenRequestHeaders {
		hidden[strings.ToLower(strings.TrimSpace(header))] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()

		level := slog.LevelInfo
		switch {
		case err != nil || status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		if config.Disable && level == slog.LevelInfo {
			return errors.WithStack(err)
		}

		ctx := c.UserContext()
		request := []slog.Attr{
			slogx.String("method", c.Method()),
			slogx.String("path", c.Path()),
			slogx.String("route", c.Route().Path),
			slogx.String("ip", requestcontext.GetClientIP(ctx)),
			slogx.Any("query", c.Queries()),
			slogx.Int("length", len(c.Body())),
		}
		if caller := requestcontext.GetCaller(ctx); caller != "" {
			request = append(request, slogx.String("caller", caller))
		}
		if saleID := c.Params("id"); saleID != "" && strings.Contains(c.Route().Path, "/sales/:id") {
			request = append(request, slogx.String("sale_id", saleID))
		}
		if config.WithRequestHeader {
			headers := make([]any, 0)
			for k, v := range c.GetReqHeaders() {
				if _, ok := hidden[strings.ToLower(k)]; !ok {
					headers = append(headers, slog.Any(k, v))
				}
			}
			request = append(request, slog.Group("header", headers...))
		}

		attrs := []slog.Attr{
			slogx.Event("api_request"),
			slogx.Duration("latency", time.Since(start)),
			{Key: "request", Value: slog.GroupValue(request...)},
			{Key: "response", Value: slog.GroupValue(
				slogx.Int("status", status),
				slogx.Int("length", len(c.Response().Body())),
			)},
		}
		if level == slog.LevelError {
			logErr := err
			if logErr == nil {
				logErr = fiber.NewError(status)
			}
			attrs = append(attrs, slogx.Error(logErr))
		}

		logger.LogAttrs(ctx, level, "Request completed", attrs...)
		return errors.WithStack(err)
	}
}
