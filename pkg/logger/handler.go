package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
)

// Levels above slog.LevelError. Records at these levels are rendered as CRITICAL, PANIC and
// FATAL.
const (
	LevelCritical = slog.Level(12)
	LevelPanic    = slog.Level(14)
	LevelFatal    = slog.Level(16)
)

const (
	ErrorVerboseKey    = "error_verbose"
	ErrorStackTraceKey = "error_stacktrace"
)

type (
	handleFunc func(context.Context, slog.Record) error
	middleware func(handleFunc) handleFunc
)

// chainHandler runs every record through its middlewares before the wrapped handler.
type chainHandler struct {
	next        slog.Handler
	middlewares []middleware
}

func chain(next slog.Handler, middlewares ...middleware) slog.Handler {
	if len(middlewares) == 0 {
		return next
	}
	return &chainHandler{next: next, middlewares: middlewares}
}

func (c *chainHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return c.next.Enabled(ctx, level)
}

func (c *chainHandler) Handle(ctx context.Context, rec slog.Record) error {
	h := c.next.Handle
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		h = c.middlewares[i](h)
	}
	return h(ctx, rec)
}

func (c *chainHandler) WithGroup(group string) slog.Handler {
	return &chainHandler{next: c.next.WithGroup(group), middlewares: c.middlewares}
}

func (c *chainHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &chainHandler{next: c.next.WithAttrs(attrs), middlewares: c.middlewares}
}

// errorDetails adds the %+v rendering and the innermost stack trace of the first error
// attribute.
func errorDetails(next handleFunc) handleFunc {
	return func(ctx context.Context, rec slog.Record) error {
		var extra []slog.Attr
		rec.Attrs(func(attr slog.Attr) bool {
			err, ok := attr.Value.Any().(error)
			if attr.Key != slogx.ErrorKey || !ok || err == nil {
				return true
			}
			extra = append(extra, slog.String(ErrorVerboseKey, fmt.Sprintf("%+v", err)))
			if trace, ok := innermostStackTrace(err); ok {
				extra = append(extra, slog.Any(ErrorStackTraceKey, trace))
			}
			return false
		})
		rec.AddAttrs(extra...)
		return next(ctx, rec)
	}
}

type replacer = func(groups []string, attr slog.Attr) slog.Attr

func replacers(rs ...replacer) replacer {
	return func(groups []string, attr slog.Attr) slog.Attr {
		for _, r := range rs {
			attr = r(groups, attr)
		}
		return attr
	}
}

func replaceLevel(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 || attr.Key != slog.LevelKey {
		return attr
	}
	level, ok := attr.Value.Any().(slog.Level)
	if !ok || level < LevelCritical {
		return attr
	}
	name, base := "FATAL", LevelFatal
	switch {
	case level < LevelPanic:
		name, base = "CRITICAL", LevelCritical
	case level < LevelFatal:
		name, base = "PANIC", LevelPanic
	}
	if level != base {
		name = fmt.Sprintf("%s%+d", name, level-base)
	}
	return slog.String(attr.Key, name)
}

func replaceError(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 || attr.Key != slogx.ErrorKey {
		return attr
	}
	if err, ok := attr.Value.Any().(error); ok && err != nil {
		return slog.String(attr.Key, err.Error())
	}
	return attr
}

// replaceDuration renders durations as milliseconds.
func replaceDuration(_ []string, attr slog.Attr) slog.Attr {
	if attr.Value.Kind() != slog.KindDuration {
		return attr
	}
	return slog.Int64(attr.Key, attr.Value.Duration().Milliseconds())
}
