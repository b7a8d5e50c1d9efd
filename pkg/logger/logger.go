// Package logger wraps log/slog with a process-wide logger, context scoped loggers and
// output formats for local runs and Cloud Logging.
//
// nolint: sloglint
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	OutputText = "text"
	OutputJSON = "json"
	OutputGCP  = "gcp"
)

// Config is the logger configuration.
type Config struct {
	// Output is the record format: `text` (default), `json` or `gcp` (Cloud Logging JSON).
	Output string `mapstructure:"output"`

	// Debug lowers the level to debug, adds the source location and attaches the verbose
	// error and its stack trace to every record carrying an error.
	Debug bool `mapstructure:"debug"`
}

var (
	lvl    = new(slog.LevelVar)
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: replaceLevel,
	}))
)

func init() {
	lvl.Set(slog.LevelDebug)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

// Init replaces the process-wide logger. Records are written to stdout.
func Init(cfg Config) error {
	return initWriter(os.Stdout, cfg)
}

func initWriter(w io.Writer, cfg Config) error {
	level := slog.LevelInfo
	var middlewares []middleware
	if cfg.Debug {
		level = slog.LevelDebug
		middlewares = append(middlewares, errorDetails)
	}
	options := &slog.HandlerOptions{
		AddSource:   cfg.Debug,
		Level:       lvl,
		ReplaceAttr: replacers(replaceLevel, replaceError, replaceDuration),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Output) {
	case "", OutputText:
		handler = slog.NewTextHandler(w, options)
	case OutputJSON:
		handler = slog.NewJSONHandler(w, options)
	case OutputGCP:
		handler = newGCPHandler(w, options)
	default:
		return errors.Errorf("unsupported logger output %q", cfg.Output)
	}

	lvl.Set(level)
	logger = slog.New(chain(handler, middlewares...))
	slog.SetDefault(logger)
	return nil
}

// SetLevel sets the minimum reporting level and returns the previous one.
func SetLevel(level slog.Level) (old slog.Level) {
	old = lvl.Level()
	lvl.Set(level)
	return old
}

// With returns the process-wide logger with args attached.
func With(args ...any) *slog.Logger {
	return logger.With(args...)
}

// Error logs at error level on the process-wide logger.
func Error(msg string, args ...any) {
	emit(context.Background(), logger, slog.LevelError, msg, args...)
}

// Panic logs at [LevelPanic] on the process-wide logger and then panics with msg.
func Panic(msg string, args ...any) {
	emit(context.Background(), logger, LevelPanic, msg, args...)
	panic(msg)
}

// emit builds the record with the pc of the exported caller. It must be called directly by
// an exported function of this package.
func emit(ctx context.Context, l *slog.Logger, level slog.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.Handler().Handle(ctx, r)
}
