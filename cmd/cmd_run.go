package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/core/constants"
	"github.com/gaze-network/sale-engine/core/worker"
	"github.com/gaze-network/sale-engine/internal/config"
	"github.com/gaze-network/sale-engine/modules/sale"
	"github.com/gaze-network/sale-engine/modules/sale/api/httphandler"
	saleconfig "github.com/gaze-network/sale-engine/modules/sale/config"
	"github.com/gaze-network/sale-engine/pkg/automaxprocs"
	"github.com/gaze-network/sale-engine/pkg/errorhandler"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
	"github.com/gaze-network/sale-engine/pkg/middleware/requestcontext"
	"github.com/gaze-network/sale-engine/pkg/middleware/requestlogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// Modules are the engine modules `run` can start, by name.
var Modules = do.Package(
	do.LazyNamed(saleconfig.ModuleName, sale.New),
)

// forceExitGrace is how long a graceful shutdown may take before the process exits anyway.
const forceExitGrace = 75 * time.Second

func NewRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the sale API and the sale scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			undo, err := automaxprocs.Init(cmd.Context())
			if err != nil {
				logger.ErrorContext(cmd.Context(), "Failed to set GOMAXPROCS", err)
			}
			defer undo()
			return runHandler(cmd.Context(), config.Load())
		},
	}

	flags := runCmd.Flags()
	flags.Bool("api-only", false, "Serve the API without running the sale scheduler")
	flags.String("modules", "", "Modules to enable, comma separated. E.g. `sale`")

	config.BindPFlag("api_only", flags.Lookup("api-only"))
	config.BindPFlag("enable_modules", flags.Lookup("modules"))

	return runCmd
}

func runHandler(parent context.Context, conf config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, slogx.String("version", constants.Version))

	injector := do.New(Modules)
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)
	do.Provide(injector, func(do.Injector) (*fiber.App, error) {
		return newHTTPServer(conf), nil
	})

	workers, err := invokeModules(injector, enabledModules(conf.EnableModules))
	if err != nil {
		return errors.WithStack(err)
	}

	if !conf.APIOnly {
		for module, w := range workers {
			go func() {
				defer stop()
				ctx := logger.WithContext(ctx, slogx.String("module", module))
				logger.InfoContext(ctx, "Starting module worker")
				if err := w.Run(ctx); err != nil {
					logger.ErrorContext(ctx, "Module worker stopped with error", err)
				}
			}()
		}
	}

	app := do.MustInvoke[*fiber.App](injector)
	go func() {
		defer stop()
		logger.InfoContext(ctx, "Starting HTTP server", slogx.Int("port", conf.HTTPServer.Port))
		if err := app.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)); err != nil {
			logger.ErrorContext(ctx, "HTTP server stopped with error", err)
		}
	}()

	logger.InfoContext(ctx, "Sale engine started", slogx.Int("modules", len(workers)), slogx.Any("api_only", conf.APIOnly))
	<-ctx.Done()
	logger.InfoContext(ctx, "Shutting down sale engine")

	go forceExit()

	// Stops module workers with their storage and the HTTP server.
	if err := injector.Shutdown(); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	return nil
}

// forceExit exits the process on a second signal or when the grace period runs out.
func forceExit() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case <-ctx.Done():
		logger.FatalContext(ctx, "Received exit signal again, forcing shutdown")
	case <-time.After(forceExitGrace):
		logger.FatalContext(ctx, "Shutdown took too long, forcing shutdown")
	}
}

func enabledModules(names []string) []string {
	names = lo.Map(names, func(name string, _ int) string { return strings.ToLower(strings.TrimSpace(name)) })
	return lo.Uniq(lo.Compact(names))
}

func invokeModules(injector do.Injector, names []string) (map[string]*worker.Worker, error) {
	workers := make(map[string]*worker.Worker, len(names))
	for _, name := range names {
		w, err := do.InvokeNamed[*worker.Worker](injector, name)
		if err != nil {
			if errors.Is(err, do.ErrServiceNotFound) {
				return nil, errors.Errorf("module %q is not supported", name)
			}
			return nil, errors.Wrapf(err, "can't init module %q", name)
		}
		workers[name] = w
	}
	return workers, nil
}

func newHTTPServer(conf config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Sale Engine",
		ErrorHandler: errorhandler.NewHTTPErrorHandler(),
	})
	app.Use(favicon.New())
	app.Use(cors.New())
	app.Use(requestid.New())
	app.Use(requestcontext.New(
		requestcontext.WithRequestId(),
		requestcontext.WithClientIP(conf.HTTPServer.RequestIP),
		requestcontext.WithCaller(httphandler.CallerHeader),
	))
	app.Use(requestlogger.New(conf.HTTPServer.Logger))
	app.Use(fiberrecover.New(fiberrecover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			logger.ErrorContext(c.UserContext(), "Panic in http handler", errors.Newf("panic: %v", e),
				slogx.String("stacktrace", string(buf)),
			)
		},
	}))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))

	app.Get("/", func(c *fiber.Ctx) error {
		return errors.WithStack(c.SendStatus(http.StatusOK))
	})
	return app
}
