package sale

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/core/worker"
	"github.com/gaze-network/sale-engine/internal/config"
	"github.com/gaze-network/sale-engine/internal/postgres"
	saleapi "github.com/gaze-network/sale-engine/modules/sale/api"
	saleconfig "github.com/gaze-network/sale-engine/modules/sale/config"
	saledatagateway "github.com/gaze-network/sale-engine/modules/sale/datagateway"
	"github.com/gaze-network/sale-engine/modules/sale/engine"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	salememory "github.com/gaze-network/sale-engine/modules/sale/repository/memory"
	salepostgres "github.com/gaze-network/sale-engine/modules/sale/repository/postgres"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
	"github.com/gaze-network/sale-engine/pkg/webhook"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

func New(injector do.Injector) (_ *worker.Worker, err error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector).Modules.Sale

	saleDg, cleanupFuncs, err := NewDataGateway(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer func() {
		if err != nil {
			for _, cleanup := range cleanupFuncs {
				_ = cleanup(ctx)
			}
		}
	}()

	deriver, err := custody.NewDeriver(conf.Custody.AuthoritySecret)
	if err != nil {
		return nil, errors.Wrap(err, "invalid custody configuration")
	}
	saleEngine := engine.New(saleDg, deriver)

	if conf.Webhook.Enabled {
		webhookClient, err := webhook.New(conf.Webhook)
		if err != nil {
			return nil, errors.Wrap(err, "invalid webhook configuration")
		}
		saleEngine.SetNotifier(webhookNotifier{queue: webhookClient})
		// registered first so queued events are flushed before the database closes
		cleanupFuncs = append([]func(context.Context) error{webhookClient.Close}, cleanupFuncs...)
		logger.InfoContext(ctx, "Enabled sale event webhook", slogx.String("url", conf.Webhook.URL))
	}

	if err := bootstrapConfig(ctx, saleEngine, conf.Engine); err != nil {
		return nil, errors.WithStack(err)
	}

	// Mount API
	apiHandlers := lo.Uniq(conf.APIHandlers)
	for _, handler := range apiHandlers {
		switch handler {
		case "http":
			httpServer := do.MustInvoke[*fiber.App](injector)
			saleHTTPHandler := saleapi.NewHTTPHandler(saleEngine, conf.API.AssetDecimals)
			if err := saleHTTPHandler.Mount(httpServer); err != nil {
				return nil, errors.Wrap(err, "can't mount Sale API")
			}
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}

	var schedulerEngine SchedulerEngine
	if conf.Scheduler.Disabled {
		logger.InfoContext(ctx, "Sale scheduler is disabled")
	} else {
		schedulerEngine = saleEngine
	}
	scheduler := NewScheduler(schedulerEngine, conf.Scheduler.BatchSize, conf.Scheduler.Concurrency, cleanupFuncs)
	return worker.New(scheduler, conf.Scheduler.Interval), nil
}

// NewDataGateway opens the storage selected by the module config and returns the funcs
// that release it.
func NewDataGateway(ctx context.Context, conf saleconfig.Config) (saledatagateway.SaleDataGateway, []func(context.Context) error, error) {
	switch strings.ToLower(conf.Database) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, conf.Postgres)
		if err != nil {
			return nil, nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanup := func(context.Context) error {
			pg.Close()
			return nil
		}
		return salepostgres.NewRepository(pg), []func(context.Context) error{cleanup}, nil
	case "memory":
		logger.WarnContext(ctx, "Sale data is kept in memory and lost on restart")
		return salememory.NewRepository(), nil, nil
	default:
		return nil, nil, errors.Wrapf(errs.Unsupported, "%q database for sale is not supported", conf.Database)
	}
}

// bootstrapConfig writes the engine config on first start when an owner is configured.
func bootstrapConfig(ctx context.Context, e *engine.Engine, conf saleconfig.Engine) error {
	if conf.Owner == "" {
		return nil
	}
	if _, err := e.GetConfig(ctx); err == nil || !errors.Is(err, entity.ErrConfigNotFound) {
		return errors.WithStack(err)
	}
	if _, err := e.InitConfig(ctx, conf.Owner, conf.Admin, conf.Params()); err != nil {
		return errors.Wrap(err, "can't initialize sale config")
	}
	logger.InfoContext(ctx, "Initialized sale config", slogx.String("owner", conf.Owner))
	return nil
}
