package sale

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/modules/sale/engine"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchSize   = 100
	defaultConcurrency = 8
)

// SchedulerEngine is the part of the engine the scheduler drives.
type SchedulerEngine interface {
	GetConfig(ctx context.Context) (*entity.Config, error)
	GetDueSales(ctx context.Context, limit int32) ([]entity.Sale, error)
	Activate(ctx context.Context, caller string, saleID uint64) (*entity.Sale, error)
	Finalize(ctx context.Context, params engine.FinalizeParams) (*engine.FinalizeResult, error)
}

// Scheduler activates initialized sales once their start time is reached and finalizes
// ended sales that need no winner list, acting as the config admin. Without an engine
// every round is a no-op.
type Scheduler struct {
	engine       SchedulerEngine
	batchSize    int32
	concurrency  int
	cleanupFuncs []func(context.Context) error
}

func NewScheduler(engine SchedulerEngine, batchSize int32, concurrency int, cleanupFuncs []func(context.Context) error) *Scheduler {
	return &Scheduler{
		engine:       engine,
		batchSize:    utils.Default(batchSize, defaultBatchSize),
		concurrency:  utils.Default(concurrency, defaultConcurrency),
		cleanupFuncs: cleanupFuncs,
	}
}

func (s *Scheduler) Name() string {
	return "sale_scheduler"
}

func (s *Scheduler) Process(ctx context.Context) error {
	if s.engine == nil {
		return nil
	}
	config, err := s.engine.GetConfig(ctx)
	if err != nil {
		if errors.Is(err, entity.ErrConfigNotFound) {
			logger.DebugContext(ctx, "Sale config is not initialized yet, skipping round")
			return nil
		}
		return errors.Wrap(err, "failed to get config")
	}
	operator := utils.Default(config.Admin, config.Owner)

	sales, err := s.engine.GetDueSales(ctx, s.batchSize)
	if err != nil {
		return errors.Wrap(err, "failed to get due sales")
	}
	if len(sales) == 0 {
		return nil
	}

	start := time.Now()
	var activated, finalized, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, sale := range sales {
		g.Go(func() error {
			ctx := logger.WithContext(gctx, slogx.SaleID(sale.ID))
			var err error
			switch sale.Status {
			case entity.StatusInitialized:
				_, err = s.engine.Activate(ctx, operator, sale.ID)
				if err == nil {
					activated.Add(1)
				}
			case entity.StatusActive:
				_, err = s.engine.Finalize(ctx, engine.FinalizeParams{Caller: operator, SaleID: sale.ID})
				if err == nil {
					finalized.Add(1)
				}
			default:
				return nil
			}
			if err != nil {
				if isRejection(err) {
					skipped.Add(1)
					logger.DebugContext(ctx, "Scheduler skipped sale", slogx.Error(err))
					return nil
				}
				return errors.Wrapf(err, "failed to advance sale %d", sale.ID)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.WithStack(err)
	}

	logger.InfoContext(ctx, "Processed due sales",
		slogx.Event("scheduler_round"),
		slogx.Int("due", len(sales)),
		slogx.Int64("activated", activated.Load()),
		slogx.Int64("finalized", finalized.Load()),
		slogx.Int64("skipped", skipped.Load()),
		slogx.Duration("duration", time.Since(start)),
	)
	return nil
}

func (s *Scheduler) Shutdown(ctx context.Context) error {
	var errList []error
	for _, cleanup := range s.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.WithStack(errors.Join(errList...))
}

// isRejection reports whether err is the engine refusing the operation, which the next
// round may see differently, rather than an infrastructure failure.
func isRejection(err error) bool {
	for _, kind := range []errs.ErrorKind{
		errs.StateError,
		errs.WindowError,
		errs.ValidationError,
		errs.AuthorizationError,
		errs.Paused,
		errs.NotFound,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
