// Package worker runs a processor on a fixed polling interval until it is shut down.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
)

const (
	// DefaultPollingInterval is used when the worker is created with a zero interval.
	DefaultPollingInterval = 15 * time.Second

	shutdownTimeout = 180 * time.Second
)

// Processor is the unit of work a worker runs every round.
type Processor interface {
	Name() string

	// Process runs one round. A returned error is logged and the worker waits for the
	// next round, unless it is marked with errs.Unrecoverable.
	Process(ctx context.Context) error

	// Shutdown is called once when the worker stops.
	Shutdown(ctx context.Context) error
}

// Worker polls a processor.
type Worker struct {
	Processor Processor
	interval  time.Duration

	started  atomic.Bool
	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

func New(processor Processor, interval time.Duration) *Worker {
	return &Worker{
		Processor: processor,
		interval:  utils.Default(interval, DefaultPollingInterval),

		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (w *Worker) Shutdown() error {
	return w.ShutdownWithContext(context.Background())
}

func (w *Worker) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return w.ShutdownWithContext(ctx)
}

func (w *Worker) ShutdownWithContext(ctx context.Context) (err error) {
	w.quitOnce.Do(func() {
		close(w.quit)
		if !w.started.Load() {
			// never ran, nothing to wait for
			err = errors.WithStack(w.Processor.Shutdown(ctx))
			return
		}
		select {
		case <-w.done:
		case <-time.After(shutdownTimeout):
			err = errors.Wrap(errs.Timeout, "worker shutdown timeout")
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "worker shutdown context canceled")
		}
	})
	return
}

// Run processes one round right away and then one round per interval, until ctx is done
// or the worker is shut down.
func (w *Worker) Run(ctx context.Context) error {
	w.started.Store(true)
	defer close(w.done)

	ctx = logger.WithContext(ctx,
		slog.String("package", "worker"),
		slog.String("processor", w.Processor.Name()),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		if err := w.process(ctx); err != nil {
			return errors.WithStack(err)
		}
		select {
		case <-w.quit:
			logger.InfoContext(ctx, "Got quit signal, stopping worker")
			if err := w.Processor.Shutdown(ctx); err != nil {
				logger.ErrorContext(ctx, "Failed to shutdown processor", err)
				return errors.Wrap(err, "processor shutdown failed")
			}
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			logger.DebugContext(ctx, "Polling interval reached")
		}
	}
}

func (w *Worker) process(ctx context.Context) error {
	start := time.Now()
	err := w.Processor.Process(ctx)
	switch {
	case err == nil:
		logger.DebugContext(ctx, "Processed round", slogx.Duration("duration", time.Since(start)))
		return nil
	case errors.Is(err, errs.Unrecoverable):
		logger.ErrorContext(ctx, "Worker failed while processing", err)
		return errors.Wrap(err, "process failed")
	case ctx.Err() != nil:
		return nil
	}
	logger.WarnContext(ctx, "Round failed, retrying on next interval", slogx.Error(err))
	return nil
}
