package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProcessor struct {
	rounds   atomic.Int32
	shutdown atomic.Bool
	fail     func(round int32) error
}

func (p *countingProcessor) Name() string { return "counting" }

func (p *countingProcessor) Process(context.Context) error {
	round := p.rounds.Add(1)
	if p.fail != nil {
		return p.fail(round)
	}
	return nil
}

func (p *countingProcessor) Shutdown(context.Context) error {
	p.shutdown.Store(true)
	return nil
}

func TestWorkerRunsUntilShutdown(t *testing.T) {
	p := &countingProcessor{
		fail: func(round int32) error {
			if round == 2 {
				return errors.New("transient")
			}
			return nil
		},
	}
	w := New(p, 5*time.Millisecond)

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(context.Background()) }()

	require.Eventually(t, func() bool { return p.rounds.Load() >= 3 }, time.Second, time.Millisecond)
	require.NoError(t, w.ShutdownWithTimeout(time.Second))
	require.NoError(t, <-errCh)
	assert.True(t, p.shutdown.Load())

	// shutting down twice is a no-op
	assert.NoError(t, w.Shutdown())
}

func TestWorkerStopsOnUnrecoverableError(t *testing.T) {
	p := &countingProcessor{
		fail: func(int32) error {
			return errors.Wrap(errs.Unrecoverable, "broken")
		},
	}
	w := New(p, time.Millisecond)

	err := w.Run(context.Background())
	assert.ErrorIs(t, err, errs.Unrecoverable)
	assert.Equal(t, int32(1), p.rounds.Load())
}

func TestWorkerStopsWithContext(t *testing.T) {
	p := &countingProcessor{}
	w := New(p, 0)
	assert.Equal(t, DefaultPollingInterval, w.interval)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, w.Run(ctx))
	assert.False(t, p.shutdown.Load())
}

func TestWorkerShutdownWithoutRun(t *testing.T) {
	p := &countingProcessor{}
	w := New(p, time.Second)

	require.NoError(t, w.ShutdownWithTimeout(time.Second))
	assert.True(t, p.shutdown.Load())
	assert.Zero(t, p.rounds.Load())
}
