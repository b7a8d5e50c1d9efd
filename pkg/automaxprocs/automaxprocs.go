// Package automaxprocs sizes GOMAXPROCS to the CPU quota of the container the service runs in.
package automaxprocs

import (
	"context"
	"fmt"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
	"go.uber.org/automaxprocs/maxprocs"
)

// Init sets GOMAXPROCS from the Linux CFS quota, or honors the GOMAXPROCS environment
// variable when it is set. It is a no-op without a quota. The returned func restores the
// previous value.
func Init(ctx context.Context) (undo func(), err error) {
	ctx = logger.WithContext(ctx,
		slogx.String("package", "automaxprocs"),
		slogx.Event("set_gomaxprocs"),
		slogx.Int("prev_maxprocs", runtime.GOMAXPROCS(0)),
	)
	printf := func(format string, v ...any) {
		logger.DebugContext(ctx, fmt.Sprintf(format, v...))
	}
	undo, err = maxprocs.Set(maxprocs.Logger(printf), maxprocs.Min(1))
	if err != nil {
		return func() {}, errors.WithStack(err)
	}
	logger.InfoContext(ctx, "GOMAXPROCS set", slogx.Int("maxprocs", runtime.GOMAXPROCS(0)))
	return undo, nil
}
