package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Michael-D-Palmer/mini-top/model"
	"github.com/Michael-D-Palmer/mini-top/proc"
)

// Foreground is the consumer side of a run: it reads the table on its own
// cadence and ends the run by returning.
type Foreground func(ctx context.Context, table *model.ProcessTable) error

// Engine owns one monitoring run: population, the CPU sampler and the
// foreground consumer.
type Engine struct {
	platform proc.Platform
	capacity int
	interval time.Duration
	logger   *slog.Logger
	table    atomic.Pointer[model.ProcessTable]
}

func NewEngine(platform proc.Platform, capacity int, interval time.Duration, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Engine{
		platform: platform,
		capacity: capacity,
		interval: interval,
		logger:   logger.With("component", "engine"),
	}
}

// Table returns the populated table, or nil before Run has populated it.
func (e *Engine) Table() *model.ProcessTable {
	return e.table.Load()
}

// Run populates the table, starts the sampler and runs fg. When fg returns
// the shared context is cancelled and Run waits for the sampler to exit.
// Population and sampler creation errors are returned before anything runs.
func (e *Engine) Run(ctx context.Context, fg Foreground) error {
	if fg == nil {
		return errors.New("engine: nil foreground")
	}

	table, err := NewCollector(e.platform, e.platform, e.logger).Populate(e.capacity)
	if err != nil {
		return err
	}
	e.table.Store(table)

	sampler, err := NewSampler(table, e.platform, e.interval, e.logger.With("component", "sampler"))
	if err != nil {
		return err
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sampler.Run(gctx)
	})
	g.Go(func() error {
		defer stop()
		return fg(gctx, table)
	})

	err = g.Wait()
	e.logger.Info("run finished", "err", err)
	return err
}
