package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Michael-D-Palmer/mini-top/model"
	"github.com/Michael-D-Palmer/mini-top/proc"
)

// DefaultSampleInterval is the wall-clock period between CPU readings.
const DefaultSampleInterval = time.Second

// cpuSnapshot is the last cumulative CPU time seen for one record.
// valid is false until a successful reading has been observed. A startup
// reading of 0 is a valid baseline for a process that has not run yet.
type cpuSnapshot struct {
	pid        int
	lastMicros uint64
	valid      bool
}

// Sampler periodically converts cumulative CPU time into a usage percentage
// for every record of a populated table. It is the table's only writer.
type Sampler struct {
	table     *model.ProcessTable
	clock     proc.CPUClock
	interval  time.Duration
	logger    *slog.Logger
	snapshots []cpuSnapshot
	usage     []float64
}

// NewSampler records the CPU-time baseline of every tracked process.
// Usage stays at zero until the first full interval has elapsed.
func NewSampler(table *model.ProcessTable, clock proc.CPUClock, interval time.Duration, logger *slog.Logger) (*Sampler, error) {
	if table == nil || !table.Populated() {
		return nil, fmt.Errorf("new sampler: %w", model.ErrNotPopulated)
	}
	if clock == nil {
		return nil, errors.New("new sampler: nil cpu clock")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("new sampler: invalid interval %v", interval)
	}
	if logger == nil {
		logger = slog.Default()
	}

	pids := table.PIDs()
	s := &Sampler{
		table:     table,
		clock:     clock,
		interval:  interval,
		logger:    logger,
		snapshots: make([]cpuSnapshot, len(pids)),
		usage:     make([]float64, len(pids)),
	}
	for i, pid := range pids {
		s.snapshots[i].pid = pid
		if micros, err := clock.CPUTime(pid); err == nil {
			s.snapshots[i].lastMicros = micros
			s.snapshots[i].valid = true
		}
	}
	return s, nil
}

// Interval returns the sampling period.
func (s *Sampler) Interval() time.Duration {
	return s.interval
}

// Run samples once per interval until ctx is cancelled. It returns nil on
// cancellation; the wait is interruptible so shutdown never takes longer
// than one interval.
func (s *Sampler) Run(ctx context.Context) error {
	s.logger.Debug("cpu sampler started", "interval", s.interval, "tracked", len(s.snapshots))
	defer s.logger.Debug("cpu sampler stopped")

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		if err := s.sample(); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		timer.Reset(s.interval)
	}
}

// sample reads every tracked process once and publishes the results in a
// single table write.
func (s *Sampler) sample() error {
	for i := range s.snapshots {
		snap := &s.snapshots[i]

		micros, err := s.clock.CPUTime(snap.pid)
		switch {
		case err != nil || micros == 0:
			// gone or unreadable: no data this cycle, baseline kept
			s.usage[i] = 0
		case !snap.valid:
			snap.lastMicros, snap.valid = micros, true
			s.usage[i] = 0
		default:
			s.usage[i] = Usage(snap.lastMicros, micros, s.interval)
			snap.lastMicros = micros
		}
	}
	return s.table.PublishCPU(s.usage)
}

// Usage converts two cumulative CPU-time readings taken interval apart into
// a percentage. A counter that went backwards counts as zero. The result is
// not capped at 100: several busy threads can exceed one core-second per
// wall-clock second.
func Usage(lastMicros, curMicros uint64, interval time.Duration) float64 {
	if curMicros <= lastMicros || interval <= 0 {
		return 0
	}
	delta := float64(curMicros - lastMicros)
	return 100 * delta / (interval.Seconds() * 1_000_000)
}
