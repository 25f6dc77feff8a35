package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/Michael-D-Palmer/mini-top/internal/assert"
	"github.com/Michael-D-Palmer/mini-top/model"
)

func populated(t *testing.T, f *fakePlatform) *model.ProcessTable {
	t.Helper()
	table, err := NewCollector(f, f, nil).Populate(16)
	assert.NoError(t, err)
	return table
}

func TestUsage(t *testing.T) {
	tests := []struct {
		name     string
		last     uint64
		cur      uint64
		interval time.Duration
		expected float64
	}{
		{"unchanged is zero", 1_000_000, 1_000_000, time.Second, 0},
		{"five percent", 1_000_000, 1_050_000, time.Second, 5},
		{"half interval doubles", 0, 250_000, 500 * time.Millisecond, 50},
		{"multi-core over 100", 2_000_000, 5_000_000, time.Second, 300},
		{"counter reset clamps to zero", 9_000_000, 10, time.Second, 0},
		{"non-positive interval", 0, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Usage(tt.last, tt.cur, tt.interval), 1e-9)
		})
	}
}

func TestNewSampler_Validation(t *testing.T) {
	f := newFakePlatform(2)

	_, err := NewSampler(model.NewProcessTable(4), f, time.Second, nil)
	assert.ErrorIs(t, err, model.ErrNotPopulated)

	table := populated(t, f)
	_, err = NewSampler(table, f, 0, nil)
	assert.ErrorContains(t, err, "invalid interval")

	_, err = NewSampler(table, nil, time.Second, nil)
	assert.ErrorContains(t, err, "nil cpu clock")
}

func TestSampler_BaselineThenDelta(t *testing.T) {
	f := newFakePlatform(2)
	f.setCPU(100, 1_000_000, 1_050_000, 1_050_000)
	f.setCPU(200, 0)
	table := populated(t, f)

	s, err := NewSampler(table, f, time.Second, nil)
	assert.NoError(t, err)
	for _, r := range table.Snapshot() {
		assert.Equal(t, r.CPUPercent, 0.0)
	}

	assert.NoError(t, s.sample())
	snap := table.Snapshot()
	assert.InDelta(t, 5.0, snap[0].CPUPercent, 1e-9)
	assert.Equal(t, snap[1].CPUPercent, 0.0)

	assert.NoError(t, s.sample())
	assert.Equal(t, table.Snapshot()[0].CPUPercent, 0.0)
}

func TestSampler_ProcessExitsBetweenTicks(t *testing.T) {
	f := newFakePlatform(3)
	f.setCPU(100, 1_000_000, 1_200_000)
	f.setCPU(200, 500_000, 600_000, 700_000)
	f.setCPU(300, 10, 20)
	table := populated(t, f)
	before := table.Snapshot()

	s, err := NewSampler(table, f, time.Second, nil)
	assert.NoError(t, err)

	assert.NoError(t, s.sample())
	assert.InDelta(t, 20.0, table.Snapshot()[0].CPUPercent, 1e-9)

	f.kill(100)
	assert.NoError(t, s.sample())

	after := table.Snapshot()
	assert.Equal(t, len(after), 3)
	assert.Equal(t, after[0].CPUPercent, 0.0)
	assert.Equal(t, after[0].PID, before[0].PID)
	assert.Equal(t, after[0].Name, before[0].Name)
	assert.Equal(t, after[0].MemoryKB, before[0].MemoryKB)
	assert.InDelta(t, 10.0, after[1].CPUPercent, 1e-9)
}

func TestSampler_NoWraparoundAfterFailedRead(t *testing.T) {
	f := newFakePlatform(1)
	f.setCPU(100, 5_000_000)
	table := populated(t, f)

	s, err := NewSampler(table, f, time.Second, nil)
	assert.NoError(t, err)

	// reads of zero mean "no data", never a huge unsigned delta
	f.setCPU(100, 0, 5_100_000)
	assert.NoError(t, s.sample())
	assert.Equal(t, table.Snapshot()[0].CPUPercent, 0.0)

	assert.NoError(t, s.sample())
	assert.InDelta(t, 10.0, table.Snapshot()[0].CPUPercent, 1e-9)
}

func TestSampler_ZeroBaselineCountsFirstInterval(t *testing.T) {
	f := newFakePlatform(1)
	f.setCPU(100, 0, 300_000)
	table := populated(t, f)

	s, err := NewSampler(table, f, time.Second, nil)
	assert.NoError(t, err)

	assert.NoError(t, s.sample())
	assert.InDelta(t, 30.0, table.Snapshot()[0].CPUPercent, 1e-9)
}

func TestSampler_MissingBaselineStartsAtZero(t *testing.T) {
	f := newFakePlatform(1)
	table := populated(t, f)

	s, err := NewSampler(table, f, time.Second, nil)
	assert.NoError(t, err)

	f.setCPU(100, 9_000_000, 9_500_000)
	assert.NoError(t, s.sample())
	assert.Equal(t, table.Snapshot()[0].CPUPercent, 0.0)

	assert.NoError(t, s.sample())
	assert.InDelta(t, 50.0, table.Snapshot()[0].CPUPercent, 1e-9)
}

func TestSampler_RunPublishesAndStops(t *testing.T) {
	f := newFakePlatform(1)
	readings := make([]uint64, 5000)
	for i := range readings {
		readings[i] = uint64(i) * 1_000
	}
	f.setCPU(100, readings...)
	table := populated(t, f)

	interval := 20 * time.Millisecond
	s, err := NewSampler(table, f, interval, nil)
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for table.Snapshot()[0].CPUPercent == 0 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for a published sample")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	// 1000us over 20ms
	assert.InDelta(t, 5.0, table.Snapshot()[0].CPUPercent, 1e-9)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(interval * 5):
		t.Fatal("sampler did not stop within the interval")
	}
}

func TestSampler_RunStopsDuringLongInterval(t *testing.T) {
	f := newFakePlatform(1)
	table := populated(t, f)

	s, err := NewSampler(table, f, time.Hour, nil)
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sampler ignored cancellation while waiting")
	}
}
