package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Michael-D-Palmer/mini-top/internal/assert"
	"github.com/Michael-D-Palmer/mini-top/model"
	"github.com/Michael-D-Palmer/mini-top/proc"
)

func TestEngine_ForegroundEndsRun(t *testing.T) {
	f := newFakePlatform(2)
	readings := make([]uint64, 5000)
	for i := range readings {
		readings[i] = uint64(i) * 10_000
	}
	f.setCPU(100, readings...)
	f.setCPU(200, 1, 1)

	e := NewEngine(f, 8, 10*time.Millisecond, nil)
	var seen []model.ProcessRecord
	err := e.Run(context.Background(), func(ctx context.Context, table *model.ProcessTable) error {
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return errors.New("no cpu usage observed")
			case <-ticker.C:
				seen = table.Snapshot()
				if seen[0].CPUPercent > 0 {
					return nil
				}
			}
		}
	})
	assert.NoError(t, err)
	assert.InDelta(t, 100.0, seen[0].CPUPercent, 1e-9)
	assert.Equal(t, seen[1].CPUPercent, 0.0)
	assert.Equal(t, e.Table().PIDs(), []int{100, 200})
}

func TestEngine_ForegroundErrorPropagates(t *testing.T) {
	f := newFakePlatform(1)
	boom := errors.New("renderer failed")

	err := NewEngine(f, 8, time.Hour, nil).Run(context.Background(),
		func(context.Context, *model.ProcessTable) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestEngine_ParentCancellation(t *testing.T) {
	f := newFakePlatform(1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- NewEngine(f, 8, time.Hour, nil).Run(ctx, func(ctx context.Context, _ *model.ProcessTable) error {
			<-ctx.Done()
			return nil
		})
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("engine did not stop after cancellation")
	}
}

func TestEngine_EnumerationFailureIsFatal(t *testing.T) {
	f := newFakePlatform(1)
	f.enumErr = errors.New("denied")

	called := false
	err := NewEngine(f, 8, time.Second, nil).Run(context.Background(),
		func(context.Context, *model.ProcessTable) error { called = true; return nil })
	assert.ErrorIs(t, err, proc.ErrEnumerationUnavailable)
	assert.Equal(t, called, false)
}

func TestEngine_NilForeground(t *testing.T) {
	err := NewEngine(newFakePlatform(1), 8, time.Second, nil).Run(context.Background(), nil)
	assert.ErrorContains(t, err, "nil foreground")
}
