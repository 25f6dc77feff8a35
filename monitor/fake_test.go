package monitor

import (
	"fmt"
	"sync"

	"github.com/Michael-D-Palmer/mini-top/model"
	"github.com/Michael-D-Palmer/mini-top/proc"
)

// fakePlatform serves scripted process data. cpu[pid] is consumed one
// reading per call; the last reading repeats. Missing pids fail with
// proc.ErrNotFound.
type fakePlatform struct {
	mu        sync.Mutex
	pids      []int
	records   map[int]model.ProcessRecord
	cpu       map[int][]uint64
	enumErr   error
	readCalls int
}

func newFakePlatform(n int) *fakePlatform {
	f := &fakePlatform{
		records: make(map[int]model.ProcessRecord),
		cpu:     make(map[int][]uint64),
	}
	for i := 1; i <= n; i++ {
		pid := i * 100
		f.pids = append(f.pids, pid)
		f.records[pid] = model.ProcessRecord{PID: pid, Name: fmt.Sprintf("proc-%d", pid), MemoryKB: uint64(i) * 1024}
	}
	return f
}

func (f *fakePlatform) Name() string { return "fake" }

func (f *fakePlatform) Enumerate(max int) ([]int, error) {
	if f.enumErr != nil {
		return nil, fmt.Errorf("%w: %w", proc.ErrEnumerationUnavailable, f.enumErr)
	}
	pids := append([]int(nil), f.pids...)
	if len(pids) > max {
		pids = pids[:max]
	}
	return pids, nil
}

func (f *fakePlatform) Read(pid int) (model.ProcessRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCalls++
	rec, ok := f.records[pid]
	if !ok {
		return model.ProcessRecord{}, fmt.Errorf("%w: pid %d", proc.ErrNotFound, pid)
	}
	return rec, nil
}

func (f *fakePlatform) CPUTime(pid int) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	readings, ok := f.cpu[pid]
	if !ok || len(readings) == 0 {
		return 0, fmt.Errorf("%w: pid %d", proc.ErrNotFound, pid)
	}
	v := readings[0]
	if len(readings) > 1 {
		f.cpu[pid] = readings[1:]
	}
	return v, nil
}

func (f *fakePlatform) setCPU(pid int, readings ...uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cpu[pid] = readings
}

func (f *fakePlatform) kill(pid int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cpu, pid)
	delete(f.records, pid)
}
