package model

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrAlreadyPopulated = errors.New("process table already populated")
	ErrCapacityExceeded = errors.New("process table capacity exceeded")
	ErrNotPopulated     = errors.New("process table not populated")
)

// ProcessTable is a fixed-capacity, index-stable sequence of process records
// shared between one writer (the CPU sampler) and any number of readers.
//
// The table is filled exactly once and never resized or compacted. Records of
// processes that exit mid-run stay in place with their last values.
type ProcessTable struct {
	mu        sync.RWMutex
	records   []ProcessRecord
	capacity  int
	populated bool
}

// NewProcessTable creates an empty table. A non-positive capacity falls back
// to DefaultCapacity.
func NewProcessTable(capacity int) *ProcessTable {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ProcessTable{
		records:  make([]ProcessRecord, 0, capacity),
		capacity: capacity,
	}
}

// Populate stores the initial records. It may be called only once.
func (t *ProcessTable) Populate(records []ProcessRecord) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.populated {
		return ErrAlreadyPopulated
	}
	if len(records) > t.capacity {
		return fmt.Errorf("%w: %d records for capacity %d", ErrCapacityExceeded, len(records), t.capacity)
	}

	for _, r := range records {
		r.CPUPercent = 0
		t.records = append(t.records, r)
	}
	t.populated = true
	return nil
}

// Populated reports whether Populate has succeeded.
func (t *ProcessTable) Populated() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.populated
}

// Len returns the number of stored records.
func (t *ProcessTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// Cap returns the fixed capacity.
func (t *ProcessTable) Cap() int {
	return t.capacity
}

// PIDs returns the pid of every record in table order.
func (t *ProcessTable) PIDs() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	pids := make([]int, len(t.records))
	for i := range t.records {
		pids[i] = t.records[i].PID
	}
	return pids
}

// Snapshot returns a point-in-time copy of all records in table order.
func (t *ProcessTable) Snapshot() []ProcessRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]ProcessRecord, len(t.records))
	copy(out, t.records)
	return out
}

// PublishCPU overwrites CPUPercent of every record in one write pass.
// values[i] belongs to the record at index i.
func (t *ProcessTable) PublishCPU(values []float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.populated {
		return ErrNotPopulated
	}
	if len(values) != len(t.records) {
		return fmt.Errorf("publish cpu: got %d values for %d records", len(values), len(t.records))
	}
	for i, v := range values {
		t.records[i].CPUPercent = v
	}
	return nil
}
