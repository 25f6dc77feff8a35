package model

// DefaultCapacity is the table size used when none is configured.
const DefaultCapacity = 1024

// MaxNameLen bounds ProcessRecord.Name in bytes.
const MaxNameLen = 255

// ProcessRecord is one row of the monitored table.
//
// PID and Name are fixed once the record is stored in a ProcessTable.
// MemoryKB is captured at creation and not refreshed; CPUPercent is the
// only field the sampler rewrites and may exceed 100 on multi-core hosts.
type ProcessRecord struct {
	PID        int
	Name       string
	MemoryKB   uint64
	CPUPercent float64
}
