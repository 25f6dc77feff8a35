package proc

import (
	"errors"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// SystemStats are host-wide figures shown next to the process table.
type SystemStats struct {
	Load1, Load5, Load15 float64
	Uptime               time.Duration
	MemTotalKB           uint64
}

// ReadSystem collects load averages, uptime and total memory. Fields whose
// source failed are left zero and the failures are joined into err.
func ReadSystem() (SystemStats, error) {
	var (
		s    SystemStats
		errs []error
	)

	if avg, err := load.Avg(); err != nil {
		errs = append(errs, err)
	} else {
		s.Load1, s.Load5, s.Load15 = avg.Load1, avg.Load5, avg.Load15
	}

	if up, err := host.Uptime(); err != nil {
		errs = append(errs, err)
	} else {
		s.Uptime = time.Duration(up) * time.Second
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		errs = append(errs, err)
	} else {
		s.MemTotalKB = vm.Total / 1024
	}

	return s, errors.Join(errs...)
}
