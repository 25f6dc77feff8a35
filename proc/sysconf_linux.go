//go:build linux

package proc

import (
	"fmt"

	"github.com/tklauser/go-sysconf"
)

// PageSize returns the OS memory page size in bytes.
func PageSize() (uint64, error) {
	return sysconfPositive(sysconf.SC_PAGESIZE, "page size")
}

// ClockTicks returns the CLK_TCK frequency used by /proc/<pid>/stat times.
func ClockTicks() (uint64, error) {
	return sysconfPositive(sysconf.SC_CLK_TCK, "clock ticks")
}

func sysconfPositive(name int, what string) (uint64, error) {
	v, err := sysconf.Sysconf(name)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", what, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("query %s: invalid value %d", what, v)
	}
	return uint64(v), nil
}
