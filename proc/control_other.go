//go:build !unix

package proc

import (
	"errors"
	"fmt"
)

const (
	MinNice = -20
	MaxNice = 19
)

func Terminate(pid int) error {
	return fmt.Errorf("terminate PID %d: %w", pid, errors.ErrUnsupported)
}

func ForceKill(pid int) error {
	return fmt.Errorf("kill PID %d: %w", pid, errors.ErrUnsupported)
}

func Priority(pid int) (int, error) {
	return 0, fmt.Errorf("get priority of PID %d: %w", pid, errors.ErrUnsupported)
}

func Renice(pid, delta int) (int, error) {
	return 0, fmt.Errorf("renice PID %d: %w", pid, errors.ErrUnsupported)
}
