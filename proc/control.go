//go:build unix

package proc

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

const (
	MinNice = -20
	MaxNice = 19
)

// Signal sends sig to pid.
func Signal(pid int, sig unix.Signal) error {
	if pid <= 0 {
		return fmt.Errorf("invalid PID: %d", pid)
	}
	if err := unix.Kill(pid, sig); err != nil {
		return fmt.Errorf("send %s to PID %d: %w", unix.SignalName(sig), pid, err)
	}
	return nil
}

// Terminate asks pid to exit with SIGTERM.
func Terminate(pid int) error {
	return Signal(pid, unix.SIGTERM)
}

// ForceKill sends SIGKILL.
func ForceKill(pid int) error {
	return Signal(pid, unix.SIGKILL)
}

// Priority returns the nice value of pid.
func Priority(pid int) (int, error) {
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID: %d", pid)
	}
	// Linux getpriority(2) returns 20-nice; x/sys/unix passes the raw value.
	prio, err := unix.Getpriority(unix.PRIO_PROCESS, pid)
	if err != nil {
		return 0, fmt.Errorf("get priority of PID %d: %w", pid, err)
	}
	return rawToNice(prio), nil
}

// Renice shifts the nice value of pid by delta, clamped to [MinNice, MaxNice],
// and returns the value that was applied.
func Renice(pid, delta int) (int, error) {
	current, err := Priority(pid)
	if err != nil {
		return 0, err
	}
	next := min(max(current+delta, MinNice), MaxNice)
	if err := unix.Setpriority(unix.PRIO_PROCESS, pid, next); err != nil {
		return 0, fmt.Errorf("set priority of PID %d to %d: %w", pid, next, err)
	}
	return next, nil
}

func rawToNice(prio int) int {
	if runtime.GOOS == "linux" {
		return 20 - prio
	}
	return prio
}
