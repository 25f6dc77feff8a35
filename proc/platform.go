// Package proc reads process information from the operating system.
//
// Two platform variants exist behind the Platform interface: a procfs
// reader for Linux and a gopsutil-backed reader for macOS and the BSDs.
// The variant is chosen once at startup by New.
package proc

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Michael-D-Palmer/mini-top/model"
)

var (
	// ErrEnumerationUnavailable means the process listing mechanism itself
	// could not be opened or queried.
	ErrEnumerationUnavailable = errors.New("process enumeration unavailable")
	// ErrNotFound means a per-process detail source is missing, usually
	// because the process exited.
	ErrNotFound = errors.New("process not found")
)

const (
	BackendAuto     = "auto"
	BackendProcfs   = "procfs"
	BackendGopsutil = "gopsutil"
)

// Enumerator lists live process ids.
type Enumerator interface {
	// Enumerate returns at most max pids in ascending order. Processes
	// beyond max are silently left out.
	Enumerate(max int) ([]int, error)
}

// InfoReader materializes one record from a pid.
type InfoReader interface {
	// Read returns the name and resident memory of pid with CPUPercent
	// left at zero. Errors wrap ErrNotFound.
	Read(pid int) (model.ProcessRecord, error)
}

// CPUClock reports cumulative user+system CPU time.
type CPUClock interface {
	// CPUTime returns the CPU time consumed by pid since it started,
	// in microseconds.
	CPUTime(pid int) (uint64, error)
}

// Platform bundles the OS primitives the monitor needs.
type Platform interface {
	Enumerator
	InfoReader
	CPUClock
	Name() string
}

// New returns the platform for backend. "auto" or "" picks procfs on Linux
// and gopsutil elsewhere.
func New(backend string) (Platform, error) {
	switch backend {
	case "", BackendAuto:
		return New(defaultBackend)
	case BackendProcfs:
		p, err := NewProcfs(DefaultMountPoint)
		if err != nil {
			return nil, err
		}
		return p, nil
	case BackendGopsutil:
		return NewGopsutil(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// TruncateName bounds name to max bytes without splitting a UTF-8 sequence.
func TruncateName(name string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(name) <= max {
		return name
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}

// cleanName keeps the first line of a raw name and bounds it.
func cleanName(raw string) string {
	if i := strings.IndexAny(raw, "\r\n"); i >= 0 {
		raw = raw[:i]
	}
	return TruncateName(raw, model.MaxNameLen)
}

// firstN sorts pids and keeps at most max of them.
func firstN(pids []int, max int) []int {
	if max <= 0 {
		return []int{}
	}
	sort.Ints(pids)
	if len(pids) > max {
		pids = pids[:max]
	}
	return pids
}

func notFound(pid int, err error) error {
	return fmt.Errorf("%w: pid %d: %w", ErrNotFound, pid, err)
}
