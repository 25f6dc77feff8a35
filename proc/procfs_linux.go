//go:build linux

package proc

import (
	"fmt"

	"github.com/prometheus/procfs"

	"github.com/Michael-D-Palmer/mini-top/model"
)

const (
	defaultBackend    = BackendProcfs
	DefaultMountPoint = procfs.DefaultMountPoint
)

// ProcfsPlatform reads processes from a proc filesystem mount.
type ProcfsPlatform struct {
	fs       procfs.FS
	pageSize uint64
	clkTck   uint64
}

// NewProcfs opens the proc mount and queries page size and clock ticks.
// Failing either query is fatal: memory and CPU conversion depend on them.
func NewProcfs(mountPoint string) (*ProcfsPlatform, error) {
	pageSize, err := PageSize()
	if err != nil {
		return nil, err
	}
	clkTck, err := ClockTicks()
	if err != nil {
		return nil, err
	}
	return newProcfs(mountPoint, pageSize, clkTck)
}

func newProcfs(mountPoint string, pageSize, clkTck uint64) (*ProcfsPlatform, error) {
	if pageSize == 0 || clkTck == 0 {
		return nil, fmt.Errorf("invalid page size %d or clock ticks %d", pageSize, clkTck)
	}
	fs, err := procfs.NewFS(mountPoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnumerationUnavailable, err)
	}
	return &ProcfsPlatform{fs: fs, pageSize: pageSize, clkTck: clkTck}, nil
}

func (p *ProcfsPlatform) Name() string { return BackendProcfs }

func (p *ProcfsPlatform) Enumerate(max int) ([]int, error) {
	procs, err := p.fs.AllProcs()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnumerationUnavailable, err)
	}
	pids := make([]int, 0, len(procs))
	for _, pr := range procs {
		pids = append(pids, pr.PID)
	}
	return firstN(pids, max), nil
}

func (p *ProcfsPlatform) Read(pid int) (model.ProcessRecord, error) {
	pr, err := p.fs.Proc(pid)
	if err != nil {
		return model.ProcessRecord{}, notFound(pid, err)
	}
	comm, err := pr.Comm()
	if err != nil {
		return model.ProcessRecord{}, notFound(pid, err)
	}
	stat, err := pr.Stat()
	if err != nil {
		return model.ProcessRecord{}, notFound(pid, err)
	}

	var memKB uint64
	if stat.RSS > 0 {
		memKB = uint64(stat.RSS) * p.pageSize / 1024
	}
	return model.ProcessRecord{
		PID:      pid,
		Name:     cleanName(comm),
		MemoryKB: memKB,
	}, nil
}

// CPUTime scales utime+stime (clock ticks) to microseconds.
func (p *ProcfsPlatform) CPUTime(pid int) (uint64, error) {
	pr, err := p.fs.Proc(pid)
	if err != nil {
		return 0, notFound(pid, err)
	}
	stat, err := pr.Stat()
	if err != nil {
		return 0, notFound(pid, err)
	}
	ticks := uint64(stat.UTime) + uint64(stat.STime)
	return ticks * 1_000_000 / p.clkTck, nil
}
