package proc

import (
	"fmt"
	"math"

	"github.com/mitchellh/go-ps"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/Michael-D-Palmer/mini-top/model"
)

// GopsutilPlatform lists processes with go-ps and reads details through
// gopsutil (libproc task info on macOS). Resident memory comes back in bytes
// already scaled by the kernel's real page size.
type GopsutilPlatform struct{}

func NewGopsutil() *GopsutilPlatform {
	return &GopsutilPlatform{}
}

func (g *GopsutilPlatform) Name() string { return BackendGopsutil }

func (g *GopsutilPlatform) Enumerate(max int) ([]int, error) {
	procs, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnumerationUnavailable, err)
	}
	pids := make([]int, 0, len(procs))
	for _, p := range procs {
		if p.Pid() < 0 {
			continue
		}
		pids = append(pids, p.Pid())
	}
	return firstN(pids, max), nil
}

func (g *GopsutilPlatform) Read(pid int) (model.ProcessRecord, error) {
	p, err := g.open(pid)
	if err != nil {
		return model.ProcessRecord{}, err
	}
	name, err := p.Name()
	if err != nil {
		return model.ProcessRecord{}, notFound(pid, err)
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return model.ProcessRecord{}, notFound(pid, err)
	}
	return model.ProcessRecord{
		PID:      pid,
		Name:     cleanName(name),
		MemoryKB: mem.RSS / 1024,
	}, nil
}

func (g *GopsutilPlatform) CPUTime(pid int) (uint64, error) {
	p, err := g.open(pid)
	if err != nil {
		return 0, err
	}
	times, err := p.Times()
	if err != nil {
		return 0, notFound(pid, err)
	}
	micros := (times.User + times.System) * 1e6
	if micros <= 0 || math.IsNaN(micros) {
		return 0, nil
	}
	return uint64(math.Round(micros)), nil
}

func (g *GopsutilPlatform) open(pid int) (*process.Process, error) {
	if pid <= 0 || pid > math.MaxInt32 {
		return nil, notFound(pid, fmt.Errorf("invalid PID: %d", pid))
	}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, notFound(pid, err)
	}
	return p, nil
}
