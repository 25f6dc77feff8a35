//go:build !linux

package proc

import (
	"errors"
	"fmt"

	"github.com/Michael-D-Palmer/mini-top/model"
)

const (
	defaultBackend    = BackendGopsutil
	DefaultMountPoint = "/proc"
)

// ProcfsPlatform is only available on Linux.
type ProcfsPlatform struct{}

func NewProcfs(mountPoint string) (*ProcfsPlatform, error) {
	return nil, fmt.Errorf("%w: procfs backend requires linux", ErrEnumerationUnavailable)
}

func (p *ProcfsPlatform) Name() string { return BackendProcfs }

func (p *ProcfsPlatform) Enumerate(int) ([]int, error) {
	return nil, ErrEnumerationUnavailable
}

func (p *ProcfsPlatform) Read(pid int) (model.ProcessRecord, error) {
	return model.ProcessRecord{}, notFound(pid, errors.ErrUnsupported)
}

func (p *ProcfsPlatform) CPUTime(pid int) (uint64, error) {
	return 0, notFound(pid, errors.ErrUnsupported)
}
