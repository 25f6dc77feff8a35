package proc

import (
	"os"
	"strings"
	"testing"

	"github.com/Michael-D-Palmer/mini-top/internal/assert"
	"github.com/Michael-D-Palmer/mini-top/model"
)

func TestTruncateName(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		max      int
		expected string
	}{
		{"short", "bash", 255, "bash"},
		{"exact", "abcd", 4, "abcd"},
		{"cut ascii", "abcdef", 4, "abcd"},
		{"keeps rune boundary", "abécd", 3, "ab"},
		{"zero bound", "bash", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, TruncateName(tt.in, tt.max), tt.expected)
		})
	}
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, cleanName("kworker/0:1\n"), "kworker/0:1")
	assert.Equal(t, cleanName("a\r\nb"), "a")
	assert.Equal(t, len(cleanName(strings.Repeat("n", 1000))), model.MaxNameLen)
}

func TestFirstN(t *testing.T) {
	assert.Equal(t, firstN([]int{5, 3, 9, 1, 7}, 3), []int{1, 3, 5})
	assert.Equal(t, firstN([]int{2, 1}, 10), []int{1, 2})
	assert.Equal(t, firstN([]int{2, 1}, -1), []int{})
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New("kvm")
	assert.ErrorContains(t, err, `unknown backend "kvm"`)
}

func TestGopsutil_Self(t *testing.T) {
	p, err := New(BackendGopsutil)
	assert.NoError(t, err)
	assert.Equal(t, p.Name(), BackendGopsutil)

	pids, err := p.Enumerate(1)
	assert.NoError(t, err)
	assert.Equal(t, len(pids), 1)

	self := os.Getpid()
	rec, err := p.Read(self)
	assert.NoError(t, err)
	assert.Equal(t, rec.PID, self)
	assert.Equal(t, rec.CPUPercent, 0.0)
	if rec.Name == "" {
		t.Error("expected a process name")
	}
	if rec.MemoryKB == 0 {
		t.Error("expected resident memory for the test process")
	}

	_, err = p.CPUTime(self)
	assert.NoError(t, err)
}

func TestGopsutil_Missing(t *testing.T) {
	p := NewGopsutil()

	_, err := p.Read(-4)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = p.CPUTime(0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadSystem(t *testing.T) {
	s, err := ReadSystem()
	assert.NoError(t, err)
	if s.Uptime <= 0 {
		t.Errorf("uptime %v, want positive", s.Uptime)
	}
	if s.MemTotalKB == 0 {
		t.Error("expected total memory")
	}
	if s.Load1 < 0 || s.Load5 < 0 || s.Load15 < 0 {
		t.Errorf("negative load average %+v", s)
	}
}
