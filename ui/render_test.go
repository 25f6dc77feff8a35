package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Michael-D-Palmer/mini-top/internal/assert"
	"github.com/Michael-D-Palmer/mini-top/model"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, []model.ProcessRecord{
		{PID: 1, Name: "systemd", MemoryKB: 12_288, CPUPercent: 0},
		{PID: 4242, Name: "a-rather-long-process-name-that-overflows", MemoryKB: 512, CPUPercent: 187.3},
	})
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, len(lines), 3)
	assert.Equal(t, strings.Fields(lines[0]), []string{"PID", "Name", "Memory", "CPU"})
	assert.Equal(t, strings.Fields(lines[1]), []string{"1", "systemd", "12.0M", "0.0%"})
	assert.Equal(t, strings.Fields(lines[2]), []string{"4242", "a-rather-long-process...", "512K", "187.3%"})
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Render(&buf, nil))
	assert.Equal(t, strings.Count(buf.String(), "\n"), 1)
}

func TestFormatKB(t *testing.T) {
	tests := []struct {
		kb       uint64
		expected string
	}{
		{0, "0K"},
		{1023, "1023K"},
		{1024, "1.0M"},
		{1536, "1.5M"},
		{3 * 1024 * 1024, "3.0G"},
	}
	for _, tt := range tests {
		assert.Equal(t, FormatKB(tt.kb), tt.expected)
	}
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, FormatUptime(0), "00:00:00")
	assert.Equal(t, FormatUptime(3*time.Hour+25*time.Minute+7*time.Second), "03:25:07")
	assert.Equal(t, FormatUptime(50*time.Hour), "2d 02:00:00")
}

func TestEllipsize(t *testing.T) {
	assert.Equal(t, ellipsize("short", 10), "short")
	assert.Equal(t, ellipsize("exactly-10", 10), "exactly-10")
	assert.Equal(t, ellipsize("eleven-char", 10), "eleven-...")
	assert.Equal(t, ellipsize("ünïcödé", 5), "ün...")
	assert.Equal(t, ellipsize("abc", 2), "ab")
	assert.Equal(t, ellipsize("abc", 0), "")
}
