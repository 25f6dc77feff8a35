package main

import (
	"bytes"
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/Michael-D-Palmer/mini-top/internal/assert"
)

func TestUsage_Aligned(t *testing.T) {
	var buf bytes.Buffer
	usage(&buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, lines[0], "minitop commands:")

	var descCol int
	for _, line := range lines[1:5] {
		if !strings.HasPrefix(line, "  minitop ") {
			t.Fatalf("command line %q is not indented by two spaces", line)
		}
		fields := strings.Fields(line)
		col := strings.Index(line, fields[2])
		if descCol == 0 {
			descCol = col
		}
		assert.Equal(t, col, descCol)
	}
	if !strings.HasPrefix(lines[len(lines)-1], "flags:") {
		t.Errorf("last line %q should list the flags", lines[len(lines)-1])
	}
}

func TestParseOptions(t *testing.T) {
	o, err := parseOptions("list", []string{"-interval", "250ms", "-capacity", "64", "-backend", "gopsutil"})
	assert.NoError(t, err)
	assert.Equal(t, o.interval, 250*time.Millisecond)
	assert.Equal(t, o.capacity, 64)
	assert.Equal(t, o.backend, "gopsutil")

	_, err = parseOptions("list", []string{"extra"})
	assert.ErrorContains(t, err, "unexpected arguments")

	_, err = parseOptions("list", []string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
}
