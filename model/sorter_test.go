package model

import (
	"testing"

	"github.com/Michael-D-Palmer/mini-top/internal/assert"
)

func pidsOf(records []ProcessRecord) []int {
	pids := make([]int, len(records))
	for i, r := range records {
		pids[i] = r.PID
	}
	return pids
}

func TestSorter(t *testing.T) {
	base := []ProcessRecord{
		{PID: 3, Name: "zsh", MemoryKB: 10, CPUPercent: 1},
		{PID: 1, Name: "Alpha", MemoryKB: 30, CPUPercent: 50},
		{PID: 2, Name: "bravo", MemoryKB: 20, CPUPercent: 50},
	}

	tests := []struct {
		name       string
		column     SortColumn
		descending bool
		expected   []int
	}{
		{"cpu desc, ties by pid", SortByCPU, true, []int{1, 2, 3}},
		{"cpu asc", SortByCPU, false, []int{3, 1, 2}},
		{"mem desc", SortByMem, true, []int{1, 2, 3}},
		{"pid asc", SortByPID, false, []int{1, 2, 3}},
		{"name asc, case-insensitive", SortByName, false, []int{1, 2, 3}},
		{"name desc", SortByName, true, []int{3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := append([]ProcessRecord(nil), base...)
			s := &Sorter{Column: tt.column, Descending: tt.descending}
			s.Sort(records)
			assert.Equal(t, pidsOf(records), tt.expected)
		})
	}
}

func TestSorter_Toggle(t *testing.T) {
	s := NewSorter()
	assert.Equal(t, s.ColumnName(), "CPU")
	assert.Equal(t, s.Descending, true)

	s.Toggle(SortByCPU)
	assert.Equal(t, s.Descending, false)

	s.Toggle(SortByName)
	assert.Equal(t, s.ColumnName(), "NAME")
	assert.Equal(t, s.Descending, true)
}
