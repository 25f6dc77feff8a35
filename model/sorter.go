package model

import (
	"sort"
	"strings"
)

type SortColumn int

const (
	SortByCPU SortColumn = iota
	SortByMem
	SortByPID
	SortByName
)

var columnNames = []string{"CPU", "MEM", "PID", "NAME"}

type Sorter struct {
	Column     SortColumn
	Descending bool
}

func NewSorter() *Sorter {
	return &Sorter{
		Column:     SortByCPU,
		Descending: true, // highest CPU first
	}
}

// Toggle flips the direction when col is already active, otherwise switches
// to col in descending order.
func (s *Sorter) Toggle(col SortColumn) {
	if s.Column == col {
		s.Descending = !s.Descending
		return
	}
	s.Column = col
	s.Descending = true
}

// Sort orders records in place. Ties are broken by ascending PID so the
// display order is stable between frames.
func (s *Sorter) Sort(records []ProcessRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := &records[i], &records[j]

		var less, equal bool
		switch s.Column {
		case SortByMem:
			less, equal = a.MemoryKB < b.MemoryKB, a.MemoryKB == b.MemoryKB
		case SortByPID:
			less, equal = a.PID < b.PID, a.PID == b.PID
		case SortByName:
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			less, equal = an < bn, an == bn
		default:
			less, equal = a.CPUPercent < b.CPUPercent, a.CPUPercent == b.CPUPercent
		}

		if equal {
			return a.PID < b.PID
		}
		if s.Descending {
			return !less
		}
		return less
	})
}

func (s *Sorter) ColumnName() string {
	if int(s.Column) < 0 || int(s.Column) >= len(columnNames) {
		return columnNames[0]
	}
	return columnNames[s.Column]
}
