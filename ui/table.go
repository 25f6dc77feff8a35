package ui

import (
	"fmt"
	"io"

	"github.com/Michael-D-Palmer/mini-top/model"
)

// Render writes records as a plain text table, one line per record, in the
// order given.
func Render(w io.Writer, records []model.ProcessRecord) error {
	if _, err := fmt.Fprintf(w, "%7s  %-*s  %10s  %7s\n", "PID", nameWidth, "Name", "Memory", "CPU"); err != nil {
		return err
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%7d  %-*s  %10s  %6.1f%%\n",
			r.PID,
			nameWidth, ellipsize(r.Name, nameWidth),
			FormatKB(r.MemoryKB),
			r.CPUPercent,
		); err != nil {
			return err
		}
	}
	return nil
}
