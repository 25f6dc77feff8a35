package monitor

import (
	"fmt"
	"log/slog"

	"github.com/Michael-D-Palmer/mini-top/model"
	"github.com/Michael-D-Palmer/mini-top/proc"
)

// Collector builds the process table once at startup.
type Collector struct {
	enum   proc.Enumerator
	reader proc.InfoReader
	logger *slog.Logger
}

func NewCollector(enum proc.Enumerator, reader proc.InfoReader, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{enum: enum, reader: reader, logger: logger}
}

// Populate enumerates at most capacity processes and reads each into a new
// table. Processes that vanish between enumeration and read are skipped.
// Only a failure of the enumeration itself is returned.
func (c *Collector) Populate(capacity int) (*model.ProcessTable, error) {
	table := model.NewProcessTable(capacity)

	pids, err := c.enum.Enumerate(table.Cap())
	if err != nil {
		return nil, fmt.Errorf("enumerate processes: %w", err)
	}

	records := make([]model.ProcessRecord, 0, len(pids))
	skipped := 0
	for _, pid := range pids {
		rec, err := c.reader.Read(pid)
		if err != nil {
			skipped++
			c.logger.Debug("skipping process", "pid", pid, "err", err)
			continue
		}
		records = append(records, rec)
	}

	if err := table.Populate(records); err != nil {
		return nil, err
	}
	c.logger.Info("process table populated",
		"records", len(records), "skipped", skipped, "capacity", table.Cap())
	return table, nil
}
