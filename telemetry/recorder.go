package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Michael-D-Palmer/mini-top/model"
)

const (
	MetricCPU    = "process.cpu.usage"
	MetricMemory = "process.memory.usage"
)

// Recorder publishes one table snapshot as per-process gauges.
type Recorder struct {
	cpu    metric.Float64Gauge
	memory metric.Float64Gauge
}

func NewRecorder(meter metric.Meter) (*Recorder, error) {
	cpu, err := meter.Float64Gauge(MetricCPU,
		metric.WithDescription("CPU usage over the last sampling interval"),
		metric.WithUnit("%"))
	if err != nil {
		return nil, fmt.Errorf("create %s gauge: %w", MetricCPU, err)
	}
	memory, err := meter.Float64Gauge(MetricMemory,
		metric.WithDescription("Resident memory captured at startup"),
		metric.WithUnit("KiBy"))
	if err != nil {
		return nil, fmt.Errorf("create %s gauge: %w", MetricMemory, err)
	}
	return &Recorder{cpu: cpu, memory: memory}, nil
}

func (r *Recorder) Record(ctx context.Context, records []model.ProcessRecord) {
	for _, rec := range records {
		attrs := metric.WithAttributes(
			attribute.Int("pid", rec.PID),
			attribute.String("name", rec.Name))
		r.cpu.Record(ctx, rec.CPUPercent, attrs)
		r.memory.Record(ctx, float64(rec.MemoryKB), attrs)
	}
}
