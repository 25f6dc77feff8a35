package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	ext "github.com/reugn/go-streams/extension"
	"github.com/reugn/go-streams/flow"
	"golang.org/x/sync/errgroup"

	"github.com/Michael-D-Palmer/mini-top/config"
	"github.com/Michael-D-Palmer/mini-top/model"
)

// Notifier delivers one alert message.
type Notifier interface {
	Send(ctx context.Context, webhookURL, msg string) error
}

// Recorder receives every table snapshot the daemon reads.
type Recorder interface {
	Record(ctx context.Context, records []model.ProcessRecord)
}

const (
	KindCPU    = "cpu"
	KindMemory = "memory"
)

// Breach is one record over one configured threshold.
type Breach struct {
	PID       int
	Name      string
	Kind      string
	Value     float64
	Threshold float64
}

func (b Breach) Message() string {
	if b.Kind == KindMemory {
		return fmt.Sprintf("⚠ High Memory: PID %d (%s) at %.1f MB (threshold %.0f MB)",
			b.PID, b.Name, b.Value, b.Threshold)
	}
	return fmt.Sprintf("⚠ High CPU: PID %d (%s) at %.1f%% (threshold %.0f%%)",
		b.PID, b.Name, b.Value, b.Threshold)
}

type alertKey struct {
	pid  int
	kind string
}

// Daemon is a headless foreground: it reads the table every interval,
// alerts on threshold breaches and reloads its config file on change.
type Daemon struct {
	cfgPath    string
	cfg        atomic.Pointer[config.Config]
	notifier   Notifier
	recorder   Recorder
	logger     *slog.Logger
	interval   time.Duration
	lastAlerts map[alertKey]time.Time
	now        func() time.Time
}

// New builds a daemon. cfgPath may be empty to disable reloading; recorder
// may be nil.
func New(cfgPath string, cfg *config.Config, notifier Notifier, recorder Recorder, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Daemon{
		cfgPath:    cfgPath,
		notifier:   notifier,
		recorder:   recorder,
		logger:     logger.With("component", "daemon"),
		interval:   cfg.RefreshInterval.Std(),
		lastAlerts: make(map[alertKey]time.Time),
		now:        time.Now,
	}
	d.cfg.Store(cfg)
	return d
}

// Config returns the config currently in effect.
func (d *Daemon) Config() *config.Config {
	return d.cfg.Load()
}

// Run satisfies monitor.Foreground. It returns when ctx is cancelled, after
// its watcher and alert pipeline have stopped.
func (d *Daemon) Run(ctx context.Context, table *model.ProcessTable) error {
	if d.interval <= 0 {
		return fmt.Errorf("daemon: invalid check interval %v", d.interval)
	}

	snapshots := make(chan any)
	alerts := ext.NewChanSource(snapshots).
		Via(flow.NewFlatMap(d.expand, 1)).
		Via(flow.NewFilter(d.allow, 1))

	g, gctx := errgroup.WithContext(ctx)

	// closing snapshots is what drains and stops the pipeline
	g.Go(func() error {
		defer close(snapshots)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
			}
			snap := table.Snapshot()
			if d.recorder != nil {
				d.recorder.Record(gctx, snap)
			}
			select {
			case snapshots <- snap:
			case <-gctx.Done():
				return nil
			}
		}
	})

	// the consumer reads until every stage has closed its output
	g.Go(func() error {
		for item := range alerts.Out() {
			if gctx.Err() != nil {
				continue
			}
			d.notify(gctx, item.(Breach))
		}
		return nil
	})

	if d.cfgPath != "" {
		g.Go(func() error {
			return d.watchConfig(gctx)
		})
	}

	d.logger.Info("daemon started", "interval", d.interval, "records", table.Len())
	return g.Wait()
}

// expand is the pipeline form of breaches: one snapshot in, zero or more
// Breach values out.
func (d *Daemon) expand(item any) []any {
	found := d.breaches(item.([]model.ProcessRecord))
	out := make([]any, len(found))
	for i, b := range found {
		out[i] = b
	}
	return out
}

// breaches lists every threshold the snapshot exceeds.
func (d *Daemon) breaches(records []model.ProcessRecord) []Breach {
	cfg := d.cfg.Load()
	var out []Breach
	for _, r := range records {
		if r.CPUPercent >= cfg.CPUThreshold {
			out = append(out, Breach{
				PID: r.PID, Name: r.Name, Kind: KindCPU,
				Value: r.CPUPercent, Threshold: cfg.CPUThreshold,
			})
		}
		if memMB := float64(r.MemoryKB) / 1024; memMB >= cfg.MemThresholdMB {
			out = append(out, Breach{
				PID: r.PID, Name: r.Name, Kind: KindMemory,
				Value: memMB, Threshold: cfg.MemThresholdMB,
			})
		}
	}
	return out
}

// allow rate-limits alerts per pid and kind. It runs on the single filter
// goroutine of the pipeline.
func (d *Daemon) allow(b Breach) bool {
	now := d.now()
	key := alertKey{pid: b.PID, kind: b.Kind}
	if last, ok := d.lastAlerts[key]; ok && now.Sub(last) < d.cfg.Load().AlertCooldown.Std() {
		return false
	}
	d.lastAlerts[key] = now
	return true
}

func (d *Daemon) notify(ctx context.Context, b Breach) {
	msg := b.Message()
	d.logger.Info("threshold exceeded", "pid", b.PID, "name", b.Name, "kind", b.Kind, "value", b.Value)
	if err := d.notifier.Send(ctx, d.cfg.Load().WebhookURL(), msg); err != nil && !errors.Is(err, context.Canceled) {
		d.logger.Warn("alert delivery failed", "pid", b.PID, "err", err)
	}
}

// watchConfig reloads the config file whenever it is written or replaced.
// The parent directory is watched so editors that swap files are seen too.
func (d *Daemon) watchConfig(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		d.logger.Warn("config reload disabled", "err", err)
		return nil
	}
	defer w.Close()

	target := filepath.Clean(d.cfgPath)
	if err := w.Add(filepath.Dir(target)); err != nil {
		d.logger.Warn("config reload disabled", "path", target, "err", err)
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			d.logger.Warn("config watcher error", "err", err)
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != target || !e.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			d.reload()
		}
	}
}

func (d *Daemon) reload() {
	cfg, err := config.Load(d.cfgPath)
	if err != nil {
		d.logger.Warn("config reload failed, keeping previous", "err", err)
		return
	}
	d.cfg.Store(cfg)
	d.logger.Info("config reloaded",
		"cpu_threshold", cfg.CPUThreshold, "mem_threshold_mb", cfg.MemThresholdMB)
}
