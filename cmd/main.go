package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/Michael-D-Palmer/mini-top/alert"
	"github.com/Michael-D-Palmer/mini-top/config"
	"github.com/Michael-D-Palmer/mini-top/daemon"
	"github.com/Michael-D-Palmer/mini-top/model"
	"github.com/Michael-D-Palmer/mini-top/monitor"
	"github.com/Michael-D-Palmer/mini-top/proc"
	"github.com/Michael-D-Palmer/mini-top/telemetry"
	"github.com/Michael-D-Palmer/mini-top/ui"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cmd := "tui"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "tui":
		err = runTUI(args)
	case "daemon":
		err = runDaemon(args)
	case "list":
		err = runList(args)
	case "help", "-h", "--help":
		usage(os.Stdout)
		return
	default:
		fmt.Fprintln(os.Stderr, "unknown command:", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "minitop:", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `minitop commands:
  minitop tui       start the TUI monitor (default)
  minitop daemon    start the background alert daemon
  minitop list      print one sampled table and exit
  minitop help      show this help

flags: -config PATH  -interval DURATION  -capacity N  -backend auto|procfs|gopsutil
`)
}

// options are the flags shared by every subcommand. Flags override the
// config file.
type options struct {
	configPath string
	interval   time.Duration
	capacity   int
	backend    string
}

func parseOptions(name string, args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", config.DefaultPath(), "config file path")
	fs.DurationVar(&o.interval, "interval", 0, "CPU sampling interval (overrides config)")
	fs.IntVar(&o.capacity, "capacity", 0, "maximum number of processes tracked (overrides config)")
	fs.StringVar(&o.backend, "backend", "", "process backend: auto, procfs or gopsutil (overrides config)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("%s: unexpected arguments %v", name, fs.Args())
	}
	return o, nil
}

// setup is the part every subcommand shares: flags, config, logger and
// the engine over the selected backend.
type setup struct {
	opts    options
	cfg     *config.Config
	logger  *slog.Logger
	closeFn func()
	engine  *monitor.Engine
}

func newSetup(name string, args []string, logToFile bool) (*setup, error) {
	opts, err := parseOptions(name, args)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.interval > 0 {
		cfg.SampleInterval = config.Duration(opts.interval)
	}
	if opts.capacity > 0 {
		cfg.Capacity = opts.capacity
	}
	if opts.backend != "" {
		cfg.Backend = opts.backend
	}

	logger, closeFn, err := newLogger(cfg, logToFile)
	if err != nil {
		return nil, err
	}

	platform, err := proc.New(cfg.Backend)
	if err != nil {
		closeFn()
		return nil, err
	}
	logger.Info("starting", "command", name, "backend", platform.Name(),
		"interval", cfg.SampleInterval.Std(), "capacity", cfg.Capacity)

	return &setup{
		opts:    opts,
		cfg:     cfg,
		logger:  logger,
		closeFn: closeFn,
		engine:  monitor.NewEngine(platform, cfg.Capacity, cfg.SampleInterval.Std(), logger),
	}, nil
}

// newLogger writes to the configured log file when toFile is set, so the
// TUI owns the terminal. Otherwise it writes to stderr.
func newLogger(cfg *config.Config, toFile bool) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, nil, fmt.Errorf("log_level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	if !toFile {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), func() {}, nil
	}

	path := cfg.LogFile
	if path == "" {
		path = filepath.Join(config.Dir(), "minitop.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), func() { f.Close() }, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runTUI(args []string) error {
	s, err := newSetup("tui", args, true)
	if err != nil {
		return err
	}
	defer s.closeFn()

	ctx, cancel := signalContext()
	defer cancel()

	return s.engine.Run(ctx, func(ctx context.Context, table *model.ProcessTable) error {
		return ui.Run(ctx, table, s.cfg, s.opts.configPath, s.logger)
	})
}

func runDaemon(args []string) error {
	s, err := newSetup("daemon", args, false)
	if err != nil {
		return err
	}
	defer s.closeFn()

	ctx, cancel := signalContext()
	defer cancel()

	var recorder daemon.Recorder
	if s.cfg.OTLPEndpoint != "" {
		shutdown, err := telemetry.SetupOTelSDK(ctx, s.cfg.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer scancel()
			if err := shutdown(sctx); err != nil {
				s.logger.Warn("telemetry shutdown", "err", err)
			}
		}()

		rec, err := telemetry.NewRecorder(otel.Meter("github.com/Michael-D-Palmer/mini-top"))
		if err != nil {
			return err
		}
		recorder = rec
		s.logger.Info("exporting metrics", "endpoint", s.cfg.OTLPEndpoint)
	}

	d := daemon.New(s.opts.configPath, s.cfg, alert.NewDiscord(nil), recorder, s.logger)
	return s.engine.Run(ctx, d.Run)
}

func runList(args []string) error {
	s, err := newSetup("list", args, false)
	if err != nil {
		return err
	}
	defer s.closeFn()

	ctx, cancel := signalContext()
	defer cancel()

	// one full interval plus slack so the first sample has been published
	wait := s.cfg.SampleInterval.Std() + s.cfg.SampleInterval.Std()/2

	return s.engine.Run(ctx, func(ctx context.Context, table *model.ProcessTable) error {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
		records := table.Snapshot()
		model.NewSorter().Sort(records)
		return ui.Render(os.Stdout, records)
	})
}
