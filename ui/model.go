package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Michael-D-Palmer/mini-top/config"
	"github.com/Michael-D-Palmer/mini-top/model"
	"github.com/Michael-D-Palmer/mini-top/proc"
)

const (
	nameWidth   = 24
	niceStep    = 5
	maxFilterLn = 50
)

// Model holds TUI state
type Model struct {
	table    table.Model
	source   *model.ProcessTable
	records  []model.ProcessRecord
	sorter   *model.Sorter
	interval time.Duration
	width    int
	height   int
	control  ProcessControl
	logger   *slog.Logger
	system   func() (proc.SystemStats, error)
	stats    proc.SystemStats

	// Filtering
	filterInput textinput.Model
	filterText  string
	mode        uiMode

	// Status messages
	statusText  string
	statusError bool

	// Kill/Nice confirmation
	selectedPID int
	niceDelta   int

	cfg                  *config.Config
	cfgPath              string
	webhookNames         []string
	selectedWebhookIndex int

	cpuInput          textinput.Model
	memInput          textinput.Model
	webhookNameInput  textinput.Model
	webhookURLInput   textinput.Model
	addingWebhookStep int
}

// NewModel builds a TUI over source. Edits made on the settings screen are
// saved to cfgPath.
func NewModel(source *model.ProcessTable, cfg *config.Config, cfgPath string, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	t := table.New(
		table.WithColumns(baseColumns()),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("cyan"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "filter by name or pid..."
	ti.CharLimit = maxFilterLn

	cpuInput := textinput.New()
	cpuInput.Placeholder = "CPU threshold %"
	cpuInput.CharLimit = 6
	cpuInput.SetValue(fmt.Sprintf("%.0f", cfg.CPUThreshold))

	memInput := textinput.New()
	memInput.Placeholder = "MEM threshold MB"
	memInput.CharLimit = 8
	memInput.SetValue(fmt.Sprintf("%.0f", cfg.MemThresholdMB))

	webhookName := textinput.New()
	webhookName.Placeholder = "webhook name"

	webhookURL := textinput.New()
	webhookURL.Placeholder = "webhook URL"

	m := Model{
		table:            t,
		source:           source,
		sorter:           model.NewSorter(),
		interval:         cfg.RefreshInterval.Std(),
		control:          procControl{},
		system:           proc.ReadSystem,
		logger:           logger.With("component", "ui"),
		filterInput:      ti,
		mode:             normalMode,
		cfg:              cfg,
		cfgPath:          cfgPath,
		webhookNames:     webhookNames(cfg),
		cpuInput:         cpuInput,
		memInput:         memInput,
		webhookNameInput: webhookName,
		webhookURLInput:  webhookURL,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tickCmd(m.interval)
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh pulls a fresh snapshot from the shared table along with the
// host figures for the header.
func (m *Model) refresh() {
	m.records = m.source.Snapshot()
	stats, err := m.system()
	if err != nil {
		m.logger.Debug("system stats incomplete", "err", err)
	}
	m.stats = stats
	m.updateTable()
}

// saveConfig persists the settings screen edits and reports the outcome.
func (m *Model) saveConfig() tea.Cmd {
	if err := config.Save(m.cfgPath, m.cfg); err != nil {
		m.logger.Error("save config failed", "path", m.cfgPath, "err", err)
		return m.showStatus(fmt.Sprintf(errorFmt, err), true)
	}
	m.logger.Info("config saved", "path", m.cfgPath)
	return m.showStatus("Settings saved", false)
}

func webhookNames(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Webhooks))
	for name := range cfg.Webhooks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Run drives the TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, source *model.ProcessTable, cfg *config.Config, cfgPath string, logger *slog.Logger) error {
	p := tea.NewProgram(
		NewModel(source, cfg, cfgPath, logger),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
