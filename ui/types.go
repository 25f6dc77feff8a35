package ui

import (
	"time"

	"github.com/Michael-D-Palmer/mini-top/proc"
)

// Messages

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

// UI Modes

type uiMode int

const (
	normalMode uiMode = iota
	filterMode
	confirmKillMode
	confirmNiceMode
	helpMode
	settingsMode
	editThresholdCPU
	editThresholdMEM
	addWebhookMode
	confirmDeleteWebhook
)

// ProcessControl is what the TUI may do to the selected process.
type ProcessControl interface {
	Terminate(pid int) error
	ForceKill(pid int) error
	Renice(pid, delta int) (int, error)
}

type procControl struct{}

func (procControl) Terminate(pid int) error { return proc.Terminate(pid) }
func (procControl) ForceKill(pid int) error { return proc.ForceKill(pid) }
func (procControl) Renice(pid, delta int) (int, error) { return proc.Renice(pid, delta) }
