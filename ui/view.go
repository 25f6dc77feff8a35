package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	switch m.mode {
	case helpMode:
		return m.renderHelp()
	case settingsMode, confirmDeleteWebhook:
		return m.renderSettings()
	case editThresholdCPU:
		return "Edit CPU Threshold (%):\n\n" + m.cpuInput.View() + "\n\n[enter=save, esc=cancel]"
	case editThresholdMEM:
		return "Edit MEM Threshold (MB):\n\n" + m.memInput.View() + "\n\n[enter=save, esc=cancel]"
	case addWebhookMode:
		return m.renderAddWebhook()
	}

	var b strings.Builder
	b.WriteString(m.renderTitle("mini-top"))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render(m.renderHeader()))
	b.WriteString("\n\n")
	b.WriteString(baseStyle.Render(m.table.View()))
	b.WriteString("\n")

	if m.mode == normalMode {
		b.WriteString(m.renderQuickHelp())
		b.WriteString("\n")
	}

	if m.statusText != "" {
		b.WriteString("\n")
		b.WriteString(m.renderStatus())
		b.WriteString("\n")
	}

	switch m.mode {
	case filterMode:
		b.WriteString("\n")
		b.WriteString(m.renderFilterBar())
	case confirmKillMode:
		b.WriteString("\n")
		b.WriteString(confirmStyle.Render(fmt.Sprintf("⚠️  Terminate process %d? (y/n)", m.selectedPID)))
	case confirmNiceMode:
		b.WriteString("\n")
		b.WriteString(m.renderConfirmNice())
	}

	return b.String()
}

func (m Model) renderTitle(text string) string {
	return bannerStyle.Width(m.width).Render(titleStyle.Render(text))
}

func (m Model) renderHeader() string {
	direction := "↓"
	if !m.sorter.Descending {
		direction = "↑"
	}

	header := fmt.Sprintf(
		"Processes: %d shown, %d tracked | Load: %.2f %.2f %.2f | Uptime: %s | Sort: %s %s",
		len(m.table.Rows()), len(m.records),
		m.stats.Load1, m.stats.Load5, m.stats.Load15,
		FormatUptime(m.stats.Uptime),
		sortedColumnStyle.Render(m.sorter.ColumnName()),
		sortedColumnStyle.Render(direction),
	)

	if m.filterText != "" {
		header += fmt.Sprintf(" | Filter: %s",
			lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Render(m.filterText))
	}
	return header
}

func (m Model) renderQuickHelp() string {
	quickHelp := fmt.Sprintf(
		"%s Sort | %s Filter | %s Kill | %s Nice | %s Settings | %s Help | %s Quit",
		keybindStyle.Render("[c/m/p/n]"),
		keybindStyle.Render("[/]"),
		keybindStyle.Render("[k/K]"),
		keybindStyle.Render("[+/-]"),
		keybindStyle.Render("[s]"),
		keybindStyle.Render("[?]"),
		keybindStyle.Render("[q]"),
	)
	return keybindDescStyle.Render(quickHelp)
}

func (m Model) renderStatus() string {
	style := successStyle
	if m.statusError {
		style = errorStyle
	}
	return style.Render(m.statusText)
}

func (m Model) renderFilterBar() string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Render("Filter: ") +
		m.filterInput.View() +
		keybindDescStyle.Render(" (Enter to apply, Esc to clear)")
}

func (m Model) renderConfirmNice() string {
	action := "Raise"
	if m.niceDelta > 0 {
		action = "Lower"
	}
	msg := fmt.Sprintf("⚙️  %s priority of PID %d (nice %+d)? (y/n)", action, m.selectedPID, m.niceDelta)
	return confirmStyle.Render(msg)
}

type keyHelp struct{ key, desc string }

var helpSections = []struct {
	title string
	keys  []keyHelp
}{
	{
		title: "📊 SORTING",
		keys: []keyHelp{
			{"c", "Sort by %CPU"},
			{"m", "Sort by memory"},
			{"p", "Sort by PID"},
			{"n", "Sort by name"},
			{"", "Press same key to toggle ascending/descending"},
		},
	},
	{
		title: "🔍 FILTERING",
		keys: []keyHelp{
			{"/", "Enter filter mode"},
			{"Enter", "Apply filter"},
			{"Esc", "Clear filter"},
			{"", "Matches the process name or a PID prefix"},
		},
	},
	{
		title: "⚙️  PROCESS MANAGEMENT",
		keys: []keyHelp{
			{"k", "Send SIGTERM (asks first)"},
			{"K", "Send SIGKILL"},
			{"+", "Raise priority (nice -5)"},
			{"-", "Lower priority (nice +5)"},
			{"", "Requires appropriate permissions"},
		},
	},
	{
		title: "🎮 NAVIGATION",
		keys: []keyHelp{
			{"↑/↓ or j", "Move selection"},
			{"PgUp/PgDn", "Page up/down"},
			{"Home/End", "Go to first/last"},
		},
	},
	{
		title: "📋 GENERAL",
		keys: []keyHelp{
			{"s", "Open settings (thresholds & webhooks)"},
			{"?/h", "Show/hide this help"},
			{"q/Q", "Quit"},
			{"Ctrl+C", "Quit from any screen"},
		},
	},
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(m.renderTitle("mini-top - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, section := range helpSections {
		b.WriteString(sectionStyle.Render(section.title))
		b.WriteString("\n")

		for _, binding := range section.keys {
			if binding.key == "" {
				b.WriteString(keybindDescStyle.Render("  ℹ " + binding.desc))
			} else {
				fmt.Fprintf(&b, "  %s  %s",
					keybindStyle.Render(lipgloss.NewStyle().Width(12).Render(binding.key)),
					keybindDescStyle.Render(binding.desc))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(keybindDescStyle.Render("Press any key to return..."))

	return helpBoxStyle.Render(b.String())
}

func (m Model) renderSettings() string {
	var b strings.Builder

	b.WriteString("===== SETTINGS =====\n\n")

	fmt.Fprintf(&b, "CPU Threshold: %.0f%%\n", m.cfg.CPUThreshold)
	fmt.Fprintf(&b, "MEM Threshold: %.0f MB\n", m.cfg.MemThresholdMB)
	fmt.Fprintf(&b, "Alert cooldown: %s\n\n", m.cfg.AlertCooldown.Std())

	b.WriteString("Webhooks:\n")
	if len(m.webhookNames) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, name := range m.webhookNames {
		marker := " "
		if name == m.cfg.ActiveWebhook {
			marker = "*"
		}
		sel := " "
		if i == m.selectedWebhookIndex {
			sel = ">"
		}
		fmt.Fprintf(&b, "%s %s %s → %s\n", sel, marker, name, m.cfg.Webhooks[name])
	}

	if m.mode == confirmDeleteWebhook {
		b.WriteString("\n")
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Delete webhook %q? (y/n)",
			m.webhookNames[m.selectedWebhookIndex])))
		b.WriteString("\n")
	}

	b.WriteString("\nActions:\n")
	b.WriteString(" e  Edit CPU Threshold\n")
	b.WriteString(" m  Edit MEM Threshold\n")
	b.WriteString(" a  Add Webhook\n")
	b.WriteString(" d  Delete Webhook\n")
	b.WriteString(" w  Set Selected as Active\n")
	b.WriteString(" q  Back\n")

	if m.statusText != "" {
		b.WriteString("\n")
		b.WriteString(m.renderStatus())
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderAddWebhook() string {
	var b strings.Builder

	b.WriteString("=== Add Webhook ===\n\n")

	b.WriteString("Name:\n")
	b.WriteString(m.webhookNameInput.View())
	b.WriteString("\n\n")

	b.WriteString("URL:\n")
	b.WriteString(m.webhookURLInput.View())
	b.WriteString("\n\n")

	b.WriteString("[enter = next/save]   [esc = cancel]\n")

	return b.String()
}
