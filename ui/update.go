package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Michael-D-Palmer/mini-top/model"
)

const errorFmt = "Error: %v"

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-12, 3))
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tickCmd(m.interval)

	case statusMsg:
		m.statusText = msg.text
		m.statusError = msg.isError
		return m, nil
	}

	if m.mode == filterMode {
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.filterText = m.filterInput.Value()
		m.updateTable()
		return m, cmd
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case normalMode:
		return m.handleNormalMode(msg)
	case filterMode:
		return m.handleFilterMode(msg)
	case confirmKillMode:
		return m.handleConfirmKill(msg)
	case confirmNiceMode:
		return m.handleConfirmNice(msg)
	case helpMode:
		return m.handleHelpMode(msg)
	case settingsMode:
		return m.handleSettingsMode(msg)
	case editThresholdCPU:
		cmd := m.editThreshold(msg, &m.cpuInput, &m.cfg.CPUThreshold)
		return m, cmd
	case editThresholdMEM:
		cmd := m.editThreshold(msg, &m.memInput, &m.cfg.MemThresholdMB)
		return m, cmd
	case addWebhookMode:
		return m.handleAddWebhook(msg)
	case confirmDeleteWebhook:
		return m.handleConfirmDeleteWebhook(msg)
	}
	return m, nil
}

func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q":
		return m, tea.Quit

	case "?", "h":
		m.mode = helpMode
		return m, nil

	// Sorting
	case "c":
		m.sorter.Toggle(model.SortByCPU)
		m.updateTable()
	case "m":
		m.sorter.Toggle(model.SortByMem)
		m.updateTable()
	case "p":
		m.sorter.Toggle(model.SortByPID)
		m.updateTable()
	case "n":
		m.sorter.Toggle(model.SortByName)
		m.updateTable()

	// Filtering
	case "/":
		m.mode = filterMode
		m.filterInput.Focus()
		return m, textinput.Blink

	case "k":
		if pid := m.getSelectedPID(); pid > 0 {
			m.selectedPID = pid
			m.mode = confirmKillMode
		}
		return m, nil

	case "K":
		if pid := m.getSelectedPID(); pid > 0 {
			if err := m.control.ForceKill(pid); err != nil {
				return m, m.showStatus(fmt.Sprintf(errorFmt, err), true)
			}
			m.logger.Info("sent SIGKILL", "pid", pid)
			return m, m.showStatus(fmt.Sprintf("Sent SIGKILL to PID %d", pid), false)
		}
		return m, nil

	// Renice: "+" raises priority, "-" lowers it
	case "+":
		if pid := m.getSelectedPID(); pid > 0 {
			m.selectedPID = pid
			m.niceDelta = -niceStep
			m.mode = confirmNiceMode
		}
		return m, nil
	case "-":
		if pid := m.getSelectedPID(); pid > 0 {
			m.selectedPID = pid
			m.niceDelta = niceStep
			m.mode = confirmNiceMode
		}
		return m, nil

	case "s":
		m.mode = settingsMode
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = normalMode
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.filterText = ""
		m.updateTable()
		return m, nil
	case "enter":
		m.mode = normalMode
		m.filterInput.Blur()
		m.filterText = m.filterInput.Value()
		m.updateTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filterText = m.filterInput.Value()
	m.updateTable()
	return m, cmd
}

func (m Model) handleConfirmKill(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = normalMode
		if err := m.control.Terminate(m.selectedPID); err != nil {
			return m, m.showStatus(fmt.Sprintf(errorFmt, err), true)
		}
		m.logger.Info("sent SIGTERM", "pid", m.selectedPID)
		return m, m.showStatus(fmt.Sprintf("Sent SIGTERM to PID %d", m.selectedPID), false)

	case "n", "N", "esc", "q":
		m.mode = normalMode
		return m, nil
	}
	return m, nil
}

func (m Model) handleConfirmNice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = normalMode
		nice, err := m.control.Renice(m.selectedPID, m.niceDelta)
		if err != nil {
			return m, m.showStatus(fmt.Sprintf(errorFmt, err), true)
		}
		m.logger.Info("reniced", "pid", m.selectedPID, "nice", nice)
		return m, m.showStatus(fmt.Sprintf("Changed nice of PID %d to %d", m.selectedPID, nice), false)

	case "n", "N", "esc", "q":
		m.mode = normalMode
		return m, nil
	}
	return m, nil
}

func (m Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = normalMode
	return m, nil
}

func (m Model) handleSettingsMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.mode = normalMode
		return m, nil

	case "e":
		m.mode = editThresholdCPU
		m.cpuInput.SetValue(fmt.Sprintf("%.0f", m.cfg.CPUThreshold))
		m.cpuInput.CursorEnd()
		m.cpuInput.Focus()
		return m, textinput.Blink

	case "m":
		m.mode = editThresholdMEM
		m.memInput.SetValue(fmt.Sprintf("%.0f", m.cfg.MemThresholdMB))
		m.memInput.CursorEnd()
		m.memInput.Focus()
		return m, textinput.Blink

	case "a":
		m.mode = addWebhookMode
		m.addingWebhookStep = 0
		m.webhookNameInput.SetValue("")
		m.webhookURLInput.SetValue("")
		m.webhookNameInput.Focus()
		return m, textinput.Blink

	case "d":
		if len(m.webhookNames) > 0 {
			m.mode = confirmDeleteWebhook
		}
		return m, nil

	case "w":
		if len(m.webhookNames) > 0 {
			m.cfg.ActiveWebhook = m.webhookNames[m.selectedWebhookIndex]
			return m, m.saveConfig()
		}
		return m, nil

	case "up":
		if m.selectedWebhookIndex > 0 {
			m.selectedWebhookIndex--
		}
		return m, nil

	case "down":
		if m.selectedWebhookIndex < len(m.webhookNames)-1 {
			m.selectedWebhookIndex++
		}
		return m, nil
	}

	return m, nil
}

// editThreshold edits one threshold through input, a field of m, and stores
// it in dst on enter. Non-positive or unparsable values are rejected.
func (m *Model) editThreshold(msg tea.KeyMsg, input *textinput.Model, dst *float64) tea.Cmd {
	switch msg.String() {
	case "enter":
		input.Blur()
		m.mode = settingsMode
		f, err := strconv.ParseFloat(strings.TrimSpace(input.Value()), 64)
		if err != nil || f <= 0 {
			return m.showStatus(fmt.Sprintf("Invalid threshold %q", input.Value()), true)
		}
		*dst = f
		return m.saveConfig()

	case "esc":
		input.Blur()
		m.mode = settingsMode
		return nil
	}

	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	return cmd
}

func (m Model) handleAddWebhook(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.addingWebhookStep == 0 {
			if strings.TrimSpace(m.webhookNameInput.Value()) == "" {
				return m, nil
			}
			m.addingWebhookStep = 1
			m.webhookNameInput.Blur()
			m.webhookURLInput.Focus()
			return m, nil
		}

		name := strings.TrimSpace(m.webhookNameInput.Value())
		url := strings.TrimSpace(m.webhookURLInput.Value())
		m.addingWebhookStep = 0
		m.webhookURLInput.Blur()
		m.mode = settingsMode
		if url == "" {
			return m, nil
		}
		m.cfg.Webhooks[name] = url
		if m.cfg.ActiveWebhook == "" {
			m.cfg.ActiveWebhook = name
		}
		m.webhookNames = webhookNames(m.cfg)
		return m, m.saveConfig()

	case "esc":
		m.addingWebhookStep = 0
		m.webhookNameInput.Blur()
		m.webhookURLInput.Blur()
		m.mode = settingsMode
		return m, nil
	}

	var cmd tea.Cmd
	if m.addingWebhookStep == 0 {
		m.webhookNameInput, cmd = m.webhookNameInput.Update(msg)
		return m, cmd
	}
	m.webhookURLInput, cmd = m.webhookURLInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmDeleteWebhook(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = settingsMode
		name := m.webhookNames[m.selectedWebhookIndex]
		delete(m.cfg.Webhooks, name)
		if m.cfg.ActiveWebhook == name {
			m.cfg.ActiveWebhook = ""
		}
		m.webhookNames = webhookNames(m.cfg)
		m.selectedWebhookIndex = min(m.selectedWebhookIndex, max(len(m.webhookNames)-1, 0))
		return m, m.saveConfig()

	case "n", "N", "esc", "q":
		m.mode = settingsMode
		return m, nil
	}
	return m, nil
}

func (m *Model) updateTable() {
	filtered := applyFilter(m.records, m.filterText)

	// Sort on a copy
	sorted := make([]model.ProcessRecord, len(filtered))
	copy(sorted, filtered)
	m.sorter.Sort(sorted)

	m.table.SetColumns(m.buildColumns())

	// Preserve selection
	selectedPID := m.getSelectedPID()
	rows := buildRows(sorted, m.stats.MemTotalKB)
	m.table.SetRows(rows)
	m.restoreSelection(rows, selectedPID)
}

func baseColumns() []table.Column {
	return []table.Column{
		{Title: "PID", Width: 8},
		{Title: "NAME", Width: nameWidth},
		{Title: "MEM", Width: 10},
		{Title: "%MEM", Width: 7},
		{Title: "%CPU", Width: 8},
	}
}

// buildColumns constructs the table columns with the sort indicator applied.
func (m *Model) buildColumns() []table.Column {
	columns := baseColumns()
	sortIndicator := "↓"
	if !m.sorter.Descending {
		sortIndicator = "↑"
	}

	switch m.sorter.Column {
	case model.SortByPID:
		columns[0].Title += " " + sortIndicator
	case model.SortByName:
		columns[1].Title += " " + sortIndicator
	case model.SortByMem:
		columns[2].Title += " " + sortIndicator
	default:
		columns[4].Title += " " + sortIndicator
	}
	return columns
}

// buildRows converts sorted process records into styled table rows. %MEM is
// left as "-" when the host total is unknown.
func buildRows(sorted []model.ProcessRecord, memTotalKB uint64) []table.Row {
	rows := make([]table.Row, 0, len(sorted))
	for _, r := range sorted {
		cpu := FormatCPU(r.CPUPercent)
		if r.CPUPercent > 50 {
			cpu = highCPUStyle.Render(cpu)
		} else if r.CPUPercent > 20 {
			cpu = medCPUStyle.Render(cpu)
		}

		pmem := "-"
		if memTotalKB > 0 {
			pmem = fmt.Sprintf("%.1f", float64(r.MemoryKB)*100/float64(memTotalKB))
		}

		rows = append(rows, table.Row{
			strconv.Itoa(r.PID),
			ellipsize(r.Name, nameWidth),
			FormatKB(r.MemoryKB),
			pmem,
			cpu,
		})
	}
	return rows
}

// restoreSelection moves the cursor back to the previously selected PID if present.
func (m *Model) restoreSelection(rows []table.Row, selectedPID int) {
	if selectedPID <= 0 || len(rows) == 0 {
		return
	}
	want := strconv.Itoa(selectedPID)
	for i := range rows {
		if rows[i][0] == want {
			m.table.SetCursor(i)
			return
		}
	}
}

// applyFilter keeps records whose name contains text (case-insensitive) or
// whose PID starts with it. An empty text returns records unchanged.
func applyFilter(records []model.ProcessRecord, text string) []model.ProcessRecord {
	text = strings.TrimSpace(text)
	if text == "" {
		return records
	}

	needle := strings.ToLower(text)
	filtered := make([]model.ProcessRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.HasPrefix(strconv.Itoa(r.PID), needle) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func (m Model) getSelectedPID() int {
	selected := m.table.SelectedRow()
	if len(selected) == 0 {
		return 0
	}
	pid, err := strconv.Atoi(selected[0])
	if err != nil {
		return 0
	}
	return pid
}

func (m Model) showStatus(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}
