package app

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey routes keyboard input. Filter entry mode captures everything
// except its own exit keys so typing "q" into a filter does not quit.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case " ":
		m.state.TogglePause()

	case "tab":
		m.tab = m.tab.Next()
		m.cursor = 0
		m.state.Select(nil)

	case "s":
		m.state.CycleSort()

	case "r":
		m.state.ToggleSortOrder()

	case ".":
		m.state.ToggleShowSystem()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		m.cursor++
		m.clampCursor()

	case "enter":
		m.selectUnderCursor()

	case "esc":
		m.state.Select(nil)
		if m.state.Filter() != "" {
			m.state.SetFilter("")
			m.filter.SetValue("")
		}

	case "/":
		if m.tab == TabProcesses {
			m.filtering = true
			m.filter.Focus()
			return m, nil
		}
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.state.SetFilter("")
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.state.SetFilter(m.filter.Value())
	return m, cmd
}

// selectUnderCursor pins the process under the cursor for detail sampling.
func (m *Model) selectUnderCursor() {
	if m.tab != TabProcesses {
		return
	}
	snap, ok := m.state.Snapshot()
	if !ok || m.cursor >= len(snap.Processes) {
		return
	}
	pid := snap.Processes[m.cursor].PID
	m.state.Select(&pid)
}
