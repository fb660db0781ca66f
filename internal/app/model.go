package app

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/word-sys/puls/internal/config"
	"github.com/word-sys/puls/internal/logger"
	"github.com/word-sys/puls/internal/monitor"
)

// Tab identifies the visible dashboard pane.
type Tab int

const (
	TabProcesses Tab = iota
	TabContainers
	TabGpu
	TabSystem
)

// String returns the tab label shown in the header.
func (t Tab) String() string {
	switch t {
	case TabContainers:
		return "Containers"
	case TabGpu:
		return "GPU"
	case TabSystem:
		return "System"
	default:
		return "Processes"
	}
}

// Next cycles to the following tab.
func (t Tab) Next() Tab {
	if t >= TabSystem {
		return TabProcesses
	}
	return t + 1
}

// frameMsg drives the fixed-rate redraw loop. It is deliberately decoupled
// from the sampler's refresh interval: frames are cheap reads of the latest
// snapshot, so keyboard response stays crisp even with a slow refresh.
type frameMsg struct{}

// Model is the Bubble Tea model for the dashboard. All monitoring data
// arrives through the shared State; the model itself only holds view state.
type Model struct {
	cfg   config.Config
	log   logger.Logger
	state *State

	sysInfo []monitor.KV

	tab       Tab
	cursor    int
	width     int
	height    int
	filtering bool
	filter    textinput.Model
	quitting  bool
}

// NewModel builds the dashboard model. sysInfo is gathered once up front
// since it never changes while the program runs.
func NewModel(cfg config.Config, log logger.Logger, state *State, sysInfo []monitor.KV) Model {
	input := textinput.New()
	input.Placeholder = "filter processes"
	input.Prompt = "/ "
	input.CharLimit = 64
	return Model{
		cfg:     cfg,
		log:     log,
		state:   state,
		sysInfo: sysInfo,
		filter:  input,
	}
}

// Init starts the redraw loop.
func (m Model) Init() tea.Cmd {
	return frameCmd()
}

func frameCmd() tea.Cmd {
	return tea.Tick(config.UIRefreshInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// Update handles input and frame ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case frameMsg:
		m.clampCursor()
		return m, frameCmd()
	}
	return m, nil
}

// View renders the current frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snap, ok := m.state.Snapshot()
	if !ok {
		return "\n  gathering first sample...\n"
	}
	return m.render(snap)
}

// clampCursor keeps the selection inside the current table. Scenario: the
// filter narrowed the table under the cursor between frames.
func (m *Model) clampCursor() {
	snap, ok := m.state.Snapshot()
	if !ok {
		m.cursor = 0
		return
	}
	max := len(snap.Processes) - 1
	if m.tab == TabContainers {
		max = len(snap.Containers) - 1
	}
	if max < 0 {
		max = 0
	}
	if m.cursor > max {
		m.cursor = max
	}
}
