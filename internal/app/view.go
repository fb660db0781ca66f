package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/word-sys/puls/internal/monitor"
	"github.com/word-sys/puls/internal/ui"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorInfo)
	pausedStyle    = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorWarning)
	tabStyle       = lipgloss.NewStyle().Foreground(ui.ColorMuted).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Underline(true).Padding(0, 1)
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorSecondary)
	cursorRowStyle = lipgloss.NewStyle().Reverse(true)
	labelStyle     = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	errStyle       = lipgloss.NewStyle().Foreground(ui.ColorError)
	footerStyle    = lipgloss.NewStyle().Foreground(ui.ColorMuted)
)

const sparkWidth = 30

func (m Model) render(snap monitor.Snapshot) string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSummary(snap.Global))
	b.WriteString("\n")

	switch m.tab {
	case TabContainers:
		b.WriteString(m.renderContainers(snap.Containers))
	case TabGpu:
		b.WriteString(m.renderGpu(snap.Gpu))
	case TabSystem:
		b.WriteString(m.renderSystem(snap))
	default:
		b.WriteString(m.renderProcesses(snap))
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	parts := []string{titleStyle.Render("puls")}
	if m.state.Paused() {
		parts = append(parts, pausedStyle.Render("⏸ PAUSED"))
	}
	tabs := make([]string, 0, 4)
	for t := TabProcesses; t <= TabSystem; t++ {
		style := tabStyle
		if t == m.tab {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	parts = append(parts, strings.Join(tabs, ""))
	return strings.Join(parts, "  ")
}

func (m Model) renderSummary(g monitor.GlobalUsage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n",
		labelStyle.Render("CPU "),
		ui.RenderGauge(g.CPUPercent, 20),
		ui.RenderSparkline(g.CPUHistory, sparkWidth))

	memPct := 0.0
	if g.MemTotal > 0 {
		memPct = float64(g.MemUsed) / float64(g.MemTotal) * 100
	}
	fmt.Fprintf(&b, "%s %s %s  %s / %s\n",
		labelStyle.Render("MEM "),
		ui.RenderGauge(memPct, 20),
		ui.RenderSparkline(g.MemHistory, sparkWidth),
		monitor.FormatSize(g.MemUsed),
		monitor.FormatSize(g.MemTotal))

	fmt.Fprintf(&b, "%s ↓ %-12s %s  ↑ %-12s %s\n",
		labelStyle.Render("NET "),
		monitor.FormatRate(g.NetDownRate),
		ui.RenderRateSparkline(g.NetDownHistory, sparkWidth/2),
		monitor.FormatRate(g.NetUpRate),
		ui.RenderRateSparkline(g.NetUpHistory, sparkWidth/2))

	fmt.Fprintf(&b, "%s R %-12s %s  W %-12s %s\n",
		labelStyle.Render("DISK"),
		monitor.FormatRate(g.DiskReadRate),
		ui.RenderRateSparkline(g.DiskReadHistory, sparkWidth/2),
		monitor.FormatRate(g.DiskWriteRate),
		ui.RenderRateSparkline(g.DiskWriteHistory, sparkWidth/2))

	if g.GpuUtil != nil {
		gpuHist := make([]float64, len(g.GPUHistory))
		for i, v := range g.GPUHistory {
			gpuHist[i] = float64(v)
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			labelStyle.Render("GPU "),
			ui.RenderGauge(float64(*g.GpuUtil), 20),
			ui.RenderSparkline(gpuHist, sparkWidth))
	}

	fmt.Fprintf(&b, "%s %.2f %.2f %.2f  %s %s\n",
		labelStyle.Render("LOAD"),
		g.Load1, g.Load5, g.Load15,
		labelStyle.Render("up"),
		monitor.FormatDuration(g.Uptime))
	return b.String()
}

func (m Model) renderProcesses(snap monitor.Snapshot) string {
	var b strings.Builder
	if m.filtering || m.state.Filter() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	by, asc := m.state.SortBy()
	dir := "▼"
	if asc {
		dir = "▲"
	}
	b.WriteString(headerRowStyle.Render(fmt.Sprintf("%7s  %-24s %8s %10s %12s %12s %-10s %s",
		"PID", "NAME", "CPU%", "MEM", "DISK R", "DISK W", "USER", "STATUS")))
	fmt.Fprintf(&b, "  %s\n", labelStyle.Render(by.String()+dir))

	rows := m.visibleRows(len(snap.Processes))
	for i := rows.start; i < rows.end; i++ {
		p := snap.Processes[i]
		line := fmt.Sprintf("%7s  %-24s %8s %10s %12s %12s %-10s %s",
			p.PIDDisplay, truncate(p.Name, 24), p.CPUDisplay, p.MemDisplay,
			p.DiskReadDisp, p.DiskWriteDisp, truncate(p.User, 10), p.Status)
		if i == m.cursor {
			line = cursorRowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if snap.Selected != nil {
		b.WriteString(renderDetail(*snap.Selected))
	}
	return b.String()
}

func renderDetail(d monitor.DetailedProcessInfo) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("─── detail "))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  cmd: %s\n", d.Cmdline)
	if d.Exe != "" {
		fmt.Fprintf(&b, "  exe: %s\n", d.Exe)
	}
	if d.Cwd != "" {
		fmt.Fprintf(&b, "  cwd: %s\n", d.Cwd)
	}
	fmt.Fprintf(&b, "  threads: %d  fds: %d\n", d.NumThreads, d.NumFDs)
	return b.String()
}

func (m Model) renderContainers(containers []monitor.ContainerSample) string {
	if len(containers) == 0 {
		return labelStyle.Render("  no containers (is the Docker daemon running?)") + "\n"
	}
	var b strings.Builder
	b.WriteString(headerRowStyle.Render(fmt.Sprintf("%-12s  %-20s %-24s %-8s %8s %10s %-22s %-22s %s",
		"ID", "NAME", "IMAGE", "STATE", "CPU%", "MEM", "NET I/O", "BLOCK I/O", "PORTS")))
	b.WriteString("\n")
	for i, c := range containers {
		line := fmt.Sprintf("%-12s  %-20s %-24s %-8s %8s %10s %-22s %-22s %s",
			c.ID, truncate(c.Name, 20), truncate(c.Image, 24), c.State,
			c.CPUDisp, c.MemDisp, c.NetIODisp, c.BlkIODisp, c.Ports)
		if i == m.cursor && m.tab == TabContainers {
			line = cursorRowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderGpu(result monitor.GpuResult) string {
	if !result.OK() {
		return errStyle.Render("  "+ui.SymbolFail+" "+result.Err) + "\n"
	}
	var b strings.Builder
	for i, g := range result.Gpus {
		fmt.Fprintf(&b, "%s %d: %s (driver %s)\n", labelStyle.Render("GPU"), i, g.Name, g.DriverVersion)
		fmt.Fprintf(&b, "  util %s  vram %s / %s\n",
			ui.RenderGauge(float64(g.Utilization), 20),
			monitor.FormatSize(g.MemoryUsed), monitor.FormatSize(g.MemoryTotal))
		fmt.Fprintf(&b, "  %d°C  %.1f W  clocks %d/%d MHz",
			g.Temperature, float64(g.PowerUsage)/1000, g.GraphicsClock, g.MemoryClock)
		if g.FanSpeed != nil {
			fmt.Fprintf(&b, "  fan %d%%", *g.FanSpeed)
		}
		if g.PcieGen != nil && g.PcieWidth != nil {
			fmt.Fprintf(&b, "  pcie gen%d x%d", *g.PcieGen, *g.PcieWidth)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderSystem(snap monitor.Snapshot) string {
	var b strings.Builder
	for _, row := range m.sysInfo {
		fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", row.Key)), row.Value)
	}
	if len(snap.Disks) > 0 {
		b.WriteString("\n")
		b.WriteString(headerRowStyle.Render(fmt.Sprintf("  %-20s %-10s %10s %10s %12s %12s",
			"MOUNT", "FS", "USED", "TOTAL", "READ", "WRITE")))
		b.WriteString("\n")
		for _, d := range snap.Disks {
			fmt.Fprintf(&b, "  %-20s %-10s %10s %10s %12s %12s\n",
				truncate(d.Mount, 20), d.Fs, monitor.FormatSize(d.Used),
				monitor.FormatSize(d.Total), monitor.FormatRate(d.ReadRate),
				monitor.FormatRate(d.WriteRate))
		}
	}
	if len(snap.Temps) > 0 {
		b.WriteString("\n")
		names := make([]string, 0, len(snap.Temps))
		for name := range snap.Temps {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "  %s %.0f°C\n", labelStyle.Render(name), snap.Temps[name])
		}
	}
	return b.String()
}

func (m Model) renderFooter() string {
	return footerStyle.Render("q quit · space pause · tab views · s sort · r reverse · / filter · . system procs · enter detail")
}

type rowRange struct {
	start, end int
}

// visibleRows windows the table around the cursor so it fits the terminal.
func (m Model) visibleRows(total int) rowRange {
	visible := m.height - 14
	if visible < 5 {
		visible = 5
	}
	if total <= visible {
		return rowRange{0, total}
	}
	start := m.cursor - visible/2
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > total {
		end = total
		start = end - visible
	}
	return rowRange{start, end}
}

// truncate shortens s to at most max runes, ending in an ellipsis. Cutting
// on runes keeps multibyte names valid UTF-8.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
