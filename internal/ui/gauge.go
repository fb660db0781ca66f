package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderGauge draws a horizontal usage bar of the given inner width with a
// trailing percentage label. The filled portion is colored by usage band.
func RenderGauge(percent float64, width int) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := lipgloss.NewStyle().Foreground(UsageColor(percent)).
		Render(strings.Repeat("█", filled))
	rest := lipgloss.NewStyle().Foreground(ColorMuted).
		Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("[%s%s] %5.1f%%", bar, rest, percent)
}
