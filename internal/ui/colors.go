// Package ui holds the terminal rendering primitives shared by the
// dashboard views: the color palette, sparklines, and gauge bars.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette using ANSI color codes for terminal compatibility.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Status symbols shown next to backend health lines.
const (
	SymbolSuccess = "✓"
	SymbolFail    = "✗"
	SymbolWarn    = "⚠"
)

// UsageColor grades a utilization percentage. The bands are tuned for
// at-a-glance triage: anything past 90 demands attention, 75 is worth
// watching, 50 is busy but fine.
func UsageColor(percent float64) lipgloss.Color {
	switch {
	case percent >= 90:
		return ColorError
	case percent >= 75:
		return ColorWarning
	case percent >= 50:
		return ColorInfo
	default:
		return ColorSuccess
	}
}

// ApplyColorProfile downgrades lipgloss output to plain text when the
// terminal opts out of color via NO_COLOR or a dumb TERM.
func ApplyColorProfile() {
	if termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
