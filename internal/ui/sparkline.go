package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

var sparklineBlockRunes = []rune(sparklineBlocks)

// RenderSparkline draws a history buffer as a row of block characters, one
// per data point, showing the most recent width points. Levels are mapped
// over the buffer's own min/max range, and the whole line is colored by the
// current (last) value's usage band.
func RenderSparkline(data []float64, width int) string {
	plain, last := sparklineRunes(data, width)
	if plain == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(UsageColor(last)).Render(plain)
}

// RenderRateSparkline draws a rate history. Rates have no natural 0-100
// scale, so the line is colored neutrally instead of by usage band.
func RenderRateSparkline(data []uint64, width int) string {
	floats := make([]float64, len(data))
	for i, v := range data {
		floats[i] = float64(v)
	}
	plain, _ := sparklineRunes(floats, width)
	if plain == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(ColorInfo).Render(plain)
}

func sparklineRunes(data []float64, width int) (line string, last float64) {
	if len(data) == 0 || width <= 0 {
		return "", 0
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	var sb strings.Builder
	sb.Grow(len(data) * 3)
	numLevels := len(sparklineBlockRunes)
	valueRange := maxVal - minVal
	for _, v := range data {
		var level int
		if valueRange == 0 {
			level = 0
		} else {
			normalized := (v - minVal) / valueRange
			level = int(normalized * float64(numLevels-1))
			if level < 0 {
				level = 0
			} else if level >= numLevels {
				level = numLevels - 1
			}
		}
		sb.WriteRune(sparklineBlockRunes[level])
	}
	return sb.String(), data[len(data)-1]
}
