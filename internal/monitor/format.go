package monitor

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatSize renders a byte count in binary units, e.g. "1.5 GiB".
func FormatSize(bytes uint64) string {
	return humanize.IBytes(bytes)
}

// FormatRate renders a bytes-per-second figure with decimal units. Rates use
// a 1000-based ladder so they read like network line speeds.
func FormatRate(bytesPerSec uint64) string {
	const unit = 1000
	if bytesPerSec < unit {
		return fmt.Sprintf("%d B/s", bytesPerSec)
	}
	value := float64(bytesPerSec)
	suffixes := []string{"KB/s", "MB/s", "GB/s", "TB/s"}
	idx := 0
	value /= unit
	for value >= unit && idx < len(suffixes)-1 {
		value /= unit
		idx++
	}
	return fmt.Sprintf("%.1f %s", value, suffixes[idx])
}

// FormatPercent renders a percentage with one decimal place.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatDuration renders an uptime in seconds as a compact "1d 2h 3m" form,
// dropping leading zero units.
func FormatDuration(seconds uint64) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// safePercent divides used by total as a percentage, returning 0 when the
// total is unknown.
func safePercent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}
