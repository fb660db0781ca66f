package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRate(t *testing.T) {
	tests := []struct {
		name string
		rate uint64
		want string
	}{
		{"zero", 0, "0 B/s"},
		{"below a kilobyte", 500, "500 B/s"},
		{"exactly one kilobyte", 1000, "1.0 KB/s"},
		{"one and a half kilobytes", 1500, "1.5 KB/s"},
		{"megabytes", 2_500_000, "2.5 MB/s"},
		{"gigabytes", 3_200_000_000, "3.2 GB/s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRate(tt.rate))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds uint64
		want    string
	}{
		{"under a minute", 42, "0m"},
		{"minutes only", 300, "5m"},
		{"hours and minutes", 3*3600 + 15*60, "3h 15m"},
		{"days", 2*86400 + 3600 + 60, "2d 1h 1m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.seconds))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "12.3%", FormatPercent(12.345))
	assert.Equal(t, "0.0%", FormatPercent(0))
}

func TestSafePercent(t *testing.T) {
	assert.Equal(t, 0.0, safePercent(100, 0))
	assert.InDelta(t, 50.0, safePercent(50, 100), 0.001)
}
