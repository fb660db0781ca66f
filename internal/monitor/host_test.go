package monitor

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/word-sys/puls/internal/logger"
)

func TestIsSystemProcess(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"kworker/0:1", true},
		{"ksoftirqd/3", true},
		{"rcu_sched", true},
		{"systemd-journald", true},
		{"[migration/0]", true},
		{"NetworkManager", true},
		{"firefox", false},
		{"node", false},
		{"postgres", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSystemProcess(tt.name))
		})
	}
}

func TestNewHostMonitor(t *testing.T) {
	h := NewHostMonitor(logger.Noop())
	require.NotNil(t, h)
	assert.GreaterOrEqual(t, h.cores, 1)
	assert.Equal(t, int32(os.Getpid()), h.selfPID)
	assert.NotNil(t, h.prevProcIO)
	assert.NotNil(t, h.prevNet)
	assert.NotNil(t, h.prevDisk)
}

func TestSampleProcessesExcludesSelf(t *testing.T) {
	h := NewHostMonitor(logger.Noop())
	samples, err := h.SampleProcesses(true, "")
	require.NoError(t, err)
	for _, s := range samples {
		assert.NotEqual(t, h.selfPID, s.PID)
	}
}

func TestSampleProcessesFilter(t *testing.T) {
	h := NewHostMonitor(logger.Noop())
	samples, err := h.SampleProcesses(true, "no-process-is-named-this-zzz")
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestSystemInfo(t *testing.T) {
	h := NewHostMonitor(logger.Noop())
	rows := h.SystemInfo()
	require.NotEmpty(t, rows)
	keys := make(map[string]bool, len(rows))
	for _, row := range rows {
		keys[row.Key] = true
	}
	assert.True(t, keys["Cores"])
	assert.True(t, keys["Arch"])
}
