package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushHistoryBounded(t *testing.T) {
	buf := make([]float64, 0, 4)
	for i := 0; i < 10; i++ {
		buf = pushHistory(buf, float64(i), 4)
	}
	require.Len(t, buf, 4)
	assert.Equal(t, []float64{6, 7, 8, 9}, buf)
}

func TestPushHistoryOldestFirst(t *testing.T) {
	buf := []uint64{1, 2, 3}
	buf = pushHistory(buf, 4, 3)
	assert.Equal(t, []uint64{2, 3, 4}, buf)
}

func TestNewGlobalUsagePrefilled(t *testing.T) {
	g := NewGlobalUsage(60)
	require.Len(t, g.CPUHistory, 60)
	require.Len(t, g.MemHistory, 60)
	require.Len(t, g.NetDownHistory, 60)
	require.Len(t, g.NetUpHistory, 60)
	require.Len(t, g.DiskReadHistory, 60)
	require.Len(t, g.DiskWriteHistory, 60)
	require.Len(t, g.GPUHistory, 60)
	for _, v := range g.CPUHistory {
		assert.Zero(t, v)
	}
}

func TestExtendGlobalHistory(t *testing.T) {
	prev := NewGlobalUsage(3)
	cur := GlobalUsage{
		CPUPercent:  50,
		MemUsed:     500,
		MemTotal:    1000,
		NetDownRate: 42,
	}
	util := uint32(77)
	extendGlobalHistory(&cur, prev, &util, 3)

	require.Len(t, cur.CPUHistory, 3)
	assert.Equal(t, 50.0, cur.CPUHistory[2])
	assert.InDelta(t, 50.0, cur.MemHistory[2], 0.001)
	assert.Equal(t, uint64(42), cur.NetDownHistory[2])
	assert.Equal(t, uint32(77), cur.GPUHistory[2])
}

func TestExtendGlobalHistoryNoGpuReading(t *testing.T) {
	prev := NewGlobalUsage(3)
	prev.GPUHistory = []uint32{1, 2, 3}
	cur := GlobalUsage{}
	extendGlobalHistory(&cur, prev, nil, 3)

	assert.Equal(t, []uint32{1, 2, 3}, cur.GPUHistory)
}
