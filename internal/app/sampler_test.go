package app

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/word-sys/puls/internal/config"
	"github.com/word-sys/puls/internal/logger"
	"github.com/word-sys/puls/internal/monitor"
)

type fakeCollector struct {
	calls     int32
	failAfter int32
}

func (f *fakeCollector) Collect(ctx context.Context, opts monitor.CollectOptions) (monitor.Snapshot, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if f.failAfter > 0 && n > f.failAfter {
		return monitor.Snapshot{}, stderrors.New("backend gone")
	}
	snap := monitor.Snapshot{Taken: time.Now(), Global: opts.Previous}
	snap.Global.CPUPercent = float64(n)
	return snap, nil
}

func fastConfig() config.Config {
	cfg := config.Default()
	cfg.RefreshInterval = 20 * time.Millisecond
	cfg.HistoryLength = 10
	return cfg
}

func TestSamplerInstallsSnapshots(t *testing.T) {
	coll := &fakeCollector{}
	state := NewState(10, false)
	s := NewSampler(fastConfig(), logger.Noop(), coll, state)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	snap, ok := state.Snapshot()
	require.True(t, ok)
	assert.Greater(t, snap.Global.CPUPercent, 0.0)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&coll.calls), int32(2))
}

func TestSamplerPauseFreezesSnapshot(t *testing.T) {
	coll := &fakeCollector{}
	state := NewState(10, false)
	s := NewSampler(fastConfig(), logger.Noop(), coll, state)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// Let at least one collection land, then pause.
	require.Eventually(t, func() bool {
		_, ok := state.Snapshot()
		return ok
	}, time.Second, 5*time.Millisecond)

	state.TogglePause()
	// Let any tick that was already mid-collection drain.
	time.Sleep(50 * time.Millisecond)
	before, _ := state.Snapshot()
	callsAtPause := atomic.LoadInt32(&coll.calls)

	time.Sleep(100 * time.Millisecond)
	after, _ := state.Snapshot()
	cancel()
	<-done

	assert.Equal(t, callsAtPause, atomic.LoadInt32(&coll.calls))
	assert.Equal(t, before.Taken, after.Taken)
	assert.Equal(t, before.Global.CPUPercent, after.Global.CPUPercent)
}

func TestSamplerKeepsLastSnapshotOnError(t *testing.T) {
	coll := &fakeCollector{failAfter: 1}
	state := NewState(10, false)
	s := NewSampler(fastConfig(), logger.Noop(), coll, state)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&coll.calls) >= 3
	}, time.Second, 5*time.Millisecond)
	cancel()

	// Only the first collection succeeded; its snapshot must survive the
	// failures that followed.
	current, ok := state.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 1.0, current.Global.CPUPercent)
}

func TestStateOptionsCarryHistory(t *testing.T) {
	state := NewState(5, true)
	opts := state.Options()
	assert.Len(t, opts.Previous.CPUHistory, 5)
	assert.True(t, opts.ShowSystem)

	snap := monitor.Snapshot{Global: monitor.NewGlobalUsage(5)}
	snap.Global.CPUHistory[4] = 33
	state.Install(snap)

	opts = state.Options()
	assert.Equal(t, 33.0, opts.Previous.CPUHistory[4])
}

func TestStateSortCycling(t *testing.T) {
	state := NewState(5, false)
	by, asc := state.SortBy()
	assert.Equal(t, monitor.SortCPU, by)
	assert.False(t, asc)

	state.ToggleSortOrder()
	_, asc = state.SortBy()
	assert.True(t, asc)

	// Switching columns resets direction.
	state.CycleSort()
	by, asc = state.SortBy()
	assert.Equal(t, monitor.SortMemory, by)
	assert.False(t, asc)
}

func TestStateSelection(t *testing.T) {
	state := NewState(5, false)
	pid := int32(42)
	state.Select(&pid)
	opts := state.Options()
	require.NotNil(t, opts.SelectedPID)
	assert.Equal(t, int32(42), *opts.SelectedPID)

	state.Select(nil)
	assert.Nil(t, state.Options().SelectedPID)
}
