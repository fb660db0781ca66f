package monitor

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/word-sys/puls/internal/config"
	"github.com/word-sys/puls/internal/logger"
)

type fakeHost struct {
	procs    []ProcessSample
	procsErr error
	delay    time.Duration
}

func (f *fakeHost) SampleProcesses(showSystem bool, filter string) ([]ProcessSample, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.procsErr != nil {
		return nil, f.procsErr
	}
	out := make([]ProcessSample, len(f.procs))
	copy(out, f.procs)
	return out, nil
}

func (f *fakeHost) SampleDetail(pid int32, base ProcessSample) *DetailedProcessInfo {
	return &DetailedProcessInfo{ProcessSample: base, Cmdline: "/usr/bin/" + base.Name}
}

func (f *fakeHost) SampleCores() ([]CoreSample, error) {
	return []CoreSample{{Usage: 10}, {Usage: 20}}, nil
}

func (f *fakeHost) SampleDisks() ([]DiskSample, error) {
	return []DiskSample{{Mount: "/", Total: 100 << 30}}, nil
}

func (f *fakeHost) SampleNetworks() ([]NetSample, error) {
	return []NetSample{
		{Name: "lo", DownRate: 9999, UpRate: 9999},
		{Name: "eth0", DownRate: 1000, UpRate: 500},
	}, nil
}

func (f *fakeHost) Aggregate(netDown, netUp, diskRead, diskWrite uint64) (GlobalUsage, error) {
	return GlobalUsage{
		CPUPercent:    42,
		MemUsed:       4 << 30,
		MemTotal:      16 << 30,
		NetDownRate:   netDown,
		NetUpRate:     netUp,
		DiskReadRate:  diskRead,
		DiskWriteRate: diskWrite,
	}, nil
}

func (f *fakeHost) Temperatures() Temperatures { return Temperatures{"cpu": 55} }

func (f *fakeHost) SystemInfo() []KV { return []KV{{Key: "Hostname", Value: "test"}} }

func testConfig() config.Config {
	cfg := config.Default()
	cfg.HistoryLength = 10
	return cfg
}

func testCollector(host hostSampler, cfg config.Config) *Collector {
	return &Collector{cfg: cfg, log: logger.Noop(), host: host}
}

func TestCollectSortsByCPUDescending(t *testing.T) {
	host := &fakeHost{procs: []ProcessSample{
		{PID: 1, Name: "a", CPU: 5},
		{PID: 2, Name: "b", CPU: 50},
		{PID: 3, Name: "c", CPU: 25},
	}}
	c := testCollector(host, testConfig())

	snap, err := c.Collect(context.Background(), CollectOptions{Previous: NewGlobalUsage(10)})
	require.NoError(t, err)
	require.Len(t, snap.Processes, 3)
	assert.Equal(t, "b", snap.Processes[0].Name)
	assert.Equal(t, "c", snap.Processes[1].Name)
	assert.Equal(t, "a", snap.Processes[2].Name)
}

func TestCollectSelectedProcessDetail(t *testing.T) {
	host := &fakeHost{procs: []ProcessSample{{PID: 7, Name: "web", CPU: 5}}}
	c := testCollector(host, testConfig())
	pid := int32(7)

	snap, err := c.Collect(context.Background(), CollectOptions{
		SelectedPID: &pid,
		Previous:    NewGlobalUsage(10),
	})
	require.NoError(t, err)
	require.NotNil(t, snap.Selected)
	assert.Equal(t, "/usr/bin/web", snap.Selected.Cmdline)
}

func TestCollectVanishedSelectionClears(t *testing.T) {
	host := &fakeHost{procs: []ProcessSample{{PID: 7, Name: "web"}}}
	c := testCollector(host, testConfig())
	pid := int32(9999)

	snap, err := c.Collect(context.Background(), CollectOptions{
		SelectedPID: &pid,
		Previous:    NewGlobalUsage(10),
	})
	require.NoError(t, err)
	assert.Nil(t, snap.Selected)
}

func TestCollectProcessFailureIsFatal(t *testing.T) {
	host := &fakeHost{procsErr: stderrors.New("proc unreadable")}
	c := testCollector(host, testConfig())

	_, err := c.Collect(context.Background(), CollectOptions{Previous: NewGlobalUsage(10)})
	assert.Error(t, err)
}

func TestCollectNetworkDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.NetworkEnabled = false
	c := testCollector(&fakeHost{}, cfg)

	snap, err := c.Collect(context.Background(), CollectOptions{Previous: NewGlobalUsage(10)})
	require.NoError(t, err)
	assert.Empty(t, snap.Networks)
	assert.Zero(t, snap.Global.NetDownRate)
}

func TestCollectGpuDisabled(t *testing.T) {
	c := testCollector(&fakeHost{}, testConfig())

	snap, err := c.Collect(context.Background(), CollectOptions{Previous: NewGlobalUsage(10)})
	require.NoError(t, err)
	assert.False(t, snap.Gpu.OK())
	assert.Contains(t, snap.Gpu.Err, "disabled")
}

func TestCollectCachedGpuFailure(t *testing.T) {
	api := &fakeNvml{initErr: stderrors.New("driver not loaded")}
	c := testCollector(&fakeHost{}, testConfig())
	c.gpu = newGpuMonitor(logger.Noop(), api)

	for i := 0; i < 3; i++ {
		snap, err := c.Collect(context.Background(), CollectOptions{Previous: NewGlobalUsage(10)})
		require.NoError(t, err)
		assert.False(t, snap.Gpu.OK())
	}
	assert.Equal(t, 1, api.initCalls)
	assert.Equal(t, 0, api.countCalls)
}

func TestCollectExtendsHistory(t *testing.T) {
	c := testCollector(&fakeHost{}, testConfig())
	prev := NewGlobalUsage(10)

	snap, err := c.Collect(context.Background(), CollectOptions{Previous: prev})
	require.NoError(t, err)
	require.Len(t, snap.Global.CPUHistory, 10)
	assert.Equal(t, 42.0, snap.Global.CPUHistory[9])
	// Every interface feeds the headline rate, loopback included.
	assert.Equal(t, uint64(10999), snap.Global.NetDownHistory[9])
}

// wedgedDocker simulates a stalled transport: Ping sleeps without honoring
// its context, blowing through any deadline the monitor sets.
type wedgedDocker struct {
	fakeDocker
	stall time.Duration
}

func (w *wedgedDocker) Ping(ctx context.Context) (types.Ping, error) {
	time.Sleep(w.stall)
	return types.Ping{}, nil
}

func TestCollectContainerPhaseTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshInterval = 100 * time.Millisecond
	buf := logger.NewBufferLogger()
	c := &Collector{cfg: cfg, log: buf, host: &fakeHost{}}
	c.docker = newContainerMonitor(buf, &wedgedDocker{stall: 200 * time.Millisecond})

	snap, err := c.Collect(context.Background(), CollectOptions{Previous: NewGlobalUsage(10)})
	require.NoError(t, err)
	assert.Nil(t, snap.Containers)
	assert.True(t, buf.Contains("warn", "skipping containers"))
}

func TestCollectOverlappingContainerTicks(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshInterval = 100 * time.Millisecond
	c := testCollector(&fakeHost{}, cfg)
	c.docker = newContainerMonitor(logger.Noop(), &wedgedDocker{stall: 200 * time.Millisecond})

	// Each tick abandons its container phase while the previous abandoned
	// call may still be winding down; back-to-back ticks must stay clean.
	for i := 0; i < 3; i++ {
		snap, err := c.Collect(context.Background(), CollectOptions{Previous: NewGlobalUsage(10)})
		require.NoError(t, err)
		assert.Nil(t, snap.Containers)
	}
}

func TestCollectSlowTickLogsWarning(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshInterval = 100 * time.Millisecond
	buf := logger.NewBufferLogger()
	host := &fakeHost{delay: 70 * time.Millisecond}
	c := &Collector{cfg: cfg, log: buf, host: host}

	_, err := c.Collect(context.Background(), CollectOptions{Previous: NewGlobalUsage(10)})
	require.NoError(t, err)
	assert.True(t, buf.Contains("warn", "refresh interval"))
}

func TestTotalNetworkIOSumsAllInterfaces(t *testing.T) {
	down, up := TotalNetworkIO([]NetSample{
		{Name: "lo", DownRate: 500, UpRate: 500},
		{Name: "eth0", DownRate: 1000, UpRate: 200},
		{Name: "wlan0", DownRate: 300, UpRate: 100},
	})
	assert.Equal(t, uint64(1800), down)
	assert.Equal(t, uint64(800), up)
}

func TestTotalDiskIO(t *testing.T) {
	read, write := TotalDiskIO([]ProcessSample{
		{DiskReadRate: 100, DiskWriteRate: 50},
		{DiskReadRate: 200, DiskWriteRate: 25},
	})
	assert.Equal(t, uint64(300), read)
	assert.Equal(t, uint64(75), write)
}

func TestHealthCheckReportsPerSubsystem(t *testing.T) {
	c := testCollector(&fakeHost{}, testConfig())
	c.gpu = newGpuMonitor(logger.Noop(), &fakeNvml{initErr: stderrors.New("no driver")})
	c.docker = newContainerMonitor(logger.Noop(), &fakeDocker{})

	statuses := c.HealthCheck(context.Background())
	require.Len(t, statuses, 3)
	byName := map[string]HealthStatus{}
	for _, s := range statuses {
		byName[s.Name] = s
	}
	assert.True(t, byName["host"].OK)
	assert.True(t, byName["docker"].OK)
	assert.False(t, byName["gpu"].OK)
	assert.Error(t, byName["gpu"].Err)
}

func TestSystemInfoIncludesMode(t *testing.T) {
	cfg := testConfig()
	cfg.SafeMode = true
	c := testCollector(&fakeHost{}, cfg)

	rows := c.SystemInfo(context.Background())
	found := map[string]string{}
	for _, row := range rows {
		found[row.Key] = row.Value
	}
	assert.Equal(t, "safe", found["Mode"])
	assert.Contains(t, found["Features"], "docker")
}
