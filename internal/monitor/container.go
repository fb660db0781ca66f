package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"

	"github.com/word-sys/puls/internal/errors"
	"github.com/word-sys/puls/internal/logger"
)

// dockerAPI abstracts the daemon calls the monitor makes. The production
// adapter wraps *client.Client; tests substitute fakes.
type dockerAPI interface {
	Ping(ctx context.Context) (types.Ping, error)
	List(ctx context.Context) ([]container.Summary, error)
	Stats(ctx context.Context, id string) (container.StatsResponse, error)
	ServerVersion(ctx context.Context) (types.Version, error)
}

type realDocker struct {
	cli *client.Client
}

func (d realDocker) Ping(ctx context.Context) (types.Ping, error) {
	return d.cli.Ping(ctx)
}

func (d realDocker) List(ctx context.Context) ([]container.Summary, error) {
	return d.cli.ContainerList(ctx, container.ListOptions{})
}

func (d realDocker) Stats(ctx context.Context, id string) (container.StatsResponse, error) {
	var stats container.StatsResponse
	resp, err := d.cli.ContainerStatsOneShot(ctx, id)
	if err != nil {
		return stats, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return stats, fmt.Errorf("decoding stats for %s: %w", id, err)
	}
	return stats, nil
}

func (d realDocker) ServerVersion(ctx context.Context) (types.Version, error) {
	return d.cli.ServerVersion(ctx)
}

// ContainerMonitor samples running Docker containers. Every daemon call runs
// under a deadline carved out of the tick's operation budget, so a wedged
// daemon costs at most one tick, never the whole dashboard. Sampling is
// serialized by mu: the Collector abandons a call that outruns the budget,
// and the abandoned call must not race the next tick's over the counter maps.
type ContainerMonitor struct {
	log     logger.Logger
	api     dockerAPI
	initErr error

	mu       sync.Mutex
	prevIO   map[string]containerIO
	lastTick time.Time
}

// NewContainerMonitor connects to the Docker daemon from the environment.
// Connection failure is remembered, not fatal; the monitor then reports
// itself unavailable.
func NewContainerMonitor(log logger.Logger) *ContainerMonitor {
	m := &ContainerMonitor{log: log, prevIO: make(map[string]containerIO)}
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		m.initErr = errors.WrapWithCode(err, errors.ErrDocker, "Docker client setup failed",
			"check DOCKER_HOST or disable container monitoring with --no-docker")
		log.Debug("container monitoring disabled: %v", err)
		return m
	}
	m.api = realDocker{cli: cli}
	return m
}

func newContainerMonitor(log logger.Logger, api dockerAPI) *ContainerMonitor {
	return &ContainerMonitor{log: log, api: api, prevIO: make(map[string]containerIO)}
}

// Available reports whether a Docker client exists at all.
func (m *ContainerMonitor) Available() bool {
	return m.api != nil
}

// Containers returns the container table for this tick. The call budget is
// split so no single phase can consume it: ping gets a quarter, the list
// half, and each per-container stats fetch a quarter. Stats run in parallel
// across containers; one that fails or hangs keeps its identity row with
// zeroed readings while the rest report normally.
func (m *ContainerMonitor) Containers(ctx context.Context, budget time.Duration) []ContainerSample {
	if m.api == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// An abandoned call can hold the lock past this call's budget. If the
	// context died while waiting, skip the tick rather than sample against
	// a dead deadline.
	if ctx.Err() != nil {
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, budget/4)
	_, err := m.api.Ping(pingCtx)
	cancel()
	if err != nil {
		m.log.Debug("docker ping failed: %v", err)
		return nil
	}

	listCtx, cancel := context.WithTimeout(ctx, budget/2)
	summaries, err := m.api.List(listCtx)
	cancel()
	if err != nil {
		m.log.Debug("docker list failed: %v", err)
		return nil
	}

	now := time.Now()
	elapsed := now.Sub(m.lastTick).Seconds()
	first := m.lastTick.IsZero()

	samples := make([]ContainerSample, len(summaries))
	results := make([]*containerIO, len(summaries))
	var wg sync.WaitGroup
	for i, summary := range summaries {
		samples[i] = ContainerSample{
			ID:        shortID(summary.ID),
			Name:      containerName(summary.Names),
			Image:     summary.Image,
			Status:    summary.Status,
			State:     summary.State,
			CPUDisp:   FormatPercent(0),
			MemDisp:   FormatSize(0),
			NetIODisp: fmt.Sprintf("%s / %s", FormatRate(0), FormatRate(0)),
			BlkIODisp: fmt.Sprintf("%s / %s", FormatRate(0), FormatRate(0)),
			Ports:     formatPorts(summary.Ports),
		}

		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			statsCtx, cancel := context.WithTimeout(ctx, budget/4)
			defer cancel()
			stats, err := m.api.Stats(statsCtx, id)
			if err != nil {
				m.log.Debug("stats for %s failed: %v", shortID(id), err)
				return
			}

			io := statsIO(stats)
			results[i] = &io

			samples[i].CPUDisp = FormatPercent(containerCPUPercent(stats))
			samples[i].MemDisp = FormatSize(stats.MemoryStats.Usage)

			var netRx, netTx, diskR, diskW uint64
			if prev, ok := m.prevIO[id]; ok && !first {
				netRx = Rate(io.netRx, prev.netRx, elapsed)
				netTx = Rate(io.netTx, prev.netTx, elapsed)
				diskR = Rate(io.diskR, prev.diskR, elapsed)
				diskW = Rate(io.diskW, prev.diskW, elapsed)
			}
			samples[i].NetIODisp = fmt.Sprintf("%s / %s", FormatRate(netRx), FormatRate(netTx))
			samples[i].BlkIODisp = fmt.Sprintf("%s / %s", FormatRate(diskR), FormatRate(diskW))
		}(i, summary.ID)
	}
	wg.Wait()

	// Only successful fetches carry counters forward. A container whose
	// stats call failed this tick restarts its rate baseline next tick
	// rather than spiking against a stale counter.
	nextIO := make(map[string]containerIO, len(summaries))
	for i, io := range results {
		if io != nil {
			nextIO[summaries[i].ID] = *io
		}
	}
	m.prevIO = nextIO
	m.lastTick = now
	return samples
}

// HealthCheck pings the daemon once under the given timeout.
func (m *ContainerMonitor) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if m.api == nil {
		if m.initErr != nil {
			return m.initErr
		}
		return errors.New(errors.ErrDocker, "Docker client not configured",
			"check DOCKER_HOST or disable container monitoring with --no-docker")
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := m.api.Ping(pingCtx); err != nil {
		return errors.WrapWithCode(err, errors.ErrDocker, "Docker daemon unreachable",
			"verify the daemon is running with 'docker info'")
	}
	return nil
}

// RuntimeInfo returns the daemon version string for the system pane, e.g.
// "Docker 27.1.1 (API 1.46)".
func (m *ContainerMonitor) RuntimeInfo(ctx context.Context, timeout time.Duration) string {
	if m.api == nil {
		return "unavailable"
	}
	verCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	version, err := m.api.ServerVersion(verCtx)
	if err != nil {
		return "unavailable"
	}
	return fmt.Sprintf("Docker %s (API %s)", version.Version, version.APIVersion)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func containerName(names []string) string {
	if len(names) == 0 {
		return "unnamed"
	}
	name := strings.TrimPrefix(names[0], "/")
	if name == "" {
		return "unknown"
	}
	return name
}

func formatPorts(ports []container.Port) string {
	if len(ports) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(ports))
	for _, p := range ports {
		if p.PublicPort > 0 {
			parts = append(parts, fmt.Sprintf("%d:%d", p.PublicPort, p.PrivatePort))
		} else {
			parts = append(parts, fmt.Sprintf("%d", p.PrivatePort))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

// containerCPUPercent applies the Docker CLI's CPU formula: the container's
// usage delta over the system usage delta, scaled by online CPUs.
func containerCPUPercent(stats container.StatsResponse) float64 {
	cpuDelta := float64(stats.CPUStats.CPUUsage.TotalUsage) - float64(stats.PreCPUStats.CPUUsage.TotalUsage)
	systemDelta := float64(stats.CPUStats.SystemUsage) - float64(stats.PreCPUStats.SystemUsage)
	if cpuDelta <= 0 || systemDelta <= 0 {
		return 0
	}
	online := float64(stats.CPUStats.OnlineCPUs)
	if online == 0 {
		online = 1
	}
	return cpuDelta / systemDelta * online * 100
}

func statsIO(stats container.StatsResponse) containerIO {
	var io containerIO
	for _, net := range stats.Networks {
		io.netRx += net.RxBytes
		io.netTx += net.TxBytes
	}
	for _, entry := range stats.BlkioStats.IoServiceBytesRecursive {
		switch strings.ToLower(entry.Op) {
		case "read":
			io.diskR += entry.Value
		case "write":
			io.diskW += entry.Value
		}
	}
	return io
}
