package monitor

import (
	"context"
	"strings"
	"time"

	"github.com/word-sys/puls/internal/config"
	"github.com/word-sys/puls/internal/errors"
	"github.com/word-sys/puls/internal/logger"
)

// hostSampler is the slice of HostMonitor the Collector depends on, kept as
// an interface so collector tests can run against a canned host.
type hostSampler interface {
	SampleProcesses(showSystem bool, filter string) ([]ProcessSample, error)
	SampleDetail(pid int32, base ProcessSample) *DetailedProcessInfo
	SampleCores() ([]CoreSample, error)
	SampleDisks() ([]DiskSample, error)
	SampleNetworks() ([]NetSample, error)
	Aggregate(netDown, netUp, diskRead, diskWrite uint64) (GlobalUsage, error)
	Temperatures() Temperatures
	SystemInfo() []KV
}

// CollectOptions carries the per-tick view state that shapes a collection:
// which process is selected, how the table is filtered and sorted, and the
// previous tick's history buffers to extend.
type CollectOptions struct {
	SelectedPID   *int32
	ShowSystem    bool
	Filter        string
	SortBy        SortBy
	SortAscending bool
	Previous      GlobalUsage
}

// Collector runs one full collection tick across every enabled monitor and
// assembles the Snapshot. It holds no cross-tick state of its own; all
// counter baselines live in the monitors.
type Collector struct {
	cfg    config.Config
	log    logger.Logger
	host   hostSampler
	gpu    *GpuMonitor
	docker *ContainerMonitor
}

// NewCollector wires up the monitors the configuration enables. Disabled
// features get no monitor at all, so they cost nothing per tick.
func NewCollector(cfg config.Config, log logger.Logger) *Collector {
	c := &Collector{
		cfg:  cfg,
		log:  log,
		host: NewHostMonitor(log),
	}
	if cfg.GPUEnabled {
		c.gpu = NewGpuMonitor(log)
	}
	if cfg.DockerEnabled {
		c.docker = NewContainerMonitor(log)
	}
	return c
}

// Collect performs one tick. Host process and memory data are required;
// everything else degrades to absence with a log line.
func (c *Collector) Collect(ctx context.Context, opts CollectOptions) (Snapshot, error) {
	start := time.Now()
	snap := Snapshot{Taken: start}

	procs, err := c.host.SampleProcesses(opts.ShowSystem, opts.Filter)
	if err != nil {
		return snap, errors.WrapWithCode(err, errors.ErrCollect, "process sampling failed",
			"the process table could not be read; try running with elevated privileges")
	}
	SortProcesses(procs, opts.SortBy, opts.SortAscending)
	snap.Processes = procs

	if opts.SelectedPID != nil {
		for _, p := range procs {
			if p.PID == *opts.SelectedPID {
				snap.Selected = c.host.SampleDetail(p.PID, p)
				break
			}
		}
	}

	if cores, err := c.host.SampleCores(); err == nil {
		snap.Cores = cores
	} else {
		c.log.Warn("core sampling failed: %v", err)
	}
	if disks, err := c.host.SampleDisks(); err == nil {
		snap.Disks = disks
	} else {
		c.log.Warn("disk sampling failed: %v", err)
	}
	if c.cfg.NetworkEnabled {
		if nets, err := c.host.SampleNetworks(); err == nil {
			snap.Networks = nets
		} else {
			c.log.Warn("network sampling failed: %v", err)
		}
	}

	snap.Containers = c.collectContainers(ctx)
	snap.Gpu, snap.Global = c.collectGpuAndGlobal(snap, opts)
	snap.Temps = c.host.Temperatures()

	if elapsed := time.Since(start); elapsed > c.cfg.RefreshInterval/2 {
		c.log.Warn("collection took %s, over half the %s refresh interval", elapsed, c.cfg.RefreshInterval)
	}
	return snap, nil
}

// collectContainers runs the Docker phase under the tick's operation budget.
// The monitor timeboxes its own daemon calls, but a truly wedged transport
// could still stall, so the whole phase races a timer and loses its slot for
// this tick if it cannot finish. Cancelling the phase context on timeout
// aborts the in-flight daemon calls so the abandoned goroutine winds down
// instead of running on past the tick.
func (c *Collector) collectContainers(ctx context.Context) []ContainerSample {
	if c.docker == nil || !c.docker.Available() {
		return nil
	}
	budget := c.cfg.OperationTimeout()
	phaseCtx, cancel := context.WithCancel(ctx)
	done := make(chan []ContainerSample, 1)
	go func() {
		done <- c.docker.Containers(phaseCtx, budget)
	}()
	select {
	case containers := <-done:
		cancel()
		return containers
	case <-time.After(budget):
		cancel()
		c.log.Warn("container collection exceeded %s, skipping containers this tick", budget)
		return nil
	}
}

func (c *Collector) collectGpuAndGlobal(snap Snapshot, opts CollectOptions) (GpuResult, GlobalUsage) {
	gpu := GpuResult{Err: "GPU monitoring disabled"}
	if c.gpu != nil {
		gpu = c.gpu.Info()
		if gpu.OK() {
			c.gpu.UpdateHistory(gpu.Gpus, c.cfg.HistoryLength)
		}
	}
	gpuUtil := PrimaryUtilization(gpu)

	netDown, netUp := TotalNetworkIO(snap.Networks)
	diskRead, diskWrite := TotalDiskIO(snap.Processes)
	global, err := c.host.Aggregate(netDown, netUp, diskRead, diskWrite)
	if err != nil {
		c.log.Warn("global aggregation failed: %v", err)
	}
	global.GpuUtil = gpuUtil
	extendGlobalHistory(&global, opts.Previous, gpuUtil, c.cfg.HistoryLength)
	return gpu, global
}

// TotalNetworkIO sums per-interface rates into whole-host figures. Loopback
// counts too; the headline mirrors the interface table exactly.
func TotalNetworkIO(nets []NetSample) (down, up uint64) {
	for _, n := range nets {
		down += n.DownRate
		up += n.UpRate
	}
	return down, up
}

// TotalDiskIO sums the raw per-process rates rather than re-deriving from
// device counters, so the headline matches what the table shows.
func TotalDiskIO(procs []ProcessSample) (read, write uint64) {
	for _, p := range procs {
		read += p.DiskReadRate
		write += p.DiskWriteRate
	}
	return read, write
}

// SystemInfo combines the host identity rows with monitoring mode details.
func (c *Collector) SystemInfo(ctx context.Context) []KV {
	rows := c.host.SystemInfo()

	mode := "normal"
	if c.cfg.SafeMode {
		mode = "safe"
	}
	rows = append(rows, KV{Key: "Mode", Value: mode})
	rows = append(rows, KV{Key: "Features", Value: featureSummary(c.cfg)})
	if c.docker != nil && c.docker.Available() {
		rows = append(rows, KV{Key: "Runtime", Value: c.docker.RuntimeInfo(ctx, c.cfg.OperationTimeout())})
	}
	return rows
}

func featureSummary(cfg config.Config) string {
	var on []string
	if cfg.DockerEnabled {
		on = append(on, "docker")
	}
	if cfg.GPUEnabled {
		on = append(on, "gpu")
	}
	if cfg.NetworkEnabled {
		on = append(on, "network")
	}
	if len(on) == 0 {
		return "none"
	}
	return strings.Join(on, ", ")
}

// HealthStatus is one subsystem's probe result.
type HealthStatus struct {
	Name string
	OK   bool
	Err  error
}

// HealthCheck probes every enabled backend without short-circuiting, one
// status per subsystem. Disabled backends are not probed and not reported.
func (c *Collector) HealthCheck(ctx context.Context) []HealthStatus {
	statuses := []HealthStatus{{Name: "host", OK: true}}
	if _, err := c.host.SampleProcesses(true, ""); err != nil {
		statuses[0] = HealthStatus{Name: "host", Err: errors.WrapWithCode(err, errors.ErrCollect,
			"process table unreadable", "try running with elevated privileges")}
	}
	if c.docker != nil {
		status := HealthStatus{Name: "docker", OK: true}
		if err := c.docker.HealthCheck(ctx, c.cfg.OperationTimeout()); err != nil {
			status = HealthStatus{Name: "docker", Err: err}
		}
		statuses = append(statuses, status)
	}
	if c.gpu != nil {
		status := HealthStatus{Name: "gpu", OK: true}
		if result := c.gpu.Info(); !result.OK() {
			status = HealthStatus{Name: "gpu", Err: errors.New(errors.ErrGPU, result.Err,
				"disable GPU monitoring with --no-gpu if this host has no NVIDIA hardware")}
		}
		statuses = append(statuses, status)
	}
	return statuses
}
