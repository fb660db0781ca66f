package monitor

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/word-sys/puls/internal/logger"
)

// systemPrefixes marks kernel threads and platform daemons that the process
// table hides unless the user asks for system processes.
var systemPrefixes = []string{
	"kthreadd", "migration", "rcu_", "watchdog", "systemd", "kernel",
	"kworker", "ksoftirqd", "init", "swapper", "[", "dbus",
	"NetworkManager", "systemd-",
}

// procIO holds the cumulative disk counters of one process between ticks.
type procIO struct {
	readBytes  uint64
	writeBytes uint64
}

// netCounters holds one interface's cumulative counters between ticks.
type netCounters struct {
	bytesRecv uint64
	bytesSent uint64
}

// diskCounters holds one block device's cumulative counters between ticks.
type diskCounters struct {
	readBytes  uint64
	writeBytes uint64
}

// HostMonitor samples the local OS: process table, per-core CPU, memory,
// disks, and network interfaces. It keeps the previous tick's cumulative
// counters so every byte figure it hands out is already a per-second rate.
// Not safe for concurrent use; the Collector is its only caller.
type HostMonitor struct {
	log     logger.Logger
	selfPID int32
	cores   int

	prevProcIO   map[int32]procIO
	prevNet      map[string]netCounters
	prevDisk     map[string]diskCounters
	lastProcTick time.Time
	lastNetTick  time.Time
	lastDiskTick time.Time
}

// NewHostMonitor builds a HostMonitor, caching the logical core count used
// to normalize per-process CPU figures.
func NewHostMonitor(log logger.Logger) *HostMonitor {
	cores, err := cpu.Counts(true)
	if err != nil || cores < 1 {
		cores = 1
	}
	return &HostMonitor{
		log:        log,
		selfPID:    int32(os.Getpid()),
		cores:      cores,
		prevProcIO: make(map[int32]procIO),
		prevNet:    make(map[string]netCounters),
		prevDisk:   make(map[string]diskCounters),
	}
}

func isSystemProcess(name string) bool {
	for _, prefix := range systemPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// SampleProcesses returns the filtered process table. The monitor's own PID
// is always excluded so the dashboard does not chart its own overhead.
// filter is matched case-insensitively against "name pid".
func (h *HostMonitor) SampleProcesses(showSystem bool, filter string) ([]ProcessSample, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	now := time.Now()
	elapsed := now.Sub(h.lastProcTick).Seconds()
	first := h.lastProcTick.IsZero()
	filter = strings.ToLower(strings.TrimSpace(filter))

	samples := make([]ProcessSample, 0, len(procs))
	nextIO := make(map[int32]procIO, len(procs))
	for _, p := range procs {
		if p.Pid == h.selfPID {
			continue
		}
		name, err := p.Name()
		if err != nil || name == "" {
			continue
		}
		if !showSystem && isSystemProcess(name) {
			continue
		}
		if filter != "" {
			haystack := strings.ToLower(fmt.Sprintf("%s %d", name, p.Pid))
			if !strings.Contains(haystack, filter) {
				continue
			}
		}

		cpuPct, err := p.CPUPercent()
		if err != nil {
			cpuPct = 0
		}
		cpuPct /= float64(h.cores)
		if cpuPct < 0 {
			cpuPct = 0
		} else if cpuPct > 100 {
			cpuPct = 100
		}

		memInfo, err := p.MemoryInfo()
		var rss uint64
		if err == nil && memInfo != nil {
			rss = memInfo.RSS
		}

		var readRate, writeRate uint64
		if counters, err := p.IOCounters(); err == nil && counters != nil {
			nextIO[p.Pid] = procIO{readBytes: counters.ReadBytes, writeBytes: counters.WriteBytes}
			if prev, ok := h.prevProcIO[p.Pid]; ok && !first {
				readRate = Rate(counters.ReadBytes, prev.readBytes, elapsed)
				writeRate = Rate(counters.WriteBytes, prev.writeBytes, elapsed)
			}
		}

		user, err := p.Username()
		if err != nil || user == "" {
			user = "N/A"
		}
		status := "unknown"
		if st, err := p.Status(); err == nil && len(st) > 0 {
			status = st[0]
		}

		samples = append(samples, ProcessSample{
			PID:           p.Pid,
			PIDDisplay:    fmt.Sprintf("%d", p.Pid),
			Name:          name,
			CPU:           cpuPct,
			CPUDisplay:    FormatPercent(cpuPct),
			Mem:           rss,
			MemDisplay:    FormatSize(rss),
			DiskReadRate:  readRate,
			DiskReadDisp:  FormatRate(readRate),
			DiskWriteRate: writeRate,
			DiskWriteDisp: FormatRate(writeRate),
			User:          user,
			Status:        status,
		})
	}

	// Replace wholesale so exited PIDs stop pinning counter state.
	h.prevProcIO = nextIO
	h.lastProcTick = now
	return samples, nil
}

// SampleDetail fetches the extended view of one process. A vanished PID is
// not an error; the caller simply clears its selection.
func (h *HostMonitor) SampleDetail(pid int32, base ProcessSample) *DetailedProcessInfo {
	p, err := process.NewProcess(pid)
	if err != nil {
		return nil
	}
	info := &DetailedProcessInfo{ProcessSample: base}
	if v, err := p.Cmdline(); err == nil {
		info.Cmdline = v
	}
	if v, err := p.Exe(); err == nil {
		info.Exe = v
	}
	if v, err := p.Cwd(); err == nil {
		info.Cwd = v
	}
	if v, err := p.Ppid(); err == nil {
		info.Ppid = v
	}
	if v, err := p.CreateTime(); err == nil {
		info.CreateTime = v
	}
	if v, err := p.NumThreads(); err == nil {
		info.NumThreads = v
	}
	if v, err := p.NumFDs(); err == nil {
		info.NumFDs = v
	}
	return info
}

// SampleCores returns per-core utilization paired with current clock speeds
// where the platform reports them.
func (h *HostMonitor) SampleCores() ([]CoreSample, error) {
	percents, err := cpu.Percent(0, true)
	if err != nil {
		return nil, fmt.Errorf("reading per-core usage: %w", err)
	}
	infos, err := cpu.Info()
	if err != nil {
		h.log.Debug("core frequency unavailable: %v", err)
	}
	cores := make([]CoreSample, len(percents))
	for i, pct := range percents {
		cores[i].Usage = pct
		if i < len(infos) {
			cores[i].FreqMhz = infos[i].Mhz
		} else if len(infos) > 0 {
			cores[i].FreqMhz = infos[0].Mhz
		}
	}
	return cores, nil
}

// SampleDisks returns mounted filesystems with usage figures plus IO rates
// derived from the backing device's cumulative counters.
func (h *HostMonitor) SampleDisks() ([]DiskSample, error) {
	parts, err := disk.Partitions(false)
	if err != nil {
		return nil, fmt.Errorf("listing partitions: %w", err)
	}

	now := time.Now()
	elapsed := now.Sub(h.lastDiskTick).Seconds()
	first := h.lastDiskTick.IsZero()

	counters, err := disk.IOCounters()
	if err != nil {
		h.log.Debug("disk io counters unavailable: %v", err)
		counters = nil
	}
	nextDisk := make(map[string]diskCounters, len(counters))

	samples := make([]DiskSample, 0, len(parts))
	for _, part := range parts {
		usage, err := disk.Usage(part.Mountpoint)
		if err != nil {
			continue
		}
		sample := DiskSample{
			Mount:  part.Mountpoint,
			Device: part.Device,
			Fs:     part.Fstype,
			Total:  usage.Total,
			Free:   usage.Free,
			Used:   usage.Used,
		}
		// IOCounters keys by short device name, partitions by full path.
		devName := part.Device
		if idx := strings.LastIndex(devName, "/"); idx >= 0 {
			devName = devName[idx+1:]
		}
		if counter, ok := counters[devName]; ok {
			nextDisk[devName] = diskCounters{readBytes: counter.ReadBytes, writeBytes: counter.WriteBytes}
			if prev, ok := h.prevDisk[devName]; ok && !first {
				sample.ReadRate = Rate(counter.ReadBytes, prev.readBytes, elapsed)
				sample.WriteRate = Rate(counter.WriteBytes, prev.writeBytes, elapsed)
			}
		}
		samples = append(samples, sample)
	}

	h.prevDisk = nextDisk
	h.lastDiskTick = now
	return samples, nil
}

// SampleNetworks returns per-interface rates and lifetime totals.
func (h *HostMonitor) SampleNetworks() ([]NetSample, error) {
	counters, err := gnet.IOCounters(true)
	if err != nil {
		return nil, fmt.Errorf("reading interface counters: %w", err)
	}

	now := time.Now()
	elapsed := now.Sub(h.lastNetTick).Seconds()
	first := h.lastNetTick.IsZero()
	nextNet := make(map[string]netCounters, len(counters))

	samples := make([]NetSample, 0, len(counters))
	for _, c := range counters {
		sample := NetSample{
			Name:      c.Name,
			TotalDown: c.BytesRecv,
			TotalUp:   c.BytesSent,
			PacketsRx: c.PacketsRecv,
			PacketsTx: c.PacketsSent,
			ErrorsRx:  c.Errin,
			ErrorsTx:  c.Errout,
		}
		nextNet[c.Name] = netCounters{bytesRecv: c.BytesRecv, bytesSent: c.BytesSent}
		if prev, ok := h.prevNet[c.Name]; ok && !first {
			sample.DownRate = Rate(c.BytesRecv, prev.bytesRecv, elapsed)
			sample.UpRate = Rate(c.BytesSent, prev.bytesSent, elapsed)
		}
		samples = append(samples, sample)
	}

	h.prevNet = nextNet
	h.lastNetTick = now
	return samples, nil
}

// Aggregate builds the whole-host summary from system-wide readings plus
// the rate totals already derived by the per-entity samplers.
func (h *HostMonitor) Aggregate(netDown, netUp, diskRead, diskWrite uint64) (GlobalUsage, error) {
	var g GlobalUsage
	g.NetDownRate = netDown
	g.NetUpRate = netUp
	g.DiskReadRate = diskRead
	g.DiskWriteRate = diskWrite

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		g.CPUPercent = percents[0]
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return g, fmt.Errorf("reading memory: %w", err)
	}
	g.MemUsed = vm.Used
	g.MemTotal = vm.Total
	g.MemCached = vm.Cached
	if swap, err := mem.SwapMemory(); err == nil {
		g.SwapUsed = swap.Used
		g.SwapTotal = swap.Total
	}
	if avg, err := load.Avg(); err == nil {
		g.Load1 = avg.Load1
		g.Load5 = avg.Load5
		g.Load15 = avg.Load15
	}
	if info, err := host.Info(); err == nil {
		g.Uptime = info.Uptime
		g.BootTime = info.BootTime
	}
	return g, nil
}

// Temperatures reads whatever thermal sensors the platform exposes. Many
// hosts expose none; the empty map is normal.
func (h *HostMonitor) Temperatures() Temperatures {
	sensors, err := host.SensorsTemperatures()
	if err != nil {
		h.log.Debug("temperature sensors unavailable: %v", err)
	}
	temps := make(Temperatures, len(sensors))
	for _, s := range sensors {
		if s.Temperature > 0 {
			temps[s.SensorKey] = s.Temperature
		}
	}
	return temps
}

// SystemInfo returns the static identity rows shown in the system pane.
func (h *HostMonitor) SystemInfo() []KV {
	var rows []KV
	if info, err := host.Info(); err == nil {
		rows = append(rows,
			KV{Key: "Hostname", Value: info.Hostname},
			KV{Key: "OS", Value: fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)},
			KV{Key: "Kernel", Value: info.KernelVersion},
			KV{Key: "Boot", Value: time.Unix(int64(info.BootTime), 0).Format("2006-01-02 15:04:05")},
			KV{Key: "Uptime", Value: FormatDuration(info.Uptime)},
		)
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		rows = append(rows, KV{Key: "CPU", Value: infos[0].ModelName})
	}
	rows = append(rows,
		KV{Key: "Cores", Value: fmt.Sprintf("%d", h.cores)},
	)
	if vm, err := mem.VirtualMemory(); err == nil {
		rows = append(rows, KV{Key: "Memory", Value: FormatSize(vm.Total)})
	}
	rows = append(rows,
		KV{Key: "Go", Value: runtime.Version()},
		KV{Key: "Arch", Value: runtime.GOARCH},
	)
	return rows
}
