package monitor

import "time"

// ProcessSample is one row of the process table. Raw numeric fields drive
// sorting and aggregation; the Display fields are preformatted once at
// sample time so the renderer never touches formatting code.
type ProcessSample struct {
	PID           int32
	PIDDisplay    string
	Name          string
	CPU           float64
	CPUDisplay    string
	Mem           uint64
	MemDisplay    string
	DiskReadRate  uint64
	DiskReadDisp  string
	DiskWriteRate uint64
	DiskWriteDisp string
	User          string
	Status        string
}

// DetailedProcessInfo extends a process row for the detail pane of the
// currently selected process.
type DetailedProcessInfo struct {
	ProcessSample
	Cmdline    string
	Exe        string
	Cwd        string
	Ppid       int32
	CreateTime int64
	NumThreads int32
	NumFDs     int32
}

// CoreSample is the utilization and clock of a single logical CPU core.
type CoreSample struct {
	Usage   float64
	FreqMhz float64
}

// DiskSample is one mounted filesystem plus the IO rates of its backing
// device.
type DiskSample struct {
	Mount     string
	Device    string
	Fs        string
	Total     uint64
	Free      uint64
	Used      uint64
	ReadRate  uint64
	WriteRate uint64
}

// NetSample is one network interface with per-second rates and lifetime
// totals.
type NetSample struct {
	Name      string
	DownRate  uint64
	UpRate    uint64
	TotalDown uint64
	TotalUp   uint64
	PacketsRx uint64
	PacketsTx uint64
	ErrorsRx  uint64
	ErrorsTx  uint64
}

// ContainerSample is one Docker container row. All measured fields are
// preformatted; a container whose stats call failed carries zero displays
// but keeps its identity fields.
type ContainerSample struct {
	ID        string
	Name      string
	Image     string
	Status    string
	State     string
	CPUDisp   string
	MemDisp   string
	NetIODisp string
	BlkIODisp string
	Ports     string
}

// containerIO holds the cumulative counters read from one container's stats
// response, keyed by container ID between ticks.
type containerIO struct {
	netRx uint64
	netTx uint64
	diskR uint64
	diskW uint64
}

// GpuSample is one NVML device. Pointer fields are readings that older
// devices or drivers legitimately do not expose.
type GpuSample struct {
	Name          string
	Brand         string
	Utilization   uint32
	MemoryUsed    uint64
	MemoryTotal   uint64
	Temperature   uint32
	PowerUsage    uint32
	GraphicsClock uint32
	MemoryClock   uint32
	FanSpeed      *uint32
	PcieGen       *int
	PcieWidth     *int
	DriverVersion string
}

// GpuResult carries either an enumerated device list or the error string
// explaining why enumeration is impossible on this host. The error is a
// plain string so the Snapshot stays trivially copyable.
type GpuResult struct {
	Gpus []GpuSample
	Err  string
}

// OK reports whether the result carries usable device data.
func (r GpuResult) OK() bool {
	return r.Err == ""
}

// Temperatures maps sensor names to degrees Celsius.
type Temperatures map[string]float64

// KV is a labelled value for the static system information pane.
type KV struct {
	Key   string
	Value string
}

// GlobalUsage aggregates whole-host figures for the summary header and
// carries the sparkline history buffers. Every history slice holds exactly
// the configured history length, oldest first, zero-prefilled at startup so
// sparklines render at full width from the first frame.
type GlobalUsage struct {
	CPUPercent    float64
	MemUsed       uint64
	MemTotal      uint64
	MemCached     uint64
	SwapUsed      uint64
	SwapTotal     uint64
	Load1         float64
	Load5         float64
	Load15        float64
	Uptime        uint64
	BootTime      uint64
	GpuUtil       *uint32
	NetDownRate   uint64
	NetUpRate     uint64
	DiskReadRate  uint64
	DiskWriteRate uint64

	CPUHistory       []float64
	MemHistory       []float64
	NetDownHistory   []uint64
	NetUpHistory     []uint64
	DiskReadHistory  []uint64
	DiskWriteHistory []uint64
	GPUHistory       []uint32
}

// NewGlobalUsage returns a GlobalUsage whose history buffers are prefilled
// with zeros to historyLen.
func NewGlobalUsage(historyLen int) GlobalUsage {
	return GlobalUsage{
		CPUHistory:       make([]float64, historyLen),
		MemHistory:       make([]float64, historyLen),
		NetDownHistory:   make([]uint64, historyLen),
		NetUpHistory:     make([]uint64, historyLen),
		DiskReadHistory:  make([]uint64, historyLen),
		DiskWriteHistory: make([]uint64, historyLen),
		GPUHistory:       make([]uint32, historyLen),
	}
}

// Snapshot is the complete result of one collection tick. The sampler
// installs it atomically and the renderer only ever reads whole snapshots,
// so a frame can never mix data from two ticks.
type Snapshot struct {
	Taken      time.Time
	Global     GlobalUsage
	Processes  []ProcessSample
	Selected   *DetailedProcessInfo
	Cores      []CoreSample
	Disks      []DiskSample
	Networks   []NetSample
	Containers []ContainerSample
	Gpu        GpuResult
	Temps      Temperatures
}
