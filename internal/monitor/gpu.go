package monitor

import (
	"fmt"
	"sync"

	"github.com/word-sys/puls/internal/errors"
	"github.com/word-sys/puls/internal/logger"
)

// nvmlAPI abstracts the NVML entry points the monitor needs. The production
// adapter lives in gpu_nvml.go; tests substitute fakes.
type nvmlAPI interface {
	Init() error
	DeviceCount() (int, error)
	Device(index int) (nvmlDevice, error)
	DriverVersion() (string, error)
}

// nvmlDevice abstracts one enumerated device handle.
type nvmlDevice interface {
	Name() (string, error)
	MemoryInfo() (used, total uint64, err error)
	Utilization() (uint32, error)
	Temperature() (uint32, error)
	PowerUsage() (uint32, error)
	GraphicsClock() (uint32, error)
	MemoryClock() (uint32, error)
	FanSpeed() (uint32, error)
	PcieLink() (gen, width int, err error)
}

// GpuMonitor enumerates NVIDIA devices through NVML. Initialization is
// attempted exactly once: hosts without the driver fail init every time for
// the same reason, so the first error is cached and every later call
// returns it without touching NVML again.
type GpuMonitor struct {
	log      logger.Logger
	api      nvmlAPI
	initOnce sync.Once
	initErr  error

	// Per-tick utilization vectors, one entry per successful Info call,
	// oldest first. Feeds the per-device trend charts.
	history [][]uint32
}

// NewGpuMonitor builds a monitor backed by the real NVML bindings.
func NewGpuMonitor(log logger.Logger) *GpuMonitor {
	return newGpuMonitor(log, realNvml{})
}

func newGpuMonitor(log logger.Logger, api nvmlAPI) *GpuMonitor {
	return &GpuMonitor{log: log, api: api}
}

func (g *GpuMonitor) ensureInit() error {
	g.initOnce.Do(func() {
		if err := g.api.Init(); err != nil {
			g.initErr = errors.WrapWithCode(err, errors.ErrGPU, "NVML initialization failed",
				"install the NVIDIA driver or disable GPU monitoring with --no-gpu")
			g.log.Debug("gpu monitoring disabled: %v", err)
		}
	})
	return g.initErr
}

// Info enumerates every device with a full set of readings. Core readings
// failing on any device aborts the whole call, since a partial list would
// misnumber the devices; fan speed, PCIe link, and driver version are
// optional and simply left unset when unavailable.
func (g *GpuMonitor) Info() GpuResult {
	if err := g.ensureInit(); err != nil {
		return GpuResult{Err: err.Error()}
	}

	count, err := g.api.DeviceCount()
	if err != nil {
		return GpuResult{Err: fmt.Sprintf("device enumeration failed: %v", err)}
	}
	if count == 0 {
		return GpuResult{Err: "no NVIDIA devices found"}
	}

	driver := "Unknown"
	if v, err := g.api.DriverVersion(); err == nil {
		driver = v
	}

	gpus := make([]GpuSample, 0, count)
	for i := 0; i < count; i++ {
		dev, err := g.api.Device(i)
		if err != nil {
			return GpuResult{Err: fmt.Sprintf("device %d handle: %v", i, err)}
		}
		sample, err := readDevice(dev)
		if err != nil {
			return GpuResult{Err: fmt.Sprintf("device %d: %v", i, err)}
		}
		sample.DriverVersion = driver
		gpus = append(gpus, sample)
	}
	return GpuResult{Gpus: gpus}
}

func readDevice(dev nvmlDevice) (GpuSample, error) {
	var s GpuSample
	name, err := dev.Name()
	if err != nil {
		return s, fmt.Errorf("name: %w", err)
	}
	s.Name = name
	s.Brand = "NVIDIA"

	used, total, err := dev.MemoryInfo()
	if err != nil {
		return s, fmt.Errorf("memory: %w", err)
	}
	s.MemoryUsed = used
	s.MemoryTotal = total

	if s.Utilization, err = dev.Utilization(); err != nil {
		return s, fmt.Errorf("utilization: %w", err)
	}
	if s.Temperature, err = dev.Temperature(); err != nil {
		return s, fmt.Errorf("temperature: %w", err)
	}
	if s.PowerUsage, err = dev.PowerUsage(); err != nil {
		return s, fmt.Errorf("power: %w", err)
	}
	if s.GraphicsClock, err = dev.GraphicsClock(); err != nil {
		return s, fmt.Errorf("graphics clock: %w", err)
	}
	if s.MemoryClock, err = dev.MemoryClock(); err != nil {
		return s, fmt.Errorf("memory clock: %w", err)
	}

	if fan, err := dev.FanSpeed(); err == nil {
		s.FanSpeed = &fan
	}
	if gen, width, err := dev.PcieLink(); err == nil {
		s.PcieGen = &gen
		s.PcieWidth = &width
	}
	return s, nil
}

// UpdateHistory appends the utilization vector of an enumerated device list
// and trims the buffer to maxLen. Safe to call repeatedly; length never
// exceeds maxLen.
func (g *GpuMonitor) UpdateHistory(gpus []GpuSample, maxLen int) {
	utils := make([]uint32, len(gpus))
	for i, gpu := range gpus {
		utils[i] = gpu.Utilization
	}
	g.history = pushHistory(g.history, utils, maxLen)
}

// History returns the recorded utilization vectors, oldest first.
func (g *GpuMonitor) History() [][]uint32 {
	return g.history
}

// PrimaryUtilization is the headline figure for the GPU sparkline: the
// busiest device's utilization, or nil when no devices were enumerated.
func PrimaryUtilization(r GpuResult) *uint32 {
	if !r.OK() || len(r.Gpus) == 0 {
		return nil
	}
	max := r.Gpus[0].Utilization
	for _, gpu := range r.Gpus[1:] {
		if gpu.Utilization > max {
			max = gpu.Utilization
		}
	}
	return &max
}
