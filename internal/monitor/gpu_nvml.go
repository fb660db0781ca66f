package monitor

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// realNvml adapts the go-nvml bindings to the nvmlAPI seam, converting NVML
// return codes into Go errors at the boundary.
type realNvml struct{}

func nvmlErr(op string, ret nvml.Return) error {
	return fmt.Errorf("%s: %s", op, nvml.ErrorString(ret))
}

func (realNvml) Init() error {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nvmlErr("nvmlInit", ret)
	}
	return nil
}

func (realNvml) DeviceCount() (int, error) {
	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return 0, nvmlErr("nvmlDeviceGetCount", ret)
	}
	return count, nil
}

func (realNvml) Device(index int) (nvmlDevice, error) {
	dev, ret := nvml.DeviceGetHandleByIndex(index)
	if ret != nvml.SUCCESS {
		return nil, nvmlErr("nvmlDeviceGetHandleByIndex", ret)
	}
	return realNvmlDevice{dev: dev}, nil
}

func (realNvml) DriverVersion() (string, error) {
	version, ret := nvml.SystemGetDriverVersion()
	if ret != nvml.SUCCESS {
		return "", nvmlErr("nvmlSystemGetDriverVersion", ret)
	}
	return version, nil
}

type realNvmlDevice struct {
	dev nvml.Device
}

func (d realNvmlDevice) Name() (string, error) {
	name, ret := d.dev.GetName()
	if ret != nvml.SUCCESS {
		return "", nvmlErr("GetName", ret)
	}
	return name, nil
}

func (d realNvmlDevice) MemoryInfo() (uint64, uint64, error) {
	info, ret := d.dev.GetMemoryInfo()
	if ret != nvml.SUCCESS {
		return 0, 0, nvmlErr("GetMemoryInfo", ret)
	}
	return info.Used, info.Total, nil
}

func (d realNvmlDevice) Utilization() (uint32, error) {
	util, ret := d.dev.GetUtilizationRates()
	if ret != nvml.SUCCESS {
		return 0, nvmlErr("GetUtilizationRates", ret)
	}
	return util.Gpu, nil
}

func (d realNvmlDevice) Temperature() (uint32, error) {
	temp, ret := d.dev.GetTemperature(nvml.TEMPERATURE_GPU)
	if ret != nvml.SUCCESS {
		return 0, nvmlErr("GetTemperature", ret)
	}
	return temp, nil
}

func (d realNvmlDevice) PowerUsage() (uint32, error) {
	power, ret := d.dev.GetPowerUsage()
	if ret != nvml.SUCCESS {
		return 0, nvmlErr("GetPowerUsage", ret)
	}
	return power, nil
}

func (d realNvmlDevice) GraphicsClock() (uint32, error) {
	clock, ret := d.dev.GetClockInfo(nvml.CLOCK_GRAPHICS)
	if ret != nvml.SUCCESS {
		return 0, nvmlErr("GetClockInfo", ret)
	}
	return clock, nil
}

func (d realNvmlDevice) MemoryClock() (uint32, error) {
	clock, ret := d.dev.GetClockInfo(nvml.CLOCK_MEM)
	if ret != nvml.SUCCESS {
		return 0, nvmlErr("GetClockInfo", ret)
	}
	return clock, nil
}

func (d realNvmlDevice) FanSpeed() (uint32, error) {
	speed, ret := d.dev.GetFanSpeed()
	if ret != nvml.SUCCESS {
		return 0, nvmlErr("GetFanSpeed", ret)
	}
	return speed, nil
}

func (d realNvmlDevice) PcieLink() (int, int, error) {
	gen, ret := d.dev.GetCurrPcieLinkGeneration()
	if ret != nvml.SUCCESS {
		return 0, 0, nvmlErr("GetCurrPcieLinkGeneration", ret)
	}
	width, ret := d.dev.GetCurrPcieLinkWidth()
	if ret != nvml.SUCCESS {
		return 0, 0, nvmlErr("GetCurrPcieLinkWidth", ret)
	}
	return gen, width, nil
}
