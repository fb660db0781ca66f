package monitor

// pushHistory appends a value to a bounded history buffer and drops the
// oldest entries so the buffer never exceeds maxLen. The slice is reused
// across ticks, so growth settles after the first wraparound.
func pushHistory[T any](buf []T, v T, maxLen int) []T {
	buf = append(buf, v)
	if excess := len(buf) - maxLen; excess > 0 {
		buf = buf[excess:]
	}
	return buf
}

// extendGlobalHistory carries the previous tick's history buffers into the
// fresh GlobalUsage and pushes the new readings. The GPU buffer only
// advances when a utilization reading exists, so a host without NVML keeps
// a flat prefilled sparkline instead of an ever-shrinking one.
func extendGlobalHistory(cur *GlobalUsage, prev GlobalUsage, gpuUtil *uint32, maxLen int) {
	cur.CPUHistory = pushHistory(prev.CPUHistory, cur.CPUPercent, maxLen)
	cur.MemHistory = pushHistory(prev.MemHistory, safePercent(cur.MemUsed, cur.MemTotal), maxLen)
	cur.NetDownHistory = pushHistory(prev.NetDownHistory, cur.NetDownRate, maxLen)
	cur.NetUpHistory = pushHistory(prev.NetUpHistory, cur.NetUpRate, maxLen)
	cur.DiskReadHistory = pushHistory(prev.DiskReadHistory, cur.DiskReadRate, maxLen)
	cur.DiskWriteHistory = pushHistory(prev.DiskWriteHistory, cur.DiskWriteRate, maxLen)
	if gpuUtil != nil {
		cur.GPUHistory = pushHistory(prev.GPUHistory, *gpuUtil, maxLen)
	} else {
		cur.GPUHistory = prev.GPUHistory
	}
}
