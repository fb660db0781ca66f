// Package monitor implements the sampling and aggregation engine behind the
// puls dashboard.
//
// # Architecture
//
// Three per-domain monitors own their backends and the cumulative-counter
// state needed to turn raw readings into per-second rates:
//
//	HostMonitor      - OS process table, per-core CPU, memory, disks, network
//	GpuMonitor       - NVML device enumeration with a cached init result
//	ContainerMonitor - Docker daemon with strictly timeboxed calls
//
// A single Collector orchestrates them: each tick it calls every enabled
// monitor, merges the results into one immutable Snapshot, extends the
// bounded history buffers carried in GlobalUsage, and returns. Monitors
// never call each other, and the Collector is single-threaded internally;
// concurrency lives in internal/app, which runs Collect on a sampler
// goroutine and shares the resulting Snapshot with the renderer behind one
// short-lived lock.
//
// # Degradation policy
//
// A missing or broken backend is data, not a failure: GPU absence is a typed
// error string carried in the Snapshot, an unreachable Docker daemon yields
// an empty container list for that tick, and a single hung container only
// zeroes its own rates. Nothing in this package terminates the process.
//
// # Rates
//
// Every rate field is derived with Rate from two cumulative counter readings
// and the elapsed time since the previous tick. Counter resets saturate to
// zero rather than underflowing, and the elapsed time is floored so a tick
// that fires early cannot produce a division spike. Counter maps are rebuilt
// from the entities seen each tick, which is how departed processes,
// interfaces, and containers stop consuming memory.
package monitor
