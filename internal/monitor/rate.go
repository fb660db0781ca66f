package monitor

// minElapsedSeconds guards rate math against bursty wakeups. A timer that
// fires almost immediately after the previous tick would otherwise divide a
// small counter delta by a near-zero interval and report an absurd rate.
const minElapsedSeconds = 0.1

// Rate converts two cumulative counter readings into a per-second rate.
// Counters can move backwards when a process restarts or a kernel counter
// wraps; in that case the delta saturates to zero instead of underflowing.
func Rate(current, previous uint64, elapsedSeconds float64) uint64 {
	if elapsedSeconds < minElapsedSeconds {
		elapsedSeconds = minElapsedSeconds
	}
	if current < previous {
		return 0
	}
	return uint64(float64(current-previous) / elapsedSeconds)
}
