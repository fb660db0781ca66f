package monitor

import (
	"sort"
	"strings"
)

// SortBy selects the process table sort column.
type SortBy int

const (
	SortCPU SortBy = iota
	SortMemory
	SortName
	SortPID
)

// String returns the column label shown in the table header.
func (s SortBy) String() string {
	switch s {
	case SortCPU:
		return "cpu"
	case SortMemory:
		return "mem"
	case SortName:
		return "name"
	case SortPID:
		return "pid"
	default:
		return "cpu"
	}
}

// Next cycles to the following sort column.
func (s SortBy) Next() SortBy {
	switch s {
	case SortCPU:
		return SortMemory
	case SortMemory:
		return SortName
	case SortName:
		return SortPID
	default:
		return SortCPU
	}
}

// SortProcesses orders the process table in place. CPU and memory default to
// descending since the busiest rows matter most; name and PID default to
// ascending. The stable sort keeps rows with equal keys from jumping around
// between refreshes.
func SortProcesses(procs []ProcessSample, by SortBy, ascending bool) {
	less := func(a, b ProcessSample) bool {
		switch by {
		case SortMemory:
			return a.Mem > b.Mem
		case SortName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case SortPID:
			return a.PID < b.PID
		default:
			return a.CPU > b.CPU
		}
	}
	sort.SliceStable(procs, func(i, j int) bool {
		if ascending {
			return less(procs[j], procs[i])
		}
		return less(procs[i], procs[j])
	})
}
