// Package app runs the dashboard: a sampler goroutine drives the Collector
// at the configured refresh interval while the Bubble Tea program redraws at
// its own fixed cadence. The two sides meet only in State, which hands out
// whole snapshots under a short-lived lock.
package app

import (
	"sync"

	"github.com/word-sys/puls/internal/monitor"
)

// State is the shared hand-off point between the sampler and the renderer.
// The sampler installs complete snapshots; the renderer reads the latest one
// plus the view options that shape the next collection. All methods are safe
// for concurrent use.
type State struct {
	mu       sync.Mutex
	snapshot monitor.Snapshot
	hasData  bool

	paused      bool
	showSystem  bool
	filter      string
	sortBy      monitor.SortBy
	sortAsc     bool
	selectedPID *int32
}

// NewState seeds the state with zero-prefilled history buffers so the first
// rendered frame already has full-width sparklines.
func NewState(historyLen int, showSystem bool) *State {
	return &State{
		snapshot:   monitor.Snapshot{Global: monitor.NewGlobalUsage(historyLen)},
		showSystem: showSystem,
	}
}

// Install atomically replaces the current snapshot.
func (s *State) Install(snap monitor.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	s.hasData = true
}

// Snapshot returns the most recently installed snapshot and whether any
// collection has completed yet.
func (s *State) Snapshot() (monitor.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, s.hasData
}

// Options builds the collection options for the next tick from the current
// view state, carrying the live history buffers forward.
func (s *State) Options() monitor.CollectOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return monitor.CollectOptions{
		SelectedPID:   s.selectedPID,
		ShowSystem:    s.showSystem,
		Filter:        s.filter,
		SortBy:        s.sortBy,
		SortAscending: s.sortAsc,
		Previous:      s.snapshot.Global,
	}
}

// TogglePause flips the pause flag and returns the new value. While paused
// the sampler skips collection entirely, so the displayed snapshot and its
// history stay frozen.
func (s *State) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
	return s.paused
}

// Paused reports whether sampling is suspended.
func (s *State) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// ToggleShowSystem flips kernel-thread visibility and returns the new value.
func (s *State) ToggleShowSystem() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showSystem = !s.showSystem
	return s.showSystem
}

// SetFilter replaces the process table filter.
func (s *State) SetFilter(filter string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
}

// Filter returns the current process table filter.
func (s *State) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// CycleSort advances to the next sort column and resets direction to that
// column's natural order.
func (s *State) CycleSort() monitor.SortBy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortBy = s.sortBy.Next()
	s.sortAsc = false
	return s.sortBy
}

// ToggleSortOrder reverses the sort direction.
func (s *State) ToggleSortOrder() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortAsc = !s.sortAsc
	return s.sortAsc
}

// SortBy returns the active sort column and direction.
func (s *State) SortBy() (monitor.SortBy, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortBy, s.sortAsc
}

// Select marks a PID for detailed sampling on the next tick. A nil pid
// clears the selection.
func (s *State) Select(pid *int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedPID = pid
}
