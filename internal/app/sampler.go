package app

import (
	"context"
	"time"

	"github.com/word-sys/puls/internal/config"
	"github.com/word-sys/puls/internal/logger"
	"github.com/word-sys/puls/internal/monitor"
)

// collector is the slice of monitor.Collector the sampler drives, as an
// interface so sampler tests can use a canned implementation.
type collector interface {
	Collect(ctx context.Context, opts monitor.CollectOptions) (monitor.Snapshot, error)
}

// Sampler owns the collection loop. It ticks at the configured refresh
// interval, runs one Collect per tick, and installs the result into State.
// A paused tick does nothing at all, which is what freezes the display.
type Sampler struct {
	cfg   config.Config
	log   logger.Logger
	coll  collector
	state *State
}

// NewSampler builds a sampler around an existing collector and state.
func NewSampler(cfg config.Config, log logger.Logger, coll collector, state *State) *Sampler {
	return &Sampler{cfg: cfg, log: log, coll: coll, state: state}
}

// Run loops until the context is cancelled. The first collection fires
// immediately so the UI does not sit empty for a full interval; failures are
// logged and the previous snapshot stays on screen.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Sampler) tick(ctx context.Context) {
	if s.state.Paused() {
		return
	}
	snap, err := s.coll.Collect(ctx, s.state.Options())
	if err != nil {
		s.log.Error("collection failed: %v", err)
		return
	}
	s.state.Install(snap)
}
