package registry

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultSweepInterval is how often the background sweep runs
const DefaultSweepInterval = time.Minute

// Sweeper periodically evicts expired sessions from a Registry.
// Eviction is also available lazily through Registry.EvictExpired;
// the sweeper just guarantees abandoned sessions are reclaimed even
// when nobody polls them.
type Sweeper struct {
	registry *Registry
	interval time.Duration
	cron     *cron.Cron
	entryID  cron.EntryID
	logger   zerolog.Logger
	running  bool
}

// NewSweeper creates a sweeper for the given registry
func NewSweeper(registry *Registry, interval time.Duration, logger zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &Sweeper{
		registry: registry,
		interval: interval,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start schedules the background sweep
func (s *Sweeper) Start() error {
	if s.running {
		return fmt.Errorf("sweeper is already running")
	}

	spec := fmt.Sprintf("@every %s", s.interval)
	id, err := s.cron.AddFunc(spec, s.SweepNow)
	if err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}
	s.entryID = id
	s.cron.Start()
	s.running = true

	s.logger.Info().
		Dur("interval", s.interval).
		Dur("retention", s.registry.Retention()).
		Msg("Session sweeper started")

	return nil
}

// Stop halts the background sweep and waits for an in-flight sweep
func (s *Sweeper) Stop() error {
	if !s.running {
		return fmt.Errorf("sweeper is not running")
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false

	s.logger.Info().Msg("Session sweeper stopped")
	return nil
}

// SweepNow runs one eviction pass immediately
func (s *Sweeper) SweepNow() {
	evicted := s.registry.EvictExpired(time.Now())
	if evicted > 0 {
		s.logger.Debug().Int("evicted", evicted).Msg("Sweep pass complete")
	}
}

// IsRunning reports whether the sweeper is active
func (s *Sweeper) IsRunning() bool {
	return s.running
}
