package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/danish/blueprint/internal/config"
	"github.com/danish/blueprint/internal/logger"
	"github.com/danish/blueprint/internal/metrics"
	"github.com/danish/blueprint/pkg/archive"
	"github.com/danish/blueprint/pkg/blueprint"
	"github.com/danish/blueprint/pkg/gateway"
	"github.com/danish/blueprint/pkg/llm"
	"github.com/danish/blueprint/pkg/prompt"
	"github.com/danish/blueprint/pkg/registry"
)

// Daemon wires the blueprint service together: session registry,
// eviction sweeper, prompt library with hot reload, generation driver
// and the HTTP gateway.
type Daemon struct {
	config *config.Config
	logger *logger.Logger

	// Core modules
	metrics  *metrics.Metrics
	registry *registry.Registry
	sweeper  *registry.Sweeper
	prompts  *prompt.Library
	watcher  *prompt.Watcher
	provider llm.Provider
	driver   *blueprint.Driver

	// Services
	gatewayServer *gateway.Server

	// Internal
	lifecycle *LifecycleManager

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	startTime time.Time
	running   bool
	mu        sync.RWMutex
}

// Status describes the daemon's runtime state
type Status struct {
	Running  bool
	Uptime   time.Duration
	Sessions int
}

// New creates a new daemon instance
func New(cfg *config.Config, log *logger.Logger) (*Daemon, error) {
	ctx, cancel := context.WithCancel(context.Background())

	d := &Daemon{
		config: cfg,
		logger: log,
		ctx:    ctx,
		cancel: cancel,
	}

	d.metrics = metrics.NewMetrics()

	profile, err := selectProfile(cfg.AI.Profiles)
	if err != nil {
		cancel()
		return nil, err
	}
	d.provider, err = llm.NewProvider(profile)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	d.prompts, err = prompt.NewLibrary(
		prompt.WithOverrideDir(cfg.Generation.PromptDir),
		prompt.WithLogger(log.GetZerolog().With().Str("component", "prompts").Logger()),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	d.registry = registry.New(
		registry.WithRetention(time.Duration(cfg.Generation.RetentionMinutes)*time.Minute),
		registry.WithLogger(log.GetZerolog().With().Str("component", "registry").Logger()),
		registry.WithObserver(metrics.NewRegistryObserver(d.metrics)),
	)
	d.sweeper = registry.NewSweeper(
		d.registry,
		time.Duration(cfg.Generation.SweepIntervalSeconds)*time.Second,
		log.GetZerolog().With().Str("component", "sweeper").Logger(),
	)

	model := profile.Model
	if model == "" {
		model = cfg.Generation.Model
	}
	d.driver = blueprint.NewDriver(
		d.registry,
		d.provider,
		d.prompts,
		blueprint.Config{
			Model:       model,
			Temperature: cfg.Generation.Temperature,
			MaxTokens:   cfg.Generation.MaxTokens,
			SlotTimeout: time.Duration(cfg.Generation.SlotTimeoutSeconds) * time.Second,
		},
		log.GetZerolog().With().Str("component", "driver").Logger(),
	)
	d.driver.SetObserver(metrics.NewDriverObserver(d.metrics))

	d.gatewayServer, err = gateway.NewServer(gateway.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Token:          cfg.Server.Token,
		PollInterval:   time.Duration(cfg.Generation.PollIntervalSeconds) * time.Second,
		Registry:       d.registry,
		Generate:       d.startGeneration,
		Archiver:       archive.NewBuilder(),
		ArchiveOrder:   blueprint.SlotFilenames(),
		MetricsHandler: d.metrics.Handler(),
		Logger:         log.GetZerolog().With().Str("component", "gateway").Logger(),
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create gateway server: %w", err)
	}

	d.lifecycle = NewLifecycleManager(d)

	return d, nil
}

// selectProfile picks the profile with the lowest priority value
func selectProfile(profiles []config.AIProfile) (llm.Profile, error) {
	if len(profiles) == 0 {
		return llm.Profile{}, fmt.Errorf("no AI profiles configured")
	}

	sorted := make([]config.AIProfile, len(profiles))
	copy(sorted, profiles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	p := sorted[0]
	return llm.Profile{
		ID:       p.ID,
		Provider: p.Provider,
		APIKey:   p.APIKey,
		Model:    p.Model,
		Priority: p.Priority,
	}, nil
}

// startGeneration creates a session and runs generation in the
// background. The returned id is immediately pollable.
func (d *Daemon) startGeneration(idea string) string {
	id := d.driver.NewSession(idea)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.driver.Run(d.ctx, id, idea); err != nil {
			d.logger.Error().Err(err).Str("session_id", id).Msg("Generation run failed")
		}
	}()

	return id
}

// Start starts all daemon services
func (d *Daemon) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("daemon is already running")
	}

	if err := d.lifecycle.Start(); err != nil {
		return err
	}

	if err := d.sweeper.Start(); err != nil {
		return err
	}

	// Prompt hot reload is best effort: a missing override directory
	// is created, a failing watcher only disables reload.
	if d.config.Generation.PromptDir != "" {
		if err := os.MkdirAll(d.config.Generation.PromptDir, 0755); err != nil {
			d.logger.Warn().Err(err).Msg("Failed to create prompt directory, overrides disabled")
		} else {
			w, err := prompt.NewWatcher(d.prompts, d.config.Generation.PromptDir,
				d.logger.GetZerolog().With().Str("component", "prompt_watcher").Logger())
			if err == nil {
				err = w.Start()
			}
			if err != nil {
				d.logger.Warn().Err(err).Msg("Prompt watcher unavailable, hot reload disabled")
			} else {
				d.watcher = w
			}
		}
	}

	if err := d.gatewayServer.Start(); err != nil {
		return err
	}

	d.startTime = time.Now()
	d.running = true

	d.logger.Info().
		Str("provider", d.provider.Name()).
		Int("port", d.config.Server.Port).
		Msg("Blueprint daemon started")

	return nil
}

// Stop gracefully stops all daemon services
func (d *Daemon) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return fmt.Errorf("daemon is not running")
	}

	d.logger.Info().Msg("Stopping blueprint daemon")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := d.gatewayServer.Stop(shutdownCtx); err != nil {
		d.logger.Error().Err(err).Msg("Gateway shutdown error")
	}

	if d.watcher != nil {
		if err := d.watcher.Stop(); err != nil {
			d.logger.Error().Err(err).Msg("Prompt watcher shutdown error")
		}
		d.watcher = nil
	}

	if err := d.sweeper.Stop(); err != nil {
		d.logger.Error().Err(err).Msg("Sweeper shutdown error")
	}

	// Cancel in-flight generation runs and wait for them to abandon.
	d.cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		d.logger.Warn().Msg("Timed out waiting for generation runs to finish")
	}

	if err := d.lifecycle.Stop(); err != nil {
		d.logger.Error().Err(err).Msg("Lifecycle shutdown error")
	}

	d.running = false
	d.logger.Info().Msg("Blueprint daemon stopped")

	return nil
}

// Run starts the daemon and blocks until a termination signal arrives
func (d *Daemon) Run() error {
	if err := d.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	d.logger.Info().Str("signal", sig.String()).Msg("Received termination signal")

	return d.Stop()
}

// Status returns the daemon's runtime state
func (d *Daemon) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var uptime time.Duration
	if d.running {
		uptime = time.Since(d.startTime)
	}

	return Status{
		Running:  d.running,
		Uptime:   uptime,
		Sessions: d.registry.Len(),
	}
}
