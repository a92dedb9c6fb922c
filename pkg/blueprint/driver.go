package blueprint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danish/blueprint/pkg/llm"
	"github.com/danish/blueprint/pkg/prompt"
	"github.com/danish/blueprint/pkg/registry"
	"github.com/rs/zerolog"
)

const (
	// DefaultSlotTimeout bounds one LLM call for one document slot
	DefaultSlotTimeout = 120 * time.Second

	// DefaultRetryWait is the single bounded wait before the one retry
	// allowed for retryable provider errors
	DefaultRetryWait = 2 * time.Second
)

// Observer receives driver events, typically for metrics
type Observer interface {
	SlotGenerated(slot string, duration time.Duration)
	SlotFailed(slot, reason string)
	GenerationFinished(status registry.Status)
}

// Config holds driver tunables
type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int
	SlotTimeout time.Duration
	RetryWait   time.Duration
}

// Driver produces one blueprint: it renders each slot's prompt,
// delegates to the text-generation provider, and writes results into
// the session registry as they arrive. Exactly one driver runs per
// session id.
type Driver struct {
	registry *registry.Registry
	provider llm.Provider
	prompts  *prompt.Library
	cfg      Config
	logger   zerolog.Logger
	observer Observer
}

// NewDriver creates a generation driver
func NewDriver(reg *registry.Registry, provider llm.Provider, prompts *prompt.Library, cfg Config, logger zerolog.Logger) *Driver {
	if cfg.SlotTimeout <= 0 {
		cfg.SlotTimeout = DefaultSlotTimeout
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = DefaultRetryWait
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 8192
	}

	return &Driver{
		registry: reg,
		provider: provider,
		prompts:  prompts,
		cfg:      cfg,
		logger:   logger,
	}
}

// SetObserver attaches a driver observer
func (d *Driver) SetObserver(o Observer) {
	d.observer = o
}

// NewSession creates a registry session pre-populated with the slot list
func (d *Driver) NewSession(idea string) string {
	return d.registry.Create(idea, SlotFilenames())
}

// Run executes the full generation sequence for one session. The
// session must have been created by NewSession. Run returns an error
// only when the run terminates early; a completed run with fallback
// substitutions still returns nil.
func (d *Driver) Run(ctx context.Context, sessionID, idea string) error {
	logger := d.logger.With().Str("session_id", sessionID).Logger()

	if err := d.registry.SetStatus(sessionID, registry.StatusRunning); err != nil {
		return d.abandon(logger, sessionID, err)
	}
	_ = d.registry.AppendLog(sessionID, "Starting blueprint generation", registry.LogLevelInfo)

	documents := make(map[string]string, len(slots))
	progress := 0
	phase := ""

	for _, slot := range slots {
		if slot.Phase != phase {
			phase = slot.Phase
			_ = d.registry.AppendLog(sessionID, fmt.Sprintf("Starting %s phase", phase), registry.LogLevelInfo)
		}
		if err := d.registry.UpdateProgress(sessionID, progress, phase); err != nil {
			return d.abandon(logger, sessionID, err)
		}

		var content string
		if slot.Local {
			content = d.composeOverview(idea, documents)
		} else {
			text, err := d.generateSlot(ctx, sessionID, slot, idea, documents)
			if err != nil {
				reason := classifyFailure(err)
				if d.observer != nil {
					d.observer.SlotFailed(slot.Filename, reason)
				}
				_ = d.registry.AppendLog(sessionID,
					fmt.Sprintf("%s generation failed (%s): %v", slot.Title, reason, err),
					registry.LogLevelError)

				if slot.Required {
					logger.Error().Err(err).Str("slot", slot.Filename).Msg("Required slot failed, aborting run")
					_ = d.registry.SetStatus(sessionID, registry.StatusFailed)
					_ = d.registry.AppendLog(sessionID, "Generation failed", registry.LogLevelError)
					if d.observer != nil {
						d.observer.GenerationFinished(registry.StatusFailed)
					}
					return fmt.Errorf("required slot %s failed: %w", slot.Filename, err)
				}

				logger.Warn().Err(err).Str("slot", slot.Filename).Msg("Optional slot failed, using fallback")
				content = fallbackText(slot)
				_ = d.registry.AppendLog(sessionID,
					fmt.Sprintf("Substituted fallback content for %s", slot.Filename),
					registry.LogLevelWarn)
			} else {
				content = text
			}
		}

		if err := d.registry.UpdateFile(sessionID, slot.Filename, content); err != nil {
			return d.abandon(logger, sessionID, err)
		}
		documents[slot.Filename] = content

		progress += slot.Share
		if err := d.registry.UpdateProgress(sessionID, progress, phase); err != nil {
			return d.abandon(logger, sessionID, err)
		}
		_ = d.registry.AppendLog(sessionID, fmt.Sprintf("%s complete", slot.Title), registry.LogLevelInfo)
	}

	_ = d.registry.SetStatus(sessionID, registry.StatusCompleted)
	_ = d.registry.AppendLog(sessionID, "Blueprint generation complete", registry.LogLevelSuccess)
	if d.observer != nil {
		d.observer.GenerationFinished(registry.StatusCompleted)
	}

	logger.Info().Msg("Blueprint generation complete")
	return nil
}

// generateSlot renders the slot prompt and calls the provider with a
// per-slot timeout. One retry is allowed for retryable errors, after a
// single bounded wait.
func (d *Driver) generateSlot(ctx context.Context, sessionID string, slot Slot, idea string, documents map[string]string) (string, error) {
	promptText, err := d.prompts.Render(slot.Filename, prompt.Data{
		Idea:      idea,
		Documents: documents,
	})
	if err != nil {
		return "", err
	}

	_ = d.registry.AppendLog(sessionID, fmt.Sprintf("Generating %s...", slot.Title), registry.LogLevelInfo)

	start := time.Now()
	text, err := d.callProvider(ctx, promptText)
	if err != nil && llm.IsRetryableError(err) {
		d.logger.Warn().Err(err).Str("slot", slot.Filename).Msg("Retryable provider error, retrying once")
		select {
		case <-time.After(d.cfg.RetryWait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		text, err = d.callProvider(ctx, promptText)
	}
	if err != nil {
		return "", err
	}

	if d.observer != nil {
		d.observer.SlotGenerated(slot.Filename, time.Since(start))
	}
	return text, nil
}

// callProvider performs one bounded provider call
func (d *Driver) callProvider(ctx context.Context, promptText string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, d.cfg.SlotTimeout)
	defer cancel()

	resp, err := d.provider.Generate(callCtx, llm.Request{
		Model:       d.cfg.Model,
		Prompt:      promptText,
		Temperature: d.cfg.Temperature,
		MaxTokens:   d.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// abandon handles registry errors mid-run. An evicted session is a
// normal outcome for an abandoned run: log and stop without failing
// anything else.
func (d *Driver) abandon(logger zerolog.Logger, sessionID string, err error) error {
	if errors.Is(err, registry.ErrSessionNotFound) {
		logger.Debug().Msg("Session evicted mid-run, abandoning generation")
		return nil
	}
	return fmt.Errorf("registry write failed for session %s: %w", sessionID, err)
}

// composeOverview builds the overview document locally from the run's
// results; no LLM call is involved.
func (d *Driver) composeOverview(idea string, documents map[string]string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Project Overview: %s\n\n", idea)
	sb.WriteString("## Generated Documents\n\n")

	n := 0
	for _, slot := range slots {
		if slot.Local {
			continue
		}
		n++
		status := "generated"
		if content, ok := documents[slot.Filename]; !ok || content == "" {
			status = "unavailable"
		} else if strings.Contains(content, fallbackMarker) {
			status = "fallback"
		}
		fmt.Fprintf(&sb, "%d. **%s** (`%s`) - %s\n", n, slot.Title, slot.Filename, status)
	}

	fmt.Fprintf(&sb, "\n**Generated:** %s\n", time.Now().Format("2006-01-02 15:04:05"))
	return sb.String()
}

const fallbackMarker = "could not be generated"

// fallbackText is the predetermined substitute for a failed optional slot
func fallbackText(slot Slot) string {
	return fmt.Sprintf("# %s\n\n_This document %s. See the session log for details._\n",
		slot.Title, fallbackMarker)
}

// classifyFailure maps a provider error to a log/metric reason
func classifyFailure(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "provider_error"
}
