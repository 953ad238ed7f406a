// Package reveal expands a vocabulary page until every card is in the document.
package reveal

import (
	"context"
	"fmt"
	"time"

	"github.com/jmylchreest/vocabharvest/internal/logger"
	"github.com/jmylchreest/vocabharvest/internal/page"
)

// Expander is the part of page.Adapter the Revealer needs.
type Expander interface {
	FindExpandControl(ctx context.Context) (page.Control, bool, error)
	Activate(ctx context.Context, c page.Control) error
}

// Config controls the reveal loop.
type Config struct {
	// Delay is the pause after each activation that lets the page insert
	// the new cards (default: 800ms).
	Delay time.Duration

	// WarnEvery logs a warning after this many activations (default: 50).
	// The loop itself is never capped; cancel ctx to abandon it.
	WarnEvery int
}

// DefaultConfig returns the delay the vocabulary page needs in practice.
func DefaultConfig() Config {
	return Config{
		Delay:     800 * time.Millisecond,
		WarnEvery: 50,
	}
}

// Revealer repeatedly activates the expand control until it disappears.
type Revealer struct {
	config Config
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a Revealer, filling zero fields from DefaultConfig.
func New(cfg Config) *Revealer {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultConfig().Delay
	}
	if cfg.WarnEvery <= 0 {
		cfg.WarnEvery = DefaultConfig().WarnEvery
	}
	return &Revealer{config: cfg, sleep: sleepContext}
}

// Run activates the expand control until none is found and returns the
// number of activations. Absence of the control is normal termination.
func (r *Revealer) Run(ctx context.Context, e Expander) (int, error) {
	log := logger.Component("reveal")
	activations := 0

	for {
		control, ok, err := e.FindExpandControl(ctx)
		if err != nil {
			return activations, fmt.Errorf("find expand control: %w", err)
		}
		if !ok {
			log.Debug("no expand control left", "activations", activations)
			return activations, nil
		}

		if err := e.Activate(ctx, control); err != nil {
			return activations, fmt.Errorf("activate %q: %w", control.Label, err)
		}
		activations++
		log.Debug("expand control activated", "label", control.Label, "activations", activations)

		if activations%r.config.WarnEvery == 0 {
			log.Warn("page keeps offering more content; cancel if this does not end",
				"activations", activations)
		}

		if err := r.sleep(ctx, r.config.Delay); err != nil {
			return activations, err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
