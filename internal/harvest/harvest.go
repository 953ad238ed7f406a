// Package harvest runs the reveal and extraction phases against one page and
// hands back the finished CSV document.
package harvest

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/vocabharvest/internal/logger"
	"github.com/jmylchreest/vocabharvest/internal/page"
	"github.com/jmylchreest/vocabharvest/internal/reveal"
	"github.com/jmylchreest/vocabharvest/internal/vocab"
)

// Config controls a harvest.
type Config struct {
	// Delay after each expand activation. Zero uses the reveal default.
	Delay time.Duration `validate:"gte=0"`

	// WarnEvery activations a warning is logged. Zero uses the reveal default.
	WarnEvery int `validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid harvest config: %w", err)
	}
	return nil
}

// Result is the outcome of one harvest.
type Result struct {
	Table       vocab.Table
	CSV         string
	Stats       vocab.Stats
	Activations int
	Duration    time.Duration
}

// Harvester reveals a page fully, then extracts and encodes its pairs.
type Harvester struct {
	revealer *reveal.Revealer
}

// New creates a Harvester.
func New(cfg Config) (*Harvester, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Harvester{
		revealer: reveal.New(reveal.Config{Delay: cfg.Delay, WarnEvery: cfg.WarnEvery}),
	}, nil
}

// Run reveals every card on p, extracts the accepted pairs and encodes them.
// Extraction only starts once the reveal phase has finished.
func (h *Harvester) Run(ctx context.Context, p page.Adapter) (*Result, error) {
	start := time.Now()
	log := logger.Component("harvest")

	activations, err := h.revealer.Run(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("reveal: %w", err)
	}

	table, stats, err := vocab.Extract(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	result := &Result{
		Table:       table,
		CSV:         vocab.EncodeCSV(table),
		Stats:       stats,
		Activations: activations,
		Duration:    time.Since(start),
	}

	log.Info("harvest complete",
		"pairs", table.Len(),
		"cards", stats.Cards,
		"activations", activations,
		"size", humanize.Bytes(uint64(len(result.CSV))),
		"duration", result.Duration.Round(time.Millisecond))
	if stats.Rejected() > 0 || stats.Malformed > 0 {
		log.Debug("cards dropped",
			"empty", stats.Empty,
			"noise", stats.Noise,
			"too_long", stats.TooLong,
			"malformed", stats.Malformed)
	}

	return result, nil
}
