package vocab

import (
	"context"
	"fmt"

	"github.com/jmylchreest/vocabharvest/internal/logger"
	"github.com/jmylchreest/vocabharvest/internal/page"
)

// Source is the read-only part of page.Adapter the extractor needs.
type Source interface {
	ListCards(ctx context.Context) ([]page.Card, error)
	CardFields(ctx context.Context, c page.Card) ([]string, error)
}

// Stats counts what happened to each card. It never affects the output.
type Stats struct {
	Cards     int `json:"cards"`
	Malformed int `json:"malformed"`
	Accepted  int `json:"accepted"`
	Empty     int `json:"rejected_empty"`
	Noise     int `json:"rejected_noise"`
	TooLong   int `json:"rejected_too_long"`
}

// Rejected returns the number of well-formed cards that failed Accept.
func (s Stats) Rejected() int {
	return s.Empty + s.Noise + s.TooLong
}

func (s *Stats) record(r Reason) {
	switch r {
	case Accepted:
		s.Accepted++
	case RejectEmpty:
		s.Empty++
	case RejectNoise:
		s.Noise++
	case RejectTooLong:
		s.TooLong++
	}
}

// Extract reads every card and keeps the pairs that pass Accept.
// The first text of a card is the source, the second the target; cards with
// fewer than two texts are skipped.
func Extract(ctx context.Context, src Source) (Table, Stats, error) {
	log := logger.Component("extract")

	var (
		table Table
		stats Stats
	)

	cards, err := src.ListCards(ctx)
	if err != nil {
		return table, stats, fmt.Errorf("list cards: %w", err)
	}
	stats.Cards = len(cards)

	for _, card := range cards {
		if err := ctx.Err(); err != nil {
			return table, stats, err
		}

		fields, err := src.CardFields(ctx, card)
		if err != nil {
			return table, stats, fmt.Errorf("read card %d: %w", card.Index, err)
		}
		if len(fields) < 2 {
			stats.Malformed++
			log.Debug("card skipped", "card", card.Index, "fields", len(fields))
			continue
		}

		source, target := page.CleanText(fields[0]), page.CleanText(fields[1])
		reason := Accept(source, target)
		stats.record(reason)
		if reason != Accepted {
			log.Debug("pair rejected", "card", card.Index, "reason", reason.String(), "source", source)
			continue
		}
		table.Pairs = append(table.Pairs, Pair{Source: source, Target: target})
	}

	log.Debug("extraction complete",
		"cards", stats.Cards,
		"accepted", stats.Accepted,
		"rejected", stats.Rejected(),
		"malformed", stats.Malformed)

	return table, stats, nil
}
