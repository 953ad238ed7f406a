package page

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/vocabharvest/internal/logger"
)

// Snapshot is an Adapter over static HTML, e.g. a page saved from the browser
// after expanding it by hand. It cannot click anything.
type Snapshot struct {
	doc       *goquery.Document
	selectors Selectors
	cards     *goquery.Selection
	warned    bool
}

// NewSnapshot parses HTML from r.
func NewSnapshot(r io.Reader, sel Selectors) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &Snapshot{doc: doc, selectors: sel.WithDefaults()}, nil
}

// ParseSnapshot parses an HTML string.
func ParseSnapshot(html string, sel Selectors) (*Snapshot, error) {
	return NewSnapshot(strings.NewReader(html), sel)
}

// FindExpandControl never reports a control, since a snapshot cannot load
// more content. A visible expand control is logged once so a partially
// expanded snapshot does not go unnoticed.
func (s *Snapshot) FindExpandControl(ctx context.Context) (Control, bool, error) {
	if s.doc == nil {
		return Control{}, false, ErrNoDocument
	}
	if s.warned {
		return Control{}, false, nil
	}

	var label string
	s.doc.Find(s.selectors.ExpandTag).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if HasExpandLabel(el.Text(), s.selectors.ExpandLabel) {
			label = CleanText(el.Text())
			return false
		}
		return true
	})
	if label != "" {
		s.warned = true
		logger.Warn("snapshot still contains an expand control; some cards may be missing, use dynamic mode to reveal them",
			"label", label)
	}
	return Control{}, false, nil
}

// Activate always fails for snapshots.
func (s *Snapshot) Activate(ctx context.Context, c Control) error {
	return fmt.Errorf("activate %q: %w", c.Label, ErrNotInteractive)
}

// ListCards returns the cards matching the card selector.
func (s *Snapshot) ListCards(ctx context.Context) ([]Card, error) {
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	s.cards = s.doc.Find(s.selectors.Card)
	cards := make([]Card, s.cards.Length())
	for i := range cards {
		cards[i] = Card{Index: i}
	}
	return cards, nil
}

// CardFields returns the trimmed texts of the card's text elements.
func (s *Snapshot) CardFields(ctx context.Context, c Card) ([]string, error) {
	if s.cards == nil || c.Index < 0 || c.Index >= s.cards.Length() {
		return nil, fmt.Errorf("card %d: %w", c.Index, ErrUnknownCard)
	}
	var fields []string
	s.cards.Eq(c.Index).Find(s.selectors.Text).Each(func(_ int, el *goquery.Selection) {
		fields = append(fields, CleanText(el.Text()))
	})
	return fields, nil
}
