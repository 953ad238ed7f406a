package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/vocabharvest/internal/logger"
	"github.com/jmylchreest/vocabharvest/internal/page"
)

// ErrStaleControl indicates the control disappeared between finding and activating it.
var ErrStaleControl = errors.New("expand control no longer in the document")

// Adapter implements page.Adapter against the session's live DOM.
type Adapter struct {
	session   *Session
	selectors page.Selectors
	cards     [][]string
}

var _ page.Adapter = (*Adapter)(nil)

type expandResult struct {
	Found bool   `json:"found"`
	Token string `json:"token"`
	Label string `json:"label"`
}

// FindExpandControl finds the first control whose label contains the marker.
func (a *Adapter) FindExpandControl(ctx context.Context) (page.Control, bool, error) {
	var res expandResult
	js := findExpandScript(a.selectors.ExpandTag, a.selectors.ExpandLabel)
	if err := a.session.run(ctx, chromedp.Evaluate(js, &res)); err != nil {
		return page.Control{}, false, err
	}
	if !res.Found {
		return page.Control{}, false, nil
	}
	return page.Control{Token: res.Token, Label: res.Label}, true, nil
}

// Activate clicks the control found by FindExpandControl.
func (a *Adapter) Activate(ctx context.Context, c page.Control) error {
	var clicked bool
	if err := a.session.run(ctx, chromedp.Evaluate(activateScript(c.Token), &clicked)); err != nil {
		return err
	}
	if !clicked {
		return ErrStaleControl
	}
	return nil
}

// ListCards reads every card's texts in one round trip and caches them for CardFields.
func (a *Adapter) ListCards(ctx context.Context) ([]page.Card, error) {
	var texts [][]string
	js := cardsScript(a.selectors.Card, a.selectors.Text)
	if err := a.session.run(ctx, chromedp.Evaluate(js, &texts)); err != nil {
		return nil, fmt.Errorf("read cards: %w", err)
	}
	a.cards = texts
	logger.Debug("cards listed", "count", len(texts))

	cards := make([]page.Card, len(texts))
	for i := range cards {
		cards[i] = page.Card{Index: i}
	}
	return cards, nil
}

// CardFields returns the texts read by the last ListCards.
func (a *Adapter) CardFields(ctx context.Context, c page.Card) ([]string, error) {
	if c.Index < 0 || c.Index >= len(a.cards) {
		return nil, fmt.Errorf("card %d: %w", c.Index, page.ErrUnknownCard)
	}
	return a.cards[c.Index], nil
}
