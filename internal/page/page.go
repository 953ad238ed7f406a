// Package page isolates everything that depends on the host page's markup.
//
// The harvest phases only talk to an Adapter. Supporting a new version of the
// vocabulary page means supplying new Selectors or a new Adapter, never editing
// the reveal or extraction logic.
package page

import (
	"context"
	"errors"
	"strings"
)

// Error types returned by adapters.
var (
	// ErrNoDocument indicates the adapter has no document to operate on.
	ErrNoDocument = errors.New("no document loaded")
	// ErrNotInteractive indicates the adapter cannot trigger page controls.
	ErrNotInteractive = errors.New("document is not interactive")
	// ErrUnknownCard indicates a Card that was not produced by the adapter's last ListCards.
	ErrUnknownCard = errors.New("unknown card")
)

// Control is a handle to an activatable "load more" element.
type Control struct {
	Token string // Adapter-specific reference
	Label string // Trimmed visible label
}

// Card is a handle to one vocabulary entry container.
type Card struct {
	Index int
}

// Adapter is the full contract a host page must satisfy.
type Adapter interface {
	// FindExpandControl returns the first control whose label contains the
	// expand marker. ok is false when no such control exists.
	FindExpandControl(ctx context.Context) (c Control, ok bool, err error)

	// Activate triggers the control's primary action.
	Activate(ctx context.Context, c Control) error

	// ListCards returns every card currently in the document, in document order.
	ListCards(ctx context.Context) ([]Card, error)

	// CardFields returns the trimmed texts of the card's text elements, in document order.
	CardFields(ctx context.Context, c Card) ([]string, error)
}

// CleanText trims the surrounding whitespace of an element's text, matching
// what a browser reports for innerText of a single paragraph.
func CleanText(s string) string {
	return strings.TrimSpace(s)
}

// HasExpandLabel reports whether a control's visible text carries the marker.
func HasExpandLabel(text, marker string) bool {
	return strings.Contains(CleanText(text), marker)
}
