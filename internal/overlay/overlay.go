// Package overlay presents the harvested CSV in a dismissible panel with
// copy and close controls.
//
// A Panel is opened once by Presenter.Show and ends in the closed state after
// Close; it is never reopened. Where the panel is drawn is up to the Surface:
// injected into the live page, or printed to a terminal.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jmylchreest/vocabharvest/internal/logger"
)

// Panel labels.
const (
	Title           = "Preply Vocab CSV"
	CopyLabel       = "Copy to clipboard"
	CopiedLabel     = "Copied!"
	ManualCopyLabel = "Select + copy manually"
	CloseLabel      = "Close"
)

var (
	// ErrClosed is returned by actions on a panel that has been closed.
	ErrClosed = errors.New("panel closed")
	// ErrClipboardUnavailable indicates no clipboard can be written in this environment.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
)

// View is what a Surface draws.
type View struct {
	Title       string
	DisplayText string // CSV with "<" escaped, safe to place inside markup
	CopyLabel   string
	CloseLabel  string
}

// Surface draws and removes the panel.
type Surface interface {
	// Mount attaches the panel above all other content.
	Mount(ctx context.Context, v View) error
	// SetCopyLabel changes the copy control's label.
	SetCopyLabel(ctx context.Context, label string) error
	// SelectAll selects the full content of the text field.
	SelectAll(ctx context.Context) error
	// Unmount removes the whole panel.
	Unmount(ctx context.Context) error
}

// Clipboard writes plain text to a clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// EscapeDisplay replaces every "<" with "&lt;" so the text cannot be read as markup.
func EscapeDisplay(s string) string {
	return strings.ReplaceAll(s, "<", "&lt;")
}

// Presenter opens panels on a surface.
type Presenter struct {
	surface   Surface
	clipboard Clipboard
}

// New creates a Presenter. A nil clipboard makes every copy fall back to manual selection.
func New(surface Surface, clipboard Clipboard) *Presenter {
	return &Presenter{surface: surface, clipboard: clipboard}
}

// Show mounts a panel holding csv and selects its text.
func (p *Presenter) Show(ctx context.Context, csv string) (*Panel, error) {
	view := View{
		Title:       Title,
		DisplayText: EscapeDisplay(csv),
		CopyLabel:   CopyLabel,
		CloseLabel:  CloseLabel,
	}
	if err := p.surface.Mount(ctx, view); err != nil {
		return nil, fmt.Errorf("mount panel: %w", err)
	}
	if err := p.surface.SelectAll(ctx); err != nil {
		return nil, fmt.Errorf("select panel text: %w", err)
	}
	logger.Debug("panel shown", "bytes", len(csv))

	return &Panel{
		csv:       csv,
		view:      view,
		label:     CopyLabel,
		surface:   p.surface,
		clipboard: p.clipboard,
		done:      make(chan struct{}),
	}, nil
}

// Panel is one open overlay.
type Panel struct {
	mu        sync.Mutex
	csv       string
	view      View
	label     string
	closed    bool
	surface   Surface
	clipboard Clipboard
	done      chan struct{}
}

// Text returns the unescaped CSV.
func (p *Panel) Text() string { return p.csv }

// View returns what was mounted.
func (p *Panel) View() View { return p.view }

// Label returns the copy control's current label.
func (p *Panel) Label() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.label
}

// Copy writes the unescaped CSV to the clipboard. A clipboard failure is not
// an error: the text is re-selected and the label asks for a manual copy.
func (p *Panel) Copy(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	label := CopiedLabel
	if err := p.writeClipboard(ctx); err != nil {
		logger.Debug("clipboard write failed, falling back to manual copy", "error", err)
		if err := p.surface.SelectAll(ctx); err != nil {
			return fmt.Errorf("reselect panel text: %w", err)
		}
		label = ManualCopyLabel
	}

	if err := p.surface.SetCopyLabel(ctx, label); err != nil {
		return fmt.Errorf("set copy label: %w", err)
	}
	p.label = label
	return nil
}

func (p *Panel) writeClipboard(ctx context.Context) error {
	if p.clipboard == nil {
		return ErrClipboardUnavailable
	}
	return p.clipboard.WriteText(ctx, p.csv)
}

// Close removes the panel. It is the panel's terminal state.
func (p *Panel) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if err := p.surface.Unmount(ctx); err != nil {
		return fmt.Errorf("unmount panel: %w", err)
	}
	p.closed = true
	close(p.done)
	logger.Debug("panel closed")
	return nil
}

// Closed reports whether Close has completed.
func (p *Panel) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Done is closed once the panel is closed.
func (p *Panel) Done() <-chan struct{} { return p.done }

// Action is a user interaction with an open panel.
type Action int

const (
	ActionCopy Action = iota + 1
	ActionClose
)

func (a Action) String() string {
	switch a {
	case ActionCopy:
		return "copy"
	case ActionClose:
		return "close"
	default:
		return "unknown"
	}
}

// ParseAction maps a control name to an Action.
func ParseAction(s string) (Action, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy", "c", "y":
		return ActionCopy, true
	case "close", "q", "x":
		return ActionClose, true
	}
	return 0, false
}

// Serve applies actions to p until the panel is closed, actions ends, or ctx is done.
func Serve(ctx context.Context, p *Panel, actions <-chan Action) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case a, ok := <-actions:
			if !ok {
				return nil
			}
			logger.Debug("panel action", "action", a.String())
			switch a {
			case ActionCopy:
				if err := p.Copy(ctx); err != nil {
					return err
				}
			case ActionClose:
				return p.Close(ctx)
			}
		}
	}
}
