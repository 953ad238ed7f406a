package browser

import (
	"context"
	"errors"
	"fmt"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/vocabharvest/internal/logger"
	"github.com/jmylchreest/vocabharvest/internal/overlay"
)

// bindingName is the window function the panel's buttons call.
const bindingName = "__vocabharvestAction"

// OverlaySurface draws the panel inside the live page. Clicks on its buttons
// come back through a DevTools runtime binding and are delivered on Actions.
type OverlaySurface struct {
	session *Session
	actions chan overlay.Action
	bound   bool
}

var _ overlay.Surface = (*OverlaySurface)(nil)

func newOverlaySurface(s *Session) *OverlaySurface {
	return &OverlaySurface{
		session: s,
		actions: make(chan overlay.Action, 8),
	}
}

// Actions delivers the button clicks made in the page.
func (o *OverlaySurface) Actions() <-chan overlay.Action {
	return o.actions
}

// Mount injects the panel markup and wires its buttons.
func (o *OverlaySurface) Mount(ctx context.Context, v overlay.View) error {
	markup, err := overlay.Markup(v)
	if err != nil {
		return fmt.Errorf("render panel: %w", err)
	}

	if !o.bound {
		if err := o.bind(ctx); err != nil {
			return err
		}
	}

	var ok bool
	js := mountScript(markup, bindingName, overlay.CopyButtonID, overlay.CloseButtonID)
	if err := o.session.run(ctx, chromedp.Evaluate(js, &ok)); err != nil {
		return err
	}
	return nil
}

// bind registers the runtime binding and forwards its calls to actions.
// Events arrive on chromedp's listener goroutine, which must never block.
func (o *OverlaySurface) bind(ctx context.Context) error {
	chromedp.ListenTarget(o.session.tabCtx, func(ev any) {
		called, ok := ev.(*runtime.EventBindingCalled)
		if !ok || called.Name != bindingName {
			return
		}
		action, ok := overlay.ParseAction(called.Payload)
		if !ok {
			logger.Debug("unknown panel action", "payload", called.Payload)
			return
		}
		select {
		case o.actions <- action:
		default:
			logger.Debug("panel action dropped", "action", action.String())
		}
	})

	if err := o.session.run(ctx, runtime.AddBinding(bindingName)); err != nil {
		return fmt.Errorf("add runtime binding: %w", err)
	}
	o.bound = true
	return nil
}

// SetCopyLabel changes the copy button's text.
func (o *OverlaySurface) SetCopyLabel(ctx context.Context, label string) error {
	return o.evalTrue(ctx, setTextScript(overlay.CopyButtonID, label))
}

// SelectAll focuses and selects the textarea.
func (o *OverlaySurface) SelectAll(ctx context.Context) error {
	return o.evalTrue(ctx, selectScript(overlay.TextAreaID))
}

// Unmount removes the panel container from the page.
func (o *OverlaySurface) Unmount(ctx context.Context) error {
	return o.evalTrue(ctx, unmountScript)
}

var errPanelMissing = errors.New("panel not found in page")

func (o *OverlaySurface) evalTrue(ctx context.Context, js string) error {
	var ok bool
	if err := o.session.run(ctx, chromedp.Evaluate(js, &ok)); err != nil {
		return err
	}
	if !ok {
		return errPanelMissing
	}
	return nil
}

// PageClipboard writes through the page's navigator.clipboard, like a user
// pressing the copy button would.
type PageClipboard struct {
	session *Session
	granted bool
}

var _ overlay.Clipboard = (*PageClipboard)(nil)

// WriteText grants clipboard permission to the page origin on first use and
// awaits navigator.clipboard.writeText.
func (c *PageClipboard) WriteText(ctx context.Context, text string) error {
	if !c.granted {
		c.grant(ctx)
	}

	var ok bool
	err := c.session.run(ctx, chromedp.Evaluate(clipboardScript(text), &ok,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true).WithUserGesture(true)
		}))
	if err != nil {
		return fmt.Errorf("page clipboard: %w", err)
	}
	return nil
}

// grant is best-effort: without it writeText may still succeed in a headful,
// focused browser.
func (c *PageClipboard) grant(ctx context.Context) {
	var origin string
	if err := c.session.run(ctx, chromedp.Evaluate(`location.origin`, &origin)); err != nil {
		return
	}
	err := c.session.run(ctx, cdpbrowser.GrantPermissions([]cdpbrowser.PermissionType{
		cdpbrowser.PermissionTypeClipboardReadWrite,
		cdpbrowser.PermissionTypeClipboardSanitizedWrite,
	}).WithOrigin(origin))
	if err != nil {
		logger.Debug("clipboard permission not granted", "origin", origin, "error", err)
		return
	}
	c.granted = true
}
