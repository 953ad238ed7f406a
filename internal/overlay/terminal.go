package overlay

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
)

// TerminalSurface draws the panel on a terminal. Selection has no terminal
// equivalent and is a no-op.
type TerminalSurface struct {
	w       io.Writer
	title   *color.Color
	control *color.Color
	dim     *color.Color
	mounted bool
}

// NewTerminalSurface writes to w. Colours follow fatih/color's NO_COLOR and tty detection.
func NewTerminalSurface(w io.Writer) *TerminalSurface {
	return &TerminalSurface{
		w:       w,
		title:   color.New(color.Bold, color.FgCyan),
		control: color.New(color.FgHiWhite, color.BgHiBlack),
		dim:     color.New(color.Faint),
	}
}

// Mount prints the panel.
func (s *TerminalSurface) Mount(ctx context.Context, v View) error {
	rule := strings.Repeat("─", 48)
	if _, err := fmt.Fprintln(s.w, s.dim.Sprint(rule)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(s.w, s.title.Sprint(v.Title)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(s.w, v.DisplayText); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "%s %s\n", s.control.Sprintf("[ %s ]", v.CopyLabel), s.control.Sprintf("[ %s ]", v.CloseLabel)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(s.w, s.dim.Sprint(rule))
	s.mounted = err == nil
	return err
}

// SetCopyLabel prints the new label of the copy control.
func (s *TerminalSurface) SetCopyLabel(ctx context.Context, label string) error {
	_, err := fmt.Fprintln(s.w, s.control.Sprintf("[ %s ]", label))
	return err
}

// SelectAll does nothing on a terminal.
func (s *TerminalSurface) SelectAll(ctx context.Context) error { return nil }

// Unmount prints a dismissal line.
func (s *TerminalSurface) Unmount(ctx context.Context) error {
	if !s.mounted {
		return nil
	}
	s.mounted = false
	_, err := fmt.Fprintln(s.w, s.dim.Sprint("panel closed"))
	return err
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteText copies text, failing with ErrClipboardUnavailable when no
// clipboard tool (pbcopy, xclip, xsel, wl-copy, ...) is present.
func (SystemClipboard) WriteText(ctx context.Context, text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("system clipboard: %w", err)
	}
	return nil
}

// ReadActions turns lines read from r ("c"/"copy", "q"/"close") into actions.
// The channel is closed when r is exhausted or ctx is done.
func ReadActions(ctx context.Context, r io.Reader) <-chan Action {
	actions := make(chan Action)
	go func() {
		defer close(actions)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			a, ok := ParseAction(scanner.Text())
			if !ok {
				continue
			}
			select {
			case actions <- a:
			case <-ctx.Done():
				return
			}
		}
	}()
	return actions
}
