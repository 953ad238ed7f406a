package reveal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jmylchreest/vocabharvest/internal/logger"
	"github.com/jmylchreest/vocabharvest/internal/page"
)

// scriptedPage reports the control as present for the first n checks.
type scriptedPage struct {
	present     int
	checks      int
	activations int
	findErr     error
	activateErr error
}

func (p *scriptedPage) FindExpandControl(ctx context.Context) (page.Control, bool, error) {
	p.checks++
	if p.findErr != nil {
		return page.Control{}, false, p.findErr
	}
	if p.checks > p.present {
		return page.Control{}, false, nil
	}
	return page.Control{Token: "btn", Label: "Show more"}, true, nil
}

func (p *scriptedPage) Activate(ctx context.Context, c page.Control) error {
	if p.activateErr != nil {
		return p.activateErr
	}
	p.activations++
	return nil
}

func newTestRevealer(cfg Config) (*Revealer, *[]time.Duration) {
	r := New(cfg)
	var slept []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return r, &slept
}

func TestRun_ActivatesExactlyN(t *testing.T) {
	for _, n := range []int{0, 1, 3, 25} {
		p := &scriptedPage{present: n}
		r, slept := newTestRevealer(Config{Delay: 10 * time.Millisecond})

		got, err := r.Run(context.Background(), p)
		if err != nil {
			t.Fatalf("n=%d: Run() error = %v", n, err)
		}
		if got != n || p.activations != n {
			t.Errorf("n=%d: expected %d activations, got %d (page saw %d)", n, n, got, p.activations)
		}
		// One check per activation plus the final absent one; no polling after.
		if p.checks != n+1 {
			t.Errorf("n=%d: expected %d checks, got %d", n, n+1, p.checks)
		}
		if len(*slept) != n {
			t.Errorf("n=%d: expected %d waits, got %d", n, n, len(*slept))
		}
		for _, d := range *slept {
			if d != 10*time.Millisecond {
				t.Errorf("unexpected delay %v", d)
			}
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	r := New(Config{})
	if r.config.Delay != 800*time.Millisecond {
		t.Errorf("expected default delay 800ms, got %v", r.config.Delay)
	}
	if r.config.WarnEvery != 50 {
		t.Errorf("expected default WarnEvery 50, got %d", r.config.WarnEvery)
	}
}

func TestRun_FindError(t *testing.T) {
	boom := errors.New("cdp gone")
	r, _ := newTestRevealer(Config{})
	n, err := r.Run(context.Background(), &scriptedPage{present: 5, findErr: boom})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped find error, got %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 activations, got %d", n)
	}
}

func TestRun_ActivateError(t *testing.T) {
	r, _ := newTestRevealer(Config{})
	_, err := r.Run(context.Background(), &scriptedPage{present: 2, activateErr: page.ErrNotInteractive})
	if !errors.Is(err, page.ErrNotInteractive) {
		t.Errorf("expected ErrNotInteractive, got %v", err)
	}
	if !strings.Contains(err.Error(), "Show more") {
		t.Errorf("expected control label in error, got %v", err)
	}
}

func TestRun_ContextCanceledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &scriptedPage{present: 1 << 30}
	r := New(Config{Delay: time.Hour})
	r.sleep = func(ctx context.Context, d time.Duration) error {
		if p.activations == 3 {
			cancel()
		}
		return sleepContext(ctx, time.Millisecond)
	}

	n, err := r.Run(ctx, p)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 activations before cancel, got %d", n)
	}
}

func TestRun_WarnsOnLongRuns(t *testing.T) {
	buf := &bytes.Buffer{}
	logger.Init(logger.Options{Output: buf})
	defer logger.Init(logger.Options{})

	r, _ := newTestRevealer(Config{WarnEvery: 2})
	if _, err := r.Run(context.Background(), &scriptedPage{present: 5}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "page keeps offering more content"); got != 2 {
		t.Errorf("expected 2 warnings for 5 activations, got %d:\n%s", got, buf.String())
	}
}

func TestSleepContext(t *testing.T) {
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
