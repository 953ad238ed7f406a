package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/vocabharvest/internal/overlay"
	"github.com/jmylchreest/vocabharvest/internal/page"
)

// lazyPage renders one card and reveals two more per "Show more" click,
// removing the button once everything is shown.
const lazyPage = `<!doctype html>
<html><body>
<div id="list">
  <div class="card"><p class="t">uno</p><p class="t">one</p></div>
</div>
<button id="more"><span>Show more</span></button>
<script>
const words = [["dos","two"],["tres","three"],["cuatro","four"],["Practice now","x"]];
let next = 0;
document.getElementById('more').addEventListener('click', () => {
  for (let i = 0; i < 2 && next < words.length; i++, next++) {
    const card = document.createElement('div');
    card.className = 'card';
    card.innerHTML = '<p class="t"></p><p class="t"></p>';
    card.children[0].textContent = words[next][0];
    card.children[1].textContent = words[next][1];
    document.getElementById('list').appendChild(card);
  }
  if (next >= words.length) document.getElementById('more').remove();
});
</script>
</body></html>`

func newTestSession(t *testing.T) *Session {
	t.Helper()
	if os.Getenv("VOCABHARVEST_CHROME_TESTS") != "1" {
		t.Skip("set VOCABHARVEST_CHROME_TESTS=1 to run browser tests")
	}
	if FindChromePath() == "" {
		t.Skip("Chrome not installed")
	}
	s, err := NewSession(DefaultConfig())
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func serveHTML(t *testing.T, html string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestAdapterLive(t *testing.T) {
	s := newTestSession(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Open(ctx, serveHTML(t, lazyPage)); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	a := s.Adapter(page.Selectors{Card: "div.card", Text: "p.t"})

	clicks := 0
	for {
		c, ok, err := a.FindExpandControl(ctx)
		if err != nil {
			t.Fatalf("FindExpandControl() error = %v", err)
		}
		if !ok {
			break
		}
		if c.Label != "Show more" {
			t.Errorf("Label = %q", c.Label)
		}
		if err := a.Activate(ctx, c); err != nil {
			t.Fatalf("Activate() error = %v", err)
		}
		clicks++
		if clicks > 5 {
			t.Fatal("expand control never disappeared")
		}
	}
	if clicks != 2 {
		t.Errorf("clicks = %d, want 2", clicks)
	}

	cards, err := a.ListCards(ctx)
	if err != nil {
		t.Fatalf("ListCards() error = %v", err)
	}
	if len(cards) != 5 {
		t.Fatalf("len(cards) = %d, want 5", len(cards))
	}
	fields, err := a.CardFields(ctx, cards[3])
	if err != nil {
		t.Fatalf("CardFields() error = %v", err)
	}
	if len(fields) != 2 || fields[0] != "cuatro" || fields[1] != "four" {
		t.Errorf("fields = %q", fields)
	}
}

func TestActivateStale(t *testing.T) {
	s := newTestSession(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Open(ctx, serveHTML(t, lazyPage)); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	a := s.Adapter(page.Selectors{Card: "div.card", Text: "p.t"})
	if err := a.Activate(ctx, page.Control{Token: "missing"}); err != ErrStaleControl {
		t.Errorf("Activate() error = %v, want ErrStaleControl", err)
	}
}

func TestOverlayLive(t *testing.T) {
	s := newTestSession(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Open(ctx, serveHTML(t, lazyPage)); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	surface := s.Overlay()
	panel, err := overlay.New(surface, nil).Show(ctx, "\"Spanish\",\"English\"\n\"<b>\",\"x\"")
	if err != nil {
		t.Fatalf("Show() error = %v", err)
	}

	if err := panel.Copy(ctx); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if got := panel.Label(); got != overlay.ManualCopyLabel {
		t.Errorf("Label() = %q, want %q", got, overlay.ManualCopyLabel)
	}

	var label string
	if err := s.run(ctx, chromedp.Evaluate(`document.getElementById("vocabharvest-copy").textContent`, &label)); err != nil {
		t.Fatalf("read label: %v", err)
	}
	if label != overlay.ManualCopyLabel {
		t.Errorf("button label = %q", label)
	}

	var clicked bool
	if err := s.run(ctx, chromedp.Evaluate(`document.getElementById("vocabharvest-close").click(), true`, &clicked)); err != nil {
		t.Fatalf("click close: %v", err)
	}
	if err := overlay.Serve(ctx, panel, surface.Actions()); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}
	if !panel.Closed() {
		t.Error("panel not closed after close click")
	}
}
