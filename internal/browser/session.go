package browser

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/vocabharvest/internal/logger"
	"github.com/jmylchreest/vocabharvest/internal/page"
)

// Session owns one browser process and one tab.
type Session struct {
	config      Config
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	tabCtx      context.Context
	cancelTab   context.CancelFunc
}

// NewSession starts Chrome and opens an empty tab.
func NewSession(cfg Config) (*Session, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.ChromePath == "" {
		cfg.ChromePath = FindChromePath()
	}
	if cfg.ChromePath == "" {
		return nil, ErrNoChrome
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(cfg.ChromePath),
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(1280, 900),
	)
	if cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	}
	if cfg.Stealth {
		opts = append(opts, stealthAllocatorOptions()...)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)

	// The first Run launches the browser; it must use the long-lived tab
	// context or the browser dies with the first per-call timeout.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Debug("browser session started",
		"chrome", cfg.ChromePath,
		"headless", cfg.Headless,
		"stealth", cfg.Stealth,
		"profile", cfg.UserDataDir != "")

	return &Session{
		config:      cfg,
		allocCtx:    allocCtx,
		cancelAlloc: cancelAlloc,
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
	}, nil
}

// Open navigates the tab to targetURL and waits for the body.
func (s *Session) Open(ctx context.Context, targetURL string) error {
	u, err := url.Parse(targetURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid URL %q", targetURL)
	}

	var actions []chromedp.Action
	if len(s.config.Cookies) > 0 {
		actions = append(actions, setCookies(u, s.config.Cookies))
	}
	if s.config.Stealth {
		actions = append(actions, injectStealthScript())
	}
	actions = append(actions,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)

	logger.Debug("navigating", "url", targetURL, "timeout", s.config.Timeout)

	navCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	if err := s.run(navCtx, actions...); err != nil {
		s.saveDebugScreenshot()
		return fmt.Errorf("failed to open %s: %w", targetURL, err)
	}

	var title string
	if err := s.run(ctx, chromedp.Title(&title)); err == nil {
		logger.Info("page opened", "url", targetURL, "title", title)
	}
	return nil
}

// Adapter returns a page.Adapter over the tab's live DOM.
func (s *Session) Adapter(sel page.Selectors) *Adapter {
	return &Adapter{session: s, selectors: sel.WithDefaults()}
}

// Overlay returns a surface that draws the panel inside the page.
func (s *Session) Overlay() *OverlaySurface {
	return newOverlaySurface(s)
}

// Clipboard returns the page's clipboard.
func (s *Session) Clipboard() *PageClipboard {
	return &PageClipboard{session: s}
}

// Close shuts down the tab and the browser.
func (s *Session) Close() error {
	if s.cancelTab != nil {
		s.cancelTab()
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
	}
	return nil
}

// run executes actions on the tab, abandoning them when ctx is done.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// saveDebugScreenshot stores a screenshot of the tab in the temp dir.
func (s *Session) saveDebugScreenshot() {
	ctx, cancel := context.WithTimeout(s.tabCtx, 5*time.Second)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return
	}
	path := filepath.Join(os.TempDir(), fmt.Sprintf("vocabharvest-debug-%d.png", time.Now().UnixNano()))
	if err := os.WriteFile(path, buf, 0o644); err == nil {
		logger.Debug("debug screenshot saved", "path", path)
	}
}

func setCookies(u *url.URL, cookies []Cookie) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		params := make([]*network.CookieParam, 0, len(cookies))
		for _, c := range cookies {
			domain := c.Domain
			if domain == "" {
				domain = u.Hostname()
			}
			params = append(params, &network.CookieParam{
				Name:   c.Name,
				Value:  c.Value,
				Domain: domain,
				Path:   "/",
				Secure: u.Scheme == "https",
			})
		}
		return network.SetCookies(params).Do(ctx)
	})
}
