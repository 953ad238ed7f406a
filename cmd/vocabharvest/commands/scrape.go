package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/vocabharvest/internal/browser"
	"github.com/jmylchreest/vocabharvest/internal/harvest"
	"github.com/jmylchreest/vocabharvest/internal/logger"
	"github.com/jmylchreest/vocabharvest/internal/output"
	"github.com/jmylchreest/vocabharvest/internal/overlay"
	"github.com/jmylchreest/vocabharvest/internal/page"
	"github.com/jmylchreest/vocabharvest/internal/reveal"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Harvest the vocabulary cards of a page",
	Long: `Reveal every vocabulary card, keep the Spanish/English pairs that pass the
filters, and write them as CSV (or JSON, JSONL, YAML).

In dynamic mode (the default) a real Chrome is driven over the DevTools
protocol. Log in once with --headful and --user-data-dir, then reuse the
profile. Static mode and --file read HTML without running scripts, so only
the cards already in the document are seen.

Examples:
  # Visible browser, panel with a copy button inside the page
  vocabharvest scrape -u "https://preply.com/en/vocabulary" --headful \
      --user-data-dir ~/.config/vocabharvest-chrome

  # Headless, copy straight to the system clipboard
  vocabharvest scrape -u "https://preply.com/en/vocabulary" \
      --cookie "session=..." --copy -o words.csv

  # Saved page, terminal panel
  vocabharvest scrape --file vocabulary.html --overlay terminal`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	flags := scrapeCmd.Flags()

	// Inputs
	flags.StringP("url", "u", "", "vocabulary page URL")
	flags.StringP("file", "f", "", "saved HTML page to read instead of a URL")

	// Fetch settings
	flags.String("fetch-mode", "dynamic", "fetch mode: dynamic, static")
	flags.Duration("delay", reveal.DefaultConfig().Delay, "wait after each \"Show more\" click")
	flags.Int("warn-every", reveal.DefaultConfig().WarnEvery, "warn after this many \"Show more\" clicks")
	flags.Duration("timeout", 0, "overall harvest timeout (0 = none)")
	flags.Duration("nav-timeout", browser.DefaultConfig().Timeout, "page load timeout")
	flags.Bool("headful", false, "show the browser window")
	flags.String("user-data-dir", "", "Chrome profile directory to reuse (keeps you logged in)")
	flags.String("chrome-path", "", "Chrome binary (default: auto-detect)")
	flags.StringSlice("cookie", nil, "cookie name=value to set before loading (can be repeated)")
	flags.Bool("stealth", false, "hide the usual headless browser markers")
	flags.String("max-html-size", "10MB", "max HTML size for static mode and --file (0 = unlimited)")

	// Presentation settings
	flags.String("overlay", overlayAuto, "panel: auto, browser, terminal, none")
	flags.Bool("copy", false, "copy the CSV to the clipboard")

	// Output settings
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", string(output.FormatCSV), "output format: csv, json, jsonl, yaml")

	// Selector overrides
	flags.String("card-selector", page.DefaultCardSelector, "CSS selector of a vocabulary card")
	flags.String("text-selector", page.DefaultTextSelector, "CSS selector of the texts inside a card")
	flags.String("expand-tag", page.DefaultExpandTag, "element type of the \"Show more\" control")
	flags.String("expand-label", page.DefaultExpandLabel, "label of the \"Show more\" control")

	// Bind to viper
	for key, flag := range map[string]string{
		"url":                    "url",
		"file":                   "file",
		"fetch_mode":             "fetch-mode",
		"delay":                  "delay",
		"warn_every":             "warn-every",
		"timeout":                "timeout",
		"nav_timeout":            "nav-timeout",
		"headful":                "headful",
		"user_data_dir":          "user-data-dir",
		"chrome_path":            "chrome-path",
		"cookie":                 "cookie",
		"stealth":                "stealth",
		"max_html_size":          "max-html-size",
		"overlay":                "overlay",
		"copy":                   "copy",
		"output":                 "output",
		"format":                 "format",
		"selectors.card":         "card-selector",
		"selectors.text":         "text-selector",
		"selectors.expand_tag":   "expand-tag",
		"selectors.expand_label": "expand-label",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadScrapeConfig(viper.GetViper())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Debug("scrape command starting",
		"url", cfg.URL,
		"file", cfg.File,
		"fetch_mode", cfg.FetchMode,
		"overlay", cfg.overlayMode())

	h, err := harvest.New(harvest.Config{Delay: cfg.Delay, WarnEvery: cfg.WarnEvery})
	if err != nil {
		return err
	}

	tgt, err := openTarget(ctx, cfg)
	if err != nil {
		logger.Error("failed to open page", "error", err)
		return err
	}
	defer tgt.close()

	harvestCtx := ctx
	if cfg.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		harvestCtx, cancelTimeout = context.WithTimeout(ctx, cfg.Timeout)
		defer cancelTimeout()
	}

	res, err := h.Run(harvestCtx, tgt.adapter)
	if err != nil {
		logger.Error("harvest failed", "error", err)
		return err
	}
	if res.Table.Len() == 0 {
		logger.Warn("no vocabulary pairs found; check that you are logged in and the selectors still match")
	}

	if err := writeOutput(cfg, res); err != nil {
		logger.Error("failed to write output", "error", err)
		return err
	}

	return present(ctx, cfg, tgt, res.CSV)
}

// target is the page being harvested and where its panel can be drawn.
type target struct {
	adapter page.Adapter
	session *browser.Session // nil unless dynamic
}

func (t *target) close() {
	if t.session != nil {
		_ = t.session.Close()
	}
}

func openTarget(ctx context.Context, cfg scrapeConfig) (*target, error) {
	maxSize, err := page.ParseSizeLimit(cfg.MaxHTMLSize)
	if err != nil {
		return nil, err
	}

	switch {
	case cfg.File != "":
		html, err := page.ReadSnapshot(cfg.File, maxSize)
		if err != nil {
			return nil, err
		}
		snap, err := page.ParseSnapshot(html, cfg.Selectors)
		if err != nil {
			return nil, err
		}
		return &target{adapter: snap}, nil

	case cfg.FetchMode == "static":
		opts := page.DefaultFetchOptions()
		opts.MaxSize = maxSize
		opts.Cookies = cfg.httpCookies()
		if cfg.NavTimeout > 0 {
			opts.Timeout = cfg.NavTimeout
		}
		html, err := page.FetchSnapshot(ctx, cfg.URL, opts)
		if err != nil {
			return nil, err
		}
		snap, err := page.ParseSnapshot(html, cfg.Selectors)
		if err != nil {
			return nil, err
		}
		return &target{adapter: snap}, nil

	default:
		session, err := browser.NewSession(cfg.browserConfig())
		if err != nil {
			if errors.Is(err, browser.ErrNoChrome) {
				return nil, fmt.Errorf("%w: install Chrome or Chromium, set --chrome-path, or use --file", err)
			}
			return nil, err
		}
		if err := session.Open(ctx, cfg.URL); err != nil {
			_ = session.Close()
			return nil, err
		}
		return &target{adapter: session.Adapter(cfg.Selectors), session: session}, nil
	}
}

func writeOutput(cfg scrapeConfig, res *harvest.Result) error {
	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if err := output.WriteTable(out, format, res.Table); err != nil {
		return err
	}
	if cfg.Output == "" && format == output.FormatCSV {
		// The document itself has no trailing newline.
		_, _ = fmt.Fprintln(out)
	}
	logger.Debug("output written", "format", format, "pairs", res.Table.Len(), "file", cfg.Output)
	return nil
}

// present shows the panel and waits until it is closed, or copies the CSV
// straight away when no panel is wanted.
func present(ctx context.Context, cfg scrapeConfig, tgt *target, csv string) error {
	mode := cfg.overlayMode()

	var (
		surface overlay.Surface
		clip    overlay.Clipboard = overlay.SystemClipboard{}
		actions <-chan overlay.Action
	)
	switch mode {
	case overlayBrowser:
		s := tgt.session.Overlay()
		surface, actions = s, s.Actions()
		clip = tgt.session.Clipboard()
	case overlayTerminal:
		surface = overlay.NewTerminalSurface(os.Stderr)
		actions = overlay.ReadActions(ctx, os.Stdin)
	default:
		if cfg.Copy {
			return copyDirect(ctx, clip, csv)
		}
		return nil
	}

	panel, err := overlay.New(surface, clip).Show(ctx, csv)
	if err != nil {
		logger.Error("failed to show panel", "error", err)
		return err
	}
	if cfg.Copy {
		if err := panel.Copy(ctx); err != nil {
			return err
		}
		logger.Info("copy requested", "result", panel.Label())
	}

	switch mode {
	case overlayBrowser:
		logger.Info("panel open in the browser; press Close there or Ctrl-C to finish")
	case overlayTerminal:
		fmt.Fprintln(os.Stderr, "type c + Enter to copy, q + Enter to close")
	}

	err = overlay.Serve(ctx, panel, actions)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		return err
	}
	if !panel.Closed() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := panel.Close(closeCtx); err != nil {
			logger.Debug("panel close failed", "error", err)
		}
	}
	return nil
}

func copyDirect(ctx context.Context, clip overlay.Clipboard, csv string) error {
	if err := clip.WriteText(ctx, csv); err != nil {
		// Like the panel, a failed copy is reported, not fatal.
		logger.Warn("could not copy to clipboard; use the output instead", "error", err)
		return nil
	}
	logger.Info("copied to clipboard", "bytes", len(csv))
	return nil
}
