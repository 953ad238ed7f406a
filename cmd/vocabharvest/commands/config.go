package commands

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jmylchreest/vocabharvest/internal/browser"
	"github.com/jmylchreest/vocabharvest/internal/page"
)

// Overlay modes.
const (
	overlayAuto     = "auto"
	overlayBrowser  = "browser"
	overlayTerminal = "terminal"
	overlayNone     = "none"
)

// scrapeConfig is the merged view of flags, environment and config file.
type scrapeConfig struct {
	URL         string        `mapstructure:"url" validate:"omitempty,url"`
	File        string        `mapstructure:"file"`
	FetchMode   string        `mapstructure:"fetch_mode" validate:"oneof=dynamic static"`
	Delay       time.Duration `mapstructure:"delay" validate:"gte=0"`
	WarnEvery   int           `mapstructure:"warn_every" validate:"gte=0"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gte=0"`
	NavTimeout  time.Duration `mapstructure:"nav_timeout" validate:"gte=0"`
	Headful     bool          `mapstructure:"headful"`
	Overlay     string        `mapstructure:"overlay" validate:"oneof=auto browser terminal none"`
	Copy        bool          `mapstructure:"copy"`
	Output      string        `mapstructure:"output"`
	Format      string        `mapstructure:"format" validate:"oneof=csv json jsonl yaml"`
	UserDataDir string        `mapstructure:"user_data_dir"`
	ChromePath  string        `mapstructure:"chrome_path"`
	Cookies     []string      `mapstructure:"cookie"`
	Stealth     bool          `mapstructure:"stealth"`
	MaxHTMLSize string        `mapstructure:"max_html_size"`

	Selectors page.Selectors `mapstructure:"selectors" validate:"-"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// loadScrapeConfig reads the scrape settings from viper and validates them.
func loadScrapeConfig(v *viper.Viper) (scrapeConfig, error) {
	var cfg scrapeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to read configuration: %w", err)
	}
	cfg.FetchMode = strings.ToLower(cfg.FetchMode)
	cfg.Overlay = strings.ToLower(cfg.Overlay)
	cfg.Format = strings.ToLower(cfg.Format)
	cfg.Selectors = cfg.Selectors.WithDefaults()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c scrapeConfig) validate() error {
	switch {
	case c.URL == "" && c.File == "":
		return fmt.Errorf("one of --url or --file is required")
	case c.URL != "" && c.File != "":
		return fmt.Errorf("--url and --file are mutually exclusive")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := c.Selectors.Validate(); err != nil {
		return err
	}
	for _, raw := range c.Cookies {
		if name, _, ok := strings.Cut(raw, "="); !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid --cookie %q: want name=value", raw)
		}
	}
	if _, err := page.ParseSizeLimit(c.MaxHTMLSize); err != nil {
		return fmt.Errorf("invalid --max-html-size: %w", err)
	}
	if c.Overlay == overlayBrowser && !c.dynamic() {
		return fmt.Errorf("--overlay browser needs --fetch-mode dynamic and --url")
	}
	return nil
}

// dynamic reports whether a live browser is used.
func (c scrapeConfig) dynamic() bool {
	return c.File == "" && c.FetchMode == "dynamic"
}

// overlayMode resolves "auto": the in-page panel when the browser window is
// visible, otherwise no panel.
func (c scrapeConfig) overlayMode() string {
	if c.Overlay != overlayAuto {
		return c.Overlay
	}
	if c.dynamic() && c.Headful {
		return overlayBrowser
	}
	return overlayNone
}

// cookie is one --cookie name=value argument.
type cookie struct {
	Name  string
	Value string
}

func (c scrapeConfig) cookies() []cookie {
	out := make([]cookie, 0, len(c.Cookies))
	for _, raw := range c.Cookies {
		name, value, _ := strings.Cut(raw, "=")
		out = append(out, cookie{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	}
	return out
}

func (c scrapeConfig) browserCookies() []browser.Cookie {
	var out []browser.Cookie
	for _, ck := range c.cookies() {
		out = append(out, browser.Cookie{Name: ck.Name, Value: ck.Value})
	}
	return out
}

func (c scrapeConfig) httpCookies() []*http.Cookie {
	var out []*http.Cookie
	for _, ck := range c.cookies() {
		out = append(out, &http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	return out
}

func (c scrapeConfig) browserConfig() browser.Config {
	cfg := browser.DefaultConfig()
	cfg.Headless = !c.Headful
	cfg.UserDataDir = c.UserDataDir
	cfg.ChromePath = c.ChromePath
	cfg.Stealth = c.Stealth
	cfg.Cookies = c.browserCookies()
	if c.NavTimeout > 0 {
		cfg.Timeout = c.NavTimeout
	}
	return cfg
}
