// Package browser drives a real Chrome tab over the DevTools protocol: it
// opens the vocabulary page, implements page.Adapter against the live DOM,
// and hosts the overlay panel inside the page.
package browser

import (
	"errors"
	"os/exec"
	"time"

	"github.com/jmylchreest/vocabharvest/internal/logger"
)

// Config holds configuration for a browser session.
type Config struct {
	Headless    bool
	UserDataDir string // Chrome profile to reuse, e.g. one already logged in to Preply
	UserAgent   string
	ChromePath  string        // Empty = auto-detect
	Timeout     time.Duration // Navigation timeout
	Stealth     bool          // Hide the usual headless automation markers
	Cookies     []Cookie      // Set before navigation
}

// Cookie is set in the browser before navigation.
type Cookie struct {
	Name   string
	Value  string
	Domain string // Empty = the target host
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:  true,
		UserAgent: defaultUserAgent,
		Timeout:   30 * time.Second,
	}
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ErrNoChrome indicates no Chrome or Chromium binary could be found.
var ErrNoChrome = errors.New("no Chrome binary found")

// Common Chrome/Chromium binary names across different systems
var chromeBinaryNames = []string{
	"google-chrome-stable",
	"google-chrome",
	"chromium",
	"chromium-browser",
	"chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/snap/bin/chromium",
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

// FindChromePath returns the first Chrome binary found on PATH or in a
// common install location, or "" if there is none.
func FindChromePath() string {
	for _, name := range chromeBinaryNames {
		if path, err := exec.LookPath(name); err == nil {
			logger.Debug("found Chrome binary", "name", name, "path", path)
			return path
		}
	}
	return ""
}
