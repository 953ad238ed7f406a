package page

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/vocabharvest/internal/logger"
)

// FetchOptions controls static snapshot fetching.
type FetchOptions struct {
	UserAgent string
	Timeout   time.Duration
	MaxSize   int64 // 0 = unlimited
	Cookies   []*http.Cookie
}

// DefaultFetchOptions returns sensible defaults.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		UserAgent: "vocabharvest/1.0 (+https://github.com/jmylchreest/vocabharvest)",
		Timeout:   30 * time.Second,
		MaxSize:   10 * humanize.MByte,
	}
}

// ParseSizeLimit parses a human size such as "10MB". Empty or "0" means unlimited.
func ParseSizeLimit(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return int64(n), nil
}

// FetchSnapshot downloads a page without running its scripts.
// Only server-rendered cards are visible this way.
func FetchSnapshot(ctx context.Context, targetURL string, opts FetchOptions) (string, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultFetchOptions().UserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultFetchOptions().Timeout
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := colly.NewCollector(colly.UserAgent(opts.UserAgent))
	c.SetRequestTimeout(opts.Timeout)
	c.MaxBodySize = int(opts.MaxSize)
	if len(opts.Cookies) > 0 {
		if err := c.SetCookies(targetURL, opts.Cookies); err != nil {
			return "", fmt.Errorf("failed to set cookies: %w", err)
		}
	}

	var (
		body     string
		fetchErr error
	)
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
		logger.Debug("snapshot fetched",
			"url", targetURL,
			"status", r.StatusCode,
			"size", humanize.Bytes(uint64(len(r.Body))))
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			fetchErr = fmt.Errorf("fetch error (status %d): %w", r.StatusCode, err)
			return
		}
		fetchErr = fmt.Errorf("fetch error: %w", err)
	})

	if err := c.Visit(targetURL); err != nil {
		return "", fmt.Errorf("failed to visit URL: %w", err)
	}
	if fetchErr != nil {
		return "", fetchErr
	}
	return body, nil
}

// ReadSnapshot reads a saved HTML file, refusing files above maxSize.
func ReadSnapshot(path string, maxSize int64) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat snapshot: %w", err)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return "", fmt.Errorf("snapshot %s is %s, above the %s limit",
			path, humanize.Bytes(uint64(info.Size())), humanize.Bytes(uint64(maxSize)))
	}
	data, err := os.ReadFile(path) //#nosec G304 -- CLI tool reads a user-specified snapshot
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot: %w", err)
	}
	return string(data), nil
}
