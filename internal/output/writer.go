// Package output writes a vocabulary table in the format the user asked for.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/vocabharvest/internal/vocab"
)

// Format represents output format types.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Formats lists the supported formats, default first.
func Formats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatJSONL, FormatYAML}
}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

// Writer serializes pairs. Nothing is guaranteed to reach the underlying
// io.Writer before Close.
type Writer interface {
	// Write adds one pair.
	Write(p vocab.Pair) error

	// Close writes anything buffered and flushes.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	indent string
}

// WithPretty enables pretty-printing of JSON.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the JSON indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatCSV:
		return NewCSVWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w, cfg.pretty, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteTable writes every pair of t to w and closes the writer.
func WriteTable(w io.Writer, format Format, t vocab.Table, opts ...WriterOption) error {
	out, err := NewWriter(w, format, opts...)
	if err != nil {
		return err
	}
	for _, p := range t.Pairs {
		if err := out.Write(p); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}
