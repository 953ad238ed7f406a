package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/vocabharvest/internal/vocab"
)

// YAMLWriter writes the pairs as a YAML sequence.
type YAMLWriter struct {
	w     *bufio.Writer
	pairs []vocab.Pair
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w:     bufio.NewWriter(w),
		pairs: make([]vocab.Pair, 0),
	}
}

// Write buffers a pair.
func (w *YAMLWriter) Write(p vocab.Pair) error {
	w.pairs = append(w.pairs, p)
	return nil
}

// Close encodes the buffered pairs.
func (w *YAMLWriter) Close() error {
	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)
	if err := encoder.Encode(w.pairs); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}
