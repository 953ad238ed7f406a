package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/jmylchreest/vocabharvest/internal/vocab"
)

// JSONWriter writes the pairs as one JSON array.
type JSONWriter struct {
	w      *bufio.Writer
	pretty bool
	indent string
	pairs  []vocab.Pair
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
		pairs:  make([]vocab.Pair, 0),
	}
}

// Write buffers a pair.
func (w *JSONWriter) Write(p vocab.Pair) error {
	w.pairs = append(w.pairs, p)
	return nil
}

// Close writes the buffered pairs as an array, "[]" when there are none.
func (w *JSONWriter) Close() error {
	var output []byte
	var err error
	if w.pretty {
		output, err = json.MarshalIndent(w.pairs, "", w.indent)
	} else {
		output, err = json.Marshal(w.pairs)
	}
	if err != nil {
		return err
	}

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return w.w.Flush()
}

// JSONLWriter writes one JSON object per pair per line.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		w: bufio.NewWriter(w),
	}
}

// Write writes a pair as a JSON line.
func (w *JSONLWriter) Write(p vocab.Pair) error {
	output, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(output); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes the buffer.
func (w *JSONLWriter) Close() error {
	return w.w.Flush()
}
