package output

import (
	"bufio"
	"io"

	"github.com/jmylchreest/vocabharvest/internal/vocab"
)

// CSVWriter writes the CSV document exactly as the overlay shows it:
// header first, every field quoted, no trailing newline.
type CSVWriter struct {
	w     *bufio.Writer
	table vocab.Table
}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: bufio.NewWriter(w)}
}

// Write buffers a pair.
func (w *CSVWriter) Write(p vocab.Pair) error {
	w.table.Pairs = append(w.table.Pairs, p)
	return nil
}

// Close writes the document.
func (w *CSVWriter) Close() error {
	if _, err := w.w.WriteString(vocab.EncodeCSV(w.table)); err != nil {
		return err
	}
	return w.w.Flush()
}
