package vocab

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// EncodeCSV renders the table with every field quoted and inner quotes
// doubled. Rows are joined by "\n" with no trailing newline.
func EncodeCSV(t Table) string {
	return encodeRows(t.Rows())
}

func encodeRows(rows [][]string) string {
	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j, field := range row {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(field, `"`, `""`))
			sb.WriteByte('"')
		}
	}
	return sb.String()
}

// DecodeCSV parses a document produced by EncodeCSV (or any RFC 4180 file)
// back into rows. Rows may have differing field counts; callers validate.
func DecodeCSV(doc string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(doc))
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, rec)
	}
}

// Check validates a decoded document: the header exactly once and first,
// and every other row two fields that Accept would keep.
func Check(rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("empty document: missing %q header", Header[0]+","+Header[1])
	}
	for i, row := range rows {
		line := i + 1
		if len(row) != 2 {
			return fmt.Errorf("line %d: expected 2 fields, got %d", line, len(row))
		}
		isHeader := row[0] == Header[0] && row[1] == Header[1]
		switch {
		case i == 0 && !isHeader:
			return fmt.Errorf("line 1: expected header %q, got %q", Header, row)
		case i == 0:
			continue
		case isHeader:
			return fmt.Errorf("line %d: repeated header", line)
		}
		if reason := Accept(row[0], row[1]); reason != Accepted {
			return fmt.Errorf("line %d: pair rejected (%s)", line, reason)
		}
	}
	return nil
}
